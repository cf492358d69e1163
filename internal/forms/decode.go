package forms

import "github.com/aci-platform/requisition-api/internal/models"

// Decode converts a sanitized submission into the typed payload variant for
// the service. Services without a schema produce an empty FormData.
func Decode(id models.ServiceType, clean Clean) models.FormData {
	var fd models.FormData
	switch id {
	case models.ServiceSafety:
		fd.Safety = &models.SafetyForm{
			Location:  clean.Get("location"),
			GuardType: clean.Get("guardType"),
			Duration:  clean.Get("duration"),
		}
	case models.ServiceKeyServices:
		fd.KeyServices = &models.KeyServicesForm{
			ServiceKind:  clean.Get("keyServiceType"),
			ReceiverName: clean.Get("receiverName"),
			Destination:  clean.Get("destination"),
			Instructions: clean.Get("instructions"),
		}
	case models.ServiceEvents:
		fd.Events = &models.EventsForm{
			EventName: clean.Get("eventName"),
			EventDate: clean.Get("eventDate"),
			Attendees: clean.Numbers["attendees"],
			VenueReqs: clean.Get("venueReqs"),
		}
	case models.ServiceCanteen:
		fd.Canteen = &models.CanteenForm{
			Tab:         clean.Get("canteenTab"),
			StaffID:     clean.Get("staffId"),
			EmpName:     clean.Get("empName"),
			DietaryPref: clean.Get("dietaryPref"),
			HostID:      clean.Get("hostId"),
			GuestCount:  clean.Numbers["guestCount"],
			MealType:    clean.Get("mealType"),
		}
	case models.ServiceTransport:
		fd.Transport = &models.TransportForm{
			RequestType: clean.Get("transportReqType"),
			Destination: clean.Get("destination"),
			Date:        clean.Get("transportDate"),
			Time:        clean.Get("transportTime"),
		}
	case models.ServiceCommunications:
		fd.Communications = &models.CommunicationsForm{
			CommType:      clean.Get("commType"),
			Justification: clean.Get("justification"),
		}
	case models.ServiceHousekeeping:
		fd.Housekeeping = &models.HousekeepingForm{
			Services: clean.Lists["housekeepingServices"],
			Location: clean.Get("location"),
			Tasks:    clean.Get("tasks"),
		}
	case models.ServiceMaintenance:
		fd.Maintenance = &models.MaintenanceForm{
			MaintenanceType: clean.Get("maintenanceType"),
			Location:        clean.Get("location"),
			Description:     clean.Get("description"),
		}
	}
	return fd
}
