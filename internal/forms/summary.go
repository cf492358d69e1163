package forms

import (
	"fmt"

	"github.com/aci-platform/requisition-api/internal/models"
)

// Summary derives the one-line synopsis shown in the admin tables. The
// function is total: every service id yields some string even when fields are
// missing (empty-string interpolation), and an unknown id falls back to a
// generic label.
func Summary(id models.ServiceType, clean Clean) string {
	switch id {
	case models.ServiceSafety:
		return fmt.Sprintf("%s guard for %s (%s)", clean.Get("guardType"), clean.Get("location"), clean.Get("duration"))
	case models.ServiceKeyServices:
		kind := "Document"
		if clean.Get("keyServiceType") == "courier" {
			kind = "Courier"
		}
		return fmt.Sprintf("%s service to %s", kind, clean.Get("destination"))
	case models.ServiceEvents:
		return fmt.Sprintf("Event: %s on %s", clean.Get("eventName"), clean.Get("eventDate"))
	case models.ServiceCanteen:
		if clean.Get("canteenTab") == "new_emp" {
			return fmt.Sprintf("New Staff Meal Plan: %s", clean.Get("empName"))
		}
		return fmt.Sprintf("Guest Meal Request (%s pax)", clean.Get("guestCount"))
	case models.ServiceTransport:
		return fmt.Sprintf("%s to %s on %s", clean.Get("transportReqType"), clean.Get("destination"), clean.Get("transportDate"))
	case models.ServiceCommunications:
		if clean.Get("commType") == "sim" {
			return "New SIM Card Request"
		}
		return "Data Bundle Top-up"
	case models.ServiceHousekeeping:
		return fmt.Sprintf("Housekeeping at %s", clean.Get("location"))
	case models.ServiceMaintenance:
		return fmt.Sprintf("%s maintenance at %s", clean.Get("maintenanceType"), clean.Get("location"))
	default:
		return "Service Request"
	}
}
