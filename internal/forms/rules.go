// Package forms implements the schema-driven validation engine for the
// per-service request forms, the summary templates, and the decoder that turns
// a sanitized submission into its typed payload.
package forms

import "github.com/aci-platform/requisition-api/internal/models"

// rule describes one field constraint within a service schema.
type rule struct {
	field    string
	required bool
	message  string

	// numeric fields parse to int; a parse failure reports typeMessage, a value
	// below min reports minMessage.
	numeric    bool
	min        int
	typeMessage string
	minMessage  string

	// multi marks a string-list field requiring at least minItems entries.
	multi    bool
	minItems int

	// when/equals make the rule conditional: it only applies while the
	// discriminator field carries the given value.
	when   string
	equals string
}

// schemas maps every service id to its rule set. A service without an entry
// validates trivially.
var schemas = map[models.ServiceType][]rule{
	models.ServiceSafety: {
		{field: "location", required: true, message: "Location is required"},
		{field: "guardType", required: true, message: "Please select a guard type"},
		{field: "duration", required: true, message: "Duration is required"},
	},
	models.ServiceKeyServices: {
		{field: "keyServiceType", required: true, message: "keyServiceType is required"},
		{field: "receiverName", required: true, message: "Receiver name is required"},
		{field: "destination", required: true, message: "Destination is required"},
		{field: "instructions"},
	},
	models.ServiceEvents: {
		{field: "eventName", required: true, message: "Event name is required"},
		{field: "eventDate", required: true, message: "Event date is required"},
		{
			field: "attendees", required: true, message: "Number of attendees is required",
			numeric: true, min: 1,
			typeMessage: "Must be a number", minMessage: "At least 1 attendee required",
		},
		{field: "venueReqs", required: true, message: "Venue requirements are required"},
	},
	models.ServiceCanteen: {
		{field: "canteenTab", required: true, message: "canteenTab is required"},
		{field: "staffId", required: true, message: "Staff ID is required", when: "canteenTab", equals: "new_emp"},
		{field: "empName", required: true, message: "Employee Name is required", when: "canteenTab", equals: "new_emp"},
		{field: "dietaryPref", required: true, message: "Please select a dietary preference", when: "canteenTab", equals: "new_emp"},
		{field: "hostId", required: true, message: "Host ID is required", when: "canteenTab", equals: "guest"},
		{
			field: "guestCount", required: true, message: "Guest count is required",
			numeric: true, min: 1,
			typeMessage: "Must be a number", minMessage: "At least 1 guest required",
			when: "canteenTab", equals: "guest",
		},
		{field: "mealType", required: true, message: "Please select a meal type", when: "canteenTab", equals: "guest"},
	},
	models.ServiceTransport: {
		{field: "transportReqType", required: true, message: "Please select a type"},
		{field: "destination", required: true, message: "Destination is required"},
		{field: "transportDate", required: true, message: "Date is required"},
		{field: "transportTime", required: true, message: "Time is required"},
	},
	models.ServiceCommunications: {
		{field: "commType", required: true, message: "commType is required"},
		{field: "justification", required: true, message: "Justification is required"},
	},
	models.ServiceHousekeeping: {
		{field: "housekeepingServices", multi: true, minItems: 1, message: "Select at least one service"},
		{field: "location", required: true, message: "Location is required"},
		{field: "tasks"},
	},
	models.ServiceMaintenance: {
		{field: "maintenanceType", required: true, message: "Please select a maintenance type"},
		{field: "location", required: true, message: "Location is required"},
		{field: "description", required: true, message: "Description is required"},
	},
}

// RequiredFields returns the unconditionally required field names for a
// service id. Used by tests and by the docs endpoint.
func RequiredFields(id models.ServiceType) []string {
	var out []string
	for _, r := range schemas[id] {
		if (r.required || r.multi && r.minItems > 0) && r.when == "" {
			out = append(out, r.field)
		}
	}
	return out
}
