package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// FormData is a tagged union over the per-category form payloads. Exactly one
// variant is set (none for a service with no registered schema). Stored as a
// JSONB column; marshalling keeps only the active branch.
type FormData struct {
	Safety         *SafetyForm         `json:"safety,omitempty"`
	KeyServices    *KeyServicesForm    `json:"key_services,omitempty"`
	Events         *EventsForm         `json:"events,omitempty"`
	Canteen        *CanteenForm        `json:"canteen,omitempty"`
	Transport      *TransportForm      `json:"transport,omitempty"`
	Communications *CommunicationsForm `json:"communications,omitempty"`
	Housekeeping   *HousekeepingForm   `json:"housekeeping,omitempty"`
	Maintenance    *MaintenanceForm    `json:"maintenance,omitempty"`
}

// SafetyForm requests guard coverage for a location.
type SafetyForm struct {
	Location  string `json:"location"`
	GuardType string `json:"guard_type"`
	Duration  string `json:"duration"`
}

// KeyServicesForm covers courier dispatch and document handling.
type KeyServicesForm struct {
	ServiceKind  string `json:"key_service_type"`
	ReceiverName string `json:"receiver_name"`
	Destination  string `json:"destination"`
	Instructions string `json:"instructions,omitempty"`
}

// EventsForm books venues and event logistics.
type EventsForm struct {
	EventName string `json:"event_name"`
	EventDate string `json:"event_date"`
	Attendees int    `json:"attendees"`
	VenueReqs string `json:"venue_reqs"`
}

// CanteenForm carries one of two mutually exclusive branches selected by Tab:
// "new_emp" fills the staff fields, "guest" fills the guest fields.
type CanteenForm struct {
	Tab         string `json:"canteen_tab"`
	StaffID     string `json:"staff_id,omitempty"`
	EmpName     string `json:"emp_name,omitempty"`
	DietaryPref string `json:"dietary_pref,omitempty"`
	HostID      string `json:"host_id,omitempty"`
	GuestCount  int    `json:"guest_count,omitempty"`
	MealType    string `json:"meal_type,omitempty"`
}

// TransportForm schedules pick-ups, drop-offs and ad-hoc vehicles.
type TransportForm struct {
	RequestType string `json:"transport_req_type"`
	Destination string `json:"destination"`
	Date        string `json:"transport_date"`
	Time        string `json:"transport_time"`
}

// CommunicationsForm provisions SIM cards and data bundles.
type CommunicationsForm struct {
	CommType      string `json:"comm_type"`
	Justification string `json:"justification"`
}

// HousekeepingForm requests one or more cleaning/pantry services.
type HousekeepingForm struct {
	Services []string `json:"housekeeping_services"`
	Location string   `json:"location"`
	Tasks    string   `json:"tasks,omitempty"`
}

// MaintenanceForm reports repair work.
type MaintenanceForm struct {
	MaintenanceType string `json:"maintenance_type"`
	Location        string `json:"location"`
	Description     string `json:"description"`
}

// Value implements driver.Valuer for JSONB storage.
func (f FormData) Value() (driver.Value, error) {
	b, err := json.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("marshal form data: %w", err)
	}
	return b, nil
}

// Scan implements sql.Scanner.
func (f *FormData) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*f = FormData{}
		return nil
	case []byte:
		return json.Unmarshal(v, f)
	case string:
		return json.Unmarshal([]byte(v), f)
	default:
		return fmt.Errorf("unsupported form data source %T", src)
	}
}

// AttachmentList stores attachment metadata as a JSONB column.
type AttachmentList []Attachment

// Value implements driver.Valuer.
func (a AttachmentList) Value() (driver.Value, error) {
	if a == nil {
		a = AttachmentList{}
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("marshal attachments: %w", err)
	}
	return b, nil
}

// Scan implements sql.Scanner.
func (a *AttachmentList) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*a = AttachmentList{}
		return nil
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	default:
		return fmt.Errorf("unsupported attachments source %T", src)
	}
}
