package models

// ServiceType enumerates the fixed requisition categories.
type ServiceType string

const (
	ServiceSafety         ServiceType = "safety"
	ServiceKeyServices    ServiceType = "key_services"
	ServiceEvents         ServiceType = "events"
	ServiceCanteen        ServiceType = "canteen"
	ServiceTransport      ServiceType = "transport"
	ServiceCommunications ServiceType = "communications"
	ServiceHousekeeping   ServiceType = "housekeeping"
	ServiceMaintenance    ServiceType = "maintenance"
)

// ServiceCategory describes a requestable service shown on the portal.
type ServiceCategory struct {
	ID          ServiceType `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Icon        string      `json:"icon"`
}

// serviceCatalog is the static registry. Defined once at startup, never mutated.
var serviceCatalog = []ServiceCategory{
	{
		ID:          ServiceSafety,
		Title:       "Safety & Security",
		Description: "Request security guards, access control, or report safety incidents.",
		Icon:        "shield",
	},
	{
		ID:          ServiceKeyServices,
		Title:       "Key Services",
		Description: "Courier dispatch, document handling, and secure logistics.",
		Icon:        "key",
	},
	{
		ID:          ServiceEvents,
		Title:       "Event Management",
		Description: "Book venues, organize corporate events, and catering setups.",
		Icon:        "calendar",
	},
	{
		ID:          ServiceCanteen,
		Title:       "Staff Canteen",
		Description: "Meal vouchers, new employee registration, and guest catering.",
		Icon:        "utensils",
	},
	{
		ID:          ServiceTransport,
		Title:       "Transport",
		Description: "Schedule pick-up/drop-off services or ad-hoc vehicle requests.",
		Icon:        "car",
	},
	{
		ID:          ServiceCommunications,
		Title:       "Communications",
		Description: "SIM cards, data bundles, and mobile device provisioning.",
		Icon:        "smartphone",
	},
	{
		ID:          ServiceHousekeeping,
		Title:       "Housekeeping",
		Description: "Cleaning services, office supplies, and pantry support.",
		Icon:        "brush",
	},
	{
		ID:          ServiceMaintenance,
		Title:       "Maintenance",
		Description: "Repairs for civil works, plumbing, washrooms, or office fixtures.",
		Icon:        "wrench",
	},
}

// Catalog returns every service category in display order.
func Catalog() []ServiceCategory {
	out := make([]ServiceCategory, len(serviceCatalog))
	copy(out, serviceCatalog)
	return out
}

// LookupService resolves a category by id. An unknown id is not an error;
// callers fall back to a generic rendering.
func LookupService(id ServiceType) (ServiceCategory, bool) {
	for _, c := range serviceCatalog {
		if c.ID == id {
			return c, true
		}
	}
	return ServiceCategory{}, false
}

// KnownService reports whether the id exists in the catalog.
func KnownService(id ServiceType) bool {
	_, ok := LookupService(id)
	return ok
}
