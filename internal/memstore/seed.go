package memstore

import (
	"time"

	"github.com/aci-platform/requisition-api/internal/models"
)

func strPtr(s string) *string { return &s }

var seedBase = time.Date(2026, time.August, 20, 9, 0, 0, 0, time.UTC)

// seedRequisitions is the demo dataset for the memory driver. It covers every
// lifecycle state and a spread of services so the dashboard and reports have
// something to show on first boot.
var seedRequisitions = []models.Requisition{
	{
		ID:               "REQ-10241",
		ServiceID:        models.ServiceSafety,
		RequesterName:    "Alex Sterling",
		RequesterID:      "EMP-0042",
		RequesterStaffID: strPtr("EMP-0042"),
		Department:       "Product Engineering",
		Date:             "2026-08-18",
		Status:           models.StatusApproved,
		Summary:          "armed guard for Building A (8 hours)",
		Comments:         strPtr("Coverage confirmed with the security vendor."),
		FormData: models.FormData{Safety: &models.SafetyForm{
			Location:  "Building A",
			GuardType: "armed",
			Duration:  "8 hours",
		}},
		Attachments: models.AttachmentList{},
		CreatedAt:   seedBase.Add(-72 * time.Hour),
		UpdatedAt:   seedBase.Add(-48 * time.Hour),
	},
	{
		ID:               "REQ-10388",
		ServiceID:        models.ServiceTransport,
		RequesterName:    "Alex Sterling",
		RequesterID:      "EMP-0042",
		RequesterStaffID: strPtr("EMP-0042"),
		Department:       "Product Engineering",
		Date:             "2026-08-21",
		Status:           models.StatusPending,
		Summary:          "pickup to Airport on 2026-08-22",
		FormData: models.FormData{Transport: &models.TransportForm{
			RequestType: "pickup",
			Destination: "Airport",
			Date:        "2026-08-22",
			Time:        "06:30",
		}},
		Attachments: models.AttachmentList{},
		CreatedAt:   seedBase.Add(-24 * time.Hour),
		UpdatedAt:   seedBase.Add(-24 * time.Hour),
	},
	{
		ID:               "REQ-10402",
		ServiceID:        models.ServiceCanteen,
		RequesterName:    "Priya Nair",
		RequesterID:      "EMP-0117",
		RequesterStaffID: strPtr("EMP-0117"),
		Department:       "People Operations",
		Date:             "2026-08-19",
		Status:           models.StatusInReview,
		Summary:          "Guest Meal Request (12 pax)",
		FormData: models.FormData{Canteen: &models.CanteenForm{
			Tab:        "guest",
			HostID:     "EMP-0117",
			GuestCount: 12,
			MealType:   "lunch",
		}},
		Attachments: models.AttachmentList{},
		CreatedAt:   seedBase.Add(-40 * time.Hour),
		UpdatedAt:   seedBase.Add(-20 * time.Hour),
	},
	{
		ID:               "REQ-10455",
		ServiceID:        models.ServiceMaintenance,
		RequesterName:    "Daniel Osei",
		RequesterID:      "EMP-0203",
		RequesterStaffID: strPtr("EMP-0203"),
		Department:       "Facilities",
		Date:             "2026-08-17",
		Status:           models.StatusRejected,
		Summary:          "plumbing maintenance at Floor 3 washroom",
		Comments:         strPtr("Duplicate of an open work order."),
		FormData: models.FormData{Maintenance: &models.MaintenanceForm{
			MaintenanceType: "plumbing",
			Location:        "Floor 3 washroom",
			Description:     "Leaking tap in the far stall.",
		}},
		Attachments: models.AttachmentList{},
		CreatedAt:   seedBase.Add(-96 * time.Hour),
		UpdatedAt:   seedBase.Add(-70 * time.Hour),
	},
	{
		ID:               "REQ-10481",
		ServiceID:        models.ServiceCommunications,
		RequesterName:    "Priya Nair",
		RequesterID:      "EMP-0117",
		RequesterStaffID: strPtr("EMP-0117"),
		Department:       "People Operations",
		Date:             "2026-08-21",
		Status:           models.StatusPending,
		Summary:          "New SIM Card Request",
		FormData: models.FormData{Communications: &models.CommunicationsForm{
			CommType:      "sim",
			Justification: "Replacement for a faulty SIM issued last quarter.",
		}},
		Attachments: models.AttachmentList{},
		CreatedAt:   seedBase.Add(-6 * time.Hour),
		UpdatedAt:   seedBase.Add(-6 * time.Hour),
	},
}

// seedLogs mirrors the history implied by the seed requisitions.
var seedLogs = []models.ActivityLog{
	{
		ID:        "2d7f5a1c-3b8e-4f6d-9a2c-1e5b7c9d0f31",
		Action:    "Submitted new requisition REQ-10241",
		User:      "Alex Sterling",
		Timestamp: seedBase.Add(-72 * time.Hour),
		Type:      models.LogInfo,
	},
	{
		ID:        "6a1b3c5d-7e9f-4a2b-8c4d-3f5e7a9b1c2d",
		Action:    "Approved request REQ-10241 with comment: \"Coverage confirmed with the security vendor.\"",
		User:      "System Administrator",
		Timestamp: seedBase.Add(-48 * time.Hour),
		Type:      models.LogSuccess,
	},
	{
		ID:        "9c2d4e6f-1a3b-4c5d-8e7f-2b4d6a8c0e1f",
		Action:    "In Review request REQ-10402",
		User:      "System Administrator",
		Timestamp: seedBase.Add(-20 * time.Hour),
		Type:      models.LogWarning,
	},
	{
		ID:        "4e6f8a0b-2c4d-4e6f-9a1b-5c7d9e1f3a2b",
		Action:    "Rejected request REQ-10455 with comment: \"Duplicate of an open work order.\"",
		User:      "System Administrator",
		Timestamp: seedBase.Add(-70 * time.Hour),
		Type:      models.LogError,
	},
}
