package models

import "time"

// RequisitionStatus captures lifecycle states for a service request.
type RequisitionStatus string

const (
	StatusPending  RequisitionStatus = "Pending"
	StatusInReview RequisitionStatus = "In Review"
	StatusApproved RequisitionStatus = "Approved"
	StatusRejected RequisitionStatus = "Rejected"
)

// ValidStatus reports whether the value is one of the four lifecycle states.
func ValidStatus(s RequisitionStatus) bool {
	switch s {
	case StatusPending, StatusInReview, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Terminal reports whether the state admits no further transitions.
func (s RequisitionStatus) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// CanTransition enforces the review state machine. Pending is entered only at
// creation; approval and rejection are terminal regardless of what the caller
// asks for.
func CanTransition(from, to RequisitionStatus) bool {
	if from.Terminal() {
		return false
	}
	switch to {
	case StatusInReview, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Attachment holds file metadata captured at submission. Raw bytes are never
// stored; upload is an external concern.
type Attachment struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
	Type string `json:"type"`
}

// Requisition is a single employee-submitted service request. Requester fields
// are a snapshot of the submitting user at submission time; later profile edits
// never alter historical records.
type Requisition struct {
	ID               string            `db:"id" json:"id"`
	ServiceID        ServiceType       `db:"service_id" json:"service_id"`
	RequesterName    string            `db:"requester_name" json:"requester_name"`
	RequesterID      string            `db:"requester_id" json:"requester_id"`
	RequesterStaffID *string           `db:"requester_staff_id" json:"requester_staff_id,omitempty"`
	Department       string            `db:"department" json:"department"`
	Date             string            `db:"date" json:"date"`
	Status           RequisitionStatus `db:"status" json:"status"`
	Summary          string            `db:"summary" json:"summary"`
	Comments         *string           `db:"comments" json:"comments,omitempty"`
	FormData         FormData          `db:"form_data" json:"form_data"`
	Attachments      AttachmentList    `db:"attachments" json:"attachments"`
	CreatedAt        time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time         `db:"updated_at" json:"updated_at"`
}

// RequisitionFilter constrains listing queries. Zero values mean "all".
type RequisitionFilter struct {
	Status      RequisitionStatus
	ServiceID   ServiceType
	Search      string
	RequesterID string
}

// StatusCounts aggregates requisitions by lifecycle state for the dashboard.
type StatusCounts struct {
	Pending  int `json:"pending"`
	InReview int `json:"in_review"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
	Total    int `json:"total"`
}
