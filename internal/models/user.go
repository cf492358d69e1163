package models

import "time"

// Role represents the closed set of portal roles.
type Role string

const (
	RoleEmployee Role = "employee"
	RoleAdmin    Role = "admin"
	RoleEditor   Role = "editor"
	RoleViewer   Role = "viewer"
)

// Profile represents an employee record in the portal directory. The requester
// snapshot on a requisition is copied from this at submission time.
type Profile struct {
	ID         string    `db:"id" json:"id"`
	StaffID    *string   `db:"staff_id" json:"staff_id,omitempty"`
	Name       string    `db:"name" json:"name"`
	Department string    `db:"department" json:"department"`
	AvatarURL  string    `db:"avatar_url" json:"avatar_url"`
	Role       Role      `db:"role" json:"role"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// ProfileFilter constrains directory listing.
type ProfileFilter struct {
	Role     Role
	Search   string
	Page     int
	PageSize int
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
