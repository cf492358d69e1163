package models

import "time"

// LogType classifies activity log severity.
type LogType string

const (
	LogInfo    LogType = "info"
	LogSuccess LogType = "success"
	LogWarning LogType = "warning"
	LogError   LogType = "error"
)

// LogTypeForStatus maps a review outcome to its log severity. Creation and any
// unknown status record as info.
func LogTypeForStatus(status RequisitionStatus) LogType {
	switch status {
	case StatusApproved:
		return LogSuccess
	case StatusRejected:
		return LogError
	case StatusInReview:
		return LogWarning
	default:
		return LogInfo
	}
}

// ActivityLog is an immutable audit record of a creation or status-transition
// event. Entries are append-only; ordering is a query-time concern driven by
// Timestamp.
type ActivityLog struct {
	ID        string    `db:"id" json:"id"`
	Action    string    `db:"action" json:"action"`
	User      string    `db:"actor" json:"user"`
	Timestamp time.Time `db:"created_at" json:"timestamp"`
	Type      LogType   `db:"type" json:"type"`
}
