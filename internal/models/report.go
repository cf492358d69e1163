package models

// ServiceStatusCount is one aggregate bucket: requisitions of one service in
// one lifecycle state.
type ServiceStatusCount struct {
	ServiceID ServiceType       `db:"service_id" json:"service_id"`
	Status    RequisitionStatus `db:"status" json:"status"`
	Count     int               `db:"count" json:"count"`
}

// ServiceReport aggregates requisitions for a single service category.
type ServiceReport struct {
	ServiceID    ServiceType `json:"service_id"`
	Title        string      `json:"title"`
	Total        int         `json:"total"`
	Approved     int         `json:"approved"`
	Rejected     int         `json:"rejected"`
	Pending      int         `json:"pending"`
	ApprovalRate int         `json:"approval_rate"`
}

// ReportSummary is the portal-wide roll-up shown above the per-service table.
type ReportSummary struct {
	TotalRequests    int `json:"total_requests"`
	TotalApproved    int `json:"total_approved"`
	CompletionRate   int `json:"completion_rate"`
	UniqueRequesters int `json:"unique_requesters"`
}

// ServicesReport combines the summary with the per-category breakdown.
type ServicesReport struct {
	Summary  ReportSummary   `json:"summary"`
	Services []ServiceReport `json:"services"`
}

// ExportFormat enumerates supported report export encodings.
type ExportFormat string

const (
	ExportCSV ExportFormat = "csv"
	ExportPDF ExportFormat = "pdf"
)

// ReportExport describes a rendered export available for download.
type ReportExport struct {
	ID        string       `json:"id"`
	Format    ExportFormat `json:"format"`
	FileName  string       `json:"file_name"`
	URL       string       `json:"url"`
	ExpiresAt string       `json:"expires_at"`
}
