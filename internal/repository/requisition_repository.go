package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/aci-platform/requisition-api/internal/models"
	appErrors "github.com/aci-platform/requisition-api/pkg/errors"
)

const requisitionColumns = `id, service_id, requester_name, requester_id, requester_staff_id, department, date, status, summary, comments, form_data, attachments, created_at, updated_at`

// RequisitionRepository provides Postgres access to the requisitions table.
type RequisitionRepository struct {
	db *sqlx.DB
}

// NewRequisitionRepository creates a new instance of RequisitionRepository.
func NewRequisitionRepository(db *sqlx.DB) *RequisitionRepository {
	return &RequisitionRepository{db: db}
}

// Insert stores a newly built requisition together with its creation log entry
// in one transaction, so no reader observes one without the other.
func (r *RequisitionRepository) Insert(ctx context.Context, req *models.Requisition, entry *models.ActivityLog) error {
	now := time.Now().UTC()
	if req.CreatedAt.IsZero() {
		req.CreatedAt = now
	}
	req.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin insert requisition: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const query = `INSERT INTO requisitions (` + requisitionColumns + `) VALUES (:id, :service_id, :requester_name, :requester_id, :requester_staff_id, :department, :date, :status, :summary, :comments, :form_data, :attachments, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, query, req); err != nil {
		return fmt.Errorf("insert requisition: %w", err)
	}

	if entry != nil {
		if err := insertLogTx(ctx, tx, entry); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit insert requisition: %w", err)
	}
	return nil
}

// GetByID returns a requisition by identifier.
func (r *RequisitionRepository) GetByID(ctx context.Context, id string) (*models.Requisition, error) {
	const query = `SELECT ` + requisitionColumns + ` FROM requisitions WHERE id = $1 LIMIT 1`
	var req models.Requisition
	if err := r.db.GetContext(ctx, &req, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find requisition by id: %w", err)
	}
	return &req, nil
}

// List returns requisitions matching the filter, newest-first by submission
// date. Active filters combine with AND; the free-text term matches requester
// name, requisition id, or department case-insensitively.
func (r *RequisitionRepository) List(ctx context.Context, filter models.RequisitionFilter) ([]models.Requisition, error) {
	query := `SELECT ` + requisitionColumns + ` FROM requisitions WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.ServiceID != "" {
		conditions = append(conditions, fmt.Sprintf("service_id = $%d", len(args)+1))
		args = append(args, filter.ServiceID)
	}
	if filter.RequesterID != "" {
		conditions = append(conditions, fmt.Sprintf("requester_id = $%d", len(args)+1))
		args = append(args, filter.RequesterID)
	}
	if filter.Search != "" {
		n := len(args) + 1
		conditions = append(conditions, fmt.Sprintf("(LOWER(requester_name) LIKE $%d OR LOWER(id) LIKE $%d OR LOWER(department) LIKE $%d)", n, n, n))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY date DESC, created_at DESC"

	var out []models.Requisition
	if err := r.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("list requisitions: %w", err)
	}
	return out, nil
}

// Transition applies a status change and appends its activity log entry as one
// atomic unit. The row is locked for the duration, serializing concurrent
// transitions per id, and the terminal-state guard is enforced here rather
// than trusted to any client.
func (r *RequisitionRepository) Transition(ctx context.Context, id string, status models.RequisitionStatus, comment *string, entry *models.ActivityLog) (*models.Requisition, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transition: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var current models.Requisition
	const lockQuery = `SELECT ` + requisitionColumns + ` FROM requisitions WHERE id = $1 FOR UPDATE`
	if err := tx.GetContext(ctx, &current, lockQuery, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.ErrNotFound
		}
		return nil, fmt.Errorf("lock requisition: %w", err)
	}

	if !models.CanTransition(current.Status, status) {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, fmt.Sprintf("cannot move %s from %s to %s", id, current.Status, status))
	}

	now := time.Now().UTC()
	current.Status = status
	current.UpdatedAt = now
	if comment != nil {
		current.Comments = comment
	}

	const update = `UPDATE requisitions SET status = $2, comments = $3, updated_at = $4 WHERE id = $1`
	if _, err := tx.ExecContext(ctx, update, id, current.Status, current.Comments, now); err != nil {
		return nil, fmt.Errorf("update requisition status: %w", err)
	}

	if entry != nil {
		if err := insertLogTx(ctx, tx, entry); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transition: %w", err)
	}
	return &current, nil
}

// StatusCounts aggregates the collection for the admin dashboard cards.
func (r *RequisitionRepository) StatusCounts(ctx context.Context) (models.StatusCounts, error) {
	const query = `SELECT status, COUNT(*) AS count FROM requisitions GROUP BY status`
	rows := []struct {
		Status models.RequisitionStatus `db:"status"`
		Count  int                      `db:"count"`
	}{}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return models.StatusCounts{}, fmt.Errorf("count requisitions by status: %w", err)
	}

	var counts models.StatusCounts
	for _, row := range rows {
		switch row.Status {
		case models.StatusPending:
			counts.Pending = row.Count
		case models.StatusInReview:
			counts.InReview = row.Count
		case models.StatusApproved:
			counts.Approved = row.Count
		case models.StatusRejected:
			counts.Rejected = row.Count
		}
		counts.Total += row.Count
	}
	return counts, nil
}

// AggregateByService returns per-service, per-status counts.
func (r *RequisitionRepository) AggregateByService(ctx context.Context) ([]models.ServiceStatusCount, error) {
	const query = `SELECT service_id, status, COUNT(*) AS count FROM requisitions GROUP BY service_id, status`
	var rows []models.ServiceStatusCount
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("aggregate requisitions by service: %w", err)
	}
	return rows, nil
}

// CountDistinctRequesters returns the number of unique submitting users.
func (r *RequisitionRepository) CountDistinctRequesters(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(DISTINCT requester_id) FROM requisitions`
	var total int
	if err := r.db.GetContext(ctx, &total, query); err != nil {
		return 0, fmt.Errorf("count distinct requesters: %w", err)
	}
	return total, nil
}
