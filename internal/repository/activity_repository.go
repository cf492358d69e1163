package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/aci-platform/requisition-api/internal/models"
)

// ActivityRepository provides Postgres access to the append-only activity log.
type ActivityRepository struct {
	db *sqlx.DB
}

// NewActivityRepository creates a new instance of ActivityRepository.
func NewActivityRepository(db *sqlx.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Insert appends one log entry. The log has no update or delete path.
func (r *ActivityRepository) Insert(ctx context.Context, entry *models.ActivityLog) error {
	fillLogDefaults(entry)
	const query = `INSERT INTO activity_logs (id, action, actor, type, created_at) VALUES (:id, :action, :actor, :type, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("insert activity log: %w", err)
	}
	return nil
}

// List returns entries newest-first. A non-positive limit lists everything.
func (r *ActivityRepository) List(ctx context.Context, limit int) ([]models.ActivityLog, error) {
	query := `SELECT id, action, actor, type, created_at FROM activity_logs ORDER BY created_at DESC`
	var args []interface{}
	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
	}
	var out []models.ActivityLog
	if err := r.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("list activity logs: %w", err)
	}
	return out, nil
}

// insertLogTx appends a log entry within an open transaction. Shared with the
// requisition repository so status changes and their audit entries commit
// together.
func insertLogTx(ctx context.Context, tx *sqlx.Tx, entry *models.ActivityLog) error {
	fillLogDefaults(entry)
	const query = `INSERT INTO activity_logs (id, action, actor, type, created_at) VALUES (:id, :action, :actor, :type, :created_at)`
	if _, err := tx.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("insert activity log: %w", err)
	}
	return nil
}

func fillLogDefaults(entry *models.ActivityLog) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	if entry.Type == "" {
		entry.Type = models.LogInfo
	}
}
