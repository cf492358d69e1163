package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/aci-platform/requisition-api/internal/models"
)

// ProfileRepository provides Postgres access to the employee directory.
type ProfileRepository struct {
	db *sqlx.DB
}

// NewProfileRepository creates a new instance of ProfileRepository.
func NewProfileRepository(db *sqlx.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// GetByID returns a profile by identifier.
func (r *ProfileRepository) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	const query = `SELECT id, staff_id, name, department, avatar_url, role, created_at, updated_at FROM profiles WHERE id = $1 LIMIT 1`
	var p models.Profile
	if err := r.db.GetContext(ctx, &p, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find profile by id: %w", err)
	}
	return &p, nil
}

// List returns directory entries matching the filter with a total count.
func (r *ProfileRepository) List(ctx context.Context, filter models.ProfileFilter) ([]models.Profile, int, error) {
	baseQuery := `FROM profiles WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.Role != "" {
		conditions = append(conditions, fmt.Sprintf("role = $%d", len(args)+1))
		args = append(args, filter.Role)
	}
	if filter.Search != "" {
		n := len(args) + 1
		conditions = append(conditions, fmt.Sprintf("(LOWER(name) LIKE $%d OR LOWER(department) LIKE $%d)", n, n))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	listQuery := fmt.Sprintf("SELECT id, staff_id, name, department, avatar_url, role, created_at, updated_at %s ORDER BY name ASC LIMIT %d OFFSET %d", baseQuery, pageSize, offset)

	var profiles []models.Profile
	if err := r.db.SelectContext(ctx, &profiles, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list profiles: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count profiles: %w", err)
	}

	return profiles, total, nil
}

// Upsert creates or refreshes a directory entry. Used at login so the fixed
// credential profiles appear in the admin employees view.
func (r *ProfileRepository) Upsert(ctx context.Context, p *models.Profile) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	const query = `INSERT INTO profiles (id, staff_id, name, department, avatar_url, role, created_at, updated_at)
		VALUES (:id, :staff_id, :name, :department, :avatar_url, :role, :created_at, :updated_at)
		ON CONFLICT (id) DO UPDATE SET staff_id = EXCLUDED.staff_id, name = EXCLUDED.name, department = EXCLUDED.department, avatar_url = EXCLUDED.avatar_url, role = EXCLUDED.role, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, p); err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

// Update changes the mutable profile fields. Historical requisitions keep the
// requester snapshot taken at submission; nothing here rewrites them.
func (r *ProfileRepository) Update(ctx context.Context, p *models.Profile) error {
	p.UpdatedAt = time.Now().UTC()
	const query = `UPDATE profiles SET name = :name, department = :department, avatar_url = :avatar_url, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, p); err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return nil
}
