package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aci-platform/requisition-api/internal/models"
	appErrors "github.com/aci-platform/requisition-api/pkg/errors"
)

func newRequisitionMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func requisitionRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "service_id", "requester_name", "requester_id", "requester_staff_id",
		"department", "date", "status", "summary", "comments", "form_data",
		"attachments", "created_at", "updated_at",
	})
}

func addRequisitionRow(rows *sqlmock.Rows, id string, status models.RequisitionStatus) *sqlmock.Rows {
	return rows.AddRow(
		id, "safety", "Alex Sterling", "EMP-0042", "EMP-0042",
		"Product Engineering", "2026-08-20", string(status), "armed guard for Building A (8 hours)", nil,
		[]byte(`{"safety":{"location":"Building A","guard_type":"armed","duration":"8 hours"}}`),
		[]byte(`[]`), time.Now(), time.Now(),
	)
}

func TestRequisitionRepositoryInsertWithLog(t *testing.T) {
	db, mock, cleanup := newRequisitionMock(t)
	defer cleanup()
	repo := NewRequisitionRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO requisitions").
		WithArgs(
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO activity_logs").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	req := &models.Requisition{
		ID:            "REQ-10241",
		ServiceID:     models.ServiceSafety,
		RequesterName: "Alex Sterling",
		RequesterID:   "EMP-0042",
		Department:    "Product Engineering",
		Date:          "2026-08-20",
		Status:        models.StatusPending,
		Summary:       "armed guard for Building A (8 hours)",
	}
	entry := &models.ActivityLog{Action: "Submitted new requisition REQ-10241", User: "Alex Sterling"}

	err := repo.Insert(context.Background(), req, entry)
	require.NoError(t, err)
	assert.NotEmpty(t, entry.ID)
	assert.False(t, req.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequisitionRepositoryInsertRollsBackOnLogFailure(t *testing.T) {
	db, mock, cleanup := newRequisitionMock(t)
	defer cleanup()
	repo := NewRequisitionRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO requisitions").
		WithArgs(
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO activity_logs").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := repo.Insert(context.Background(), &models.Requisition{ID: "REQ-10241"}, &models.ActivityLog{Action: "Submitted"})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequisitionRepositoryGetByID(t *testing.T) {
	db, mock, cleanup := newRequisitionMock(t)
	defer cleanup()
	repo := NewRequisitionRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT "+requisitionColumns+" FROM requisitions WHERE id = $1 LIMIT 1")).
		WithArgs("REQ-10241").
		WillReturnRows(addRequisitionRow(requisitionRows(), "REQ-10241", models.StatusPending))

	req, err := repo.GetByID(context.Background(), "REQ-10241")
	require.NoError(t, err)
	assert.Equal(t, models.ServiceSafety, req.ServiceID)
	require.NotNil(t, req.FormData.Safety)
	assert.Equal(t, "Building A", req.FormData.Safety.Location)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequisitionRepositoryGetByIDNotFound(t *testing.T) {
	db, mock, cleanup := newRequisitionMock(t)
	defer cleanup()
	repo := NewRequisitionRepository(db)

	mock.ExpectQuery("SELECT .* FROM requisitions WHERE id =").
		WithArgs("REQ-99999").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "REQ-99999")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequisitionRepositoryListCombinesFilters(t *testing.T) {
	db, mock, cleanup := newRequisitionMock(t)
	defer cleanup()
	repo := NewRequisitionRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT " + requisitionColumns + " FROM requisitions WHERE 1=1 AND status = $1 AND service_id = $2 AND (LOWER(requester_name) LIKE $3 OR LOWER(id) LIKE $3 OR LOWER(department) LIKE $3) ORDER BY date DESC, created_at DESC")).
		WithArgs(models.StatusPending, models.ServiceSafety, "%alex%").
		WillReturnRows(addRequisitionRow(requisitionRows(), "REQ-10241", models.StatusPending))

	out, err := repo.List(context.Background(), models.RequisitionFilter{
		Status:    models.StatusPending,
		ServiceID: models.ServiceSafety,
		Search:    "Alex",
	})
	require.NoError(t, err)
	assert.Len(t, out, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequisitionRepositoryListUnfiltered(t *testing.T) {
	db, mock, cleanup := newRequisitionMock(t)
	defer cleanup()
	repo := NewRequisitionRepository(db)

	rows := addRequisitionRow(requisitionRows(), "REQ-10242", models.StatusPending)
	rows = addRequisitionRow(rows, "REQ-10241", models.StatusApproved)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT " + requisitionColumns + " FROM requisitions WHERE 1=1 ORDER BY date DESC, created_at DESC")).
		WillReturnRows(rows)

	out, err := repo.List(context.Background(), models.RequisitionFilter{})
	require.NoError(t, err)
	assert.Len(t, out, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequisitionRepositoryTransition(t *testing.T) {
	db, mock, cleanup := newRequisitionMock(t)
	defer cleanup()
	repo := NewRequisitionRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT "+requisitionColumns+" FROM requisitions WHERE id = $1 FOR UPDATE")).
		WithArgs("REQ-10241").
		WillReturnRows(addRequisitionRow(requisitionRows(), "REQ-10241", models.StatusPending))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE requisitions SET status = $2, comments = $3, updated_at = $4 WHERE id = $1")).
		WithArgs("REQ-10241", models.StatusApproved, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO activity_logs").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	comment := "Budget confirmed."
	entry := &models.ActivityLog{Action: `Approved request REQ-10241 with comment: "Budget confirmed."`, User: "System Administrator", Type: models.LogSuccess}
	updated, err := repo.Transition(context.Background(), "REQ-10241", models.StatusApproved, &comment, entry)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, updated.Status)
	require.NotNil(t, updated.Comments)
	assert.Equal(t, "Budget confirmed.", *updated.Comments)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequisitionRepositoryTransitionTerminalGuard(t *testing.T) {
	db, mock, cleanup := newRequisitionMock(t)
	defer cleanup()
	repo := NewRequisitionRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT "+requisitionColumns+" FROM requisitions WHERE id = $1 FOR UPDATE")).
		WithArgs("REQ-10241").
		WillReturnRows(addRequisitionRow(requisitionRows(), "REQ-10241", models.StatusApproved))
	mock.ExpectRollback()

	_, err := repo.Transition(context.Background(), "REQ-10241", models.StatusRejected, nil, nil)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrInvalidTransition))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequisitionRepositoryTransitionNotFound(t *testing.T) {
	db, mock, cleanup := newRequisitionMock(t)
	defer cleanup()
	repo := NewRequisitionRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .* FROM requisitions WHERE id = .* FOR UPDATE").
		WithArgs("REQ-99999").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := repo.Transition(context.Background(), "REQ-99999", models.StatusApproved, nil, nil)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequisitionRepositoryStatusCounts(t *testing.T) {
	db, mock, cleanup := newRequisitionMock(t)
	defer cleanup()
	repo := NewRequisitionRepository(db)

	rows := sqlmock.NewRows([]string{"status", "count"}).
		AddRow("Pending", 2).
		AddRow("In Review", 1).
		AddRow("Approved", 3).
		AddRow("Rejected", 1)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT status, COUNT(*) AS count FROM requisitions GROUP BY status")).
		WillReturnRows(rows)

	counts, err := repo.StatusCounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, counts.Pending)
	assert.Equal(t, 1, counts.InReview)
	assert.Equal(t, 3, counts.Approved)
	assert.Equal(t, 1, counts.Rejected)
	assert.Equal(t, 7, counts.Total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequisitionRepositoryAggregateByService(t *testing.T) {
	db, mock, cleanup := newRequisitionMock(t)
	defer cleanup()
	repo := NewRequisitionRepository(db)

	rows := sqlmock.NewRows([]string{"service_id", "status", "count"}).
		AddRow("safety", "Approved", 2).
		AddRow("canteen", "Pending", 1)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT service_id, status, COUNT(*) AS count FROM requisitions GROUP BY service_id, status")).
		WillReturnRows(rows)

	buckets, err := repo.AggregateByService(context.Background())
	require.NoError(t, err)
	require.Len(t, buckets, 2)
	assert.Equal(t, models.ServiceSafety, buckets[0].ServiceID)
	assert.Equal(t, 2, buckets[0].Count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequisitionRepositoryCountDistinctRequesters(t *testing.T) {
	db, mock, cleanup := newRequisitionMock(t)
	defer cleanup()
	repo := NewRequisitionRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(DISTINCT requester_id) FROM requisitions")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	total, err := repo.CountDistinctRequesters(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}
