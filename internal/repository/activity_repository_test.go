package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aci-platform/requisition-api/internal/models"
)

func newActivityMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestActivityRepositoryInsertFillsDefaults(t *testing.T) {
	db, mock, cleanup := newActivityMock(t)
	defer cleanup()
	repo := NewActivityRepository(db)

	mock.ExpectExec("INSERT INTO activity_logs").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	entry := &models.ActivityLog{Action: "Submitted new requisition REQ-10241", User: "Alex Sterling"}
	err := repo.Insert(context.Background(), entry)
	require.NoError(t, err)
	assert.NotEmpty(t, entry.ID)
	assert.False(t, entry.Timestamp.IsZero())
	assert.Equal(t, models.LogInfo, entry.Type)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActivityRepositoryListWithLimit(t *testing.T) {
	db, mock, cleanup := newActivityMock(t)
	defer cleanup()
	repo := NewActivityRepository(db)

	rows := sqlmock.NewRows([]string{"id", "action", "actor", "type", "created_at"}).
		AddRow("log-2", "Approved request REQ-10241", "System Administrator", "success", time.Now()).
		AddRow("log-1", "Submitted new requisition REQ-10241", "Alex Sterling", "info", time.Now().Add(-time.Hour))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, action, actor, type, created_at FROM activity_logs ORDER BY created_at DESC LIMIT $1")).
		WithArgs(2).
		WillReturnRows(rows)

	out, err := repo.List(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "System Administrator", out[0].User)
	assert.Equal(t, models.LogSuccess, out[0].Type)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActivityRepositoryListAll(t *testing.T) {
	db, mock, cleanup := newActivityMock(t)
	defer cleanup()
	repo := NewActivityRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, action, actor, type, created_at FROM activity_logs ORDER BY created_at DESC")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "action", "actor", "type", "created_at"}))

	out, err := repo.List(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.NoError(t, mock.ExpectationsWereMet())
}
