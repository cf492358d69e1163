package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aci-platform/requisition-api/internal/models"
)

type fakeActivityStore struct {
	entries []models.ActivityLog
	listErr error
}

func (f *fakeActivityStore) Insert(_ context.Context, entry *models.ActivityLog) error {
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeActivityStore) List(_ context.Context, limit int) ([]models.ActivityLog, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	if limit > 0 && len(f.entries) > limit {
		return f.entries[:limit], nil
	}
	return f.entries, nil
}

func TestActivityRecordAndList(t *testing.T) {
	store := &fakeActivityStore{}
	svc := NewActivityService(store, nil, zap.NewNop())

	err := svc.Record(context.Background(), &models.ActivityLog{
		Action:    "Submitted new requisition REQ-10241",
		User:      "Alex Sterling",
		Timestamp: time.Now().UTC(),
		Type:      models.LogInfo,
	})
	require.NoError(t, err)

	out, degraded, err := svc.List(context.Background(), 10)
	require.NoError(t, err)
	assert.False(t, degraded)
	require.Len(t, out, 1)
	assert.Equal(t, "Alex Sterling", out[0].User)
}

func TestActivityListFallback(t *testing.T) {
	store := &fakeActivityStore{listErr: errors.New("connection refused")}
	fallback := &fakeActivityStore{entries: []models.ActivityLog{{Action: "Approved request REQ-10241"}}}
	svc := NewActivityService(store, fallback, zap.NewNop())

	out, degraded, err := svc.List(context.Background(), 0)
	require.NoError(t, err)
	assert.True(t, degraded)
	require.Len(t, out, 1)
}

func TestActivityListErrorWithoutFallback(t *testing.T) {
	store := &fakeActivityStore{listErr: errors.New("connection refused")}
	svc := NewActivityService(store, nil, zap.NewNop())

	_, degraded, err := svc.List(context.Background(), 0)
	require.Error(t, err)
	assert.False(t, degraded)
}
