package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/aci-platform/requisition-api/internal/models"
)

type activityStore interface {
	Insert(ctx context.Context, entry *models.ActivityLog) error
	List(ctx context.Context, limit int) ([]models.ActivityLog, error)
}

type activityReader interface {
	List(ctx context.Context, limit int) ([]models.ActivityLog, error)
}

// ActivityService serves the append-only activity feed. Entries tied to
// requisition writes are recorded by the requisition store in the same
// transaction; this service covers standalone appends and reads.
type ActivityService struct {
	store    activityStore
	fallback activityReader
	logger   *zap.Logger
}

// NewActivityService constructs the service. fallback may be nil.
func NewActivityService(store activityStore, fallback activityReader, logger *zap.Logger) *ActivityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActivityService{store: store, fallback: fallback, logger: logger}
}

// Record appends a standalone entry, such as a login event.
func (s *ActivityService) Record(ctx context.Context, entry *models.ActivityLog) error {
	return s.store.Insert(ctx, entry)
}

// List returns entries newest-first. A non-positive limit returns all. The
// boolean reports a degraded read served from the fallback store.
func (s *ActivityService) List(ctx context.Context, limit int) ([]models.ActivityLog, bool, error) {
	out, err := s.store.List(ctx, limit)
	if err == nil {
		return out, false, nil
	}
	if s.fallback == nil {
		return nil, false, err
	}
	s.logger.Warn("primary store activity list failed, serving fallback", zap.Error(err))
	out, fbErr := s.fallback.List(ctx, limit)
	if fbErr != nil {
		return nil, true, fbErr
	}
	return out, true, nil
}
