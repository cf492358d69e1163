package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/aci-platform/requisition-api/internal/forms"
	"github.com/aci-platform/requisition-api/internal/models"
	appErrors "github.com/aci-platform/requisition-api/pkg/errors"
)

type requisitionStore interface {
	Insert(ctx context.Context, req *models.Requisition, entry *models.ActivityLog) error
	GetByID(ctx context.Context, id string) (*models.Requisition, error)
	List(ctx context.Context, filter models.RequisitionFilter) ([]models.Requisition, error)
	Transition(ctx context.Context, id string, status models.RequisitionStatus, comment *string, entry *models.ActivityLog) (*models.Requisition, error)
	StatusCounts(ctx context.Context) (models.StatusCounts, error)
}

// requisitionReader is the read-only surface served from the fallback store
// when the primary is unreachable.
type requisitionReader interface {
	GetByID(ctx context.Context, id string) (*models.Requisition, error)
	List(ctx context.Context, filter models.RequisitionFilter) ([]models.Requisition, error)
	StatusCounts(ctx context.Context) (models.StatusCounts, error)
}

type changeNotifier interface {
	NotifyRequisition(req models.Requisition)
	NotifyActivity(entry models.ActivityLog)
}

// SubmitRequest carries a validated-at-the-edge submission. Values holds the
// raw form payload; schema validation happens here, not in the handler.
type SubmitRequest struct {
	ServiceID   models.ServiceType
	Values      forms.Values
	Attachments []models.Attachment
	Requester   models.Profile
}

// ReviewRequest applies one review decision to a requisition.
type ReviewRequest struct {
	ID      string
	Status  models.RequisitionStatus
	Comment *string
	Actor   string
}

// RequisitionService owns submission, review and read paths for requisitions.
type RequisitionService struct {
	store    requisitionStore
	fallback requisitionReader
	notifier changeNotifier
	metrics  *MetricsService
	logger   *zap.Logger
	now      func() time.Time
	idSeq    uint64
}

// NewRequisitionService constructs the service. fallback and notifier may be
// nil; degraded reads and the change feed are then disabled.
func NewRequisitionService(store requisitionStore, fallback requisitionReader, notifier changeNotifier, metrics *MetricsService, logger *zap.Logger) *RequisitionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &RequisitionService{
		store:    store,
		fallback: fallback,
		notifier: notifier,
		metrics:  metrics,
		logger:   logger,
		now:      time.Now,
	}
	// Seed the id sequence from the clock so restarts do not replay the same
	// range. Uniqueness is still enforced by the store.
	s.idSeq = uint64(time.Now().UnixNano() % 90000)
	return s
}

// Submit validates the form payload, derives the summary and persists the new
// requisition together with its creation log entry.
func (s *RequisitionService) Submit(ctx context.Context, req SubmitRequest) (*models.Requisition, error) {
	if !models.KnownService(req.ServiceID) {
		return nil, appErrors.Clone(appErrors.ErrUnknownService, fmt.Sprintf("unknown service category %q", req.ServiceID))
	}

	clean, fieldErrs := forms.Validate(req.ServiceID, req.Values)
	if len(fieldErrs) > 0 {
		return nil, appErrors.Validation(fieldErrs)
	}

	now := s.now().UTC()
	requisition := &models.Requisition{
		ID:               s.nextID(),
		ServiceID:        req.ServiceID,
		RequesterName:    req.Requester.Name,
		RequesterID:      req.Requester.ID,
		RequesterStaffID: req.Requester.StaffID,
		Department:       req.Requester.Department,
		Date:             now.Format("2006-01-02"),
		Status:           models.StatusPending,
		Summary:          forms.Summary(req.ServiceID, clean),
		FormData:         forms.Decode(req.ServiceID, clean),
		Attachments:      models.AttachmentList(req.Attachments),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if requisition.Attachments == nil {
		requisition.Attachments = models.AttachmentList{}
	}

	entry := &models.ActivityLog{
		Action:    fmt.Sprintf("Submitted new requisition %s", requisition.ID),
		User:      req.Requester.Name,
		Timestamp: now,
		Type:      models.LogTypeForStatus(models.StatusPending),
	}

	if err := s.store.Insert(ctx, requisition, entry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist requisition")
	}

	s.metrics.RecordSubmission(string(req.ServiceID))
	s.notifyChange(*requisition, *entry)
	return requisition, nil
}

// Review applies a status decision. Terminal records are rejected by the store
// guard; the resulting conflict error passes through untouched.
func (s *RequisitionService) Review(ctx context.Context, req ReviewRequest) (*models.Requisition, error) {
	if !models.ValidStatus(req.Status) || req.Status == models.StatusPending {
		return nil, appErrors.Clone(appErrors.ErrValidation, "status must be In Review, Approved or Rejected")
	}

	action := fmt.Sprintf("%s request %s", req.Status, req.ID)
	if req.Comment != nil && *req.Comment != "" {
		action = fmt.Sprintf("%s with comment: %q", action, *req.Comment)
	}
	entry := &models.ActivityLog{
		Action:    action,
		User:      req.Actor,
		Timestamp: s.now().UTC(),
		Type:      models.LogTypeForStatus(req.Status),
	}

	updated, err := s.store.Transition(ctx, req.ID, req.Status, req.Comment, entry)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("requisition %s not found", req.ID))
		}
		return nil, err
	}

	s.metrics.RecordReview(string(req.Status))
	s.notifyChange(*updated, *entry)
	return updated, nil
}

// Get returns a single requisition. The boolean reports a degraded read.
func (s *RequisitionService) Get(ctx context.Context, id string) (*models.Requisition, bool, error) {
	req, err := s.store.GetByID(ctx, id)
	if err == nil {
		return req, false, nil
	}
	if isNotFound(err) {
		return nil, false, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("requisition %s not found", id))
	}
	if s.fallback == nil {
		return nil, false, err
	}
	s.logger.Warn("primary store read failed, serving fallback", zap.String("id", id), zap.Error(err))
	req, fbErr := s.fallback.GetByID(ctx, id)
	if fbErr != nil {
		if isNotFound(fbErr) {
			return nil, true, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("requisition %s not found", id))
		}
		return nil, true, fbErr
	}
	return req, true, nil
}

// List returns requisitions matching the filter, newest-first. The boolean
// reports a degraded read served from the fallback store.
func (s *RequisitionService) List(ctx context.Context, filter models.RequisitionFilter) ([]models.Requisition, bool, error) {
	out, err := s.store.List(ctx, filter)
	if err == nil {
		return out, false, nil
	}
	if s.fallback == nil {
		return nil, false, err
	}
	s.logger.Warn("primary store list failed, serving fallback", zap.Error(err))
	out, fbErr := s.fallback.List(ctx, filter)
	if fbErr != nil {
		return nil, true, fbErr
	}
	return out, true, nil
}

// Stats aggregates requisitions by lifecycle state.
func (s *RequisitionService) Stats(ctx context.Context) (models.StatusCounts, bool, error) {
	counts, err := s.store.StatusCounts(ctx)
	if err == nil {
		return counts, false, nil
	}
	if s.fallback == nil {
		return models.StatusCounts{}, false, err
	}
	s.logger.Warn("primary store stats failed, serving fallback", zap.Error(err))
	counts, fbErr := s.fallback.StatusCounts(ctx)
	if fbErr != nil {
		return models.StatusCounts{}, true, fbErr
	}
	return counts, true, nil
}

// nextID yields portal requisition ids of the form REQ-<5 digits>. Values
// increase monotonically within a process.
func (s *RequisitionService) nextID() string {
	n := atomic.AddUint64(&s.idSeq, 1)
	return fmt.Sprintf("REQ-%05d", 10000+n%90000)
}

func (s *RequisitionService) notifyChange(req models.Requisition, entry models.ActivityLog) {
	if s.notifier == nil {
		return
	}
	s.notifier.NotifyRequisition(req)
	s.notifier.NotifyActivity(entry)
}

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows) || appErrors.Is(err, appErrors.ErrNotFound)
}
