// Package memstore is an in-memory backend for the requisition and activity
// collections. It serves the development store driver and the degraded-mode
// read fallback, and mirrors the Postgres repository semantics: newest-first
// listing, terminal-state enforcement, and atomic status+log writes.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aci-platform/requisition-api/internal/models"
	appErrors "github.com/aci-platform/requisition-api/pkg/errors"
)

// Store holds both collections. A single mutex covers them so a status change
// and its log entry are observed together or not at all.
type Store struct {
	mu           sync.RWMutex
	requisitions map[string]*models.Requisition
	order        []string
	logs         []models.ActivityLog
}

// New returns an empty store.
func New() *Store {
	return &Store{requisitions: make(map[string]*models.Requisition)}
}

// NewSeeded returns a store pre-populated with the demo dataset.
func NewSeeded() *Store {
	s := New()
	for i := range seedRequisitions {
		req := seedRequisitions[i]
		s.requisitions[req.ID] = &req
		s.order = append(s.order, req.ID)
	}
	s.logs = append(s.logs, seedLogs...)
	return s
}

// Insert stores a requisition and its creation log entry atomically.
func (s *Store) Insert(_ context.Context, req *models.Requisition, entry *models.ActivityLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.requisitions[req.ID]; exists {
		return fmt.Errorf("duplicate requisition id %s", req.ID)
	}
	now := time.Now().UTC()
	if req.CreatedAt.IsZero() {
		req.CreatedAt = now
	}
	req.UpdatedAt = now

	clone := *req
	s.requisitions[clone.ID] = &clone
	s.order = append(s.order, clone.ID)
	if entry != nil {
		s.appendLogLocked(entry)
	}
	return nil
}

// GetByID returns a copy of the requisition.
func (s *Store) GetByID(_ context.Context, id string) (*models.Requisition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	req, ok := s.requisitions[id]
	if !ok {
		return nil, appErrors.ErrNotFound
	}
	clone := *req
	return &clone, nil
}

// List returns matching requisitions newest-first by submission date.
func (s *Store) List(_ context.Context, filter models.RequisitionFilter) ([]models.Requisition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Requisition, 0, len(s.order))
	for _, id := range s.order {
		req := s.requisitions[id]
		if !matches(req, filter) {
			continue
		}
		out = append(out, *req)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Transition applies a status change and appends its log entry under one lock
// acquisition, enforcing the terminal-state guard.
func (s *Store) Transition(_ context.Context, id string, status models.RequisitionStatus, comment *string, entry *models.ActivityLog) (*models.Requisition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.requisitions[id]
	if !ok {
		return nil, appErrors.ErrNotFound
	}
	if !models.CanTransition(req.Status, status) {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, fmt.Sprintf("cannot move %s from %s to %s", id, req.Status, status))
	}

	req.Status = status
	req.UpdatedAt = time.Now().UTC()
	if comment != nil {
		req.Comments = comment
	}
	if entry != nil {
		s.appendLogLocked(entry)
	}
	clone := *req
	return &clone, nil
}

// StatusCounts aggregates the collection by lifecycle state.
func (s *Store) StatusCounts(_ context.Context) (models.StatusCounts, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var counts models.StatusCounts
	for _, req := range s.requisitions {
		switch req.Status {
		case models.StatusPending:
			counts.Pending++
		case models.StatusInReview:
			counts.InReview++
		case models.StatusApproved:
			counts.Approved++
		case models.StatusRejected:
			counts.Rejected++
		}
		counts.Total++
	}
	return counts, nil
}

// AggregateByService returns per-service, per-status counts.
func (s *Store) AggregateByService(_ context.Context) ([]models.ServiceStatusCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	buckets := make(map[models.ServiceType]map[models.RequisitionStatus]int)
	for _, req := range s.requisitions {
		if buckets[req.ServiceID] == nil {
			buckets[req.ServiceID] = make(map[models.RequisitionStatus]int)
		}
		buckets[req.ServiceID][req.Status]++
	}

	var out []models.ServiceStatusCount
	for serviceID, statuses := range buckets {
		for status, count := range statuses {
			out = append(out, models.ServiceStatusCount{ServiceID: serviceID, Status: status, Count: count})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ServiceID != out[j].ServiceID {
			return out[i].ServiceID < out[j].ServiceID
		}
		return out[i].Status < out[j].Status
	})
	return out, nil
}

// CountDistinctRequesters returns the number of unique submitting users.
func (s *Store) CountDistinctRequesters(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, req := range s.requisitions {
		seen[req.RequesterID] = struct{}{}
	}
	return len(seen), nil
}

// ActivityView adapts the log collection to the interface shape the activity
// service consumes, mirroring the dedicated SQL repository.
type ActivityView struct {
	store *Store
}

// Activity returns the log-collection view of this store.
func (s *Store) Activity() *ActivityView {
	return &ActivityView{store: s}
}

// Insert appends a standalone log entry.
func (v *ActivityView) Insert(ctx context.Context, entry *models.ActivityLog) error {
	return v.store.InsertLog(ctx, entry)
}

// List returns entries newest-first. A non-positive limit lists all.
func (v *ActivityView) List(ctx context.Context, limit int) ([]models.ActivityLog, error) {
	return v.store.ListLogs(ctx, limit)
}

// InsertLog appends a standalone log entry.
func (s *Store) InsertLog(_ context.Context, entry *models.ActivityLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appendLogLocked(entry)
	return nil
}

// ListLogs returns entries newest-first. A non-positive limit lists all.
func (s *Store) ListLogs(_ context.Context, limit int) ([]models.ActivityLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.ActivityLog, len(s.logs))
	copy(out, s.logs)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) appendLogLocked(entry *models.ActivityLog) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	if entry.Type == "" {
		entry.Type = models.LogInfo
	}
	s.logs = append(s.logs, *entry)
}

func matches(req *models.Requisition, filter models.RequisitionFilter) bool {
	if filter.Status != "" && req.Status != filter.Status {
		return false
	}
	if filter.ServiceID != "" && req.ServiceID != filter.ServiceID {
		return false
	}
	if filter.RequesterID != "" && req.RequesterID != filter.RequesterID {
		return false
	}
	if filter.Search != "" {
		term := strings.ToLower(filter.Search)
		if !strings.Contains(strings.ToLower(req.RequesterName), term) &&
			!strings.Contains(strings.ToLower(req.ID), term) &&
			!strings.Contains(strings.ToLower(req.Department), term) {
			return false
		}
	}
	return true
}
