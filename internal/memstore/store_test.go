package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aci-platform/requisition-api/internal/models"
	appErrors "github.com/aci-platform/requisition-api/pkg/errors"
)

func sampleRequisition(id string, service models.ServiceType, status models.RequisitionStatus) *models.Requisition {
	return &models.Requisition{
		ID:            id,
		ServiceID:     service,
		RequesterName: "Alex Sterling",
		RequesterID:   "EMP-0042",
		Department:    "Product Engineering",
		Date:          "2026-08-20",
		Status:        status,
		Summary:       "Service Request",
	}
}

func TestInsertAndGet(t *testing.T) {
	store := New()
	ctx := context.Background()

	req := sampleRequisition("REQ-11111", models.ServiceSafety, models.StatusPending)
	entry := &models.ActivityLog{Action: "Submitted new requisition REQ-11111", User: "Alex Sterling"}

	require.NoError(t, store.Insert(ctx, req, entry))

	got, err := store.GetByID(ctx, "REQ-11111")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, got.Status)
	assert.False(t, got.CreatedAt.IsZero())

	logs, err := store.ListLogs(ctx, 0)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, models.LogInfo, logs[0].Type)
	assert.NotEmpty(t, logs[0].ID)
}

func TestInsertDuplicateID(t *testing.T) {
	store := New()
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, sampleRequisition("REQ-11111", models.ServiceSafety, models.StatusPending), nil))
	err := store.Insert(ctx, sampleRequisition("REQ-11111", models.ServiceEvents, models.StatusPending), nil)
	assert.Error(t, err)
}

func TestGetByIDNotFound(t *testing.T) {
	store := New()

	_, err := store.GetByID(context.Background(), "REQ-99999")
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestTransitionRecordsLogAtomically(t *testing.T) {
	store := New()
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, sampleRequisition("REQ-22222", models.ServiceCanteen, models.StatusPending), nil))

	comment := "Looks good."
	entry := &models.ActivityLog{
		Action: `Approved request REQ-22222 with comment: "Looks good."`,
		User:   "System Administrator",
		Type:   models.LogSuccess,
	}
	updated, err := store.Transition(ctx, "REQ-22222", models.StatusApproved, &comment, entry)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, updated.Status)
	require.NotNil(t, updated.Comments)
	assert.Equal(t, "Looks good.", *updated.Comments)

	logs, err := store.ListLogs(ctx, 0)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, models.LogSuccess, logs[0].Type)
}

func TestTransitionTerminalStateRejected(t *testing.T) {
	store := New()
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, sampleRequisition("REQ-33333", models.ServiceTransport, models.StatusPending), nil))

	_, err := store.Transition(ctx, "REQ-33333", models.StatusRejected, nil, nil)
	require.NoError(t, err)

	_, err = store.Transition(ctx, "REQ-33333", models.StatusInReview, nil, &models.ActivityLog{Action: "In Review request REQ-33333"})
	assert.True(t, appErrors.Is(err, appErrors.ErrInvalidTransition))

	// The rejected guard must also keep the log untouched.
	logs, logErr := store.ListLogs(ctx, 0)
	require.NoError(t, logErr)
	assert.Empty(t, logs)
}

func TestTransitionNotFound(t *testing.T) {
	store := New()

	_, err := store.Transition(context.Background(), "REQ-00000", models.StatusApproved, nil, nil)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestListFilters(t *testing.T) {
	store := New()
	ctx := context.Background()

	a := sampleRequisition("REQ-40001", models.ServiceSafety, models.StatusPending)
	b := sampleRequisition("REQ-40002", models.ServiceCanteen, models.StatusApproved)
	b.RequesterName = "Priya Nair"
	b.RequesterID = "EMP-0117"
	b.Department = "People Operations"
	c := sampleRequisition("REQ-40003", models.ServiceSafety, models.StatusApproved)
	for _, req := range []*models.Requisition{a, b, c} {
		require.NoError(t, store.Insert(ctx, req, nil))
	}

	byStatus, err := store.List(ctx, models.RequisitionFilter{Status: models.StatusApproved})
	require.NoError(t, err)
	assert.Len(t, byStatus, 2)

	byService, err := store.List(ctx, models.RequisitionFilter{ServiceID: models.ServiceSafety})
	require.NoError(t, err)
	assert.Len(t, byService, 2)

	combined, err := store.List(ctx, models.RequisitionFilter{Status: models.StatusApproved, ServiceID: models.ServiceSafety})
	require.NoError(t, err)
	require.Len(t, combined, 1)
	assert.Equal(t, "REQ-40003", combined[0].ID)
}

func TestListSearchMatchesNameIDAndDepartment(t *testing.T) {
	store := New()
	ctx := context.Background()

	a := sampleRequisition("REQ-50001", models.ServiceEvents, models.StatusPending)
	b := sampleRequisition("REQ-50002", models.ServiceEvents, models.StatusPending)
	b.RequesterName = "Priya Nair"
	b.RequesterID = "EMP-0117"
	b.Department = "People Operations"
	require.NoError(t, store.Insert(ctx, a, nil))
	require.NoError(t, store.Insert(ctx, b, nil))

	byName, err := store.List(ctx, models.RequisitionFilter{Search: "priya"})
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "REQ-50002", byName[0].ID)

	byID, err := store.List(ctx, models.RequisitionFilter{Search: "emp-0042"})
	require.NoError(t, err)
	require.Len(t, byID, 1)
	assert.Equal(t, "REQ-50001", byID[0].ID)

	byDept, err := store.List(ctx, models.RequisitionFilter{Search: "operations"})
	require.NoError(t, err)
	require.Len(t, byDept, 1)
	assert.Equal(t, "REQ-50002", byDept[0].ID)

	none, err := store.List(ctx, models.RequisitionFilter{Search: "nobody"})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestListOrdersNewestFirst(t *testing.T) {
	store := New()
	ctx := context.Background()

	older := sampleRequisition("REQ-60001", models.ServiceSafety, models.StatusPending)
	older.Date = "2026-08-10"
	newer := sampleRequisition("REQ-60002", models.ServiceSafety, models.StatusPending)
	newer.Date = "2026-08-19"
	require.NoError(t, store.Insert(ctx, older, nil))
	require.NoError(t, store.Insert(ctx, newer, nil))

	out, err := store.List(ctx, models.RequisitionFilter{})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "REQ-60002", out[0].ID)
	assert.Equal(t, "REQ-60001", out[1].ID)
}

func TestStatusCounts(t *testing.T) {
	store := New()
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, sampleRequisition("REQ-70001", models.ServiceSafety, models.StatusPending), nil))
	require.NoError(t, store.Insert(ctx, sampleRequisition("REQ-70002", models.ServiceCanteen, models.StatusPending), nil))
	require.NoError(t, store.Insert(ctx, sampleRequisition("REQ-70003", models.ServiceEvents, models.StatusApproved), nil))

	counts, err := store.StatusCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, counts.Pending)
	assert.Equal(t, 1, counts.Approved)
	assert.Equal(t, 0, counts.Rejected)
	assert.Equal(t, 3, counts.Total)
}

func TestAggregateByService(t *testing.T) {
	store := New()
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, sampleRequisition("REQ-80001", models.ServiceSafety, models.StatusPending), nil))
	require.NoError(t, store.Insert(ctx, sampleRequisition("REQ-80002", models.ServiceSafety, models.StatusPending), nil))
	require.NoError(t, store.Insert(ctx, sampleRequisition("REQ-80003", models.ServiceCanteen, models.StatusApproved), nil))

	buckets, err := store.AggregateByService(ctx)
	require.NoError(t, err)
	require.Len(t, buckets, 2)
	assert.Contains(t, buckets, models.ServiceStatusCount{ServiceID: models.ServiceSafety, Status: models.StatusPending, Count: 2})
	assert.Contains(t, buckets, models.ServiceStatusCount{ServiceID: models.ServiceCanteen, Status: models.StatusApproved, Count: 1})
}

func TestCountDistinctRequesters(t *testing.T) {
	store := New()
	ctx := context.Background()

	a := sampleRequisition("REQ-90001", models.ServiceSafety, models.StatusPending)
	b := sampleRequisition("REQ-90002", models.ServiceEvents, models.StatusPending)
	c := sampleRequisition("REQ-90003", models.ServiceCanteen, models.StatusPending)
	c.RequesterID = "EMP-0117"
	for _, req := range []*models.Requisition{a, b, c} {
		require.NoError(t, store.Insert(ctx, req, nil))
	}

	n, err := store.CountDistinctRequesters(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestListLogsNewestFirstWithLimit(t *testing.T) {
	store := New()
	ctx := context.Background()

	base := time.Now().UTC()
	for i := 0; i < 3; i++ {
		require.NoError(t, store.InsertLog(ctx, &models.ActivityLog{
			Action:    "Submitted new requisition",
			User:      "Alex Sterling",
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	logs, err := store.ListLogs(ctx, 2)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.True(t, logs[0].Timestamp.After(logs[1].Timestamp))
}

func TestSeededStore(t *testing.T) {
	store := NewSeeded()
	ctx := context.Background()

	out, err := store.List(ctx, models.RequisitionFilter{})
	require.NoError(t, err)
	assert.NotEmpty(t, out)

	counts, err := store.StatusCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(out), counts.Total)

	logs, err := store.ListLogs(ctx, 0)
	require.NoError(t, err)
	assert.NotEmpty(t, logs)
}
