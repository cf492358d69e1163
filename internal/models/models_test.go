package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to RequisitionStatus
		want     bool
	}{
		{StatusPending, StatusInReview, true},
		{StatusPending, StatusApproved, true},
		{StatusPending, StatusRejected, true},
		{StatusInReview, StatusApproved, true},
		{StatusInReview, StatusRejected, true},
		{StatusInReview, StatusInReview, true},
		{StatusApproved, StatusInReview, false},
		{StatusApproved, StatusRejected, false},
		{StatusRejected, StatusApproved, false},
		{StatusRejected, StatusInReview, false},
		// Pending is only ever entered at creation.
		{StatusInReview, StatusPending, false},
		{StatusPending, StatusPending, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CanTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestTerminal(t *testing.T) {
	assert.True(t, StatusApproved.Terminal())
	assert.True(t, StatusRejected.Terminal())
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusInReview.Terminal())
}

func TestLogTypeForStatus(t *testing.T) {
	assert.Equal(t, LogSuccess, LogTypeForStatus(StatusApproved))
	assert.Equal(t, LogError, LogTypeForStatus(StatusRejected))
	assert.Equal(t, LogWarning, LogTypeForStatus(StatusInReview))
	assert.Equal(t, LogInfo, LogTypeForStatus(StatusPending))
	assert.Equal(t, LogInfo, LogTypeForStatus(RequisitionStatus("whatever")))
}

func TestCatalogLookup(t *testing.T) {
	assert.Len(t, Catalog(), 8)

	category, ok := LookupService(ServiceCanteen)
	require.True(t, ok)
	assert.Equal(t, "Staff Canteen", category.Title)

	_, ok = LookupService(ServiceType("parking"))
	assert.False(t, ok)
	assert.False(t, KnownService(ServiceType("parking")))
}

func TestFormDataRoundTrip(t *testing.T) {
	original := FormData{Canteen: &CanteenForm{
		Tab:        "guest",
		HostID:     "EMP-0042",
		GuestCount: 12,
		MealType:   "lunch",
	}}

	raw, err := original.Value()
	require.NoError(t, err)

	var decoded FormData
	require.NoError(t, decoded.Scan(raw))
	require.NotNil(t, decoded.Canteen)
	assert.Equal(t, original, decoded)
	// Only the active variant survives.
	assert.Nil(t, decoded.Safety)
}

func TestFormDataScanNil(t *testing.T) {
	var decoded FormData
	require.NoError(t, decoded.Scan(nil))
	assert.Equal(t, FormData{}, decoded)
}

func TestAttachmentListRoundTrip(t *testing.T) {
	original := AttachmentList{
		{Name: "floorplan.pdf", Size: 204800, Type: "application/pdf"},
		{Name: "photo.jpg", Size: 51200, Type: "image/jpeg"},
	}

	raw, err := original.Value()
	require.NoError(t, err)

	var decoded AttachmentList
	require.NoError(t, decoded.Scan(raw))
	assert.Equal(t, original, decoded)
}

func TestAttachmentListNilMarshalsToEmptyArray(t *testing.T) {
	var list AttachmentList
	raw, err := list.Value()
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(raw.([]byte)))
}

func TestValidStatus(t *testing.T) {
	assert.True(t, ValidStatus(StatusPending))
	assert.True(t, ValidStatus(StatusInReview))
	assert.False(t, ValidStatus(RequisitionStatus("Archived")))
}
