package forms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aci-platform/requisition-api/internal/models"
)

func TestValidateSafetyCollectsAllRequiredErrors(t *testing.T) {
	_, errs := Validate(models.ServiceSafety, Values{})
	require.Len(t, errs, 3)
	assert.Equal(t, "Location is required", errs["location"])
	assert.Equal(t, "Please select a guard type", errs["guardType"])
	assert.Equal(t, "Duration is required", errs["duration"])
}

func TestValidateSafetyPasses(t *testing.T) {
	clean, errs := Validate(models.ServiceSafety, Values{
		"location":  "  Building A ",
		"guardType": "armed",
		"duration":  "8 hours",
	})
	require.Empty(t, errs)
	assert.Equal(t, "Building A", clean.Get("location"))
	assert.Equal(t, "armed", clean.Get("guardType"))
}

func TestValidateWhitespaceOnlyIsMissing(t *testing.T) {
	_, errs := Validate(models.ServiceSafety, Values{
		"location":  "   ",
		"guardType": "armed",
		"duration":  "8 hours",
	})
	require.Len(t, errs, 1)
	assert.Equal(t, "Location is required", errs["location"])
}

func TestValidateEventsNumericRules(t *testing.T) {
	base := Values{
		"eventName": "Town Hall",
		"eventDate": "2026-09-15",
		"venueReqs": "Projector",
	}

	base["attendees"] = "abc"
	_, errs := Validate(models.ServiceEvents, base)
	assert.Equal(t, "Must be a number", errs["attendees"])

	base["attendees"] = "0"
	_, errs = Validate(models.ServiceEvents, base)
	assert.Equal(t, "At least 1 attendee required", errs["attendees"])

	base["attendees"] = ""
	_, errs = Validate(models.ServiceEvents, base)
	assert.Equal(t, "Number of attendees is required", errs["attendees"])

	base["attendees"] = "120"
	clean, errs := Validate(models.ServiceEvents, base)
	require.Empty(t, errs)
	assert.Equal(t, 120, clean.Numbers["attendees"])
}

func TestValidateEventsNumericFromJSONNumber(t *testing.T) {
	// JSON decoding yields float64 for numbers.
	clean, errs := Validate(models.ServiceEvents, Values{
		"eventName": "Town Hall",
		"eventDate": "2026-09-15",
		"venueReqs": "Projector",
		"attendees": float64(45),
	})
	require.Empty(t, errs)
	assert.Equal(t, 45, clean.Numbers["attendees"])
}

func TestValidateCanteenNewEmployeeBranch(t *testing.T) {
	_, errs := Validate(models.ServiceCanteen, Values{"canteenTab": "new_emp"})
	require.Len(t, errs, 3)
	assert.Equal(t, "Staff ID is required", errs["staffId"])
	assert.Equal(t, "Employee Name is required", errs["empName"])
	assert.Equal(t, "Please select a dietary preference", errs["dietaryPref"])
	// Nothing from the guest branch leaks in.
	assert.NotContains(t, errs, "hostId")
	assert.NotContains(t, errs, "guestCount")
	assert.NotContains(t, errs, "mealType")
}

func TestValidateCanteenGuestBranch(t *testing.T) {
	_, errs := Validate(models.ServiceCanteen, Values{"canteenTab": "guest"})
	require.Len(t, errs, 3)
	assert.Equal(t, "Host ID is required", errs["hostId"])
	assert.Equal(t, "Guest count is required", errs["guestCount"])
	assert.Equal(t, "Please select a meal type", errs["mealType"])
	assert.NotContains(t, errs, "staffId")
	assert.NotContains(t, errs, "empName")
	assert.NotContains(t, errs, "dietaryPref")
}

func TestValidateCanteenGuestBranchDropsStaleStaffFields(t *testing.T) {
	// Values from the inactive branch are ignored, not validated or kept.
	clean, errs := Validate(models.ServiceCanteen, Values{
		"canteenTab": "guest",
		"hostId":     "EMP-0042",
		"guestCount": "4",
		"mealType":   "lunch",
		"staffId":    "EMP-9999",
		"empName":    "Stale Entry",
	})
	require.Empty(t, errs)
	assert.Equal(t, "", clean.Get("staffId"))
	assert.Equal(t, "", clean.Get("empName"))
	assert.Equal(t, 4, clean.Numbers["guestCount"])
}

func TestValidateCanteenGuestCountMinimum(t *testing.T) {
	_, errs := Validate(models.ServiceCanteen, Values{
		"canteenTab": "guest",
		"hostId":     "EMP-0042",
		"guestCount": "0",
		"mealType":   "lunch",
	})
	require.Len(t, errs, 1)
	assert.Equal(t, "At least 1 guest required", errs["guestCount"])
}

func TestValidateCanteenMissingTab(t *testing.T) {
	_, errs := Validate(models.ServiceCanteen, Values{})
	require.Len(t, errs, 1)
	assert.Equal(t, "canteenTab is required", errs["canteenTab"])
}

func TestValidateHousekeepingList(t *testing.T) {
	_, errs := Validate(models.ServiceHousekeeping, Values{"location": "Floor 2"})
	require.Len(t, errs, 1)
	assert.Equal(t, "Select at least one service", errs["housekeepingServices"])

	clean, errs := Validate(models.ServiceHousekeeping, Values{
		"location":             "Floor 2",
		"housekeepingServices": []interface{}{"cleaning", "pantry"},
	})
	require.Empty(t, errs)
	assert.Equal(t, []string{"cleaning", "pantry"}, clean.Lists["housekeepingServices"])
}

func TestValidateOptionalFieldsMayBeEmpty(t *testing.T) {
	clean, errs := Validate(models.ServiceKeyServices, Values{
		"keyServiceType": "courier",
		"receiverName":   "Priya Nair",
		"destination":    "Annex Building",
	})
	require.Empty(t, errs)
	assert.Equal(t, "", clean.Get("instructions"))
}

func TestValidateUnknownServicePassesTrivially(t *testing.T) {
	clean, errs := Validate(models.ServiceType("parking"), Values{"anything": "goes"})
	assert.Empty(t, errs)
	assert.Empty(t, clean.Fields)
}
