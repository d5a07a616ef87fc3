package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventPatch_Columns(t *testing.T) {
	assert.Empty(t, EventPatch{}.Columns())

	patch := EventPatch{
		Name:       Some("Picnic"),
		StartTime:  Some("08:30"),
		CategoryID: Some(int64(3)),
	}
	assert.Equal(t, map[string]any{
		"name":        "Picnic",
		"start_time":  "08:30",
		"category_id": int64(3),
	}, patch.Columns())
}

func TestEventPatch_EmptyStringIsPresent(t *testing.T) {
	patch := EventPatch{Description: Some("")}
	assert.Equal(t, map[string]any{"description": ""}, patch.Columns())
}

func TestEvent_StartsAtEndsAt(t *testing.T) {
	loc, err := time.LoadLocation("America/Bogota")
	require.NoError(t, err)

	ev := Event{StartDate: "2025-06-01", StartTime: "10:00", EndDate: "2025-06-01", EndTime: "12:00"}

	start, err := ev.StartsAt(loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 1, 10, 0, 0, 0, loc), start)

	end, err := ev.EndsAt(loc)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour, end.Sub(start))
}

func TestEvent_StartsAtRejectsUnpadded(t *testing.T) {
	ev := Event{StartDate: "2025-6-1", StartTime: "9:00"}
	_, err := ev.StartsAt(time.UTC)
	assert.Error(t, err)
}

func TestProfilePatch_Empty(t *testing.T) {
	assert.True(t, ProfilePatch{}.Empty())
	desc := "x"
	assert.False(t, ProfilePatch{Description: &desc}.Empty())
}

func TestValidDateClock(t *testing.T) {
	assert.True(t, ValidDate("2025-01-31"))
	assert.False(t, ValidDate("2025-1-31"))
	assert.False(t, ValidDate("2025-02-30"))
	assert.False(t, ValidDate(""))

	assert.True(t, ValidClock("09:00"))
	assert.True(t, ValidClock("23:59"))
	assert.False(t, ValidClock("9:00"))
	assert.False(t, ValidClock("24:00"))
	assert.False(t, ValidClock("09:00:00"))
}
