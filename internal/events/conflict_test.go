package events

import (
	"testing"
	"time"

	"campusevents/internal/schedule"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()
	d, err := time.Parse(schedule.DateLayout, value)
	require.NoError(t, err)
	return d
}

func TestFindConflict(t *testing.T) {
	date := mustDate(t, "2025-05-01")

	existing := []Event{
		{Title: "Robotics Workshop", EventDate: date, StartTime: "09:00", EndTime: "10:00", Venue: "Auditorium"},
		{Title: "Tech Talk", EventDate: date, StartTime: "10:00", EndTime: "12:00", Venue: "Auditorium"},
	}

	t.Run("back to back slot admitted", func(t *testing.T) {
		candidate := schedule.Slot{Date: date, Start: "12:00", End: "14:00"}
		assert.Nil(t, FindConflict(candidate, existing))
	})

	t.Run("overlapping slot names the blocking event", func(t *testing.T) {
		candidate := schedule.Slot{Date: date, Start: "11:00", End: "13:00"}
		conflict := FindConflict(candidate, existing)
		require.NotNil(t, conflict)
		assert.Equal(t, "Tech Talk", conflict.Title)
	})

	t.Run("other dates are never obstacles", func(t *testing.T) {
		candidate := schedule.Slot{Date: mustDate(t, "2025-05-02"), Start: "10:00", End: "12:00"}
		assert.Nil(t, FindConflict(candidate, existing))
	})

	t.Run("no events no conflict", func(t *testing.T) {
		candidate := schedule.Slot{Date: date, Start: "10:00", End: "12:00"}
		assert.Nil(t, FindConflict(candidate, nil))
	})
}
