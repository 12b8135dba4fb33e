// Package schedule holds the single time-overlap predicate shared by event
// creation, booking submission and booking approval. Every admission path
// must go through Overlaps; venue conflict rules diverge the moment two
// call sites grow their own copy of this check.
package schedule

import (
	"time"

	"campusevents/internal/shared/apperrors"
)

const (
	// DateLayout is the wire format for event dates
	DateLayout = "2006-01-02"
	// TimeLayout is the wire format for start/end times
	TimeLayout = "15:04"
)

// Slot is a half-open [start, end) time window on a calendar date.
type Slot struct {
	Date  time.Time
	Start string // "15:04"
	End   string // "15:04"
}

// Validate checks that both times parse and the window is non-empty.
func (s Slot) Validate() error {
	start, ok := minutesOfDay(s.Start)
	if !ok {
		return apperrors.Validationf("invalid start time %q, expected HH:MM", s.Start)
	}
	end, ok := minutesOfDay(s.End)
	if !ok {
		return apperrors.Validationf("invalid end time %q, expected HH:MM", s.End)
	}
	if end <= start {
		return apperrors.Validationf("end time %s must be after start time %s", s.End, s.Start)
	}
	return nil
}

// Overlaps reports whether two slots conflict. Slots on different dates
// never conflict; on the same date they conflict iff the half-open windows
// intersect, so touching endpoints (end == start) do not conflict.
// A same-day slot with an unparseable time counts as a conflict: a stored
// row that cannot be read cannot be proven free, and dropping it would let
// admissions double-book over it.
func Overlaps(a, b Slot) bool {
	if !sameDate(a.Date, b.Date) {
		return false
	}
	aStart, okAS := minutesOfDay(a.Start)
	aEnd, okAE := minutesOfDay(a.End)
	bStart, okBS := minutesOfDay(b.Start)
	bEnd, okBE := minutesOfDay(b.End)
	if !okAS || !okAE || !okBS || !okBE {
		return true
	}
	return !(aEnd <= bStart || aStart >= bEnd)
}

// ParseDate parses a wire-format date
func ParseDate(value string) (time.Time, error) {
	date, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, apperrors.Validationf("invalid date %q, expected YYYY-MM-DD", value)
	}
	return date, nil
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func minutesOfDay(value string) (int, bool) {
	t, err := time.Parse(TimeLayout, value)
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}
