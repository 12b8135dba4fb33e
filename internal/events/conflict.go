package events

import "campusevents/internal/schedule"

// FindConflict returns the first event whose window overlaps the candidate
// slot, or nil. The caller decides which statuses are obstacles by choosing
// what it passes in: submission-time checks pass every event at the venue,
// approval-time checks pass only OPEN ones.
func FindConflict(candidate schedule.Slot, existing []Event) *Event {
	for i := range existing {
		if schedule.Overlaps(candidate, existing[i].Slot()) {
			return &existing[i]
		}
	}
	return nil
}
