package bookings

import (
	"context"
	"fmt"
	"testing"
	"time"

	"campusevents/internal/events"
	"campusevents/internal/schedule"
	"campusevents/internal/shared/apperrors"
	"campusevents/internal/shared/config"
	"campusevents/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRepo mirrors the transactional semantics of the real repository in
// memory: submission and promotion are all-or-nothing.
type fakeRepo struct {
	bookings map[uuid.UUID]*AuditoriumBooking
	events   map[uuid.UUID]*events.Event
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		bookings: make(map[uuid.UUID]*AuditoriumBooking),
		events:   make(map[uuid.UUID]*events.Event),
	}
}

func (f *fakeRepo) eventsAt(venue string, date time.Time, openOnly bool) []events.Event {
	var out []events.Event
	for _, ev := range f.events {
		if ev.Venue != venue || !ev.EventDate.Equal(date) {
			continue
		}
		if openOnly && ev.Status != events.StatusOpen {
			continue
		}
		out = append(out, *ev)
	}
	return out
}

func (f *fakeRepo) SubmitWithConflictCheck(_ context.Context, booking *AuditoriumBooking, venue, requesterName string, capacity int) error {
	existing := f.eventsAt(venue, booking.EventDate, false)
	if blocking := events.FindConflict(booking.Slot(), existing); blocking != nil {
		return apperrors.Conflictf("the auditorium is already booked during %s - %s",
			blocking.StartTime, blocking.EndTime)
	}

	shadow := &events.Event{
		ID:          uuid.New(),
		Title:       booking.Purpose,
		Description: fmt.Sprintf("Requested auditorium event by %s", requesterName),
		Department:  booking.Department,
		EventDate:   booking.EventDate,
		StartTime:   booking.StartTime,
		EndTime:     booking.EndTime,
		Venue:       venue,
		TotalSeats:  capacity,
		Status:      events.StatusPending,
		CreatedBy:   booking.RequestedBy,
	}
	f.events[shadow.ID] = shadow

	booking.ID = uuid.New()
	booking.LinkedEventID = &shadow.ID
	booking.Status = StatusPending
	f.bookings[booking.ID] = booking
	return nil
}

func (f *fakeRepo) Promote(_ context.Context, bookingID, reviewerID uuid.UUID, remarks, venue string, capacity int) (*AuditoriumBooking, *events.Event, error) {
	booking, ok := f.bookings[bookingID]
	if !ok {
		return nil, nil, apperrors.NotFoundf("booking not found")
	}

	open := f.eventsAt(venue, booking.EventDate, true)
	obstacles := make([]events.Event, 0, len(open))
	for _, ev := range open {
		if booking.LinkedEventID != nil && ev.ID == *booking.LinkedEventID {
			continue
		}
		obstacles = append(obstacles, ev)
	}

	if events.FindConflict(booking.Slot(), obstacles) != nil {
		booking.Status = StatusRejected
		booking.Remarks = forcedRejectRemarks
		booking.ReviewedBy = &reviewerID
		return booking, nil, ErrPromotionConflict
	}

	var shadow *events.Event
	if booking.LinkedEventID != nil {
		shadow = f.events[*booking.LinkedEventID]
	}
	if shadow == nil {
		shadow = &events.Event{
			ID:        uuid.New(),
			Title:     booking.Purpose,
			EventDate: booking.EventDate,
			StartTime: booking.StartTime,
			EndTime:   booking.EndTime,
			Venue:     venue,
			CreatedBy: booking.RequestedBy,
		}
		f.events[shadow.ID] = shadow
	}
	shadow.Status = events.StatusOpen
	shadow.TotalSeats = capacity

	booking.Status = StatusApproved
	booking.Remarks = remarks
	booking.ReviewedBy = &reviewerID
	booking.LinkedEventID = &shadow.ID
	return booking, shadow, nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, bookingID, reviewerID uuid.UUID, status Status, remarks string) (*AuditoriumBooking, error) {
	booking, ok := f.bookings[bookingID]
	if !ok {
		return nil, apperrors.NotFoundf("booking not found")
	}
	booking.Status = status
	booking.Remarks = remarks
	booking.ReviewedBy = &reviewerID
	if status != StatusApproved && booking.LinkedEventID != nil {
		if ev, ok := f.events[*booking.LinkedEventID]; ok && ev.Status == events.StatusOpen {
			ev.Status = events.StatusPending
		}
	}
	return booking, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*AuditoriumBooking, error) {
	if b, ok := f.bookings[id]; ok {
		return b, nil
	}
	return nil, apperrors.NotFoundf("booking not found")
}

func (f *fakeRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]AuditoriumBooking, error) {
	var out []AuditoriumBooking
	for _, b := range f.bookings {
		if b.RequestedBy == userID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListAll(_ context.Context) ([]AuditoriumBooking, error) {
	var out []AuditoriumBooking
	for _, b := range f.bookings {
		out = append(out, *b)
	}
	return out, nil
}

func (f *fakeRepo) ListByDepartment(_ context.Context, department string) ([]AuditoriumBooking, error) {
	var out []AuditoriumBooking
	for _, b := range f.bookings {
		if b.Department == department {
			out = append(out, *b)
		}
	}
	return out, nil
}

var testAuditorium = config.AuditoriumConfig{Venue: "Auditorium", Capacity: 500}

func futureDate(t *testing.T) string {
	t.Helper()
	return time.Now().AddDate(0, 1, 0).Format(schedule.DateLayout)
}

func submitReq(t *testing.T, start, end string, audience int) SubmitBookingRequest {
	t.Helper()
	return SubmitBookingRequest{
		Purpose:          "Annual Tech Fest",
		Department:       "CSE",
		EventDate:        futureDate(t),
		StartTime:        start,
		EndTime:          end,
		ExpectedAudience: audience,
	}
}

func TestSubmitCreatesPendingShadowEvent(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, testAuditorium, logger.New())

	resp, err := svc.Submit(context.Background(), uuid.New(), "org@college.edu", submitReq(t, "10:00", "12:00", 200))
	require.NoError(t, err)

	assert.Equal(t, StatusPending, resp.Status)
	require.NotNil(t, resp.LinkedEventID)

	shadowID, err := uuid.Parse(*resp.LinkedEventID)
	require.NoError(t, err)

	shadow := repo.events[shadowID]
	require.NotNil(t, shadow)
	assert.Equal(t, events.StatusPending, shadow.Status)
	assert.Equal(t, testAuditorium.Capacity, shadow.TotalSeats)
	assert.Equal(t, "Annual Tech Fest", shadow.Title)
}

func TestSubmitConflictLeavesNoState(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, testAuditorium, logger.New())

	_, err := svc.Submit(context.Background(), uuid.New(), "a@college.edu", submitReq(t, "10:00", "12:00", 100))
	require.NoError(t, err)

	before := len(repo.events)

	_, err = svc.Submit(context.Background(), uuid.New(), "b@college.edu", submitReq(t, "11:00", "13:00", 100))
	require.Error(t, err)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))

	// The rejected submission must not leave a booking or an event behind
	assert.Len(t, repo.bookings, 1)
	assert.Len(t, repo.events, before)
}

func TestSubmitBackToBackSlotAdmitted(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, testAuditorium, logger.New())

	_, err := svc.Submit(context.Background(), uuid.New(), "a@college.edu", submitReq(t, "10:00", "12:00", 100))
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), uuid.New(), "b@college.edu", submitReq(t, "12:00", "14:00", 100))
	assert.NoError(t, err)
}

func TestSubmitValidatesAudience(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, testAuditorium, logger.New())

	_, err := svc.Submit(context.Background(), uuid.New(), "a@college.edu", submitReq(t, "10:00", "12:00", 0))
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	_, err = svc.Submit(context.Background(), uuid.New(), "a@college.edu", submitReq(t, "10:00", "12:00", 501))
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	assert.Empty(t, repo.bookings)
}

func TestApproveOpensShadowEvent(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, testAuditorium, logger.New())

	resp, err := svc.Submit(context.Background(), uuid.New(), "a@college.edu", submitReq(t, "10:00", "12:00", 100))
	require.NoError(t, err)

	bookingID, _ := uuid.Parse(resp.ID)
	reviewer := uuid.New()

	updated, err := svc.UpdateStatus(context.Background(), bookingID, reviewer, UpdateStatusRequest{
		Status:  StatusApproved,
		Remarks: "Approved for tech fest",
	})
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, updated.Status)

	shadowID, _ := uuid.Parse(*updated.LinkedEventID)
	shadow := repo.events[shadowID]
	assert.Equal(t, events.StatusOpen, shadow.Status)
	assert.Equal(t, testAuditorium.Capacity, shadow.TotalSeats)
}

func TestApproveConflictForcesRejection(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, testAuditorium, logger.New())

	date, _ := schedule.ParseDate(futureDate(t))

	// An already-open event occupies part of the requested slot
	occupied := &events.Event{
		ID:         uuid.New(),
		Title:      "Convocation",
		EventDate:  date,
		StartTime:  "11:00",
		EndTime:    "13:00",
		Venue:      "Auditorium",
		TotalSeats: 500,
		Status:     events.StatusOpen,
	}

	resp, err := svc.Submit(context.Background(), uuid.New(), "a@college.edu", submitReq(t, "10:00", "12:00", 100))
	require.NoError(t, err)

	// The open event appears after submission, before review
	repo.events[occupied.ID] = occupied

	bookingID, _ := uuid.Parse(resp.ID)
	updated, err := svc.UpdateStatus(context.Background(), bookingID, uuid.New(), UpdateStatusRequest{
		Status: StatusApproved,
	})
	require.ErrorIs(t, err, ErrPromotionConflict)
	require.NotNil(t, updated)
	assert.Equal(t, StatusRejected, updated.Status)
	assert.Equal(t, forcedRejectRemarks, updated.Remarks)
}

func TestReapprovalIsIdempotent(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, testAuditorium, logger.New())

	resp, err := svc.Submit(context.Background(), uuid.New(), "a@college.edu", submitReq(t, "10:00", "12:00", 100))
	require.NoError(t, err)

	bookingID, _ := uuid.Parse(resp.ID)
	reviewer := uuid.New()
	req := UpdateStatusRequest{Status: StatusApproved}

	_, err = svc.UpdateStatus(context.Background(), bookingID, reviewer, req)
	require.NoError(t, err)

	// The booking's own open event must not block its second approval
	updated, err := svc.UpdateStatus(context.Background(), bookingID, reviewer, req)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, updated.Status)
}

func TestDemotionReturnsEventToPending(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, testAuditorium, logger.New())

	resp, err := svc.Submit(context.Background(), uuid.New(), "a@college.edu", submitReq(t, "10:00", "12:00", 100))
	require.NoError(t, err)

	bookingID, _ := uuid.Parse(resp.ID)
	reviewer := uuid.New()

	_, err = svc.UpdateStatus(context.Background(), bookingID, reviewer, UpdateStatusRequest{Status: StatusApproved})
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(context.Background(), bookingID, reviewer, UpdateStatusRequest{
		Status:  StatusPending,
		Remarks: "Needs another look",
	})
	require.NoError(t, err)
	assert.Equal(t, StatusPending, updated.Status)

	shadowID, _ := uuid.Parse(*updated.LinkedEventID)
	assert.Equal(t, events.StatusPending, repo.events[shadowID].Status)
}
