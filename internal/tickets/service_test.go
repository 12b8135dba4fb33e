package tickets

import (
	"context"
	"errors"
	"testing"

	"campusevents/internal/events"
	"campusevents/internal/shared/apperrors"
	"campusevents/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRepo keeps the admission checks of the real repository in memory so
// service behavior can be exercised without a database.
type fakeRepo struct {
	events  map[uuid.UUID]*events.Event
	tickets map[uuid.UUID]*Ticket
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		events:  make(map[uuid.UUID]*events.Event),
		tickets: make(map[uuid.UUID]*Ticket),
	}
}

func (f *fakeRepo) addEvent(e *events.Event) {
	f.events[e.ID] = e
}

func (f *fakeRepo) bookedCount(eventID uuid.UUID) int {
	count := 0
	for _, t := range f.tickets {
		if t.EventID == eventID && t.Status == StatusBooked {
			count++
		}
	}
	return count
}

func (f *fakeRepo) Register(_ context.Context, ticket *Ticket) error {
	event, ok := f.events[ticket.EventID]
	if !ok {
		return apperrors.NotFoundf("event not found")
	}

	switch event.Status {
	case events.StatusOpen:
	case events.StatusClosed:
		return apperrors.Capacityf("event is full")
	default:
		return apperrors.Validationf("event is not open for registration")
	}

	booked := f.bookedCount(ticket.EventID)
	if booked >= event.TotalSeats {
		event.Status = events.StatusClosed
		return apperrors.Capacityf("event is full")
	}

	for _, t := range f.tickets {
		if t.EventID == ticket.EventID && t.UserID == ticket.UserID && t.Status == StatusBooked {
			return apperrors.Duplicatef("you are already registered for this event")
		}
	}

	if ticket.Seat != nil {
		for _, t := range f.tickets {
			if t.EventID == ticket.EventID && t.Status == StatusBooked && t.Seat != nil && *t.Seat == *ticket.Seat {
				return apperrors.Duplicatef("seat %s is already taken", *ticket.Seat)
			}
		}
	}

	ticket.Event = *event
	f.tickets[ticket.ID] = ticket

	if booked+1 >= event.TotalSeats {
		event.Status = events.StatusClosed
	}
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*Ticket, error) {
	t, ok := f.tickets[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return t, nil
}

func (f *fakeRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]Ticket, error) {
	var list []Ticket
	for _, t := range f.tickets {
		if t.UserID == userID {
			list = append(list, *t)
		}
	}
	return list, nil
}

func (f *fakeRepo) Cancel(_ context.Context, ticketID, userID uuid.UUID) error {
	t, ok := f.tickets[ticketID]
	if !ok || t.UserID != userID {
		return apperrors.NotFoundf("ticket not found")
	}
	if t.Status != StatusBooked {
		return apperrors.Validationf("ticket is already cancelled")
	}
	t.Status = StatusCancelled
	return nil
}

func (f *fakeRepo) UpdateQRCodePath(_ context.Context, ticketID uuid.UUID, path string) error {
	if t, ok := f.tickets[ticketID]; ok {
		t.QRCodePath = path
	}
	return nil
}

func (f *fakeRepo) CountBooked(_ context.Context, eventID uuid.UUID) (int, error) {
	return f.bookedCount(eventID), nil
}

func (f *fakeRepo) BookedSeatLabels(_ context.Context, eventID uuid.UUID) ([]string, error) {
	var labels []string
	for _, t := range f.tickets {
		if t.EventID == eventID && t.Status == StatusBooked && t.Seat != nil {
			labels = append(labels, *t.Seat)
		}
	}
	return labels, nil
}

type fakeQR struct {
	fail  bool
	calls int
}

func (f *fakeQR) Generate(_ string, ticketID uuid.UUID) (string, error) {
	f.calls++
	if f.fail {
		return "", errors.New("encoder unavailable")
	}
	return "/tmp/qr/ticket_" + ticketID.String() + "_qr.png", nil
}

func openEvent(seats int) *events.Event {
	return &events.Event{
		ID:         uuid.New(),
		Title:      "Tech Symposium",
		Venue:      "Auditorium",
		TotalSeats: seats,
		Status:     events.StatusOpen,
	}
}

func registerReq(eventID uuid.UUID, seat *string) RegisterRequest {
	return RegisterRequest{EventID: eventID.String(), Seat: seat}
}

func TestRegisterClosesEventOnLastSeat(t *testing.T) {
	repo := newFakeRepo()
	event := openEvent(1)
	repo.addEvent(event)

	svc := NewService(repo, nil, logger.New())

	first, err := svc.Register(context.Background(), uuid.New(), "a@college.edu", registerReq(event.ID, nil))
	require.NoError(t, err)
	assert.Equal(t, StatusBooked, first.Status)
	assert.Equal(t, events.StatusClosed, event.Status)

	_, err = svc.Register(context.Background(), uuid.New(), "b@college.edu", registerReq(event.ID, nil))
	require.Error(t, err)
	assert.Equal(t, apperrors.KindCapacity, apperrors.KindOf(err))
}

func TestRegisterRejectsDuplicateUser(t *testing.T) {
	repo := newFakeRepo()
	event := openEvent(10)
	repo.addEvent(event)

	svc := NewService(repo, nil, logger.New())
	userID := uuid.New()

	_, err := svc.Register(context.Background(), userID, "a@college.edu", registerReq(event.ID, nil))
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), userID, "a@college.edu", registerReq(event.ID, nil))
	require.Error(t, err)
	assert.Equal(t, apperrors.KindDuplicate, apperrors.KindOf(err))

	// The failed attempt must not consume a seat
	count, _ := repo.CountBooked(context.Background(), event.ID)
	assert.Equal(t, 1, count)
}

func TestRegisterRejectsTakenSeat(t *testing.T) {
	repo := newFakeRepo()
	event := openEvent(10)
	repo.addEvent(event)

	svc := NewService(repo, nil, logger.New())
	seat := "A1"

	_, err := svc.Register(context.Background(), uuid.New(), "a@college.edu", registerReq(event.ID, &seat))
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), uuid.New(), "b@college.edu", registerReq(event.ID, &seat))
	require.Error(t, err)
	assert.Equal(t, apperrors.KindDuplicate, apperrors.KindOf(err))
}

func TestRegisterRejectsPendingEvent(t *testing.T) {
	repo := newFakeRepo()
	event := openEvent(10)
	event.Status = events.StatusPending
	repo.addEvent(event)

	svc := NewService(repo, nil, logger.New())

	_, err := svc.Register(context.Background(), uuid.New(), "a@college.edu", registerReq(event.ID, nil))
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestRegisterSurvivesQRFailure(t *testing.T) {
	repo := newFakeRepo()
	event := openEvent(10)
	repo.addEvent(event)

	qr := &fakeQR{fail: true}
	svc := NewService(repo, qr, logger.New())

	resp, err := svc.Register(context.Background(), uuid.New(), "a@college.edu", registerReq(event.ID, nil))
	require.NoError(t, err)
	assert.Equal(t, 1, qr.calls)
	assert.Empty(t, resp.QRCodePath)
}

func TestRegisterStoresQRPath(t *testing.T) {
	repo := newFakeRepo()
	event := openEvent(10)
	repo.addEvent(event)

	svc := NewService(repo, &fakeQR{}, logger.New())

	resp, err := svc.Register(context.Background(), uuid.New(), "a@college.edu", registerReq(event.ID, nil))
	require.NoError(t, err)
	assert.Contains(t, resp.QRCodePath, "_qr.png")
}

func TestCancelLeavesFullEventClosed(t *testing.T) {
	repo := newFakeRepo()
	event := openEvent(1)
	repo.addEvent(event)

	svc := NewService(repo, nil, logger.New())
	userID := uuid.New()

	resp, err := svc.Register(context.Background(), userID, "a@college.edu", registerReq(event.ID, nil))
	require.NoError(t, err)
	require.Equal(t, events.StatusClosed, event.Status)

	ticketID, err := uuid.Parse(resp.ID)
	require.NoError(t, err)

	// Cancellation frees the seat but the event does not reopen on its own
	require.NoError(t, svc.CancelTicket(context.Background(), ticketID, userID))
	assert.Equal(t, events.StatusClosed, event.Status)

	_, err = svc.Register(context.Background(), uuid.New(), "b@college.edu", registerReq(event.ID, nil))
	require.Error(t, err)
	assert.Equal(t, apperrors.KindCapacity, apperrors.KindOf(err))
}

func TestBuildQRPayload(t *testing.T) {
	eventID := uuid.New()
	ticketID := uuid.New()

	payload := BuildQRPayload(eventID, ticketID, "a@college.edu")
	assert.Equal(t, "Event:"+eventID.String()+"|Ticket:"+ticketID.String()+"|User:a@college.edu", payload)
}
