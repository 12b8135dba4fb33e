package bookings

import (
	"context"
	"errors"
	"time"

	"campusevents/internal/schedule"
	"campusevents/internal/shared/apperrors"
	"campusevents/internal/shared/config"
	"campusevents/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notifier delivers decision notifications to requesters. Declared locally
// so the service can be tested without the messaging stack.
type Notifier interface {
	NotifyBookingDecision(ctx context.Context, recipient, purpose string, status, remarks string)
}

// AccountDirectory resolves a requester's address for notifications
type AccountDirectory interface {
	EmailFor(ctx context.Context, userID uuid.UUID) (string, error)
}

type Service interface {
	SetNotifier(notifier Notifier)
	SetAccountDirectory(directory AccountDirectory)

	Submit(ctx context.Context, userID uuid.UUID, userEmail string, req SubmitBookingRequest) (*BookingResponse, error)
	UpdateStatus(ctx context.Context, bookingID, reviewerID uuid.UUID, req UpdateStatusRequest) (*BookingResponse, error)
	GetBooking(ctx context.Context, id, userID uuid.UUID, isPrivileged bool) (*BookingResponse, error)
	MyBookings(ctx context.Context, userID uuid.UUID) ([]BookingResponse, error)
	ListBookings(ctx context.Context, department string) ([]BookingResponse, error)
}

type service struct {
	repo       Repository
	auditorium config.AuditoriumConfig
	notifier   Notifier
	directory  AccountDirectory
	log        *logger.Logger
}

// NewService wires the booking service; auditorium carries the venue name
// and seat capacity every approved booking opens with.
func NewService(repo Repository, auditorium config.AuditoriumConfig, log *logger.Logger) Service {
	return &service{
		repo:       repo,
		auditorium: auditorium,
		log:        log,
	}
}

func (s *service) SetNotifier(notifier Notifier) {
	s.notifier = notifier
}

func (s *service) SetAccountDirectory(directory AccountDirectory) {
	s.directory = directory
}

func (s *service) Submit(ctx context.Context, userID uuid.UUID, userEmail string, req SubmitBookingRequest) (*BookingResponse, error) {
	if req.ExpectedAudience <= 0 {
		return nil, apperrors.Validationf("expected audience must be greater than zero")
	}
	if req.ExpectedAudience > s.auditorium.Capacity {
		return nil, apperrors.Validationf("expected audience exceeds the auditorium capacity of %d", s.auditorium.Capacity)
	}

	eventDate, err := schedule.ParseDate(req.EventDate)
	if err != nil {
		return nil, err
	}

	slot := schedule.Slot{Date: eventDate, Start: req.StartTime, End: req.EndTime}
	if err := slot.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	if eventDate.Before(time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())) {
		return nil, apperrors.Validationf("event date must not be in the past")
	}

	booking := &AuditoriumBooking{
		Purpose:          req.Purpose,
		Department:       req.Department,
		EventDate:        eventDate,
		StartTime:        req.StartTime,
		EndTime:          req.EndTime,
		ExpectedAudience: req.ExpectedAudience,
		RequestedBy:      userID,
	}

	if err := s.repo.SubmitWithConflictCheck(ctx, booking, s.auditorium.Venue, userEmail, s.auditorium.Capacity); err != nil {
		return nil, err
	}

	s.log.LogBookingSubmitted(ctx, booking.ID.String(), userID.String())

	resp := booking.ToResponse()
	return &resp, nil
}

func (s *service) UpdateStatus(ctx context.Context, bookingID, reviewerID uuid.UUID, req UpdateStatusRequest) (*BookingResponse, error) {
	if !req.Status.IsValid() {
		return nil, apperrors.Validationf("invalid booking status")
	}

	var booking *AuditoriumBooking
	var err error

	if req.Status == StatusApproved {
		booking, _, err = s.repo.Promote(ctx, bookingID, reviewerID, req.Remarks, s.auditorium.Venue, s.auditorium.Capacity)
		if err != nil && !errors.Is(err, ErrPromotionConflict) {
			return nil, err
		}
	} else {
		booking, err = s.repo.UpdateStatus(ctx, bookingID, reviewerID, req.Status, req.Remarks)
		if err != nil {
			return nil, err
		}
	}

	s.log.LogBookingDecision(ctx, booking.ID.String(), booking.Status.String(), reviewerID.String())
	s.notifyDecision(ctx, booking)

	resp := booking.ToResponse()
	if err != nil {
		// ErrPromotionConflict; the caller renders the rejected booking
		return &resp, err
	}
	return &resp, nil
}

func (s *service) notifyDecision(ctx context.Context, booking *AuditoriumBooking) {
	if s.notifier == nil || s.directory == nil {
		return
	}
	email, err := s.directory.EmailFor(ctx, booking.RequestedBy)
	if err != nil {
		s.log.ErrorWithContext(ctx, "failed to resolve requester email", err, map[string]interface{}{
			"booking_id": booking.ID.String(),
		})
		return
	}
	s.notifier.NotifyBookingDecision(ctx, email, booking.Purpose, booking.Status.String(), booking.Remarks)
}

func (s *service) GetBooking(ctx context.Context, id, userID uuid.UUID, isPrivileged bool) (*BookingResponse, error) {
	booking, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("booking not found")
		}
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to get booking", err)
	}

	if !isPrivileged && booking.RequestedBy != userID {
		return nil, apperrors.NotFoundf("booking not found")
	}

	resp := booking.ToResponse()
	return &resp, nil
}

func (s *service) MyBookings(ctx context.Context, userID uuid.UUID) ([]BookingResponse, error) {
	list, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to list bookings", err)
	}
	return toResponses(list), nil
}

// ListBookings returns every booking, or only one department's when a
// department filter is set (organizers see their own department).
func (s *service) ListBookings(ctx context.Context, department string) ([]BookingResponse, error) {
	var list []AuditoriumBooking
	var err error
	if department != "" {
		list, err = s.repo.ListByDepartment(ctx, department)
	} else {
		list, err = s.repo.ListAll(ctx)
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to list bookings", err)
	}
	return toResponses(list), nil
}

func toResponses(list []AuditoriumBooking) []BookingResponse {
	responses := make([]BookingResponse, len(list))
	for i := range list {
		responses[i] = list[i].ToResponse()
	}
	return responses
}
