package tickets

import (
	"context"
	"errors"

	"campusevents/internal/events"
	"campusevents/internal/shared/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	// Register admits one ticket atomically: status, capacity, duplicate and
	// seat checks all happen under a row lock on the event, and a full event
	// is closed in the same transaction.
	Register(ctx context.Context, ticket *Ticket) error

	GetByID(ctx context.Context, id uuid.UUID) (*Ticket, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Ticket, error)

	// Cancel frees the seat but never reopens a closed event
	Cancel(ctx context.Context, ticketID, userID uuid.UUID) error
	UpdateQRCodePath(ctx context.Context, ticketID uuid.UUID, path string) error

	// Ledger reads; booked counts are always derived from tickets
	CountBooked(ctx context.Context, eventID uuid.UUID) (int, error)
	BookedSeatLabels(ctx context.Context, eventID uuid.UUID) ([]string, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Register(ctx context.Context, ticket *Ticket) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. Lock the event row so concurrent registrations serialize
		var event struct {
			ID         uuid.UUID `gorm:"column:id"`
			TotalSeats int       `gorm:"column:total_seats"`
			Status     string    `gorm:"column:status"`
		}

		err := tx.Table("events").
			Select("id, total_seats, status").
			Where("id = ?", ticket.EventID).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&event).Error

		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFoundf("event not found")
			}
			return apperrors.Wrap(apperrors.KindInternal, "failed to lock event", err)
		}

		// 2. Status gate
		switch events.Status(event.Status) {
		case events.StatusOpen:
			// registration allowed
		case events.StatusClosed:
			return apperrors.Capacityf("event is full")
		default:
			return apperrors.Validationf("event is not open for registration")
		}

		// 3. Capacity check against the derived count
		var booked int64
		if err := tx.Model(&Ticket{}).
			Where("event_id = ? AND status = ?", ticket.EventID, StatusBooked).
			Count(&booked).Error; err != nil {
			return apperrors.Wrap(apperrors.KindInternal, "failed to count tickets", err)
		}
		if int(booked) >= event.TotalSeats {
			// The status lagged behind the count; close it now
			if err := tx.Table("events").
				Where("id = ?", ticket.EventID).
				Update("status", events.StatusClosed).Error; err != nil {
				return apperrors.Wrap(apperrors.KindInternal, "failed to close event", err)
			}
			return apperrors.Capacityf("event is full")
		}

		// 4. One ticket per user per event
		var existing int64
		if err := tx.Model(&Ticket{}).
			Where("event_id = ? AND user_id = ? AND status = ?", ticket.EventID, ticket.UserID, StatusBooked).
			Count(&existing).Error; err != nil {
			return apperrors.Wrap(apperrors.KindInternal, "failed to check existing ticket", err)
		}
		if existing > 0 {
			return apperrors.Duplicatef("you are already registered for this event")
		}

		// 5. Requested seat must be free
		if ticket.Seat != nil {
			var taken int64
			if err := tx.Model(&Ticket{}).
				Where("event_id = ? AND seat = ? AND status = ?", ticket.EventID, *ticket.Seat, StatusBooked).
				Count(&taken).Error; err != nil {
				return apperrors.Wrap(apperrors.KindInternal, "failed to check seat", err)
			}
			if taken > 0 {
				return apperrors.Duplicatef("seat %s is already taken", *ticket.Seat)
			}
		}

		// 6. Issue the ticket
		if err := tx.Create(ticket).Error; err != nil {
			return apperrors.Wrap(apperrors.KindInternal, "failed to create ticket", err)
		}

		// 7. Close the event when this ticket consumed the last seat
		if int(booked)+1 >= event.TotalSeats {
			if err := tx.Table("events").
				Where("id = ?", ticket.EventID).
				Update("status", events.StatusClosed).Error; err != nil {
				return apperrors.Wrap(apperrors.KindInternal, "failed to close event", err)
			}
		}

		return nil
	})
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Ticket, error) {
	var ticket Ticket
	err := r.db.WithContext(ctx).
		Preload("Event").
		Where("id = ?", id).
		First(&ticket).Error
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]Ticket, error) {
	var list []Ticket
	err := r.db.WithContext(ctx).
		Preload("Event").
		Where("user_id = ?", userID).
		Order("booked_at DESC").
		Find(&list).Error
	return list, err
}

func (r *repository) Cancel(ctx context.Context, ticketID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ticket Ticket
		err := tx.Where("id = ? AND user_id = ?", ticketID, userID).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&ticket).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFoundf("ticket not found")
			}
			return apperrors.Wrap(apperrors.KindInternal, "failed to lock ticket", err)
		}

		if ticket.Status != StatusBooked {
			return apperrors.Validationf("ticket is already cancelled")
		}

		if err := tx.Model(&ticket).Update("status", StatusCancelled).Error; err != nil {
			return apperrors.Wrap(apperrors.KindInternal, "failed to cancel ticket", err)
		}

		// The freed seat does not reopen a closed event; once capacity was
		// reached the event stays closed until an organizer reopens it
		return nil
	})
}

func (r *repository) UpdateQRCodePath(ctx context.Context, ticketID uuid.UUID, path string) error {
	return r.db.WithContext(ctx).
		Model(&Ticket{}).
		Where("id = ?", ticketID).
		Update("qr_code_path", path).Error
}

func (r *repository) CountBooked(ctx context.Context, eventID uuid.UUID) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Ticket{}).
		Where("event_id = ? AND status = ?", eventID, StatusBooked).
		Count(&count).Error
	return int(count), err
}

func (r *repository) BookedSeatLabels(ctx context.Context, eventID uuid.UUID) ([]string, error) {
	var labels []string
	err := r.db.WithContext(ctx).
		Model(&Ticket{}).
		Where("event_id = ? AND status = ? AND seat IS NOT NULL", eventID, StatusBooked).
		Order("seat ASC").
		Pluck("seat", &labels).Error
	return labels, err
}
