package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"campusevents/internal/events"
	"campusevents/internal/schedule"
	"campusevents/internal/shared/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrPromotionConflict signals that approval found the slot taken by an open
// event and the booking was force-rejected instead. The rejected booking is
// still returned so callers can show its final state.
var ErrPromotionConflict = apperrors.New(apperrors.KindConflict, "auditorium already booked at this time")

// forcedRejectRemarks is persisted on bookings rejected by a conflict at
// approval time.
const forcedRejectRemarks = "Rejected: Auditorium already booked at this time."

type Repository interface {
	// SubmitWithConflictCheck creates the booking and its pending shadow
	// event in one transaction. A conflicting slot leaves no rows behind.
	SubmitWithConflictCheck(ctx context.Context, booking *AuditoriumBooking, venue, requesterName string, capacity int) error

	// Promote applies an APPROVED decision: re-checks the slot against open
	// events and either opens the shadow event or force-rejects the booking.
	// All of it happens in one transaction.
	Promote(ctx context.Context, bookingID, reviewerID uuid.UUID, remarks, venue string, capacity int) (*AuditoriumBooking, *events.Event, error)

	// UpdateStatus handles the non-approval transitions (back to PENDING,
	// manual REJECTED). Any current status may move to any other.
	UpdateStatus(ctx context.Context, bookingID, reviewerID uuid.UUID, status Status, remarks string) (*AuditoriumBooking, error)

	GetByID(ctx context.Context, id uuid.UUID) (*AuditoriumBooking, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]AuditoriumBooking, error)
	ListAll(ctx context.Context) ([]AuditoriumBooking, error)
	ListByDepartment(ctx context.Context, department string) ([]AuditoriumBooking, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// lockVenueDay takes a transaction-scoped advisory lock on one venue day.
// Row locks alone cannot serialize two check-then-insert admissions into a
// day that has no event rows yet; this lock can.
func lockVenueDay(tx *gorm.DB, venue string, date time.Time) error {
	key := venue + "|" + date.Format(schedule.DateLayout)
	return tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", key).Error
}

func (r *repository) SubmitWithConflictCheck(ctx context.Context, booking *AuditoriumBooking, venue, requesterName string, capacity int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockVenueDay(tx, venue, booking.EventDate); err != nil {
			return apperrors.Wrap(apperrors.KindInternal, "failed to lock venue schedule", err)
		}

		// Lock the day's schedule at the venue; every event is an obstacle
		// here regardless of status, so a pending request holds its slot
		var existing []events.Event
		err := tx.Where("venue = ? AND event_date = ?", venue, booking.EventDate).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Find(&existing).Error
		if err != nil {
			return apperrors.Wrap(apperrors.KindInternal, "failed to lock venue schedule", err)
		}

		if blocking := events.FindConflict(booking.Slot(), existing); blocking != nil {
			return apperrors.Conflictf("the auditorium is already booked during %s - %s on %s",
				blocking.StartTime, blocking.EndTime, booking.EventDate.Format("2006-01-02"))
		}

		shadow := &events.Event{
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
		if err := tx.Create(shadow).Error; err != nil {
			return apperrors.Wrap(apperrors.KindInternal, "failed to create pending event", err)
		}

		booking.LinkedEventID = &shadow.ID
		booking.Status = StatusPending
		if err := tx.Create(booking).Error; err != nil {
			return apperrors.Wrap(apperrors.KindInternal, "failed to create booking", err)
		}

		return nil
	})
}

func (r *repository) Promote(ctx context.Context, bookingID, reviewerID uuid.UUID, remarks, venue string, capacity int) (*AuditoriumBooking, *events.Event, error) {
	var booking AuditoriumBooking
	var promoted *events.Event
	conflicted := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("id = ?", bookingID).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&booking).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFoundf("booking not found")
			}
			return apperrors.Wrap(apperrors.KindInternal, "failed to lock booking", err)
		}

		if err := lockVenueDay(tx, venue, booking.EventDate); err != nil {
			return apperrors.Wrap(apperrors.KindInternal, "failed to lock venue schedule", err)
		}

		// Only open events are obstacles at approval time; pending shadows
		// of other requests lost their claim the moment this one wins
		var open []events.Event
		err = tx.Where("venue = ? AND event_date = ? AND status = ?", venue, booking.EventDate, events.StatusOpen).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Find(&open).Error
		if err != nil {
			return apperrors.Wrap(apperrors.KindInternal, "failed to lock venue schedule", err)
		}

		// The booking's own shadow never blocks its approval; that keeps
		// re-approving an approved booking idempotent
		obstacles := make([]events.Event, 0, len(open))
		for _, ev := range open {
			if booking.LinkedEventID != nil && ev.ID == *booking.LinkedEventID {
				continue
			}
			obstacles = append(obstacles, ev)
		}

		if events.FindConflict(booking.Slot(), obstacles) != nil {
			conflicted = true
			updates := map[string]interface{}{
				"status":      StatusRejected,
				"remarks":     forcedRejectRemarks,
				"reviewed_by": reviewerID,
			}
			if err := tx.Model(&booking).Updates(updates).Error; err != nil {
				return apperrors.Wrap(apperrors.KindInternal, "failed to reject booking", err)
			}
			return nil
		}

		shadow, err := r.findShadow(tx, &booking, venue)
		if err != nil {
			return err
		}

		if shadow != nil {
			updates := map[string]interface{}{
				"status":      events.StatusOpen,
				"total_seats": capacity,
			}
			if err := tx.Model(shadow).Updates(updates).Error; err != nil {
				return apperrors.Wrap(apperrors.KindInternal, "failed to open event", err)
			}
		} else {
			// The shadow was deleted out-of-band; recreate it open
			shadow = &events.Event{
				Title:       booking.Purpose,
				Description: "Approved auditorium booking",
				Department:  booking.Department,
				EventDate:   booking.EventDate,
				StartTime:   booking.StartTime,
				EndTime:     booking.EndTime,
				Venue:       venue,
				TotalSeats:  capacity,
				Status:      events.StatusOpen,
				CreatedBy:   booking.RequestedBy,
			}
			if err := tx.Create(shadow).Error; err != nil {
				return apperrors.Wrap(apperrors.KindInternal, "failed to create event", err)
			}
		}

		updates := map[string]interface{}{
			"status":          StatusApproved,
			"remarks":         remarks,
			"reviewed_by":     reviewerID,
			"linked_event_id": shadow.ID,
		}
		if err := tx.Model(&booking).Updates(updates).Error; err != nil {
			return apperrors.Wrap(apperrors.KindInternal, "failed to approve booking", err)
		}

		promoted = shadow
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	if conflicted {
		return &booking, nil, ErrPromotionConflict
	}
	return &booking, promoted, nil
}

// findShadow resolves the booking's event by the explicit link first, then
// by attribute match for rows created before the link column existed.
func (r *repository) findShadow(tx *gorm.DB, booking *AuditoriumBooking, venue string) (*events.Event, error) {
	var shadow events.Event

	if booking.LinkedEventID != nil {
		err := tx.Where("id = ?", *booking.LinkedEventID).First(&shadow).Error
		if err == nil {
			return &shadow, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Wrap(apperrors.KindInternal, "failed to load linked event", err)
		}
	}

	err := tx.Where("title = ? AND event_date = ? AND start_time = ? AND end_time = ? AND venue = ?",
		booking.Purpose, booking.EventDate, booking.StartTime, booking.EndTime, venue).
		First(&shadow).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to find event", err)
	}
	return &shadow, nil
}

func (r *repository) UpdateStatus(ctx context.Context, bookingID, reviewerID uuid.UUID, status Status, remarks string) (*AuditoriumBooking, error) {
	var booking AuditoriumBooking

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("id = ?", bookingID).First(&booking).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFoundf("booking not found")
			}
			return apperrors.Wrap(apperrors.KindInternal, "failed to get booking", err)
		}

		updates := map[string]interface{}{
			"status":      status,
			"remarks":     remarks,
			"reviewed_by": reviewerID,
		}
		if err := tx.Model(&booking).Updates(updates).Error; err != nil {
			return apperrors.Wrap(apperrors.KindInternal, "failed to update booking", err)
		}

		// Demoting an approved booking pulls its event back to pending so
		// the slot shows as requested, not granted
		if status != StatusApproved && booking.LinkedEventID != nil {
			err := tx.Table("events").
				Where("id = ? AND status = ?", *booking.LinkedEventID, events.StatusOpen).
				Update("status", events.StatusPending).Error
			if err != nil {
				return apperrors.Wrap(apperrors.KindInternal, "failed to demote event", err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*AuditoriumBooking, error) {
	var booking AuditoriumBooking
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]AuditoriumBooking, error) {
	var list []AuditoriumBooking
	err := r.db.WithContext(ctx).
		Where("requested_by = ?", userID).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

func (r *repository) ListAll(ctx context.Context) ([]AuditoriumBooking, error) {
	var list []AuditoriumBooking
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

func (r *repository) ListByDepartment(ctx context.Context, department string) ([]AuditoriumBooking, error) {
	var list []AuditoriumBooking
	err := r.db.WithContext(ctx).
		Where("department = ?", department).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}
