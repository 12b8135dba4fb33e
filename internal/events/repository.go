package events

import (
	"context"
	"errors"
	"strings"
	"time"

	"campusevents/internal/schedule"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id uuid.UUID) (*Event, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*Event, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, query EventListQuery) ([]Event, int64, error)
	Upcoming(ctx context.Context, from time.Time, limit int) ([]Event, error)

	// Venue/date scans backing the overlap checks
	ListByVenueDate(ctx context.Context, venue string, date time.Time, statuses ...Status) ([]Event, error)

	// Shadow-event lookup by attribute match; legacy fallback for bookings
	// created before the explicit linked_event_id relation existed
	FindByAttributes(ctx context.Context, title string, date time.Time, startTime, endTime, venue string) (*Event, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, event *Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	var event Event
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*Event, error) {
	var event Event

	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&event).Error; err != nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).Model(&event).Updates(updates).Error; err != nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&event).Error; err != nil {
		return nil, err
	}

	return &event, nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&Event{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) List(ctx context.Context, query EventListQuery) ([]Event, int64, error) {
	var events []Event
	var totalCount int64

	db := r.db.WithContext(ctx).Model(&Event{})

	// Apply filters
	if query.Search != "" {
		searchTerm := "%" + strings.ToLower(query.Search) + "%"
		db = db.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(venue) LIKE ?",
			searchTerm, searchTerm, searchTerm)
	}

	if query.Venue != "" {
		db = db.Where("LOWER(venue) LIKE ?", "%"+strings.ToLower(query.Venue)+"%")
	}

	if query.Department != "" {
		db = db.Where("LOWER(department) = ?", strings.ToLower(query.Department))
	}

	if query.Status != "" {
		db = db.Where("status = ?", query.Status)
	}

	// Date filters
	if query.DateFrom != "" {
		if dateFrom, err := time.Parse(schedule.DateLayout, query.DateFrom); err == nil {
			db = db.Where("event_date >= ?", dateFrom)
		}
	}

	if query.DateTo != "" {
		if dateTo, err := time.Parse(schedule.DateLayout, query.DateTo); err == nil {
			db = db.Where("event_date <= ?", dateTo)
		}
	}

	// Count total records
	if err := db.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	// Apply pagination
	if query.Page == 0 {
		query.Page = 1
	}
	if query.Limit == 0 {
		query.Limit = 10
	}

	offset := (query.Page - 1) * query.Limit

	err := db.Order("event_date ASC, start_time ASC").
		Offset(offset).
		Limit(query.Limit).
		Find(&events).Error

	return events, totalCount, err
}

func (r *repository) Upcoming(ctx context.Context, from time.Time, limit int) ([]Event, error) {
	var events []Event
	err := r.db.WithContext(ctx).
		Where("event_date >= ?", from).
		Where("status = ?", StatusOpen).
		Order("event_date ASC, start_time ASC").
		Limit(limit).
		Find(&events).Error
	return events, err
}

func (r *repository) ListByVenueDate(ctx context.Context, venue string, date time.Time, statuses ...Status) ([]Event, error) {
	var events []Event
	db := r.db.WithContext(ctx).
		Where("venue = ?", venue).
		Where("event_date = ?", date)
	if len(statuses) > 0 {
		db = db.Where("status IN ?", statuses)
	}
	err := db.Find(&events).Error
	return events, err
}

func (r *repository) FindByAttributes(ctx context.Context, title string, date time.Time, startTime, endTime, venue string) (*Event, error) {
	var event Event
	err := r.db.WithContext(ctx).
		Where("title = ?", title).
		Where("event_date = ?", date).
		Where("start_time = ?", startTime).
		Where("end_time = ?", endTime).
		Where("venue = ?", venue).
		First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &event, nil
}
