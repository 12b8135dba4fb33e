package events

import (
	"time"

	"campusevents/internal/schedule"

	"github.com/google/uuid"
)

type Event struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Title       string    `json:"title" gorm:"not null;size:150"`
	Description string    `json:"description" gorm:"type:text"`
	Department  string    `json:"department" gorm:"size:100"`
	EventDate   time.Time `json:"event_date" gorm:"type:date;not null;index:idx_events_venue_date,priority:2"`
	StartTime   string    `json:"start_time" gorm:"type:varchar(5);not null"`
	EndTime     string    `json:"end_time" gorm:"type:varchar(5);not null"`
	Venue       string    `json:"venue" gorm:"not null;size:100;index:idx_events_venue_date,priority:1"`
	TotalSeats  int       `json:"total_seats" gorm:"not null;check:total_seats > 0"`
	Status      Status    `json:"status" gorm:"type:varchar(10);default:'OPEN'"`
	CreatedBy   uuid.UUID `json:"created_by" gorm:"type:uuid"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// Slot returns the event's scheduling window for overlap checks
func (e *Event) Slot() schedule.Slot {
	return schedule.Slot{Date: e.EventDate, Start: e.StartTime, End: e.EndTime}
}

// TableName specifies the table name for GORM
func (Event) TableName() string {
	return "events"
}

type CreateEventRequest struct {
	Title       string `json:"title" binding:"required,min=3,max=150"`
	Description string `json:"description" binding:"max=2000"`
	Department  string `json:"department" binding:"max=100"`
	EventDate   string `json:"event_date" binding:"required,datetime=2006-01-02"`
	StartTime   string `json:"start_time" binding:"required,datetime=15:04"`
	EndTime     string `json:"end_time" binding:"required,datetime=15:04"`
	Venue       string `json:"venue" binding:"required,min=2,max=100"`
	TotalSeats  int    `json:"total_seats" binding:"required,min=1,max=100000"`
}

type UpdateEventRequest struct {
	Title       *string `json:"title" binding:"omitempty,min=3,max=150"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	Department  *string `json:"department" binding:"omitempty,max=100"`
	EventDate   *string `json:"event_date" binding:"omitempty,datetime=2006-01-02"`
	StartTime   *string `json:"start_time" binding:"omitempty,datetime=15:04"`
	EndTime     *string `json:"end_time" binding:"omitempty,datetime=15:04"`
	Venue       *string `json:"venue" binding:"omitempty,min=2,max=100"`
	TotalSeats  *int    `json:"total_seats" binding:"omitempty,min=1,max=100000"`
}

type EventListQuery struct {
	Page       int    `form:"page" binding:"omitempty,min=1"`
	Limit      int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Search     string `form:"search"`
	Venue      string `form:"venue"`
	Department string `form:"department"`
	DateFrom   string `form:"date_from"`
	DateTo     string `form:"date_to"`
	Status     string `form:"status" binding:"omitempty,oneof=OPEN CLOSED PENDING"`
}

type EventResponse struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Department     string    `json:"department,omitempty"`
	EventDate      string    `json:"event_date"`
	StartTime      string    `json:"start_time"`
	EndTime        string    `json:"end_time"`
	Venue          string    `json:"venue"`
	TotalSeats     int       `json:"total_seats"`
	BookedSeats    int       `json:"booked_seats"`
	AvailableSeats int       `json:"available_seats"`
	Status         Status    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// EventDetailResponse adds the claimed seat labels used by the seat map
type EventDetailResponse struct {
	EventResponse
	TakenSeats []string `json:"taken_seats"`
}

type PaginatedEvents struct {
	Events     []EventResponse `json:"events"`
	TotalCount int64           `json:"total_count"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
}

// ToResponse converts an Event; bookedSeats is always derived from the
// ticket ledger, never a stored counter.
func (e *Event) ToResponse(bookedSeats int) EventResponse {
	available := e.TotalSeats - bookedSeats
	if available < 0 {
		available = 0
	}

	return EventResponse{
		ID:             e.ID.String(),
		Title:          e.Title,
		Description:    e.Description,
		Department:     e.Department,
		EventDate:      e.EventDate.Format(schedule.DateLayout),
		StartTime:      e.StartTime,
		EndTime:        e.EndTime,
		Venue:          e.Venue,
		TotalSeats:     e.TotalSeats,
		BookedSeats:    bookedSeats,
		AvailableSeats: available,
		Status:         e.Status,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}
