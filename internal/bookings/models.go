package bookings

import (
	"time"

	"campusevents/internal/schedule"

	"github.com/google/uuid"
)

// AuditoriumBooking is a request for the auditorium. Approval state lives
// here; the public-facing schedule entry is the linked shadow event.
type AuditoriumBooking struct {
	ID               uuid.UUID  `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Purpose          string     `json:"purpose" gorm:"not null;size:150"`
	Department       string     `json:"department" gorm:"size:100"`
	EventDate        time.Time  `json:"event_date" gorm:"type:date;not null;index"`
	StartTime        string     `json:"start_time" gorm:"type:varchar(5);not null"`
	EndTime          string     `json:"end_time" gorm:"type:varchar(5);not null"`
	ExpectedAudience int        `json:"expected_audience" gorm:"not null"`
	Status           Status     `json:"status" gorm:"type:varchar(10);default:'PENDING'"`
	Remarks          string     `json:"remarks" gorm:"type:text"`
	LinkedEventID    *uuid.UUID `json:"linked_event_id" gorm:"type:uuid;index"`
	RequestedBy      uuid.UUID  `json:"requested_by" gorm:"type:uuid;not null;index"`
	ReviewedBy       *uuid.UUID `json:"reviewed_by" gorm:"type:uuid"`
	CreatedAt        time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt        time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

// Slot returns the requested window for overlap checks
func (b *AuditoriumBooking) Slot() schedule.Slot {
	return schedule.Slot{Date: b.EventDate, Start: b.StartTime, End: b.EndTime}
}

// TableName specifies the table name for GORM
func (AuditoriumBooking) TableName() string {
	return "auditorium_bookings"
}

type SubmitBookingRequest struct {
	Purpose          string `json:"purpose" binding:"required,min=3,max=150"`
	Department       string `json:"department" binding:"max=100"`
	EventDate        string `json:"event_date" binding:"required,datetime=2006-01-02"`
	StartTime        string `json:"start_time" binding:"required,datetime=15:04"`
	EndTime          string `json:"end_time" binding:"required,datetime=15:04"`
	ExpectedAudience int    `json:"expected_audience" binding:"required"`
}

type UpdateStatusRequest struct {
	Status  Status `json:"status" binding:"required,oneof=PENDING APPROVED REJECTED"`
	Remarks string `json:"remarks" binding:"max=2000"`
}

type BookingResponse struct {
	ID               string    `json:"id"`
	Purpose          string    `json:"purpose"`
	Department       string    `json:"department,omitempty"`
	EventDate        string    `json:"event_date"`
	StartTime        string    `json:"start_time"`
	EndTime          string    `json:"end_time"`
	ExpectedAudience int       `json:"expected_audience"`
	Status           Status    `json:"status"`
	Remarks          string    `json:"remarks,omitempty"`
	LinkedEventID    *string   `json:"linked_event_id,omitempty"`
	RequestedBy      string    `json:"requested_by"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (b *AuditoriumBooking) ToResponse() BookingResponse {
	resp := BookingResponse{
		ID:               b.ID.String(),
		Purpose:          b.Purpose,
		Department:       b.Department,
		EventDate:        b.EventDate.Format(schedule.DateLayout),
		StartTime:        b.StartTime,
		EndTime:          b.EndTime,
		ExpectedAudience: b.ExpectedAudience,
		Status:           b.Status,
		Remarks:          b.Remarks,
		RequestedBy:      b.RequestedBy.String(),
		CreatedAt:        b.CreatedAt,
		UpdatedAt:        b.UpdatedAt,
	}
	if b.LinkedEventID != nil {
		id := b.LinkedEventID.String()
		resp.LinkedEventID = &id
	}
	return resp
}
