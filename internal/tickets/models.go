package tickets

import (
	"time"

	"campusevents/internal/events"

	"github.com/google/uuid"
)

type Ticket struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	EventID    uuid.UUID `json:"event_id" gorm:"type:uuid;not null;index"`
	UserID     uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	Seat       *string   `json:"seat" gorm:"size:10"`
	Status     Status    `json:"status" gorm:"type:varchar(10);default:'BOOKED'"`
	QRCodePath string    `json:"qr_code_path" gorm:"size:255"`
	BookedAt   time.Time `json:"booked_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Event events.Event `json:"-" gorm:"foreignKey:EventID"`
}

// TableName specifies the table name for GORM
func (Ticket) TableName() string {
	return "tickets"
}

type RegisterRequest struct {
	EventID string  `json:"event_id" binding:"required,uuid"`
	Seat    *string `json:"seat" binding:"omitempty,min=1,max=10"`
}

type TicketResponse struct {
	ID         string    `json:"id"`
	EventID    string    `json:"event_id"`
	EventTitle string    `json:"event_title,omitempty"`
	EventDate  string    `json:"event_date,omitempty"`
	StartTime  string    `json:"start_time,omitempty"`
	Venue      string    `json:"venue,omitempty"`
	Seat       *string   `json:"seat"`
	Status     Status    `json:"status"`
	QRCodePath string    `json:"qr_code_path,omitempty"`
	BookedAt   time.Time `json:"booked_at"`
}

// ToResponse flattens the ticket with its preloaded event summary
func (t *Ticket) ToResponse() TicketResponse {
	resp := TicketResponse{
		ID:         t.ID.String(),
		EventID:    t.EventID.String(),
		Seat:       t.Seat,
		Status:     t.Status,
		QRCodePath: t.QRCodePath,
		BookedAt:   t.BookedAt,
	}
	if t.Event.ID != uuid.Nil {
		resp.EventTitle = t.Event.Title
		resp.EventDate = t.Event.EventDate.Format("2006-01-02")
		resp.StartTime = t.Event.StartTime
		resp.Venue = t.Event.Venue
	}
	return resp
}
