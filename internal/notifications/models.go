package notifications

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeTicketConfirmation Type = "TICKET_CONFIRMATION"
	TypeBookingStatus      Type = "BOOKING_STATUS"
)

type DeliveryStatus string

const (
	StatusPending DeliveryStatus = "PENDING"
	StatusQueued  DeliveryStatus = "QUEUED"
	StatusSending DeliveryStatus = "SENDING"
	StatusSent    DeliveryStatus = "SENT"
	StatusFailed  DeliveryStatus = "FAILED"
)

// Notification is the message published to the notification topic and
// consumed by the email workers.
type Notification struct {
	ID             uuid.UUID              `json:"id"`
	Type           Type                   `json:"type"`
	RecipientEmail string                 `json:"recipient_email"`
	Subject        string                 `json:"subject"`
	Body           string                 `json:"body"`
	Data           map[string]interface{} `json:"data,omitempty"`
	Status         DeliveryStatus         `json:"status"`
	LastError      *string                `json:"last_error,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
}

func NewNotification(notificationType Type, recipient, subject, body string) *Notification {
	now := time.Now()
	return &Notification{
		ID:             uuid.New(),
		Type:           notificationType,
		RecipientEmail: recipient,
		Subject:        subject,
		Body:           body,
		Status:         StatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func (n *Notification) ToJSON() ([]byte, error) {
	return json.Marshal(n)
}

// PartitionKey routes all of a recipient's notifications to one partition
// so they arrive in order
func (n *Notification) PartitionKey() string {
	return n.RecipientEmail
}

func (n *Notification) MarkSent() {
	n.Status = StatusSent
	n.UpdatedAt = time.Now()
}

func (n *Notification) MarkFailed(err error) {
	n.Status = StatusFailed
	msg := err.Error()
	n.LastError = &msg
	n.UpdatedAt = time.Now()
}
