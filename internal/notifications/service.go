package notifications

import (
	"context"
	"fmt"

	"campusevents/pkg/logger"
)

// Service is the best-effort facade the domain packages publish through.
// Delivery failures are logged, never propagated; a lost email must not
// fail a registration or a booking decision.
type Service interface {
	NotifyTicketIssued(ctx context.Context, recipient, eventTitle string, seat *string)
	NotifyBookingDecision(ctx context.Context, recipient, purpose string, status, remarks string)
	Close() error
}

type service struct {
	producer Producer
	log      *logger.Logger
}

// NewService wires the facade; producer may be nil when the broker is
// disabled, in which case notifications are logged and dropped.
func NewService(producer Producer, log *logger.Logger) Service {
	return &service{
		producer: producer,
		log:      log,
	}
}

func (s *service) NotifyTicketIssued(ctx context.Context, recipient, eventTitle string, seat *string) {
	body := fmt.Sprintf("Your registration for %q is confirmed.", eventTitle)
	if seat != nil {
		body = fmt.Sprintf("Your registration for %q is confirmed. Seat: %s.", eventTitle, *seat)
	}

	n := NewNotification(TypeTicketConfirmation, recipient, "Registration confirmed: "+eventTitle, body)
	s.publish(ctx, n)
}

func (s *service) NotifyBookingDecision(ctx context.Context, recipient, purpose string, status, remarks string) {
	body := fmt.Sprintf("Your auditorium booking request %q is now %s.", purpose, status)
	if remarks != "" {
		body += "\nRemarks: " + remarks
	}

	n := NewNotification(TypeBookingStatus, recipient, "Booking "+status+": "+purpose, body)
	s.publish(ctx, n)
}

func (s *service) publish(ctx context.Context, n *Notification) {
	if n.RecipientEmail == "" {
		return
	}
	if s.producer == nil {
		s.log.Info("notification (broker disabled)", "type", n.Type, "recipient", n.RecipientEmail, "subject", n.Subject)
		return
	}
	if err := s.producer.Publish(ctx, n); err != nil {
		s.log.ErrorWithContext(ctx, "failed to publish notification", err, map[string]interface{}{
			"type":      string(n.Type),
			"recipient": n.RecipientEmail,
		})
	}
}

func (s *service) Close() error {
	if s.producer == nil {
		return nil
	}
	return s.producer.Close()
}
