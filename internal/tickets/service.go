package tickets

import (
	"context"
	"errors"

	"campusevents/internal/shared/apperrors"
	"campusevents/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notifier delivers registration confirmations. Declared locally so the
// service can be tested without the messaging stack.
type Notifier interface {
	NotifyTicketIssued(ctx context.Context, recipient, eventTitle string, seat *string)
}

type Service interface {
	SetNotifier(notifier Notifier)

	Register(ctx context.Context, userID uuid.UUID, userEmail string, req RegisterRequest) (*TicketResponse, error)
	GetTicket(ctx context.Context, ticketID, userID uuid.UUID, isAdmin bool) (*TicketResponse, error)
	MyTickets(ctx context.Context, userID uuid.UUID) ([]TicketResponse, error)
	CancelTicket(ctx context.Context, ticketID, userID uuid.UUID) error
}

type service struct {
	repo     Repository
	qr       ArtifactGenerator
	notifier Notifier
	log      *logger.Logger
}

// NewService wires the ticket service; qr may be nil when artifact
// generation is disabled.
func NewService(repo Repository, qr ArtifactGenerator, log *logger.Logger) Service {
	return &service{
		repo: repo,
		qr:   qr,
		log:  log,
	}
}

func (s *service) SetNotifier(notifier Notifier) {
	s.notifier = notifier
}

func (s *service) Register(ctx context.Context, userID uuid.UUID, userEmail string, req RegisterRequest) (*TicketResponse, error) {
	eventID, err := uuid.Parse(req.EventID)
	if err != nil {
		return nil, apperrors.Validationf("invalid event ID")
	}

	ticket := &Ticket{
		ID:      uuid.New(),
		EventID: eventID,
		UserID:  userID,
		Seat:    req.Seat,
		Status:  StatusBooked,
	}

	if err := s.repo.Register(ctx, ticket); err != nil {
		return nil, err
	}

	s.log.LogTicketIssued(ctx, ticket.ID.String(), eventID.String(), userID.String())

	// The ticket stands even when the artifact fails; the pass can be
	// regenerated later from the same payload
	if s.qr != nil {
		payload := BuildQRPayload(eventID, ticket.ID, userEmail)
		path, err := s.qr.Generate(payload, ticket.ID)
		if err != nil {
			s.log.ErrorWithContext(ctx, "failed to generate ticket qr code", err, map[string]interface{}{
				"ticket_id": ticket.ID.String(),
			})
		} else if err := s.repo.UpdateQRCodePath(ctx, ticket.ID, path); err != nil {
			s.log.ErrorWithContext(ctx, "failed to store qr code path", err, map[string]interface{}{
				"ticket_id": ticket.ID.String(),
			})
		} else {
			ticket.QRCodePath = path
		}
	}

	// Reload with the event summary for the response
	full, err := s.repo.GetByID(ctx, ticket.ID)
	if err != nil {
		resp := ticket.ToResponse()
		return &resp, nil
	}

	if s.notifier != nil {
		s.notifier.NotifyTicketIssued(ctx, userEmail, full.Event.Title, ticket.Seat)
	}

	resp := full.ToResponse()
	return &resp, nil
}

func (s *service) GetTicket(ctx context.Context, ticketID, userID uuid.UUID, isAdmin bool) (*TicketResponse, error) {
	ticket, err := s.repo.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("ticket not found")
		}
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to get ticket", err)
	}

	if !isAdmin && ticket.UserID != userID {
		return nil, apperrors.NotFoundf("ticket not found")
	}

	resp := ticket.ToResponse()
	return &resp, nil
}

func (s *service) MyTickets(ctx context.Context, userID uuid.UUID) ([]TicketResponse, error) {
	list, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to list tickets", err)
	}

	responses := make([]TicketResponse, len(list))
	for i := range list {
		responses[i] = list[i].ToResponse()
	}
	return responses, nil
}

func (s *service) CancelTicket(ctx context.Context, ticketID, userID uuid.UUID) error {
	return s.repo.Cancel(ctx, ticketID, userID)
}
