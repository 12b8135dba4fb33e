package events

import (
	"context"
	"errors"
	"math"
	"time"

	"campusevents/internal/schedule"
	"campusevents/internal/shared/apperrors"
	"campusevents/pkg/cache"
	"campusevents/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TicketLedger exposes the derived seat counts owned by the tickets package.
// Declared here to avoid a circular dependency; injected after construction.
type TicketLedger interface {
	CountBooked(ctx context.Context, eventID uuid.UUID) (int, error)
	BookedSeatLabels(ctx context.Context, eventID uuid.UUID) ([]string, error)
}

type Service interface {
	SetTicketLedger(ledger TicketLedger)
	SetCacheService(cacheService cache.Service)

	CreateEvent(ctx context.Context, userID uuid.UUID, req CreateEventRequest) (*EventResponse, error)
	GetEvent(ctx context.Context, id uuid.UUID) (*EventDetailResponse, error)
	UpdateEvent(ctx context.Context, id, userID uuid.UUID, isAdmin bool, req UpdateEventRequest) (*EventResponse, error)
	DeleteEvent(ctx context.Context, id, userID uuid.UUID, isAdmin bool) error
	ListEvents(ctx context.Context, query EventListQuery) (*PaginatedEvents, error)
	UpcomingEvents(ctx context.Context, limit int) ([]EventResponse, error)
}

type service struct {
	repo         Repository
	ledger       TicketLedger
	cacheService cache.Service
	log          *logger.Logger
}

func NewService(repo Repository, log *logger.Logger) Service {
	return &service{
		repo: repo,
		log:  log,
	}
}

func (s *service) SetTicketLedger(ledger TicketLedger) {
	s.ledger = ledger
}

func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

// bookedCount asks the ticket ledger; a missing ledger means zero, never an error
func (s *service) bookedCount(ctx context.Context, eventID uuid.UUID) int {
	if s.ledger == nil {
		return 0
	}
	count, err := s.ledger.CountBooked(ctx, eventID)
	if err != nil {
		s.log.ErrorWithContext(ctx, "failed to count booked seats", err, map[string]interface{}{
			"event_id": eventID.String(),
		})
		return 0
	}
	return count
}

func (s *service) invalidateEventCache(ctx context.Context, eventID *uuid.UUID) {
	if s.cacheService == nil {
		return
	}
	patterns := []string{cache.PatternEventsAll}
	if eventID != nil {
		patterns = append(patterns, cache.BuildEventDetailKey(eventID.String())+"*")
	}
	for _, pattern := range patterns {
		if err := s.cacheService.DeletePattern(ctx, pattern); err != nil {
			s.log.ErrorWithContext(ctx, "failed to invalidate event cache", err, nil)
		}
	}
}

func (s *service) CreateEvent(ctx context.Context, userID uuid.UUID, req CreateEventRequest) (*EventResponse, error) {
	eventDate, err := schedule.ParseDate(req.EventDate)
	if err != nil {
		return nil, err
	}

	slot := schedule.Slot{Date: eventDate, Start: req.StartTime, End: req.EndTime}
	if err := slot.Validate(); err != nil {
		return nil, err
	}

	if eventDate.Before(today()) {
		return nil, apperrors.Validationf("event date must not be in the past")
	}

	// Every event at the venue that day is an obstacle, whatever its status;
	// a pending shadow event holds its slot too
	existing, err := s.repo.ListByVenueDate(ctx, req.Venue, eventDate)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to check venue schedule", err)
	}
	if blocking := FindConflict(slot, existing); blocking != nil {
		return nil, apperrors.Conflictf("venue %q is already booked from %s to %s by %q",
			req.Venue, blocking.StartTime, blocking.EndTime, blocking.Title)
	}

	event := &Event{
		Title:       req.Title,
		Description: req.Description,
		Department:  req.Department,
		EventDate:   eventDate,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Venue:       req.Venue,
		TotalSeats:  req.TotalSeats,
		Status:      StatusOpen,
		CreatedBy:   userID,
	}

	if err := s.repo.Create(ctx, event); err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to create event", err)
	}

	s.log.LogEventCreated(ctx, event.ID.String(), userID.String())
	s.invalidateEventCache(ctx, nil)

	response := event.ToResponse(0)
	return &response, nil
}

func (s *service) GetEvent(ctx context.Context, id uuid.UUID) (*EventDetailResponse, error) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("event not found")
		}
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to get event", err)
	}

	booked := s.bookedCount(ctx, id)

	var taken []string
	if s.ledger != nil {
		taken, err = s.ledger.BookedSeatLabels(ctx, id)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.KindInternal, "failed to load seat map", err)
		}
	}
	if taken == nil {
		taken = []string{}
	}

	return &EventDetailResponse{
		EventResponse: event.ToResponse(booked),
		TakenSeats:    taken,
	}, nil
}

func (s *service) UpdateEvent(ctx context.Context, id, userID uuid.UUID, isAdmin bool, req UpdateEventRequest) (*EventResponse, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("event not found")
		}
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to get event", err)
	}

	if !isAdmin && current.CreatedBy != userID {
		return nil, apperrors.Validationf("you can only update events you created")
	}

	updates := make(map[string]interface{})

	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Department != nil {
		updates["department"] = *req.Department
	}

	// Rescheduling fields; the merged slot must be re-checked for conflicts
	newDate := current.EventDate
	newStart := current.StartTime
	newEnd := current.EndTime
	newVenue := current.Venue
	rescheduled := false

	if req.EventDate != nil {
		newDate, err = schedule.ParseDate(*req.EventDate)
		if err != nil {
			return nil, err
		}
		updates["event_date"] = newDate
		rescheduled = true
	}
	if req.StartTime != nil {
		newStart = *req.StartTime
		updates["start_time"] = newStart
		rescheduled = true
	}
	if req.EndTime != nil {
		newEnd = *req.EndTime
		updates["end_time"] = newEnd
		rescheduled = true
	}
	if req.Venue != nil {
		newVenue = *req.Venue
		updates["venue"] = newVenue
		rescheduled = true
	}

	if rescheduled {
		slot := schedule.Slot{Date: newDate, Start: newStart, End: newEnd}
		if err := slot.Validate(); err != nil {
			return nil, err
		}

		existing, err := s.repo.ListByVenueDate(ctx, newVenue, newDate)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.KindInternal, "failed to check venue schedule", err)
		}
		others := make([]Event, 0, len(existing))
		for _, e := range existing {
			if e.ID != id {
				others = append(others, e)
			}
		}
		if blocking := FindConflict(slot, others); blocking != nil {
			return nil, apperrors.Conflictf("venue %q is already booked from %s to %s by %q",
				newVenue, blocking.StartTime, blocking.EndTime, blocking.Title)
		}
	}

	if req.TotalSeats != nil {
		booked := s.bookedCount(ctx, id)
		if *req.TotalSeats < booked {
			return nil, apperrors.Validationf("total seats cannot be reduced below the %d already booked", booked)
		}
		updates["total_seats"] = *req.TotalSeats
		// Growing a sold-out event reopens it
		if current.Status == StatusClosed && *req.TotalSeats > booked {
			updates["status"] = StatusOpen
		}
	}

	if len(updates) == 0 {
		response := current.ToResponse(s.bookedCount(ctx, id))
		return &response, nil
	}

	updates["updated_at"] = time.Now()

	updated, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to update event", err)
	}

	s.invalidateEventCache(ctx, &id)

	response := updated.ToResponse(s.bookedCount(ctx, id))
	return &response, nil
}

func (s *service) DeleteEvent(ctx context.Context, id, userID uuid.UUID, isAdmin bool) error {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFoundf("event not found")
		}
		return apperrors.Wrap(apperrors.KindInternal, "failed to get event", err)
	}

	if !isAdmin && current.CreatedBy != userID {
		return apperrors.Validationf("you can only delete events you created")
	}

	if booked := s.bookedCount(ctx, id); booked > 0 {
		return apperrors.Conflictf("cannot delete event with %d existing registrations", booked)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return apperrors.Wrap(apperrors.KindInternal, "failed to delete event", err)
	}

	s.invalidateEventCache(ctx, &id)
	return nil
}

func (s *service) ListEvents(ctx context.Context, query EventListQuery) (*PaginatedEvents, error) {
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}

	fetch := func() (*PaginatedEvents, error) {
		eventList, totalCount, err := s.repo.List(ctx, query)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.KindInternal, "failed to list events", err)
		}

		responses := make([]EventResponse, len(eventList))
		for i := range eventList {
			responses[i] = eventList[i].ToResponse(s.bookedCount(ctx, eventList[i].ID))
		}

		return &PaginatedEvents{
			Events:     responses,
			TotalCount: totalCount,
			Page:       query.Page,
			Limit:      query.Limit,
			TotalPages: int(math.Ceil(float64(totalCount) / float64(query.Limit))),
		}, nil
	}

	if s.cacheService == nil {
		return fetch()
	}

	key := cache.BuildEventListKey(query.Page, query.Limit, query.Status, query.Venue, query.Department)
	// Only plain listings are cacheable; free-text search and date ranges
	// go straight to the database
	if query.Search != "" || query.DateFrom != "" || query.DateTo != "" {
		return fetch()
	}

	var cached PaginatedEvents
	err := s.cacheService.GetOrSet(ctx, key, cache.TTLEventList, func() (interface{}, error) {
		return fetch()
	}, &cached)
	if err != nil {
		return nil, err
	}
	return &cached, nil
}

func (s *service) UpcomingEvents(ctx context.Context, limit int) ([]EventResponse, error) {
	if limit <= 0 {
		limit = 5
	}
	if limit > 100 {
		limit = 100
	}

	fetch := func() ([]EventResponse, error) {
		eventList, err := s.repo.Upcoming(ctx, today(), limit)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.KindInternal, "failed to list upcoming events", err)
		}
		responses := make([]EventResponse, len(eventList))
		for i := range eventList {
			responses[i] = eventList[i].ToResponse(s.bookedCount(ctx, eventList[i].ID))
		}
		return responses, nil
	}

	if s.cacheService == nil {
		return fetch()
	}

	var cached []EventResponse
	err := s.cacheService.GetOrSet(ctx, cache.BuildUpcomingKey(limit), cache.TTLEventsUpcoming, func() (interface{}, error) {
		return fetch()
	}, &cached)
	if err != nil {
		return nil, err
	}
	return cached, nil
}

// today returns midnight of the current day; events are scheduled per date
func today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}
