package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"eventmingle/internal/domain"
)

type eventService struct {
	eventRepo         domain.EventRepository
	participationRepo domain.ParticipationRepository
	contextTimeout    time.Duration
}

// NewEventService creates an EventService with the given repositories.
func NewEventService(
	eventRepo domain.EventRepository,
	participationRepo domain.ParticipationRepository,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		eventRepo:         eventRepo,
		participationRepo: participationRepo,
		contextTimeout:    timeout,
	}
}

func (s *eventService) CreateEvent(ctx context.Context, event *domain.Event) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if event.OrganizerID == "" {
		return fmt.Errorf("%w: event organizer is required", domain.ErrInvalidInput)
	}
	event.Name = strings.TrimSpace(event.Name)
	if event.Name == "" {
		return fmt.Errorf("%w: event name is required", domain.ErrInvalidInput)
	}
	if event.Latitude == nil || event.Longitude == nil {
		return fmt.Errorf("%w: event coordinates are required", domain.ErrInvalidInput)
	}
	if event.IsPaid && event.Price < 0 {
		return fmt.Errorf("%w: price must be non-negative for paid events", domain.ErrInvalidInput)
	}
	if !event.IsPaid {
		event.Price = 0
	}
	if event.MaxParticipants != nil && *event.MaxParticipants <= 0 {
		return fmt.Errorf("%w: max_participants must be positive", domain.ErrInvalidInput)
	}

	event.CreatedAt = time.Now()
	event.UpdatedAt = time.Now()
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

func (s *eventService) GetSnapshot(ctx context.Context, eventID string) (*domain.EventSnapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	participants, err := s.participationRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	if participants == nil {
		participants = []*domain.Participation{}
	}
	return &domain.EventSnapshot{Event: event, Participants: participants}, nil
}

func (s *eventService) ListEventsByOrganizer(ctx context.Context, organizerID string) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.ListByOrganizerID(ctx, organizerID)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, nil
}
