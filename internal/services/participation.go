package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"eventmingle/internal/domain"
)

type participationService struct {
	eventRepo         domain.EventRepository
	participationRepo domain.ParticipationRepository
	notifier          domain.ParticipationNotifier
	contextTimeout    time.Duration
}

// NewParticipationService creates a ParticipationService with the given
// repositories. The notifier receives every committed transition and may be
// nil.
func NewParticipationService(
	eventRepo domain.EventRepository,
	participationRepo domain.ParticipationRepository,
	notifier domain.ParticipationNotifier,
	timeout time.Duration,
) domain.ParticipationService {
	return &participationService{
		eventRepo:         eventRepo,
		participationRepo: participationRepo,
		notifier:          notifier,
		contextTimeout:    timeout,
	}
}

func (s *participationService) notify(event *domain.Event, p *domain.Participation, previous domain.ParticipationStatus) {
	if s.notifier == nil {
		return
	}
	s.notifier.NotifyParticipationChanged(domain.ParticipationChange{
		Event:         event,
		Participation: p,
		Previous:      previous,
	})
}

func (s *participationService) Join(ctx context.Context, eventID, userID string) (*domain.Participation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.OrganizerID == userID {
		return nil, fmt.Errorf("%w: organizer cannot join their own event", domain.ErrPreconditionFailed)
	}

	// One record per (event, user); records are never deleted, so any
	// existing record, terminal or not, blocks a fresh join.
	if _, err := s.participationRepo.GetByEventAndUser(ctx, eventID, userID); err == nil {
		return nil, fmt.Errorf("%w: participation already exists", domain.ErrPreconditionFailed)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get participation: %w", err)
	}

	participants, err := s.participationRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	snap := &domain.EventSnapshot{Event: event, Participants: participants}
	if !domain.CanAcceptNewParticipant(snap) {
		return nil, fmt.Errorf("%w: event is full", domain.ErrPreconditionFailed)
	}

	// Payment gating takes precedence over approval gating: a paid event
	// always requires payment first.
	initial := domain.StatusApproved
	switch {
	case event.IsPaid:
		initial = domain.StatusPaymentPending
	case event.RequiresApproval:
		initial = domain.StatusPending
	}

	now := time.Now()
	p := domain.NewParticipation(eventID, userID, initial, now, now)
	if err := s.participationRepo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create participation: %w", err)
	}
	s.notify(event, p, domain.StatusNone)
	return p, nil
}

func (s *participationService) Cancel(ctx context.Context, eventID, participationID, userID string) (*domain.Participation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, p, err := s.getOwned(ctx, eventID, participationID, userID)
	if err != nil {
		return nil, err
	}
	if !domain.CanTransition(p.Status, domain.StatusCancelled) {
		return nil, fmt.Errorf("%w: cannot cancel from status %s", domain.ErrPreconditionFailed, p.Status)
	}
	updated, err := s.participationRepo.UpdateStatus(ctx, p.ID, p.Status, domain.StatusCancelled)
	if err != nil {
		if errors.Is(err, domain.ErrPreconditionFailed) {
			return nil, domain.ErrPreconditionFailed
		}
		return nil, fmt.Errorf("update participation status: %w", err)
	}
	s.notify(event, updated, p.Status)
	return updated, nil
}

func (s *participationService) RetryPayment(ctx context.Context, eventID, participationID, userID string) (*domain.Participation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, p, err := s.getOwned(ctx, eventID, participationID, userID)
	if err != nil {
		return nil, err
	}
	if p.Status != domain.StatusPaymentFailed {
		return nil, fmt.Errorf("%w: retry is only allowed from %s", domain.ErrPreconditionFailed, domain.StatusPaymentFailed)
	}
	updated, err := s.participationRepo.UpdateStatus(ctx, p.ID, domain.StatusPaymentFailed, domain.StatusPaymentPending)
	if err != nil {
		if errors.Is(err, domain.ErrPreconditionFailed) {
			return nil, domain.ErrPreconditionFailed
		}
		return nil, fmt.Errorf("update participation status: %w", err)
	}
	s.notify(event, updated, p.Status)
	return updated, nil
}

func (s *participationService) GetForUser(ctx context.Context, eventID, userID string) (*domain.Participation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	p, err := s.participationRepo.GetByEventAndUser(ctx, eventID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get participation: %w", err)
	}
	return p, nil
}

func (s *participationService) ListByEvent(ctx context.Context, eventID, actorID string) ([]*domain.Participation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.OrganizerID != actorID {
		return nil, domain.ErrForbidden
	}
	participants, err := s.participationRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	if participants == nil {
		participants = []*domain.Participation{}
	}
	return participants, nil
}

// getOwned loads the event and the participation, checking that the
// participation belongs to the event and to the acting user.
func (s *participationService) getOwned(ctx context.Context, eventID, participationID, userID string) (*domain.Event, *domain.Participation, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, domain.ErrNotFound
		}
		return nil, nil, fmt.Errorf("get event: %w", err)
	}
	p, err := s.participationRepo.GetByID(ctx, participationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, domain.ErrNotFound
		}
		return nil, nil, fmt.Errorf("get participation: %w", err)
	}
	if p.EventID != eventID {
		return nil, nil, domain.ErrNotFound
	}
	if p.UserID != userID {
		return nil, nil, domain.ErrForbidden
	}
	return event, p, nil
}
