package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"eventmingle/internal/domain"
)

type moderationService struct {
	eventRepo         domain.EventRepository
	participationRepo domain.ParticipationRepository
	notifier          domain.ParticipationNotifier
	contextTimeout    time.Duration
}

// NewModerationService creates a ModerationService. The notifier may be nil.
func NewModerationService(
	eventRepo domain.EventRepository,
	participationRepo domain.ParticipationRepository,
	notifier domain.ParticipationNotifier,
	timeout time.Duration,
) domain.ModerationService {
	return &moderationService{
		eventRepo:         eventRepo,
		participationRepo: participationRepo,
		notifier:          notifier,
		contextTimeout:    timeout,
	}
}

func (s *moderationService) Approve(ctx context.Context, eventID, participationID, actorID string) (*domain.Participation, error) {
	return s.decide(ctx, eventID, participationID, actorID, domain.StatusApproved)
}

func (s *moderationService) Reject(ctx context.Context, eventID, participationID, actorID string) (*domain.Participation, error) {
	return s.decide(ctx, eventID, participationID, actorID, domain.StatusRejected)
}

func (s *moderationService) decide(ctx context.Context, eventID, participationID, actorID string, to domain.ParticipationStatus) (*domain.Participation, error) {
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

	p, err := s.participationRepo.GetByID(ctx, participationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get participation: %w", err)
	}
	if p.EventID != eventID {
		return nil, domain.ErrNotFound
	}
	if p.Status != domain.StatusPending {
		return nil, fmt.Errorf("%w: participation is %s, not %s", domain.ErrPreconditionFailed, p.Status, domain.StatusPending)
	}

	// Approving must not overfill the event.
	if to == domain.StatusApproved {
		participants, err := s.participationRepo.ListByEventID(ctx, eventID)
		if err != nil {
			return nil, fmt.Errorf("list participants: %w", err)
		}
		snap := &domain.EventSnapshot{Event: event, Participants: participants}
		if !domain.CanAcceptNewParticipant(snap) {
			return nil, fmt.Errorf("%w: event is full", domain.ErrPreconditionFailed)
		}
	}

	updated, err := s.participationRepo.UpdateStatus(ctx, p.ID, domain.StatusPending, to)
	if err != nil {
		if errors.Is(err, domain.ErrPreconditionFailed) {
			return nil, domain.ErrPreconditionFailed
		}
		return nil, fmt.Errorf("update participation status: %w", err)
	}
	if s.notifier != nil {
		s.notifier.NotifyParticipationChanged(domain.ParticipationChange{
			Event:         event,
			Participation: updated,
			Previous:      domain.StatusPending,
		})
	}
	return updated, nil
}
