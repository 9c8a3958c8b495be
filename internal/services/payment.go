package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"eventmingle/internal/domain"
)

type paymentService struct {
	eventRepo         domain.EventRepository
	participationRepo domain.ParticipationRepository
	collaborator      domain.PaymentCollaborator
	notifier          domain.ParticipationNotifier
	contextTimeout    time.Duration

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewPaymentService creates the payment gate. The notifier may be nil.
func NewPaymentService(
	eventRepo domain.EventRepository,
	participationRepo domain.ParticipationRepository,
	collaborator domain.PaymentCollaborator,
	notifier domain.ParticipationNotifier,
	timeout time.Duration,
) domain.PaymentService {
	return &paymentService{
		eventRepo:         eventRepo,
		participationRepo: participationRepo,
		collaborator:      collaborator,
		notifier:          notifier,
		contextTimeout:    timeout,
		inFlight:          make(map[string]struct{}),
	}
}

// acquire marks a participation as having a payment attempt in flight.
// The gate must not be invoked concurrently for the same participation.
func (s *paymentService) acquire(participationID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[participationID]; busy {
		return false
	}
	s.inFlight[participationID] = struct{}{}
	return true
}

func (s *paymentService) release(participationID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, participationID)
}

func (s *paymentService) CollectPayment(ctx context.Context, eventID, participationID, userID string, card domain.CardDetails) (*domain.Participation, error) {
	// Malformed input is rejected locally, before any collaborator call.
	if errs := card.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(errs, "; "))
	}

	if !s.acquire(participationID) {
		return nil, domain.ErrPaymentInFlight
	}
	defer s.release(participationID)

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if !event.IsPaid {
		return nil, fmt.Errorf("%w: event is not paid", domain.ErrPreconditionFailed)
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
	if p.UserID != userID {
		return nil, domain.ErrForbidden
	}

	// Re-entering the gate from PAYMENT_FAILED applies the retry edge first.
	if p.Status == domain.StatusPaymentFailed {
		p, err = s.participationRepo.UpdateStatus(ctx, p.ID, domain.StatusPaymentFailed, domain.StatusPaymentPending)
		if err != nil {
			if errors.Is(err, domain.ErrPreconditionFailed) {
				return nil, domain.ErrPreconditionFailed
			}
			return nil, fmt.Errorf("update participation status: %w", err)
		}
		s.notify(event, p, domain.StatusPaymentFailed)
	}
	if p.Status != domain.StatusPaymentPending {
		return nil, fmt.Errorf("%w: participation is %s, not %s", domain.ErrPreconditionFailed, p.Status, domain.StatusPaymentPending)
	}

	charge := domain.PaymentCharge{
		EventID:         eventID,
		ParticipationID: participationID,
		Card:            card,
		Amount:          event.Price,
	}
	if err := s.collaborator.SubmitPayment(ctx, charge); err != nil {
		if errors.Is(err, domain.ErrPaymentDeclined) {
			failed, updateErr := s.participationRepo.UpdateStatus(ctx, p.ID, domain.StatusPaymentPending, domain.StatusPaymentFailed)
			if updateErr != nil {
				return nil, fmt.Errorf("record declined payment: %w", updateErr)
			}
			s.notify(event, failed, domain.StatusPaymentPending)
			return failed, fmt.Errorf("collect payment: %w", domain.ErrPaymentDeclined)
		}
		// Transport failure: state unchanged, caller may retry the attempt.
		return nil, fmt.Errorf("submit payment: %w", err)
	}

	completed, err := s.participationRepo.UpdateStatus(ctx, p.ID, domain.StatusPaymentPending, domain.StatusCompleted)
	if err != nil {
		if errors.Is(err, domain.ErrPreconditionFailed) {
			return nil, domain.ErrPreconditionFailed
		}
		return nil, fmt.Errorf("update participation status: %w", err)
	}
	s.notify(event, completed, domain.StatusPaymentPending)
	return completed, nil
}

func (s *paymentService) notify(event *domain.Event, p *domain.Participation, previous domain.ParticipationStatus) {
	if s.notifier == nil {
		return
	}
	s.notifier.NotifyParticipationChanged(domain.ParticipationChange{
		Event:         event,
		Participation: p,
		Previous:      previous,
	})
}
