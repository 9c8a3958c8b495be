package domain

import (
	"context"
	"time"
)

// ParticipationStatus is the closed set of states a participation moves
// through. StatusNone is never persisted; it represents the absence of a
// record for a (event, user) pair.
type ParticipationStatus string

const (
	StatusNone           ParticipationStatus = "NONE"
	StatusPending        ParticipationStatus = "PENDING"
	StatusApproved       ParticipationStatus = "APPROVED"
	StatusRejected       ParticipationStatus = "REJECTED"
	StatusPaymentPending ParticipationStatus = "PAYMENT_PENDING"
	StatusPaymentFailed  ParticipationStatus = "PAYMENT_FAILED"
	StatusCancelled      ParticipationStatus = "CANCELLED"
	StatusCompleted      ParticipationStatus = "COMPLETED"
)

// ValidStatus reports whether s is a known persisted status.
func ValidStatus(s ParticipationStatus) bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected,
		StatusPaymentPending, StatusPaymentFailed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is defined from s.
func IsTerminal(s ParticipationStatus) bool {
	return s == StatusRejected || s == StatusCancelled || s == StatusCompleted
}

// transitions is the single source of truth for which status edges exist.
// Creation edges from StatusNone are guarded separately in Join; everything
// else must appear here.
var transitions = map[ParticipationStatus][]ParticipationStatus{
	StatusNone:           {StatusPending, StatusApproved, StatusPaymentPending},
	StatusPending:        {StatusApproved, StatusRejected, StatusCancelled},
	StatusApproved:       {StatusCancelled},
	StatusPaymentPending: {StatusCompleted, StatusPaymentFailed, StatusCancelled},
	StatusPaymentFailed:  {StatusPaymentPending, StatusCancelled},
}

// CanTransition reports whether the edge from -> to is defined.
func CanTransition(from, to ParticipationStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Participation is the record of one user's relationship to one event's join
// workflow. At most one active record exists per (event, user) pair. Records
// are never deleted, only transitioned to a terminal status.
// swagger:model Participation
type Participation struct {
	ID        string              `json:"id"`
	EventID   string              `json:"event_id"`
	UserID    string              `json:"user_id"`
	Status    ParticipationStatus `json:"status"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// NewParticipation returns a Participation in the given initial status.
// ID is set by the repository on create.
func NewParticipation(eventID, userID string, status ParticipationStatus, createdAt, updatedAt time.Time) *Participation {
	return &Participation{
		EventID:   eventID,
		UserID:    userID,
		Status:    status,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// ParticipationRepository defines storage operations for participations.
// UpdateStatus is a compare-and-set: it moves the record from `from` to `to`
// only if the stored status still equals `from`, and returns
// ErrPreconditionFailed otherwise. This keeps transitions honest against
// concurrent writers without optimistic local commits.
type ParticipationRepository interface {
	Create(ctx context.Context, p *Participation) error
	GetByID(ctx context.Context, id string) (*Participation, error)
	GetByEventAndUser(ctx context.Context, eventID, userID string) (*Participation, error)
	// ListByEventID returns participations in join order (created_at ascending).
	ListByEventID(ctx context.Context, eventID string) ([]*Participation, error)
	UpdateStatus(ctx context.Context, id string, from, to ParticipationStatus) (*Participation, error)
}

// ParticipationService drives the user-side participation lifecycle.
type ParticipationService interface {
	// Join creates a participation for the user. Paid events enter
	// PAYMENT_PENDING; unpaid events enter PENDING, or APPROVED directly when
	// the event does not require approval.
	Join(ctx context.Context, eventID, userID string) (*Participation, error)
	// Cancel moves the caller's participation to CANCELLED. Allowed from
	// PENDING, APPROVED, PAYMENT_PENDING and PAYMENT_FAILED.
	Cancel(ctx context.Context, eventID, participationID, userID string) (*Participation, error)
	// RetryPayment moves a PAYMENT_FAILED participation back to
	// PAYMENT_PENDING so the payment gate can be re-entered.
	RetryPayment(ctx context.Context, eventID, participationID, userID string) (*Participation, error)
	// GetForUser returns the caller's participation for the event, or
	// ErrNotFound when no record exists.
	GetForUser(ctx context.Context, eventID, userID string) (*Participation, error)
	// ListByEvent returns all participations for the event. Organizer only.
	ListByEvent(ctx context.Context, eventID, actorID string) ([]*Participation, error)
}

// ModerationService exposes organizer-only decisions on pending participants.
// Both operations require the actor to be the event's organizer and the target
// to be exactly PENDING; anything else is ErrPreconditionFailed, never a
// silent success.
type ModerationService interface {
	Approve(ctx context.Context, eventID, participationID, actorID string) (*Participation, error)
	Reject(ctx context.Context, eventID, participationID, actorID string) (*Participation, error)
}

// ParticipationChange describes a committed status transition.
type ParticipationChange struct {
	Event         *Event
	Participation *Participation
	Previous      ParticipationStatus
}

// ParticipationNotifier receives committed transitions. Implementations must
// not block; services call it after the repository write is acknowledged.
type ParticipationNotifier interface {
	NotifyParticipationChanged(change ParticipationChange)
}
