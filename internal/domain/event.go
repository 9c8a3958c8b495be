package domain

import (
	"context"
	"time"
)

// Event represents a discoverable social event. Exactly one organizer owns an
// event; the organizer never participates in their own event.
// swagger:model Event
type Event struct {
	ID          string `json:"id"`
	OrganizerID string `json:"organizer_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IsPaid      bool   `json:"is_paid"`
	// Price is the charge amount in the smallest currency unit. Must be
	// non-negative when IsPaid is true; ignored otherwise.
	Price int64 `json:"price"`
	// MaxParticipants limits how many participants may hold a slot
	// (APPROVED or COMPLETED). Nil means unlimited.
	MaxParticipants  *int      `json:"max_participants,omitempty"`
	RequiresApproval bool      `json:"requires_approval"`
	Latitude         *float64  `json:"latitude,omitempty"`
	Longitude        *float64  `json:"longitude,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// NewEvent returns a new Event with the given fields. ID is set by the
// repository on create.
func NewEvent(organizerID, name, description string, createdAt, updatedAt time.Time) *Event {
	return &Event{
		OrganizerID: organizerID,
		Name:        name,
		Description: description,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
}

// EventSnapshot bundles an event with its participation records, in join
// order. The capacity policy and join guards operate on snapshots so a fresh
// read backs every transition decision.
// swagger:model EventSnapshot
type EventSnapshot struct {
	Event        *Event           `json:"event"`
	Participants []*Participation `json:"participants"`
}

// EventRepository defines the interface for event storage.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	ListByOrganizerID(ctx context.Context, organizerID string) ([]*Event, error)
}

// EventService defines organizer-facing event operations.
type EventService interface {
	// CreateEvent validates and stores a new event. Missing name or
	// coordinates, or a paid event with a negative price, is ErrInvalidInput.
	CreateEvent(ctx context.Context, event *Event) error
	// GetSnapshot returns the event with its participants in join order.
	GetSnapshot(ctx context.Context, eventID string) (*EventSnapshot, error)
	ListEventsByOrganizer(ctx context.Context, organizerID string) ([]*Event, error)
}
