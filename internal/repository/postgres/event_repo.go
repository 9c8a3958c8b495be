package postgres

import (
	"context"
	"database/sql"
	"errors"

	"eventmingle/internal/domain"
)

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

func (r *eventRepository) Create(ctx context.Context, event *domain.Event) error {
	query := `
		INSERT INTO events (organizer_id, name, description, is_paid, price, max_participants, requires_approval, latitude, longitude, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		event.OrganizerID, event.Name, event.Description,
		event.IsPaid, event.Price, event.MaxParticipants, event.RequiresApproval,
		event.Latitude, event.Longitude, event.CreatedAt, event.UpdatedAt,
	).Scan(&event.ID)
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `
		SELECT id, organizer_id, name, description, is_paid, price, max_participants, requires_approval, latitude, longitude, created_at, updated_at
		FROM events
		WHERE id = $1
	`
	event := &domain.Event{}
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&event.ID, &event.OrganizerID, &event.Name, &event.Description,
		&event.IsPaid, &event.Price, &event.MaxParticipants, &event.RequiresApproval,
		&event.Latitude, &event.Longitude, &event.CreatedAt, &event.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return event, nil
}

func (r *eventRepository) ListByOrganizerID(ctx context.Context, organizerID string) ([]*domain.Event, error) {
	query := `
		SELECT id, organizer_id, name, description, is_paid, price, max_participants, requires_approval, latitude, longitude, created_at, updated_at
		FROM events
		WHERE organizer_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, organizerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*domain.Event
	for rows.Next() {
		event := &domain.Event{}
		if err := rows.Scan(
			&event.ID, &event.OrganizerID, &event.Name, &event.Description,
			&event.IsPaid, &event.Price, &event.MaxParticipants, &event.RequiresApproval,
			&event.Latitude, &event.Longitude, &event.CreatedAt, &event.UpdatedAt,
		); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, nil
}
