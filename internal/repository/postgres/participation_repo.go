package postgres

import (
	"context"
	"database/sql"
	"errors"

	"eventmingle/internal/domain"
)

type participationRepository struct {
	DB *sql.DB
}

func NewParticipationRepository(db *sql.DB) domain.ParticipationRepository {
	return &participationRepository{
		DB: db,
	}
}

func (r *participationRepository) Create(ctx context.Context, p *domain.Participation) error {
	query := `
		INSERT INTO participations (event_id, user_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query, p.EventID, p.UserID, p.Status, p.CreatedAt, p.UpdatedAt).
		Scan(&p.ID)
}

func (r *participationRepository) GetByID(ctx context.Context, id string) (*domain.Participation, error) {
	query := `
		SELECT id, event_id, user_id, status, created_at, updated_at
		FROM participations
		WHERE id = $1
	`
	p := &domain.Participation{}
	err := r.DB.QueryRowContext(ctx, query, id).
		Scan(&p.ID, &p.EventID, &p.UserID, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *participationRepository) GetByEventAndUser(ctx context.Context, eventID, userID string) (*domain.Participation, error) {
	query := `
		SELECT id, event_id, user_id, status, created_at, updated_at
		FROM participations
		WHERE event_id = $1 AND user_id = $2
	`
	p := &domain.Participation{}
	err := r.DB.QueryRowContext(ctx, query, eventID, userID).
		Scan(&p.ID, &p.EventID, &p.UserID, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *participationRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.Participation, error) {
	query := `
		SELECT id, event_id, user_id, status, created_at, updated_at
		FROM participations
		WHERE event_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var participants []*domain.Participation
	for rows.Next() {
		p := &domain.Participation{}
		if err := rows.Scan(&p.ID, &p.EventID, &p.UserID, &p.Status, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if participants == nil {
		participants = []*domain.Participation{}
	}
	return participants, nil
}

// UpdateStatus is a compare-and-set on status. When the stored status no
// longer equals `from`, no row matches and ErrPreconditionFailed is returned
// (if the record exists) or ErrNotFound (if it does not).
func (r *participationRepository) UpdateStatus(ctx context.Context, id string, from, to domain.ParticipationStatus) (*domain.Participation, error) {
	query := `
		UPDATE participations
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
		RETURNING id, event_id, user_id, status, created_at, updated_at
	`
	p := &domain.Participation{}
	err := r.DB.QueryRowContext(ctx, query, to, id, from).
		Scan(&p.ID, &p.EventID, &p.UserID, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			if _, getErr := r.GetByID(ctx, id); getErr != nil {
				return nil, getErr
			}
			return nil, domain.ErrPreconditionFailed
		}
		return nil, err
	}
	return p, nil
}
