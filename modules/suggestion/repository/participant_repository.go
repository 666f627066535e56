package repository

import (
	"context"

	"event-networking-api/core/database"
	"event-networking-api/core/logger"
	"event-networking-api/modules/suggestion/entity"
)

// ParticipantRepository reads the participant snapshot the feed scores against.
type ParticipantRepository struct {
	DB database.IDatabase
}

func NewParticipantRepository(db database.IDatabase) *ParticipantRepository {
	return &ParticipantRepository{DB: db}
}

// ParticipantRepositoryInterface defines the repository contract.
type ParticipantRepositoryInterface interface {
	ListByEvent(ctx context.Context, eventID string) ([]entity.Participant, error)
}

func (r *ParticipantRepository) ListByEvent(ctx context.Context, eventID string) ([]entity.Participant, error) {
	query := `
		SELECT actor_id, event_id, role, interests, created_at
		FROM event_participants
		WHERE event_id = $1
		ORDER BY actor_id
	`

	var participants []entity.Participant
	err := r.DB.SelectContext(ctx, &participants, query, eventID)
	if err != nil {
		logger.Error("ParticipantRepository:ListByEvent", err)
		return nil, err
	}
	return participants, nil
}
