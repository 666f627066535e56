package repository

import (
	"context"
	"database/sql"

	"event-networking-api/core/database"
	"event-networking-api/core/logger"
	"event-networking-api/modules/meeting/entity"
)

// MeetingRepository persists the meeting aggregate, one durable row per meeting.
type MeetingRepository struct {
	DB database.IDatabase
}

func NewMeetingRepository(db database.IDatabase) *MeetingRepository {
	return &MeetingRepository{DB: db}
}

// MeetingRepositoryInterface defines the repository contract.
type MeetingRepositoryInterface interface {
	Create(ctx context.Context, meeting *entity.Meeting) error
	GetByID(ctx context.Context, id string) (*entity.Meeting, error)
	Update(ctx context.Context, meeting *entity.Meeting) error
	Delete(ctx context.Context, id string) error
	ListByActor(ctx context.Context, eventID, actorID string) ([]entity.Meeting, error)
	ListActiveByEvent(ctx context.Context, eventID string) ([]entity.Meeting, error)
}

const meetingColumns = `
	id, event_id, sender_id, sender_role, receiver_id, receiver_role, mode,
	slot_ts, proposed_slot_ts, table_id, join_link, status, subject, message,
	closed_by, created_at, updated_at`

func (r *MeetingRepository) Create(ctx context.Context, meeting *entity.Meeting) error {
	query := `
		INSERT INTO meetings (id, event_id, sender_id, sender_role, receiver_id, receiver_role,
		                      mode, slot_ts, proposed_slot_ts, table_id, join_link, status,
		                      subject, message, closed_by)
		VALUES (:id, :event_id, :sender_id, :sender_role, :receiver_id, :receiver_role,
		        :mode, :slot_ts, :proposed_slot_ts, :table_id, :join_link, :status,
		        :subject, :message, :closed_by)
	`

	if _, err := r.DB.NamedExecContext(ctx, query, meeting); err != nil {
		logger.Error("MeetingRepository:Create", err)
		return err
	}
	return nil
}

func (r *MeetingRepository) GetByID(ctx context.Context, id string) (*entity.Meeting, error) {
	query := `SELECT ` + meetingColumns + ` FROM meetings WHERE id = $1`

	var meeting entity.Meeting
	err := r.DB.GetContext(ctx, &meeting, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("MeetingRepository:GetByID", err)
		return nil, err
	}
	return &meeting, nil
}

// Update writes every mutable field; transitions always go through the
// service's per-meeting lock, so a full-row write is safe.
func (r *MeetingRepository) Update(ctx context.Context, meeting *entity.Meeting) error {
	query := `
		UPDATE meetings
		SET mode = :mode, slot_ts = :slot_ts, proposed_slot_ts = :proposed_slot_ts,
		    table_id = :table_id, join_link = :join_link, status = :status,
		    subject = :subject, message = :message, closed_by = :closed_by,
		    updated_at = NOW()
		WHERE id = :id
	`

	if _, err := r.DB.NamedExecContext(ctx, query, meeting); err != nil {
		logger.Error("MeetingRepository:Update", err)
		return err
	}
	return nil
}

func (r *MeetingRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM meetings WHERE id = $1`
	if err := r.DB.ExecContext(ctx, query, id); err != nil {
		logger.Error("MeetingRepository:Delete", err)
		return err
	}
	return nil
}

func (r *MeetingRepository) ListByActor(ctx context.Context, eventID, actorID string) ([]entity.Meeting, error) {
	query := `
		SELECT ` + meetingColumns + `
		FROM meetings
		WHERE event_id = $1 AND (sender_id = $2 OR receiver_id = $2)
		ORDER BY slot_ts, created_at
	`

	var meetings []entity.Meeting
	err := r.DB.SelectContext(ctx, &meetings, query, eventID, actorID)
	if err != nil {
		logger.Error("MeetingRepository:ListByActor", err)
		return nil, err
	}
	return meetings, nil
}

// ListActiveByEvent returns every non-terminal meeting of an event; the
// suggestion feed uses it to skip pairs that already have a live thread.
func (r *MeetingRepository) ListActiveByEvent(ctx context.Context, eventID string) ([]entity.Meeting, error) {
	query := `
		SELECT ` + meetingColumns + `
		FROM meetings
		WHERE event_id = $1 AND status NOT IN ('rejected', 'cancelled')
		ORDER BY created_at
	`

	var meetings []entity.Meeting
	err := r.DB.SelectContext(ctx, &meetings, query, eventID)
	if err != nil {
		logger.Error("MeetingRepository:ListActiveByEvent", err)
		return nil, err
	}
	return meetings, nil
}
