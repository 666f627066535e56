package repository

import (
	"context"

	"event-networking-api/core/database"
	"event-networking-api/core/logger"
	"event-networking-api/modules/attendance/entity"
)

// AttendanceRepository persists the per-(meeting, actor) check-in records.
type AttendanceRepository struct {
	DB database.IDatabase
}

func NewAttendanceRepository(db database.IDatabase) *AttendanceRepository {
	return &AttendanceRepository{DB: db}
}

// AttendanceRepositoryInterface defines the repository contract.
type AttendanceRepositoryInterface interface {
	Upsert(ctx context.Context, record *entity.Attendance) error
	ListByMeeting(ctx context.Context, meetingID string) ([]entity.Attendance, error)
}

// Upsert inserts the check-in or, when the actor already checked in, updates
// scanner metadata only. checked_in_at is never overwritten: the first scan
// wins, keeping first-arrival stable under duplicates.
func (r *AttendanceRepository) Upsert(ctx context.Context, record *entity.Attendance) error {
	query := `
		INSERT INTO meeting_attendance (meeting_id, actor_id, checked_in_at, scanner_id, source)
		VALUES (:meeting_id, :actor_id, :checked_in_at, :scanner_id, :source)
		ON CONFLICT (meeting_id, actor_id)
		DO UPDATE SET scanner_id = :scanner_id, source = :source, updated_at = NOW()
	`

	if _, err := r.DB.NamedExecContext(ctx, query, record); err != nil {
		logger.Error("AttendanceRepository:Upsert", err)
		return err
	}
	return nil
}

func (r *AttendanceRepository) ListByMeeting(ctx context.Context, meetingID string) ([]entity.Attendance, error) {
	query := `
		SELECT meeting_id, actor_id, checked_in_at, scanner_id, source, updated_at
		FROM meeting_attendance
		WHERE meeting_id = $1
		ORDER BY actor_id
	`

	var records []entity.Attendance
	err := r.DB.SelectContext(ctx, &records, query, meetingID)
	if err != nil {
		logger.Error("AttendanceRepository:ListByMeeting", err)
		return nil, err
	}
	return records, nil
}
