package repository

import (
	"context"
	"database/sql"
	"time"

	"event-networking-api/core/database"
	"event-networking-api/core/logger"
	"event-networking-api/modules/slot/entity"
)

// SlotRepository persists the per-(event, slot, mode) counters and held tables.
type SlotRepository struct {
	DB database.IDatabase
}

func NewSlotRepository(db database.IDatabase) *SlotRepository {
	return &SlotRepository{DB: db}
}

// SlotRepositoryInterface defines the repository contract.
type SlotRepositoryInterface interface {
	GetUsage(ctx context.Context, eventID string, slot time.Time, mode entity.SlotMode) (*entity.SlotUsage, error)
	CreateUsage(ctx context.Context, usage *entity.SlotUsage) error
	AddUsed(ctx context.Context, eventID string, slot time.Time, mode entity.SlotMode, delta int) error
	UpdateCapacity(ctx context.Context, eventID string, slot time.Time, mode entity.SlotMode, capacity, tablePool int) error
	ListUsageRange(ctx context.Context, eventID string, from, to time.Time) ([]entity.SlotUsage, error)

	ListTables(ctx context.Context, eventID string, slot time.Time) ([]entity.SlotTable, error)
	InsertTable(ctx context.Context, table *entity.SlotTable) error
	DeleteTable(ctx context.Context, eventID string, slot time.Time, tableID string) error
}

func (r *SlotRepository) GetUsage(ctx context.Context, eventID string, slot time.Time, mode entity.SlotMode) (*entity.SlotUsage, error) {
	query := `
		SELECT event_id, slot_ts, mode, used, capacity, table_pool, created_at, updated_at
		FROM slot_usage
		WHERE event_id = $1 AND slot_ts = $2 AND mode = $3
	`

	var usage entity.SlotUsage
	err := r.DB.GetContext(ctx, &usage, query, eventID, slot, mode)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("SlotRepository:GetUsage", err)
		return nil, err
	}
	return &usage, nil
}

func (r *SlotRepository) CreateUsage(ctx context.Context, usage *entity.SlotUsage) error {
	query := `
		INSERT INTO slot_usage (event_id, slot_ts, mode, used, capacity, table_pool)
		VALUES (:event_id, :slot_ts, :mode, :used, :capacity, :table_pool)
	`

	if _, err := r.DB.NamedExecContext(ctx, query, usage); err != nil {
		logger.Error("SlotRepository:CreateUsage", err)
		return err
	}
	return nil
}

func (r *SlotRepository) AddUsed(ctx context.Context, eventID string, slot time.Time, mode entity.SlotMode, delta int) error {
	query := `
		UPDATE slot_usage
		SET used = GREATEST(used + $4, 0), updated_at = NOW()
		WHERE event_id = $1 AND slot_ts = $2 AND mode = $3
	`

	if err := r.DB.ExecContext(ctx, query, eventID, slot, mode, delta); err != nil {
		logger.Error("SlotRepository:AddUsed", err)
		return err
	}
	return nil
}

func (r *SlotRepository) UpdateCapacity(ctx context.Context, eventID string, slot time.Time, mode entity.SlotMode, capacity, tablePool int) error {
	query := `
		INSERT INTO slot_usage (event_id, slot_ts, mode, used, capacity, table_pool)
		VALUES ($1, $2, $3, 0, $4, $5)
		ON CONFLICT (event_id, slot_ts, mode)
		DO UPDATE SET capacity = $4, table_pool = $5, updated_at = NOW()
	`

	if err := r.DB.ExecContext(ctx, query, eventID, slot, mode, capacity, tablePool); err != nil {
		logger.Error("SlotRepository:UpdateCapacity", err)
		return err
	}
	return nil
}

// ListUsageRange returns the counters with from <= slot_ts < to.
func (r *SlotRepository) ListUsageRange(ctx context.Context, eventID string, from, to time.Time) ([]entity.SlotUsage, error) {
	query := `
		SELECT event_id, slot_ts, mode, used, capacity, table_pool, created_at, updated_at
		FROM slot_usage
		WHERE event_id = $1 AND slot_ts >= $2 AND slot_ts < $3
		ORDER BY slot_ts, mode
	`

	var usages []entity.SlotUsage
	err := r.DB.SelectContext(ctx, &usages, query, eventID, from, to)
	if err != nil {
		logger.Error("SlotRepository:ListUsageRange", err)
		return nil, err
	}
	return usages, nil
}

func (r *SlotRepository) ListTables(ctx context.Context, eventID string, slot time.Time) ([]entity.SlotTable, error) {
	query := `
		SELECT event_id, slot_ts, table_id, meeting_id, created_at
		FROM slot_tables
		WHERE event_id = $1 AND slot_ts = $2
		ORDER BY table_id
	`

	var tables []entity.SlotTable
	err := r.DB.SelectContext(ctx, &tables, query, eventID, slot)
	if err != nil {
		logger.Error("SlotRepository:ListTables", err)
		return nil, err
	}
	return tables, nil
}

func (r *SlotRepository) InsertTable(ctx context.Context, table *entity.SlotTable) error {
	query := `
		INSERT INTO slot_tables (event_id, slot_ts, table_id, meeting_id)
		VALUES (:event_id, :slot_ts, :table_id, :meeting_id)
	`

	if _, err := r.DB.NamedExecContext(ctx, query, table); err != nil {
		logger.Error("SlotRepository:InsertTable", err)
		return err
	}
	return nil
}

func (r *SlotRepository) DeleteTable(ctx context.Context, eventID string, slot time.Time, tableID string) error {
	query := `DELETE FROM slot_tables WHERE event_id = $1 AND slot_ts = $2 AND table_id = $3`

	if err := r.DB.ExecContext(ctx, query, eventID, slot, tableID); err != nil {
		logger.Error("SlotRepository:DeleteTable", err)
		return err
	}
	return nil
}
