package repository

import (
	"context"

	"event-networking-api/core/database"
	"event-networking-api/core/logger"
	"event-networking-api/core/params"
	"event-networking-api/modules/notification/entity"

	"github.com/jmoiron/sqlx"
)

type NotificationRepository struct {
	db database.Database
}

func NewNotificationRepository(db database.Database) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, notification *entity.Notification) error {
	query := `
		INSERT INTO notifications (title, message, type, data, actor_id, is_read, created_at, updated_at)
		VALUES (:title, :message, :type, :data, :actor_id, :is_read, :created_at, :updated_at)
		RETURNING id
	`
	rows, err := r.db.NamedQueryContext(ctx, query, notification)
	if err != nil {
		logger.Error("NotificationRepository:Create:Error:", err)
		return err
	}
	defer rows.Close()

	if rows.Next() {
		return rows.Scan(&notification.ID)
	}
	return nil
}

func (r *NotificationRepository) GetByActorID(ctx context.Context, actorID string, params params.QueryParams) (*entity.PaginatedNotificationEntity, error) {
	offset := (params.PageNumber - 1) * params.PageSize

	baseQuery := `FROM notifications WHERE actor_id = $1`

	var totalItems int
	err := r.db.GetContext(ctx, &totalItems, "SELECT COUNT(*) "+baseQuery, actorID)
	if err != nil {
		logger.Error("NotificationRepository:GetByActorID:Count:Error:", err)
		return nil, err
	}

	query := `
		SELECT * ` + baseQuery + `
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	var notifications []entity.Notification
	err = r.db.SelectContext(ctx, &notifications, query, actorID, params.PageSize, offset)
	if err != nil {
		logger.Error("NotificationRepository:GetByActorID:Select:Error:", err)
		return nil, err
	}

	totalPages := (totalItems + params.PageSize - 1) / params.PageSize

	return &entity.PaginatedNotificationEntity{
		Items:      notifications,
		TotalItems: totalItems,
		PageNumber: params.PageNumber,
		PageSize:   params.PageSize,
		TotalPages: totalPages,
	}, nil
}

func (r *NotificationRepository) MarkAsRead(ctx context.Context, actorID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	query, args, err := sqlx.In(`UPDATE notifications SET is_read = true WHERE actor_id = ? AND id IN (?)`, actorID, ids)
	if err != nil {
		return err
	}

	query = r.db.SQLx().Rebind(query)
	err = r.db.ExecContext(ctx, query, args...)
	if err != nil {
		logger.Error("NotificationRepository:MarkAsRead:Error:", err)
		return err
	}
	return nil
}

func (r *NotificationRepository) MarkAllAsRead(ctx context.Context, actorID string) error {
	query := `UPDATE notifications SET is_read = true WHERE actor_id = $1`
	err := r.db.ExecContext(ctx, query, actorID)
	if err != nil {
		logger.Error("NotificationRepository:MarkAllAsRead:Error:", err)
		return err
	}
	return nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, actorID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM notifications WHERE actor_id = $1 AND is_read = false`
	err := r.db.GetContext(ctx, &count, query, actorID)
	if err != nil {
		logger.Error("NotificationRepository:CountUnread:Error:", err)
		return 0, err
	}
	return count, nil
}
