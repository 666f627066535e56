package service

import (
	"context"
	"time"

	coreEntity "event-networking-api/core/entity"
	"event-networking-api/core/params"
	"event-networking-api/modules/notification/dto"
	"event-networking-api/modules/notification/entity"
	"event-networking-api/modules/notification/repository"
)

type NotificationService struct {
	repo *repository.NotificationRepository
}

func NewNotificationService(repo *repository.NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo}
}

func (s *NotificationService) Create(ctx context.Context, req *dto.CreateNotificationRequest) error {
	notif := &entity.Notification{
		ActorID: req.ActorID,
		Title:   req.Title,
		Message: req.Message,
		Type:    req.Type,
		Data:    entity.JSONB(req.Data),
		IsRead:  false,
		BaseEntity: coreEntity.BaseEntity{
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
	}
	return s.repo.Create(ctx, notif)
}

func (s *NotificationService) GetMyNotifications(ctx context.Context, actorID string, queryParams params.QueryParams) (*entity.PaginatedNotificationEntity, error) {
	return s.repo.GetByActorID(ctx, actorID, queryParams)
}

func (s *NotificationService) MarkAsRead(ctx context.Context, actorID string, ids []string) error {
	return s.repo.MarkAsRead(ctx, actorID, ids)
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, actorID string) error {
	return s.repo.MarkAllAsRead(ctx, actorID)
}

func (s *NotificationService) CountUnread(ctx context.Context, actorID string) (int, error) {
	return s.repo.CountUnread(ctx, actorID)
}
