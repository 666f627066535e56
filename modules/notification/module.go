package notification

import (
	"event-networking-api/core/database"
	"event-networking-api/core/middleware"
	"event-networking-api/modules/notification/controller"
	"event-networking-api/modules/notification/repository"
	"event-networking-api/modules/notification/router"
	"event-networking-api/modules/notification/service"

	"github.com/labstack/echo/v4"
)

func Init(e *echo.Group, db database.Database, mw *middleware.Middleware) *service.NotificationService {
	repo := repository.NewNotificationRepository(db)
	svc := service.NewNotificationService(repo)
	ctrl := controller.NewNotificationController(svc)

	router.NewNotificationRouter(ctrl).Register(e, mw)

	return svc
}
