package meeting

import (
	"event-networking-api/core/database"
	"event-networking-api/core/locks"
	"event-networking-api/core/middleware"
	"event-networking-api/modules/meeting/controller"
	"event-networking-api/modules/meeting/repository"
	"event-networking-api/modules/meeting/router"
	"event-networking-api/modules/meeting/service"
	slotService "event-networking-api/modules/slot/service"

	"github.com/labstack/echo/v4"
)

// Init wires the negotiation engine. The meeting lock set is shared with the
// attendance module so scans and transitions on one meeting serialize.
func Init(
	g *echo.Group,
	db database.Database,
	mw *middleware.Middleware,
	ledger slotService.SlotServiceInterface,
	notifier service.Notifier,
	meetingLocks *locks.KeyedMutex,
) service.MeetingServiceInterface {
	repo := repository.NewMeetingRepository(&db)
	svc := service.NewMeetingService(repo, ledger, notifier, service.DefaultPolicy, meetingLocks)
	ctrl := controller.NewMeetingController(svc)

	router.NewMeetingRouter(ctrl).Register(g, mw)

	return svc
}
