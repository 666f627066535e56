package attendance

import (
	"event-networking-api/core/database"
	"event-networking-api/core/locks"
	"event-networking-api/core/middleware"
	"event-networking-api/modules/attendance/controller"
	"event-networking-api/modules/attendance/repository"
	"event-networking-api/modules/attendance/router"
	"event-networking-api/modules/attendance/service"
	meetingRepo "event-networking-api/modules/meeting/repository"

	"github.com/labstack/echo/v4"
)

// Init wires the attendance reconciler. meetingLocks must be the same lock
// set the negotiation engine uses so scans serialize with transitions.
func Init(g *echo.Group, db database.Database, mw *middleware.Middleware, meetingLocks *locks.KeyedMutex) {
	repo := repository.NewAttendanceRepository(&db)
	meetings := meetingRepo.NewMeetingRepository(&db)
	svc := service.NewAttendanceService(repo, meetings, meetingLocks)
	ctrl := controller.NewAttendanceController(svc)

	router.NewAttendanceRouter(ctrl).Register(g, mw)
}
