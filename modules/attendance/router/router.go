package router

import (
	"event-networking-api/core/middleware"
	"event-networking-api/modules/attendance/controller"

	"github.com/labstack/echo/v4"
)

type AttendanceRouter struct {
	controller *controller.AttendanceController
}

func NewAttendanceRouter(controller *controller.AttendanceController) *AttendanceRouter {
	return &AttendanceRouter{controller: controller}
}

func (r *AttendanceRouter) Register(g *echo.Group, mw *middleware.Middleware) {
	group := g.Group("/meetings/:id/attendance", mw.AuthMiddleware())
	group.GET("", r.controller.Preview)
	group.POST("", r.controller.Confirm)
}
