package router

import (
	"event-networking-api/core/middleware"
	"event-networking-api/modules/meeting/controller"

	"github.com/labstack/echo/v4"
)

type MeetingRouter struct {
	controller *controller.MeetingController
}

func NewMeetingRouter(controller *controller.MeetingController) *MeetingRouter {
	return &MeetingRouter{controller: controller}
}

func (r *MeetingRouter) Register(g *echo.Group, mw *middleware.Middleware) {
	events := g.Group("/events/:eventId/meetings", mw.AuthMiddleware())
	events.POST("", r.controller.Create)
	events.GET("", r.controller.List)

	meetings := g.Group("/meetings", mw.AuthMiddleware())
	meetings.GET("/:id", r.controller.Get)
	meetings.POST("/:id/propose", r.controller.Propose)
	meetings.POST("/:id/confirm", r.controller.Confirm)
	meetings.POST("/:id/reject", r.controller.Reject)
	meetings.POST("/:id/cancel", r.controller.Cancel)
	meetings.DELETE("/:id", r.controller.Delete)
	meetings.PUT("/:id/table", r.controller.SetTable, mw.AdminMiddleware())
	meetings.PUT("/:id/join-link", r.controller.SetJoinLink)
}
