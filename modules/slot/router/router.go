package router

import (
	"event-networking-api/core/middleware"
	"event-networking-api/modules/slot/controller"

	"github.com/labstack/echo/v4"
)

type SlotRouter struct {
	controller *controller.SlotController
}

func NewSlotRouter(controller *controller.SlotController) *SlotRouter {
	return &SlotRouter{controller: controller}
}

func (r *SlotRouter) Register(g *echo.Group, mw *middleware.Middleware) {
	slots := g.Group("/events/:eventId/slots", mw.AuthMiddleware())
	slots.GET("/usage", r.controller.ListUsage)
	slots.PUT("", r.controller.ConfigureSlot, mw.AdminMiddleware())
}
