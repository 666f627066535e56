package router

import (
	"event-networking-api/core/middleware"
	"event-networking-api/modules/suggestion/controller"

	"github.com/labstack/echo/v4"
)

type SuggestionRouter struct {
	controller *controller.SuggestionController
}

func NewSuggestionRouter(controller *controller.SuggestionController) *SuggestionRouter {
	return &SuggestionRouter{controller: controller}
}

func (r *SuggestionRouter) Register(g *echo.Group, mw *middleware.Middleware) {
	group := g.Group("/events/:eventId/suggestions", mw.AuthMiddleware(), mw.AdminMiddleware())
	group.GET("", r.controller.NextBatch)
}
