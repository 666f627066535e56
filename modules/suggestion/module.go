package suggestion

import (
	"event-networking-api/core/database"
	"event-networking-api/core/middleware"
	meetingRepo "event-networking-api/modules/meeting/repository"
	slotService "event-networking-api/modules/slot/service"
	"event-networking-api/modules/suggestion/controller"
	"event-networking-api/modules/suggestion/repository"
	"event-networking-api/modules/suggestion/router"
	"event-networking-api/modules/suggestion/service"

	"github.com/labstack/echo/v4"
)

// Init wires the pairing suggestion feed.
func Init(g *echo.Group, db database.Database, mw *middleware.Middleware, ledger slotService.SlotServiceInterface) {
	participants := repository.NewParticipantRepository(&db)
	meetings := meetingRepo.NewMeetingRepository(&db)
	svc := service.NewSuggestionService(participants, meetings, ledger, service.NewDefaultScorer())
	ctrl := controller.NewSuggestionController(svc)

	router.NewSuggestionRouter(ctrl).Register(g, mw)
}
