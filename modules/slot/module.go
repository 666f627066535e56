package slot

import (
	"event-networking-api/core/config"
	"event-networking-api/core/database"
	"event-networking-api/core/middleware"
	"event-networking-api/modules/slot/controller"
	"event-networking-api/modules/slot/repository"
	"event-networking-api/modules/slot/router"
	"event-networking-api/modules/slot/service"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// Init wires the slot ledger and returns the service so the meeting and
// suggestion modules can reserve against it.
func Init(g *echo.Group, db database.Database, cache *redis.Client, mw *middleware.Middleware, defaults config.SlotConfig) service.SlotServiceInterface {
	repo := repository.NewSlotRepository(&db)
	svc := service.NewSlotService(repo, cache, defaults)
	ctrl := controller.NewSlotController(svc)

	router.NewSlotRouter(ctrl).Register(g, mw)

	return svc
}
