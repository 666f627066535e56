package server

import (
	"context"
	"fmt"

	"event-networking-api/core/config"
	"event-networking-api/core/database"
	"event-networking-api/core/locks"
	"event-networking-api/core/logger"
	"event-networking-api/core/middleware"
	"event-networking-api/core/queue"
	"event-networking-api/modules/attendance"
	"event-networking-api/modules/meeting"
	"event-networking-api/modules/notification"
	"event-networking-api/modules/slot"
	"event-networking-api/modules/suggestion"

	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
)

// Run boots the API: config, logger, postgres, redis, the task queue, every
// feature module, and finally the HTTP listener.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger.Init(cfg.Server.Env)

	db, err := database.InitDB(cfg.Database)
	if err != nil {
		return err
	}

	if err := database.Migrate(context.Background(), db, cfg.Database.MigrationsDir); err != nil {
		return err
	}

	cache, err := database.InitRedis(cfg.Redis)
	if err != nil {
		return err
	}

	queueClient := queue.NewClient(cfg.Redis)
	defer queueClient.Close()

	e := echo.New()
	e.HideBanner = true
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())

	mw := middleware.New(cfg.JWT.Secret)

	private := e.Group("/api/v1/private")

	// One lock set per meeting, shared by negotiation and attendance so badge
	// scans serialize with transitions.
	meetingLocks := locks.NewKeyedMutex()

	ledger := slot.Init(private, db, cache, mw, cfg.Slots)
	notifSvc := notification.Init(private, db, mw)
	meeting.Init(private, db, mw, ledger, queueClient, meetingLocks)
	attendance.Init(private, db, mw, meetingLocks)
	suggestion.Init(private, db, mw, ledger)

	go func() {
		err := queue.RunWorker(cfg.Redis, func(mux *asynq.ServeMux) {
			mux.HandleFunc(queue.TaskMeetingTransition, notifSvc.HandleMeetingTransition)
		})
		if err != nil {
			logger.Error("Server:Run:Worker", err)
		}
	}()

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Info("Starting server", "addr", addr, "env", cfg.Server.Env)
	return e.Start(addr)
}
