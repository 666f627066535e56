package database

import (
	"context"
	"fmt"

	"event-networking-api/core/logger"

	"github.com/pressly/goose/v3"
)

// Migrate applies all pending goose migrations from dir.
func Migrate(ctx context.Context, db Database, dir string) error {
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	logger.Info("Applying database migrations...", "dir", dir)
	if err := goose.UpContext(ctx, db.SQLx().DB, dir); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	version, err := goose.GetDBVersionContext(ctx, db.SQLx().DB)
	if err != nil {
		return fmt.Errorf("get migration version: %w", err)
	}
	logger.Info("Migrations applied", "version", version)
	return nil
}
