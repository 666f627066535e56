package database

import (
	"context"
	"fmt"
	"time"

	"event-networking-api/core/config"
	"event-networking-api/core/logger"

	"github.com/redis/go-redis/v9"
)

// InitRedis connects the shared redis client used for cached read
// projections and as the asynq broker.
func InitRedis(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to ping redis", "error", err)
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	logger.Info("Redis initialized successfully", "addr", cfg.Addr)
	return client, nil
}
