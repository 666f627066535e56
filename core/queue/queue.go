package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"event-networking-api/core/config"
	"event-networking-api/core/logger"

	"github.com/hibiken/asynq"
)

const (
	TaskMeetingTransition = "meeting:transition"

	queueDefault = "default"
)

// MeetingTransitionPayload is carried on every successful negotiation
// transition; the worker turns it into a notification for the counterparty.
type MeetingTransitionPayload struct {
	MeetingID   string `json:"meeting_id"`
	EventID     string `json:"event_id"`
	RecipientID string `json:"recipient_id"`
	ActorID     string `json:"actor_id"`
	Status      string `json:"status"`
	Subject     string `json:"subject"`
}

type Client struct {
	client *asynq.Client
}

func NewClient(cfg config.RedisConfig) *Client {
	return &Client{
		client: asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
	}
}

// EnqueueMeetingTransition is best-effort: a broker failure is logged, never
// propagated, so notification delivery cannot block a transition.
func (c *Client) EnqueueMeetingTransition(ctx context.Context, payload MeetingTransitionPayload) {
	data, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Queue:EnqueueMeetingTransition:Marshal", err)
		return
	}

	task := asynq.NewTask(TaskMeetingTransition, data, asynq.Queue(queueDefault), asynq.MaxRetry(3))
	if _, err := c.client.EnqueueContext(ctx, task); err != nil {
		logger.Error("Queue:EnqueueMeetingTransition:Enqueue", err)
	}
}

func (c *Client) Close() error {
	return c.client.Close()
}

// RunWorker starts the asynq server with the given handlers. Blocks until the
// server stops.
func RunWorker(cfg config.RedisConfig, register func(mux *asynq.ServeMux)) error {
	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB},
		asynq.Config{
			Concurrency: 5,
			Queues:      map[string]int{queueDefault: 1},
		},
	)

	mux := asynq.NewServeMux()
	register(mux)

	if err := srv.Run(mux); err != nil {
		return fmt.Errorf("run asynq server: %w", err)
	}
	return nil
}
