package service

import (
	"context"
	"encoding/json"
	"fmt"

	"event-networking-api/core/logger"
	"event-networking-api/core/queue"
	"event-networking-api/modules/notification/dto"

	"github.com/hibiken/asynq"
)

var transitionTitles = map[string]string{
	"pending":     "New meeting request",
	"rescheduled": "Meeting reschedule proposed",
	"confirmed":   "Meeting confirmed",
	"rejected":    "Meeting rejected",
	"cancelled":   "Meeting cancelled",
}

// HandleMeetingTransition consumes meeting:transition tasks and turns them
// into inbox notifications for the counterparty.
func (s *NotificationService) HandleMeetingTransition(ctx context.Context, t *asynq.Task) error {
	var payload queue.MeetingTransitionPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		logger.Error("NotificationService:HandleMeetingTransition:Unmarshal:", err)
		return fmt.Errorf("unmarshal meeting transition payload: %w", err)
	}

	title, ok := transitionTitles[payload.Status]
	if !ok {
		title = "Meeting updated"
	}

	message := title
	if payload.Subject != "" {
		message = fmt.Sprintf("%s: %s", title, payload.Subject)
	}

	req := &dto.CreateNotificationRequest{
		ActorID: payload.RecipientID,
		Title:   title,
		Message: message,
		Type:    "meeting_" + payload.Status,
		Data: map[string]interface{}{
			"meeting_id": payload.MeetingID,
			"event_id":   payload.EventID,
			"actor_id":   payload.ActorID,
			"status":     payload.Status,
		},
	}

	if err := s.Create(ctx, req); err != nil {
		logger.Error("NotificationService:HandleMeetingTransition:Create:", err)
		return err
	}

	logger.Info("meeting transition notification stored",
		"meeting_id", payload.MeetingID,
		"recipient", payload.RecipientID,
		"status", payload.Status,
	)
	return nil
}
