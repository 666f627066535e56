package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"event-networking-api/core/entity"
)

// Notification is one inbox entry for a participant, produced by meeting
// lifecycle transitions.
type Notification struct {
	ActorID string `db:"actor_id" json:"actor_id"`
	Title   string `db:"title" json:"title"`
	Message string `db:"message" json:"message"`
	Type    string `db:"type" json:"type"` // meeting_request, meeting_rescheduled, ...
	Data    JSONB  `db:"data" json:"data"`
	IsRead  bool   `db:"is_read" json:"is_read"`
	entity.BaseEntity
}

type JSONB map[string]interface{}

func (a JSONB) Value() (driver.Value, error) {
	return json.Marshal(a)
}

func (a *JSONB) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(b, &a)
}

type PaginatedNotificationEntity = entity.Pagination[Notification]
