package dto

import (
	"time"

	"event-networking-api/modules/slot/entity"
)

// ConfigureSlotRequest pre-seeds or resizes capacity for one slot.
type ConfigureSlotRequest struct {
	Slot             string `json:"slot" validate:"required"` // RFC3339
	PhysicalCapacity int    `json:"physical_capacity" validate:"min=0"`
	HybridCapacity   int    `json:"hybrid_capacity" validate:"min=0"`
	Tables           int    `json:"tables" validate:"min=0"`
}

// UsageResponse wraps the dashboard rollup.
type UsageResponse struct {
	EventID string            `json:"event_id"`
	From    time.Time         `json:"from"`
	To      time.Time         `json:"to"`
	Slots   []entity.UsageRow `json:"slots"`
}
