package entity

import "time"

type SlotMode string

const (
	ModePhysical SlotMode = "physical"
	ModeHybrid   SlotMode = "hybrid"
	ModeVirtual  SlotMode = "virtual"
)

func (m SlotMode) Valid() bool {
	switch m {
	case ModePhysical, ModeHybrid, ModeVirtual:
		return true
	}
	return false
}

// NeedsTable reports whether meetings in this mode occupy a physical table.
func (m SlotMode) NeedsTable() bool {
	return m == ModePhysical || m == ModeHybrid
}

// SlotUsage is the durable counter for one (event, slot, mode). Created lazily
// on first reservation, never deleted. Capacity is ignored for virtual mode.
type SlotUsage struct {
	EventID   string    `db:"event_id" json:"event_id"`
	Slot      time.Time `db:"slot_ts" json:"slot"`
	Mode      SlotMode  `db:"mode" json:"mode"`
	Used      int       `db:"used" json:"used"`
	Capacity  int       `db:"capacity" json:"capacity"`
	TablePool int       `db:"table_pool" json:"table_pool"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// SlotTable records one held table identifier within a slot.
type SlotTable struct {
	EventID   string    `db:"event_id" json:"event_id"`
	Slot      time.Time `db:"slot_ts" json:"slot"`
	TableID   string    `db:"table_id" json:"table_id"`
	MeetingID string    `db:"meeting_id" json:"meeting_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ModeUsage is one cell of the usage rollup.
type ModeUsage struct {
	Used     int `json:"used"`
	Capacity int `json:"capacity,omitempty"`
}

// UsageRow is the per-slot rollup served to the capacity dashboard.
type UsageRow struct {
	Slot     time.Time `json:"slot"`
	Physical ModeUsage `json:"physical"`
	Hybrid   ModeUsage `json:"hybrid"`
	Virtual  ModeUsage `json:"virtual"`
}
