package entity

import (
	"time"

	"github.com/lib/pq"
)

// Participant is the read-only snapshot of a registered event participant the
// feed scores against. The table is owned by the surrounding platform; this
// core never writes it.
type Participant struct {
	ActorID   string         `db:"actor_id" json:"actor_id"`
	EventID   string         `db:"event_id" json:"event_id"`
	Role      string         `db:"role" json:"role"` // attendee, exhibitor, speaker
	Interests pq.StringArray `db:"interests" json:"interests"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
}
