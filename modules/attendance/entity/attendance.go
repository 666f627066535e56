package entity

import "time"

// Attendance is one participant's verified presence at one meeting. At most
// one row per (meeting, actor); duplicate scans update scanner metadata only,
// the first timestamp stands.
type Attendance struct {
	MeetingID   string    `db:"meeting_id" json:"meeting_id"`
	ActorID     string    `db:"actor_id" json:"actor_id"`
	CheckedInAt time.Time `db:"checked_in_at" json:"checked_in_at"`
	ScannerID   string    `db:"scanner_id" json:"scanner_id"`
	Source      string    `db:"source" json:"source"` // e.g. "self-scan", "staff-scan"
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
