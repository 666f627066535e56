package entity

import (
	"time"

	slotEntity "event-networking-api/modules/slot/entity"
)

type MeetingStatus string

const (
	StatusPending     MeetingStatus = "pending"
	StatusRescheduled MeetingStatus = "rescheduled"
	StatusConfirmed   MeetingStatus = "confirmed"
	StatusRejected    MeetingStatus = "rejected"
	StatusCancelled   MeetingStatus = "cancelled"
)

// Meeting is one negotiated one-to-one meeting between two participants.
// ProposedSlot is non-nil exactly while the status is rescheduled; TableID is
// held only for table-bearing modes; JoinLink is write-once.
type Meeting struct {
	ID           string              `db:"id" json:"id"`
	EventID      string              `db:"event_id" json:"event_id"`
	SenderID     string              `db:"sender_id" json:"sender_id"`
	SenderRole   string              `db:"sender_role" json:"sender_role"`
	ReceiverID   string              `db:"receiver_id" json:"receiver_id"`
	ReceiverRole string              `db:"receiver_role" json:"receiver_role"`
	Mode         slotEntity.SlotMode `db:"mode" json:"mode"`
	Slot         time.Time           `db:"slot_ts" json:"slot"`
	ProposedSlot *time.Time          `db:"proposed_slot_ts" json:"proposed_slot,omitempty"`
	TableID      *string             `db:"table_id" json:"table_id,omitempty"`
	JoinLink     *string             `db:"join_link" json:"join_link,omitempty"`
	Status       MeetingStatus       `db:"status" json:"status"`
	Subject      string              `db:"subject" json:"subject"`
	Message      string              `db:"message" json:"message"`
	ClosedBy     *string             `db:"closed_by" json:"closed_by,omitempty"`
	CreatedAt    time.Time           `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time           `db:"updated_at" json:"updated_at"`
}

func (m *Meeting) IsParticipant(actorID string) bool {
	return actorID == m.SenderID || actorID == m.ReceiverID
}

// OtherParticipant returns the counterparty of actorID, or "" for outsiders.
func (m *Meeting) OtherParticipant(actorID string) string {
	switch actorID {
	case m.SenderID:
		return m.ReceiverID
	case m.ReceiverID:
		return m.SenderID
	}
	return ""
}

func (m *Meeting) IsTerminal() bool {
	return m.Status == StatusRejected || m.Status == StatusCancelled
}
