package dto

import (
	"time"

	"event-networking-api/modules/meeting/entity"
)

// ===================== Request DTOs =====================

// CreateMeetingRequest opens a meeting request toward another participant.
type CreateMeetingRequest struct {
	ReceiverID   string `json:"receiver_id" validate:"required"`
	ReceiverRole string `json:"receiver_role"`
	Mode         string `json:"mode" validate:"required,oneof=physical hybrid virtual"`
	Slot         string `json:"slot" validate:"required"` // RFC3339
	Subject      string `json:"subject"`
	Message      string `json:"message"`
}

// ProposeRequest offers an alternate slot.
type ProposeRequest struct {
	Slot string `json:"slot" validate:"required"` // RFC3339
}

// SetTableRequest is the operator table override.
type SetTableRequest struct {
	TableID string `json:"table_id" validate:"required"`
}

// SetJoinLinkRequest stores the pre-obtained virtual-room link.
type SetJoinLinkRequest struct {
	JoinLink string `json:"join_link" validate:"required"`
}

// ===================== Response DTOs =====================

type MeetingResponse struct {
	ID           string     `json:"id"`
	EventID      string     `json:"event_id"`
	SenderID     string     `json:"sender_id"`
	SenderRole   string     `json:"sender_role,omitempty"`
	ReceiverID   string     `json:"receiver_id"`
	ReceiverRole string     `json:"receiver_role,omitempty"`
	Mode         string     `json:"mode"`
	Slot         time.Time  `json:"slot"`
	ProposedSlot *time.Time `json:"proposed_slot,omitempty"`
	TableID      string     `json:"table_id,omitempty"`
	JoinLink     string     `json:"join_link,omitempty"`
	Status       string     `json:"status"`
	Subject      string     `json:"subject,omitempty"`
	Message      string     `json:"message,omitempty"`
	ClosedBy     string     `json:"closed_by,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func ToMeetingResponse(m *entity.Meeting) *MeetingResponse {
	resp := &MeetingResponse{
		ID:           m.ID,
		EventID:      m.EventID,
		SenderID:     m.SenderID,
		SenderRole:   m.SenderRole,
		ReceiverID:   m.ReceiverID,
		ReceiverRole: m.ReceiverRole,
		Mode:         string(m.Mode),
		Slot:         m.Slot,
		ProposedSlot: m.ProposedSlot,
		Status:       string(m.Status),
		Subject:      m.Subject,
		Message:      m.Message,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
	if m.TableID != nil {
		resp.TableID = *m.TableID
	}
	if m.JoinLink != nil {
		resp.JoinLink = *m.JoinLink
	}
	if m.ClosedBy != nil {
		resp.ClosedBy = *m.ClosedBy
	}
	return resp
}
