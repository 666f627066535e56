package dto

import "time"

// Suggestion is one scored candidate pairing. Ephemeral: approving it just
// calls the meeting create operation; nothing is persisted here.
type Suggestion struct {
	ActorA      string     `json:"actor_a"`
	ActorARole  string     `json:"actor_a_role"`
	ActorB      string     `json:"actor_b"`
	ActorBRole  string     `json:"actor_b_role"`
	Score       float64    `json:"score"`
	DefaultSlot *time.Time `json:"default_slot,omitempty"`
}

type SuggestionsResponse struct {
	EventID     string       `json:"event_id"`
	Suggestions []Suggestion `json:"suggestions"`
}
