package service

import (
	"event-networking-api/modules/meeting/entity"
)

type Action string

const (
	ActionPropose     Action = "propose"
	ActionConfirm     Action = "confirm"
	ActionReject      Action = "reject"
	ActionCancel      Action = "cancel"
	ActionSetTable    Action = "set_table"
	ActionSetJoinLink Action = "set_join_link"
)

// Actor is the authenticated caller driving a transition.
type Actor struct {
	ID    string
	Role  string
	Admin bool
}

// TransitionPolicy decides whether an actor may drive an action on a meeting.
// Negotiation is symmetric at the product level (either side may propose or
// walk away), so permission is a pluggable predicate instead of hard-coded
// sender/receiver asymmetry per transition.
type TransitionPolicy func(m *entity.Meeting, action Action, actor Actor) bool

// DefaultPolicy: operators may do anything; participants may drive every
// negotiation action on their own meetings except the table override, which
// stays with the floor staff.
func DefaultPolicy(m *entity.Meeting, action Action, actor Actor) bool {
	if actor.Admin {
		return true
	}
	if !m.IsParticipant(actor.ID) {
		return false
	}
	return action != ActionSetTable
}
