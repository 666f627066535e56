package dto

import "time"

// ConfirmScanRequest commits one badge scan for the calling actor.
type ConfirmScanRequest struct {
	ScannerID string `json:"scanner_id"`
	Source    string `json:"source"` // free-form, e.g. "self-scan", "staff-scan"
}

// ParticipantPresence is one side of the preview.
type ParticipantPresence struct {
	CheckedIn   bool       `json:"checked_in"`
	CheckedInAt *time.Time `json:"checked_in_at,omitempty"`
}

// PreviewResponse is shown on the confirmation screen before a scan commits.
type PreviewResponse struct {
	You                 ParticipantPresence `json:"you"`
	Other               ParticipantPresence `json:"other"`
	FirstArrivedActorID string              `json:"first_arrived_actor_id,omitempty"`
	Happened            bool                `json:"happened"`
}

// ConfirmResponse reports the reconciled state after a scan.
type ConfirmResponse struct {
	Happened            bool   `json:"happened"`
	FirstArrivedActorID string `json:"first_arrived_actor_id,omitempty"`
	// StatusWarning is set when the meeting is not administratively confirmed;
	// the scan is recorded regardless.
	StatusWarning string `json:"status_warning,omitempty"`
}
