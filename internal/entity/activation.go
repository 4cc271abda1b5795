package entity

import "time"

// ActivationReasonComponentsMastered is recorded when a phrase activates
// because every component vocabulary item reached a settled state.
const ActivationReasonComponentsMastered = "components-mastered"

// ActivationLog is the audit record of one phrase activation, with a
// snapshot of the component items whose mastery triggered it.
type ActivationLog struct {
	ID           int64     `json:"id"`
	PhraseID     int64     `json:"phrase_id"`
	Reason       string    `json:"reason"`
	ComponentIDs []int64   `json:"component_ids"`
	CreatedAt    time.Time `json:"created_at"`
}
