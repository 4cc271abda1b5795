package entity

import (
	"time"

	"github.com/eslsoft/phrasenet/pkg/sm2"
)

// ReviewEvent is the immutable record of one answered card. Events are
// append-only; history is deleted only when the owning card leaves study,
// and always before its progress and card rows.
type ReviewEvent struct {
	ID        int64       `json:"id"`
	CardID    int64       `json:"card_id"`
	SessionID *int64      `json:"session_id,omitempty"`
	Quality   sm2.Quality `json:"quality"`
	Answer    string      `json:"answer,omitempty"`

	EasinessBefore float64   `json:"easiness_before"`
	EasinessAfter  float64   `json:"easiness_after"`
	IntervalBefore int32     `json:"interval_before"`
	IntervalAfter  int32     `json:"interval_after"`
	StateBefore    sm2.State `json:"state_before"`
	StateAfter     sm2.State `json:"state_after"`

	// FailedComponentIDs lists component vocabulary items the learner
	// missed inside a phrase card. Only meaningful on phrase-owned cards.
	FailedComponentIDs []int64 `json:"failed_component_ids,omitempty"`
	FailedStructure    bool    `json:"failed_structure,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// Correct reports whether the review counts as a correct answer
// (partial recall counts).
func (e *ReviewEvent) Correct() bool {
	return e.Quality >= sm2.QualityHard
}
