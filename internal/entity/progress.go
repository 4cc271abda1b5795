package entity

import (
	"time"

	"github.com/eslsoft/phrasenet/pkg/sm2"
)

// Progress is the persisted scheduling state of one card, exactly one
// row per card. Version is the optimistic concurrency token: every
// committed write increments it, and a commit carrying a stale version
// fails with ErrConflict.
type Progress struct {
	CardID         int64      `json:"card_id"`
	Easiness       float64    `json:"easiness"`
	Repetitions    int32      `json:"repetitions"`
	IntervalDays   int32      `json:"interval_days"`
	NextReviewAt   time.Time  `json:"next_review_at"`
	State          sm2.State  `json:"state"`
	TotalReviews   int32      `json:"total_reviews"`
	CorrectReviews int32      `json:"correct_reviews"`
	LastReviewAt   *time.Time `json:"last_review_at,omitempty"`
	Version        int64      `json:"version"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// NewProgress returns the fresh progress assigned to a newly generated
// card: easiness 2.5, zero repetitions, due immediately, state new.
func NewProgress(cardID int64, now time.Time) Progress {
	p := Progress{CardID: cardID, CreatedAt: now, UpdatedAt: now}
	p.ApplyScheduling(sm2.NewProgress(now))
	return p
}

// Scheduling projects the fields the scheduler operates on.
func (p *Progress) Scheduling() sm2.Progress {
	return sm2.Progress{
		Easiness:     p.Easiness,
		Repetitions:  p.Repetitions,
		IntervalDays: p.IntervalDays,
		NextReviewAt: p.NextReviewAt,
		State:        p.State,
	}
}

// ApplyScheduling absorbs a scheduler result back into the record.
func (p *Progress) ApplyScheduling(next sm2.Progress) {
	p.Easiness = next.Easiness
	p.Repetitions = next.Repetitions
	p.IntervalDays = next.IntervalDays
	p.NextReviewAt = next.NextReviewAt
	p.State = next.State
}
