package entity

import (
	"math"
	"time"
)

// StudySession groups the review events of one sitting.
type StudySession struct {
	ID        int64      `json:"id"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
	Studied   int32      `json:"studied"`
	Correct   int32      `json:"correct"`
	Incorrect int32      `json:"incorrect"`
}

// SessionSummary is the aggregate returned when a session ends.
type SessionSummary struct {
	SessionID   int64   `json:"session_id"`
	Studied     int32   `json:"studied"`
	Correct     int32   `json:"correct"`
	Incorrect   int32   `json:"incorrect"`
	AccuracyPct float64 `json:"accuracy_pct"`
}

// AccuracyPct computes the percentage of correct answers, rounded to one
// decimal place. Zero studied cards yield zero.
func AccuracyPct(correct, studied int64) float64 {
	if studied <= 0 {
		return 0
	}
	return math.Round(float64(correct)/float64(studied)*1000) / 10
}
