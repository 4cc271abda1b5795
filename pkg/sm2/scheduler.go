package sm2

import (
	"math"
	"time"
)

const (
	// InitialEasiness is the easiness factor assigned to fresh progress.
	InitialEasiness = 2.5
	// MinEasiness is the lower bound the easiness factor never crosses.
	MinEasiness = 1.3
	// MasteredThresholdDays is the interval at which a card counts as mastered.
	MasteredThresholdDays = 21
	// MatureThresholdDays is the interval at which a card counts as mature.
	MatureThresholdDays = 60

	// hardIntervalFactor shortens the interval when recall was partial.
	hardIntervalFactor = 0.7
)

// referenceGrades maps the three-point quality scale onto the 0–5 grade
// scale the classic SM-2 easiness formula is defined over.
var referenceGrades = [...]float64{
	QualityForgot: 0,
	QualityHard:   3,
	QualityGood:   5,
}

// Progress is the scheduling state of one card between reviews.
type Progress struct {
	Easiness     float64
	Repetitions  int32
	IntervalDays int32
	NextReviewAt time.Time
	State        State
}

// NewProgress returns fresh progress for a card that has never been
// reviewed: easiness 2.5, zero repetitions, due immediately.
func NewProgress(now time.Time) Progress {
	return Progress{
		Easiness:     InitialEasiness,
		NextReviewAt: now,
		State:        StateNew,
	}
}

// Advance computes the progress following a review of the given quality
// at the given time. It is a pure function: the prior progress is not
// mutated and identical inputs always produce identical outputs.
//
// The quality must be valid (see Quality.IsValid); validating it is the
// caller's responsibility.
func Advance(prior Progress, quality Quality, now time.Time) Progress {
	grade := referenceGrades[quality]
	easiness := prior.Easiness + (0.1 - (5-grade)*(0.08+(5-grade)*0.02))
	if easiness < MinEasiness {
		easiness = MinEasiness
	}

	next := Progress{Easiness: easiness}
	if quality == QualityForgot {
		// Forgetting fully resets progression regardless of prior repetitions.
		next.Repetitions = 0
		next.IntervalDays = 1
		next.State = StateLearning
	} else {
		next.Repetitions = prior.Repetitions + 1
		var interval int32
		switch prior.Repetitions {
		case 0:
			interval = 1
		case 1:
			interval = 6
		case 2:
			interval = int32(math.Floor(6 * easiness))
		default:
			interval = int32(math.Floor(float64(prior.IntervalDays) * easiness))
		}
		if quality == QualityHard {
			interval = int32(math.Floor(float64(interval) * hardIntervalFactor))
			if interval < 1 {
				interval = 1
			}
		}
		next.IntervalDays = interval
		next.State = StateForInterval(interval)
	}
	next.NextReviewAt = now.AddDate(0, 0, int(next.IntervalDays))
	return next
}

// StateForInterval derives the mastery state from a review interval.
func StateForInterval(days int32) State {
	switch {
	case days >= MatureThresholdDays:
		return StateMature
	case days >= MasteredThresholdDays:
		return StateMastered
	default:
		return StateLearning
	}
}
