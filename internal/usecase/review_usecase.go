package usecase

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/eslsoft/phrasenet/internal/entity"
	"github.com/eslsoft/phrasenet/internal/repository"
	"github.com/eslsoft/phrasenet/pkg/sm2"
)

// SubmitReviewInput carries one graded answer.
type SubmitReviewInput struct {
	CardID             int64
	Quality            sm2.Quality
	SessionID          *int64
	Answer             string
	FailedComponentIDs []int64
	FailedStructure    bool
}

// ReviewResult reports the scheduling outcome of a submitted review and
// the propagation effects it triggered.
type ReviewResult struct {
	Card     entity.Card
	Progress entity.Progress
	Correct  bool
	Effects  []Effect
}

// ReviewStats aggregates the learner's overall scheduling picture.
type ReviewStats struct {
	DueCount       int64
	StateCounts    map[sm2.State]int64
	TotalReviews   int64
	CorrectReviews int64
	AccuracyPct    float64
}

// ReviewOptions bounds the retry and selection behaviour of the review flow.
type ReviewOptions struct {
	ConflictRetries int
	DueLimit        int32
}

func (o *ReviewOptions) normalize() {
	if o.ConflictRetries <= 0 {
		o.ConflictRetries = 3
	}
	if o.DueLimit <= 0 {
		o.DueLimit = 20
	}
}

// ReviewUsecase encapsulates the review loop: picking due cards,
// grading answers and propagating mastery changes.
type ReviewUsecase interface {
	SubmitReview(ctx context.Context, input SubmitReviewInput) (*ReviewResult, error)
	DueCards(ctx context.Context, limit int32, activeOnly bool) ([]entity.DueCard, error)
	Stats(ctx context.Context) (*ReviewStats, error)
}

// NewReviewUsecase wires the review flow with default behaviour.
func NewReviewUsecase(
	tx repository.TxManager,
	locks repository.CardLocker,
	cards repository.CardRepository,
	progress repository.ProgressRepository,
	reviews repository.ReviewEventRepository,
	sessions repository.SessionRepository,
	propagator *Propagator,
	opts ReviewOptions,
) ReviewUsecase {
	opts.normalize()
	return &reviewUsecase{
		tx:         tx,
		locks:      locks,
		cards:      cards,
		progress:   progress,
		reviews:    reviews,
		sessions:   sessions,
		propagator: propagator,
		opts:       opts,
		clock:      time.Now,
		shuffle:    rand.Shuffle,
	}
}

type reviewUsecase struct {
	tx         repository.TxManager
	locks      repository.CardLocker
	cards      repository.CardRepository
	progress   repository.ProgressRepository
	reviews    repository.ReviewEventRepository
	sessions   repository.SessionRepository
	propagator *Propagator
	opts       ReviewOptions
	clock      func() time.Time
	shuffle    func(n int, swap func(i, j int))
}

// SubmitReview grades a card and applies the scheduling result, the
// review event and any propagation effects in one transaction. Version
// conflicts are retried up to the configured budget, then serialized
// through the per-card lock for one final attempt.
func (u *reviewUsecase) SubmitReview(ctx context.Context, input SubmitReviewInput) (*ReviewResult, error) {
	if !input.Quality.IsValid() {
		return nil, entity.ErrInvalidInput
	}

	var lastErr error
	for attempt := 0; attempt <= u.opts.ConflictRetries; attempt++ {
		result, err := u.submitOnce(ctx, input)
		if err == nil {
			return result, nil
		}
		if !errors.Is(err, entity.ErrConflict) {
			return nil, err
		}
		lastErr = err
	}

	unlock := u.locks.Lock(input.CardID)
	defer unlock()
	result, err := u.submitOnce(ctx, input)
	if err == nil {
		return result, nil
	}
	if !errors.Is(err, entity.ErrConflict) {
		return nil, err
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, err
}

func (u *reviewUsecase) submitOnce(ctx context.Context, input SubmitReviewInput) (*ReviewResult, error) {
	var result *ReviewResult
	err := u.tx.Within(ctx, func(ctx context.Context) error {
		card, err := u.cards.GetByID(ctx, input.CardID)
		if err != nil {
			return err
		}
		if len(input.FailedComponentIDs) > 0 && card.OwnerKind != entity.OwnerPhrase {
			return entity.ErrInvalidInput
		}
		if input.SessionID != nil {
			session, err := u.sessions.GetByID(ctx, *input.SessionID)
			if err != nil {
				return err
			}
			if session.EndedAt != nil {
				return entity.ErrInvalidInput
			}
		}

		now := u.clock()
		prog, err := u.progress.GetOrCreate(ctx, card.ID, now)
		if err != nil {
			return err
		}

		prior := prog.Scheduling()
		next := sm2.Advance(prior, input.Quality, now)
		expected := prog.Version

		prog.ApplyScheduling(next)
		prog.TotalReviews++
		correct := input.Quality >= sm2.QualityHard
		if correct {
			prog.CorrectReviews++
		}
		prog.LastReviewAt = &now

		if err := u.progress.Commit(ctx, prog, expected); err != nil {
			return err
		}

		event := &entity.ReviewEvent{
			CardID:             card.ID,
			SessionID:          input.SessionID,
			Quality:            input.Quality,
			Answer:             input.Answer,
			EasinessBefore:     prior.Easiness,
			EasinessAfter:      next.Easiness,
			IntervalBefore:     prior.IntervalDays,
			IntervalAfter:      next.IntervalDays,
			StateBefore:        prior.State,
			StateAfter:         next.State,
			FailedComponentIDs: input.FailedComponentIDs,
			FailedStructure:    input.FailedStructure,
			CreatedAt:          now,
		}
		if err := u.reviews.Append(ctx, event); err != nil {
			return err
		}

		effects, err := u.propagator.AfterReview(ctx, card, event)
		if err != nil {
			return err
		}
		if err := u.propagator.Apply(ctx, effects); err != nil {
			return err
		}

		result = &ReviewResult{
			Card:     *card,
			Progress: *prog,
			Correct:  correct,
			Effects:  effects,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DueCards returns up to limit due cards in randomized order. Selection
// is deliberately unordered so reviews do not always replay the same
// sequence.
func (u *reviewUsecase) DueCards(ctx context.Context, limit int32, activeOnly bool) ([]entity.DueCard, error) {
	if limit <= 0 {
		limit = u.opts.DueLimit
	}
	due, err := u.progress.DueCards(ctx, activeOnly, u.clock())
	if err != nil {
		return nil, err
	}
	u.shuffle(len(due), func(i, j int) { due[i], due[j] = due[j], due[i] })
	if int32(len(due)) > limit {
		due = due[:limit]
	}
	return due, nil
}

func (u *reviewUsecase) Stats(ctx context.Context) (*ReviewStats, error) {
	states, err := u.progress.StateCounts(ctx)
	if err != nil {
		return nil, err
	}
	dueCount, err := u.progress.DueCount(ctx, u.clock())
	if err != nil {
		return nil, err
	}
	total, correct, err := u.reviews.Totals(ctx)
	if err != nil {
		return nil, err
	}
	return &ReviewStats{
		DueCount:       dueCount,
		StateCounts:    states,
		TotalReviews:   total,
		CorrectReviews: correct,
		AccuracyPct:    entity.AccuracyPct(correct, total),
	}, nil
}
