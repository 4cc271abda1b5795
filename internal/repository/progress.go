package repository

import (
	"context"
	"time"

	"github.com/eslsoft/phrasenet/internal/entity"
	"github.com/eslsoft/phrasenet/pkg/sm2"
)

// ProgressRepository abstracts persistence for per-card scheduling state.
type ProgressRepository interface {
	// GetOrCreate returns the progress row for the card, inserting a
	// fresh one (due now) when none exists yet.
	GetOrCreate(ctx context.Context, cardID int64, now time.Time) (*entity.Progress, error)
	ListByCardIDs(ctx context.Context, cardIDs []int64) ([]*entity.Progress, error)
	// Commit persists the progress only if its stored version still
	// equals expectedVersion, bumping the version on success. A stale
	// expectedVersion yields entity.ErrConflict.
	Commit(ctx context.Context, progress *entity.Progress, expectedVersion int64) error
	// DueCards returns every card whose next review is at or before
	// asOf, including cards that have never been reviewed. With
	// activeOnly set, inactive cards are excluded.
	DueCards(ctx context.Context, activeOnly bool, asOf time.Time) ([]entity.DueCard, error)
	// ResetForReactivation rewinds the listed cards to a fresh learning
	// state, due immediately. Cards without a progress row are skipped.
	ResetForReactivation(ctx context.Context, cardIDs []int64, now time.Time) error
	DeleteByCardIDs(ctx context.Context, cardIDs []int64) error
	StateCounts(ctx context.Context) (map[sm2.State]int64, error)
	DueCount(ctx context.Context, asOf time.Time) (int64, error)
}
