package repository

import (
	"context"

	"github.com/eslsoft/phrasenet/internal/entity"
)

// ReviewEventRepository abstracts the append-only review history.
type ReviewEventRepository interface {
	Append(ctx context.Context, event *entity.ReviewEvent) error
	ListBySession(ctx context.Context, sessionID int64) ([]*entity.ReviewEvent, error)
	ListByCard(ctx context.Context, cardID int64, limit int32) ([]*entity.ReviewEvent, error)
	DeleteByCardIDs(ctx context.Context, cardIDs []int64) error
	// Totals reports the all-time review count and how many were correct.
	Totals(ctx context.Context) (total int64, correct int64, err error)
}
