package repository

import (
	"context"

	"github.com/eslsoft/phrasenet/internal/entity"
)

// CardRepository abstracts persistence for review cards.
type CardRepository interface {
	// CreateBatch inserts the cards and fills in their assigned IDs.
	CreateBatch(ctx context.Context, cards []*entity.Card) error
	GetByID(ctx context.Context, id int64) (*entity.Card, error)
	ListByOwner(ctx context.Context, ownerKind entity.OwnerKind, ownerID int64) ([]*entity.Card, error)
	SetActiveByOwner(ctx context.Context, ownerKind entity.OwnerKind, ownerID int64, active bool) error
	DeleteByOwner(ctx context.Context, ownerKind entity.OwnerKind, ownerID int64) error
}
