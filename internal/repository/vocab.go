package repository

import (
	"context"

	"github.com/eslsoft/phrasenet/internal/entity"
)

// ListVocabQuery bundles pagination and filtering for vocabulary listings.
type ListVocabQuery struct {
	Pagination
	FilterOrder
}

// VocabRepository abstracts persistence for vocabulary items.
// Implementations must be storage agnostic (e.g., SQL, memory).
type VocabRepository interface {
	Create(ctx context.Context, item *entity.VocabItem) error
	GetByID(ctx context.Context, id int64) (*entity.VocabItem, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*entity.VocabItem, error)
	FindByForm(ctx context.Context, form string) (*entity.VocabItem, error)
	List(ctx context.Context, query *ListVocabQuery) ([]*entity.VocabItem, int64, error)
	Search(ctx context.Context, term string, limit int32) ([]*entity.VocabItem, error)
}
