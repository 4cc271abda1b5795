package repository

import (
	"context"

	"github.com/eslsoft/phrasenet/internal/entity"
)

// ListPhraseQuery bundles pagination and filtering for phrase listings.
// Activated and InStudy are pinned by the caller and override whatever
// the raw filter expression says.
type ListPhraseQuery struct {
	Pagination
	FilterOrder

	Activated *bool
	InStudy   *bool
}

// PhraseRepository abstracts persistence for phrases and their
// component/hierarchy edges. Create persists the phrase together with
// its edges in one shot.
type PhraseRepository interface {
	Create(ctx context.Context, phrase *entity.Phrase, components []entity.PhraseComponent, hierarchies []entity.PhraseHierarchy) error
	GetByID(ctx context.Context, id int64) (*entity.Phrase, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*entity.Phrase, error)
	FindByForm(ctx context.Context, form string) (*entity.Phrase, error)
	List(ctx context.Context, query *ListPhraseQuery) ([]*entity.Phrase, int64, error)
	SetActivated(ctx context.Context, id int64, activated bool) error
	SetInStudy(ctx context.Context, id int64, inStudy bool) error
}

// ActivationLogRepository records why a phrase became available for study.
type ActivationLogRepository interface {
	Append(ctx context.Context, log *entity.ActivationLog) error
	ListByPhrase(ctx context.Context, phraseID int64) ([]*entity.ActivationLog, error)
}
