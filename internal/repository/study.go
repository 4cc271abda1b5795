package repository

import (
	"context"

	"github.com/eslsoft/phrasenet/internal/entity"
)

// StudyEntryRepository abstracts persistence for the learner's study list.
type StudyEntryRepository interface {
	Create(ctx context.Context, studyEntry *entity.StudyEntry) error
	// FindByVocabItemID returns (nil, nil) when the item has no entry.
	FindByVocabItemID(ctx context.Context, vocabItemID int64) (*entity.StudyEntry, error)
	List(ctx context.Context, activeOnly bool) ([]*entity.StudyEntry, error)
	SetActive(ctx context.Context, id int64, active bool) error
	UpdateNote(ctx context.Context, id int64, note string) error
	Delete(ctx context.Context, id int64) error
}
