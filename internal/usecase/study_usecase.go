package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/eslsoft/phrasenet/internal/entity"
	"github.com/eslsoft/phrasenet/internal/repository"
)

// StudyUsecase manages the learner's vocabulary study list.
type StudyUsecase interface {
	AddVocabToStudy(ctx context.Context, vocabItemID int64) ([]*entity.Card, error)
	RemoveVocabFromStudy(ctx context.Context, vocabItemID int64) error
	UpdateNote(ctx context.Context, vocabItemID int64, note string) error
	ListStudyEntries(ctx context.Context, activeOnly bool) ([]*entity.StudyEntry, error)
}

// NewStudyUsecase wires the study-list flow with default behaviour.
func NewStudyUsecase(
	tx repository.TxManager,
	vocabs repository.VocabRepository,
	studies repository.StudyEntryRepository,
	cards repository.CardRepository,
	progress repository.ProgressRepository,
	reviews repository.ReviewEventRepository,
) StudyUsecase {
	return &studyUsecase{
		tx:       tx,
		vocabs:   vocabs,
		studies:  studies,
		cards:    cards,
		progress: progress,
		reviews:  reviews,
		clock:    time.Now,
	}
}

type studyUsecase struct {
	tx       repository.TxManager
	vocabs   repository.VocabRepository
	studies  repository.StudyEntryRepository
	cards    repository.CardRepository
	progress repository.ProgressRepository
	reviews  repository.ReviewEventRepository
	clock    func() time.Time
}

// AddVocabToStudy enrolls a vocabulary item, creating its study entry
// and six cards atomically.
func (u *studyUsecase) AddVocabToStudy(ctx context.Context, vocabItemID int64) ([]*entity.Card, error) {
	if vocabItemID <= 0 {
		return nil, entity.ErrNotFound
	}

	var created []*entity.Card
	err := u.tx.Within(ctx, func(ctx context.Context) error {
		if _, err := u.vocabs.GetByID(ctx, vocabItemID); err != nil {
			return err
		}
		existing, err := u.studies.FindByVocabItemID(ctx, vocabItemID)
		if err != nil {
			return err
		}
		if existing != nil {
			return entity.ErrAlreadyActive
		}

		now := u.clock()
		entry := &entity.StudyEntry{
			VocabItemID: vocabItemID,
			Active:      true,
			AddedAt:     now,
			UpdatedAt:   now,
		}
		if err := u.studies.Create(ctx, entry); err != nil {
			return err
		}

		cards := newCardSet(entity.OwnerVocab, vocabItemID, now)
		if err := u.cards.CreateBatch(ctx, cards); err != nil {
			return err
		}
		created = cards
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// RemoveVocabFromStudy drops the item and everything hanging off it.
// History goes first, then progress, then cards, then the entry itself.
func (u *studyUsecase) RemoveVocabFromStudy(ctx context.Context, vocabItemID int64) error {
	return u.tx.Within(ctx, func(ctx context.Context) error {
		entry, err := u.studies.FindByVocabItemID(ctx, vocabItemID)
		if err != nil {
			return err
		}
		if entry == nil {
			return entity.ErrNotFound
		}

		owned, err := u.cards.ListByOwner(ctx, entity.OwnerVocab, vocabItemID)
		if err != nil {
			return err
		}
		ids := cardIDs(owned)
		if err := u.reviews.DeleteByCardIDs(ctx, ids); err != nil {
			return err
		}
		if err := u.progress.DeleteByCardIDs(ctx, ids); err != nil {
			return err
		}
		if err := u.cards.DeleteByOwner(ctx, entity.OwnerVocab, vocabItemID); err != nil {
			return err
		}
		return u.studies.Delete(ctx, entry.ID)
	})
}

func (u *studyUsecase) UpdateNote(ctx context.Context, vocabItemID int64, note string) error {
	entry, err := u.studies.FindByVocabItemID(ctx, vocabItemID)
	if err != nil {
		return err
	}
	if entry == nil {
		return entity.ErrNotFound
	}
	return u.studies.UpdateNote(ctx, entry.ID, strings.TrimSpace(note))
}

func (u *studyUsecase) ListStudyEntries(ctx context.Context, activeOnly bool) ([]*entity.StudyEntry, error) {
	return u.studies.List(ctx, activeOnly)
}
