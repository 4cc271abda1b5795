package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/eslsoft/phrasenet/internal/entity"
	"github.com/eslsoft/phrasenet/internal/repository"
)

// CreatePhraseInput carries an authored phrase: its ordered component
// vocab items and, for complex phrases, the simple phrases it subsumes.
type CreatePhraseInput struct {
	Form            string
	Pronunciation   string
	Meaning         string
	Level           int32
	ComponentIDs    []int64
	SimplePhraseIDs []int64
}

// PhraseDetail is a phrase joined with its ordered component items and
// its hierarchy neighbours in both directions.
type PhraseDetail struct {
	Phrase         *entity.Phrase
	Components     []*entity.VocabItem
	SimplePhrases  []*entity.Phrase
	ComplexPhrases []*entity.Phrase
}

// PhraseUsecase manages phrases and their study lifecycle.
type PhraseUsecase interface {
	CreatePhrase(ctx context.Context, input CreatePhraseInput) (*entity.Phrase, error)
	GetPhraseDetail(ctx context.Context, phraseID int64) (*PhraseDetail, error)
	AddPhraseToStudy(ctx context.Context, phraseID int64) ([]*entity.Card, error)
	RemovePhraseFromStudy(ctx context.Context, phraseID int64) error
	ListPhrases(ctx context.Context, query *repository.ListPhraseQuery) ([]*entity.Phrase, int64, error)
	AvailablePhrases(ctx context.Context, query *repository.ListPhraseQuery) ([]*entity.Phrase, int64, error)
	PhrasesInStudy(ctx context.Context, query *repository.ListPhraseQuery) ([]*entity.Phrase, int64, error)
	ActivationHistory(ctx context.Context, phraseID int64) ([]*entity.ActivationLog, error)
}

// NewPhraseUsecase wires the phrase flow with default behaviour.
func NewPhraseUsecase(
	tx repository.TxManager,
	phrases repository.PhraseRepository,
	vocabs repository.VocabRepository,
	graph repository.DependencyGraph,
	cards repository.CardRepository,
	progress repository.ProgressRepository,
	reviews repository.ReviewEventRepository,
	logs repository.ActivationLogRepository,
) PhraseUsecase {
	return &phraseUsecase{
		tx:       tx,
		phrases:  phrases,
		vocabs:   vocabs,
		graph:    graph,
		cards:    cards,
		progress: progress,
		reviews:  reviews,
		logs:     logs,
		clock:    time.Now,
	}
}

type phraseUsecase struct {
	tx       repository.TxManager
	phrases  repository.PhraseRepository
	vocabs   repository.VocabRepository
	graph    repository.DependencyGraph
	cards    repository.CardRepository
	progress repository.ProgressRepository
	reviews  repository.ReviewEventRepository
	logs     repository.ActivationLogRepository
	clock    func() time.Time
}

// CreatePhrase authors a new phrase. The component sequence must name
// existing vocab items; referenced simple phrases must exist too. The
// complexity tier follows from the component count and the phrase
// starts dormant.
func (u *phraseUsecase) CreatePhrase(ctx context.Context, input CreatePhraseInput) (*entity.Phrase, error) {
	form := strings.TrimSpace(input.Form)
	meaning := strings.TrimSpace(input.Meaning)
	if form == "" || meaning == "" || len(input.ComponentIDs) == 0 {
		return nil, entity.ErrInvalidInput
	}

	var created *entity.Phrase
	err := u.tx.Within(ctx, func(ctx context.Context) error {
		existing, err := u.phrases.FindByForm(ctx, form)
		if err != nil {
			return err
		}
		if existing != nil {
			return entity.ErrDuplicatePhrase
		}

		distinct := lo.Uniq(input.ComponentIDs)
		items, err := u.vocabs.GetByIDs(ctx, distinct)
		if err != nil {
			return err
		}
		if len(items) != len(distinct) {
			return entity.ErrNotFound
		}

		if len(input.SimplePhraseIDs) > 0 {
			simples, err := u.phrases.GetByIDs(ctx, lo.Uniq(input.SimplePhraseIDs))
			if err != nil {
				return err
			}
			if len(simples) != len(lo.Uniq(input.SimplePhraseIDs)) {
				return entity.ErrNotFound
			}
		}

		now := u.clock()
		phrase := &entity.Phrase{
			Form:          form,
			Pronunciation: strings.TrimSpace(input.Pronunciation),
			Meaning:       meaning,
			Level:         input.Level,
			Tier:          entity.TierForComponentCount(len(input.ComponentIDs)),
		}
		phrase.Normalize(now)

		components := lo.Map(input.ComponentIDs, func(vocabItemID int64, i int) entity.PhraseComponent {
			return entity.PhraseComponent{VocabItemID: vocabItemID, Position: int32(i)}
		})
		hierarchies := lo.Map(lo.Uniq(input.SimplePhraseIDs), func(simpleID int64, _ int) entity.PhraseHierarchy {
			return entity.PhraseHierarchy{SimplePhraseID: simpleID}
		})

		if err := u.phrases.Create(ctx, phrase, components, hierarchies); err != nil {
			return err
		}
		created = phrase
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// GetPhraseDetail aggregates a phrase with its ordered components and
// the phrases above and below it in the hierarchy.
func (u *phraseUsecase) GetPhraseDetail(ctx context.Context, phraseID int64) (*PhraseDetail, error) {
	phrase, err := u.phrases.GetByID(ctx, phraseID)
	if err != nil {
		return nil, err
	}

	componentIDs, err := u.graph.ComponentsOf(ctx, phraseID)
	if err != nil {
		return nil, err
	}
	items, err := u.vocabs.GetByIDs(ctx, componentIDs)
	if err != nil {
		return nil, err
	}
	// GetByIDs returns id order; restore position order, keeping repeats.
	byID := lo.KeyBy(items, func(item *entity.VocabItem) int64 { return item.ID })
	components := make([]*entity.VocabItem, 0, len(componentIDs))
	for _, id := range componentIDs {
		if item, ok := byID[id]; ok {
			components = append(components, item)
		}
	}

	simpleIDs, err := u.graph.SimplePhrasesOf(ctx, phraseID)
	if err != nil {
		return nil, err
	}
	simples, err := u.phrases.GetByIDs(ctx, simpleIDs)
	if err != nil {
		return nil, err
	}

	complexIDs, err := u.graph.ComplexPhrasesContaining(ctx, phraseID)
	if err != nil {
		return nil, err
	}
	complexes, err := u.phrases.GetByIDs(ctx, complexIDs)
	if err != nil {
		return nil, err
	}

	return &PhraseDetail{
		Phrase:         phrase,
		Components:     components,
		SimplePhrases:  simples,
		ComplexPhrases: complexes,
	}, nil
}

// AddPhraseToStudy opts an activated phrase into study, generating its
// six cards.
func (u *phraseUsecase) AddPhraseToStudy(ctx context.Context, phraseID int64) ([]*entity.Card, error) {
	var created []*entity.Card
	err := u.tx.Within(ctx, func(ctx context.Context) error {
		phrase, err := u.phrases.GetByID(ctx, phraseID)
		if err != nil {
			return err
		}
		if !phrase.Activated {
			return entity.ErrNotActivated
		}
		if phrase.InStudy {
			return entity.ErrAlreadyActive
		}

		if err := u.phrases.SetInStudy(ctx, phraseID, true); err != nil {
			return err
		}
		cards := newCardSet(entity.OwnerPhrase, phraseID, u.clock())
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

// RemovePhraseFromStudy opts the phrase back out, deleting its cards
// and their history. The phrase keeps its activated status.
func (u *phraseUsecase) RemovePhraseFromStudy(ctx context.Context, phraseID int64) error {
	return u.tx.Within(ctx, func(ctx context.Context) error {
		phrase, err := u.phrases.GetByID(ctx, phraseID)
		if err != nil {
			return err
		}
		if !phrase.InStudy {
			return entity.ErrNotFound
		}

		owned, err := u.cards.ListByOwner(ctx, entity.OwnerPhrase, phraseID)
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
		if err := u.cards.DeleteByOwner(ctx, entity.OwnerPhrase, phraseID); err != nil {
			return err
		}
		return u.phrases.SetInStudy(ctx, phraseID, false)
	})
}

func (u *phraseUsecase) ListPhrases(ctx context.Context, query *repository.ListPhraseQuery) ([]*entity.Phrase, int64, error) {
	if query == nil {
		query = &repository.ListPhraseQuery{}
	}
	return u.phrases.List(ctx, query)
}

// AvailablePhrases lists activated phrases not yet opted into study.
func (u *phraseUsecase) AvailablePhrases(ctx context.Context, query *repository.ListPhraseQuery) ([]*entity.Phrase, int64, error) {
	if query == nil {
		query = &repository.ListPhraseQuery{}
	}
	query.Activated = lo.ToPtr(true)
	query.InStudy = lo.ToPtr(false)
	return u.phrases.List(ctx, query)
}

func (u *phraseUsecase) PhrasesInStudy(ctx context.Context, query *repository.ListPhraseQuery) ([]*entity.Phrase, int64, error) {
	if query == nil {
		query = &repository.ListPhraseQuery{}
	}
	query.InStudy = lo.ToPtr(true)
	return u.phrases.List(ctx, query)
}

func (u *phraseUsecase) ActivationHistory(ctx context.Context, phraseID int64) ([]*entity.ActivationLog, error) {
	if _, err := u.phrases.GetByID(ctx, phraseID); err != nil {
		return nil, err
	}
	return u.logs.ListByPhrase(ctx, phraseID)
}
