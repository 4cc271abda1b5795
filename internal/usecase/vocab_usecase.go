package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/eslsoft/phrasenet/internal/entity"
	"github.com/eslsoft/phrasenet/internal/repository"
)

const defaultSearchLimit = 20

// CreateVocabInput carries a new dictionary entry. Items are immutable
// once created.
type CreateVocabInput struct {
	Form          string
	Pronunciation string
	Meaning       string
	Level         int32
	AltForms      []string
	Category      string
}

// VocabUsecase manages the vocabulary dictionary.
type VocabUsecase interface {
	CreateVocabItem(ctx context.Context, input CreateVocabInput) (*entity.VocabItem, error)
	GetVocabItem(ctx context.Context, id int64) (*entity.VocabItem, error)
	ListVocab(ctx context.Context, query *repository.ListVocabQuery) ([]*entity.VocabItem, int64, error)
	SearchVocab(ctx context.Context, term string, limit int32) ([]*entity.VocabItem, error)
}

// NewVocabUsecase wires the dictionary flow with default behaviour.
func NewVocabUsecase(vocabs repository.VocabRepository) VocabUsecase {
	return &vocabUsecase{
		vocabs: vocabs,
		clock:  time.Now,
	}
}

type vocabUsecase struct {
	vocabs repository.VocabRepository
	clock  func() time.Time
}

func (u *vocabUsecase) CreateVocabItem(ctx context.Context, input CreateVocabInput) (*entity.VocabItem, error) {
	item := &entity.VocabItem{
		Form:          input.Form,
		Pronunciation: input.Pronunciation,
		Meaning:       input.Meaning,
		Level:         input.Level,
		AltForms:      input.AltForms,
		Category:      input.Category,
	}
	item.Normalize(u.clock())
	if err := item.Validate(); err != nil {
		return nil, err
	}

	existing, err := u.vocabs.FindByForm(ctx, item.Form)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, entity.ErrDuplicateVocab
	}

	if err := u.vocabs.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (u *vocabUsecase) GetVocabItem(ctx context.Context, id int64) (*entity.VocabItem, error) {
	if id <= 0 {
		return nil, entity.ErrNotFound
	}
	return u.vocabs.GetByID(ctx, id)
}

func (u *vocabUsecase) ListVocab(ctx context.Context, query *repository.ListVocabQuery) ([]*entity.VocabItem, int64, error) {
	if query == nil {
		query = &repository.ListVocabQuery{}
	}
	return u.vocabs.List(ctx, query)
}

// SearchVocab matches the term against form, pronunciation and meaning,
// ignoring diacritics.
func (u *vocabUsecase) SearchVocab(ctx context.Context, term string, limit int32) ([]*entity.VocabItem, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, entity.ErrInvalidInput
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	return u.vocabs.Search(ctx, term, limit)
}
