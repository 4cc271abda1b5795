package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/eslsoft/phrasenet/internal/entity"
	"github.com/eslsoft/phrasenet/internal/repository"
	"github.com/eslsoft/phrasenet/pkg/filterexpr"
)

type vocabRepository struct {
	db *gorm.DB
}

// NewVocabRepository constructs a gorm-backed vocabulary repository.
func NewVocabRepository(db *gorm.DB) repository.VocabRepository {
	return &vocabRepository{db: db}
}

func (r *vocabRepository) Create(ctx context.Context, item *entity.VocabItem) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	model := toVocabItemModel(item)
	if err := conn(ctx, r.db).Create(&model).Error; err != nil {
		return translateDBError(err, entity.ErrDuplicateVocab)
	}
	item.ID = model.ID
	return nil
}

func (r *vocabRepository) GetByID(ctx context.Context, id int64) (*entity.VocabItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var model vocabItemModel
	if err := conn(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entity.ErrNotFound
		}
		return nil, fmt.Errorf("get vocab item: %w", err)
	}
	return fromVocabItemModel(&model), nil
}

func (r *vocabRepository) GetByIDs(ctx context.Context, ids []int64) ([]*entity.VocabItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	var models []vocabItemModel
	if err := conn(ctx, r.db).Where("id IN ?", ids).Order("id ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("get vocab items: %w", err)
	}
	items := make([]*entity.VocabItem, 0, len(models))
	for i := range models {
		items = append(items, fromVocabItemModel(&models[i]))
	}
	return items, nil
}

func (r *vocabRepository) FindByForm(ctx context.Context, form string) (*entity.VocabItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if form == "" {
		return nil, nil
	}
	var models []vocabItemModel
	if err := conn(ctx, r.db).Where("form = ?", form).Limit(1).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("find vocab item: %w", err)
	}
	if len(models) == 0 {
		return nil, nil
	}
	return fromVocabItemModel(&models[0]), nil
}

func (r *vocabRepository) List(ctx context.Context, query *repository.ListVocabQuery) ([]*entity.VocabItem, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	var typed entity.VocabQuery
	if err := filterexpr.Bind(&query.FilterOrder, &typed, listVocabSchema); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", entity.ErrInvalidInput, err)
	}
	query.Pagination.Normalize()

	filtered := func() *gorm.DB {
		return applyVocabFilters(conn(ctx, r.db).Model(&vocabItemModel{}), &typed)
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count vocab items: %w", err)
	}

	var models []vocabItemModel
	err := filtered().
		Order(orderClause(listVocabSchema.Order, typed.PrimaryKey, typed.PrimaryDesc)).
		Order(orderClause(listVocabSchema.Order, typed.SecondaryKey, typed.SecondaryDesc)).
		Limit(int(query.PageSize)).
		Offset(int(query.Offset())).
		Find(&models).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list vocab items: %w", err)
	}

	items := make([]*entity.VocabItem, 0, len(models))
	for i := range models {
		items = append(items, fromVocabItemModel(&models[i]))
	}
	return items, total, nil
}

const searchScanBatch = 500

// Search matches the folded term against form, pronunciation, meaning
// and alt forms. Accent folding cannot be pushed into SQL portably, so
// rows are scanned in batches and matched in Go, stopping at limit.
func (r *vocabRepository) Search(ctx context.Context, term string, limit int32) ([]*entity.VocabItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	folded := foldText(strings.TrimSpace(term))
	if folded == "" || limit <= 0 {
		return nil, nil
	}

	items := make([]*entity.VocabItem, 0, limit)
	for offset := 0; ; offset += searchScanBatch {
		var models []vocabItemModel
		err := conn(ctx, r.db).
			Order("form ASC").
			Limit(searchScanBatch).
			Offset(offset).
			Find(&models).Error
		if err != nil {
			return nil, fmt.Errorf("search vocab items: %w", err)
		}
		for i := range models {
			if !vocabItemMatches(&models[i], folded) {
				continue
			}
			items = append(items, fromVocabItemModel(&models[i]))
			if int32(len(items)) >= limit {
				return items, nil
			}
		}
		if len(models) < searchScanBatch {
			return items, nil
		}
	}
}

func vocabItemMatches(m *vocabItemModel, foldedTerm string) bool {
	if strings.Contains(foldText(m.Form), foldedTerm) ||
		strings.Contains(foldText(m.Pronunciation), foldedTerm) ||
		strings.Contains(foldText(m.Meaning), foldedTerm) {
		return true
	}
	for _, alt := range m.AltForms {
		if strings.Contains(foldText(alt), foldedTerm) {
			return true
		}
	}
	return false
}

func applyVocabFilters(db *gorm.DB, q *entity.VocabQuery) *gorm.DB {
	if q.Level != nil {
		db = db.Where("level = ?", *q.Level)
	}
	if q.LevelMin != nil {
		db = db.Where("level >= ?", *q.LevelMin)
	}
	if q.LevelMax != nil {
		db = db.Where("level <= ?", *q.LevelMax)
	}
	if q.Form != nil {
		db = db.Where(`form LIKE ? ESCAPE '\'`, escapeLike(*q.Form)+"%")
	}
	if q.Category != nil {
		db = db.Where("category = ?", *q.Category)
	}
	if len(q.Categories) > 0 {
		db = db.Where("category IN ?", q.Categories)
	}
	if q.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *q.CreatedAfter)
	}
	if q.CreatedBefore != nil {
		db = db.Where("created_at <= ?", *q.CreatedBefore)
	}
	return db
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }
