package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/eslsoft/phrasenet/internal/entity"
	"github.com/eslsoft/phrasenet/internal/repository"
	"github.com/eslsoft/phrasenet/pkg/filterexpr"
)

type phraseRepository struct {
	db *gorm.DB
}

// NewPhraseRepository constructs a gorm-backed phrase repository.
func NewPhraseRepository(db *gorm.DB) repository.PhraseRepository {
	return &phraseRepository{db: db}
}

func (r *phraseRepository) Create(ctx context.Context, phrase *entity.Phrase, components []entity.PhraseComponent, hierarchies []entity.PhraseHierarchy) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	run := func(tx *gorm.DB) error {
		model := toPhraseModel(phrase)
		if err := tx.Create(&model).Error; err != nil {
			return translateDBError(err, entity.ErrDuplicatePhrase)
		}
		phrase.ID = model.ID

		if len(components) > 0 {
			rows := make([]phraseComponentModel, 0, len(components))
			for i := range components {
				components[i].PhraseID = model.ID
				rows = append(rows, phraseComponentModel{
					PhraseID:    model.ID,
					Position:    components[i].Position,
					VocabItemID: components[i].VocabItemID,
				})
			}
			if err := tx.Create(&rows).Error; err != nil {
				return fmt.Errorf("create phrase components: %w", err)
			}
		}

		if len(hierarchies) > 0 {
			rows := make([]phraseHierarchyModel, 0, len(hierarchies))
			for i := range hierarchies {
				hierarchies[i].ComplexPhraseID = model.ID
				rows = append(rows, phraseHierarchyModel{
					ComplexPhraseID: model.ID,
					SimplePhraseID:  hierarchies[i].SimplePhraseID,
				})
			}
			if err := tx.Create(&rows).Error; err != nil {
				return fmt.Errorf("create phrase hierarchies: %w", err)
			}
		}
		return nil
	}

	if tx := txFromContext(ctx); tx != nil {
		return run(tx)
	}
	return r.db.WithContext(ctx).Transaction(run)
}

func (r *phraseRepository) GetByID(ctx context.Context, id int64) (*entity.Phrase, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var model phraseModel
	if err := conn(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entity.ErrNotFound
		}
		return nil, fmt.Errorf("get phrase: %w", err)
	}
	return fromPhraseModel(&model), nil
}

func (r *phraseRepository) GetByIDs(ctx context.Context, ids []int64) ([]*entity.Phrase, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	var models []phraseModel
	if err := conn(ctx, r.db).Where("id IN ?", ids).Order("id ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("get phrases: %w", err)
	}
	phrases := make([]*entity.Phrase, 0, len(models))
	for i := range models {
		phrases = append(phrases, fromPhraseModel(&models[i]))
	}
	return phrases, nil
}

func (r *phraseRepository) FindByForm(ctx context.Context, form string) (*entity.Phrase, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if form == "" {
		return nil, nil
	}
	var models []phraseModel
	if err := conn(ctx, r.db).Where("form = ?", form).Limit(1).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("find phrase: %w", err)
	}
	if len(models) == 0 {
		return nil, nil
	}
	return fromPhraseModel(&models[0]), nil
}

func (r *phraseRepository) List(ctx context.Context, query *repository.ListPhraseQuery) ([]*entity.Phrase, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	var typed entity.PhraseQuery
	if err := filterexpr.Bind(&query.FilterOrder, &typed, listPhrasesSchema); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", entity.ErrInvalidInput, err)
	}
	// Pinned flags override whatever the raw filter said.
	if query.Activated != nil {
		typed.Activated = query.Activated
	}
	if query.InStudy != nil {
		typed.InStudy = query.InStudy
	}
	query.Pagination.Normalize()

	filtered := func() *gorm.DB {
		return applyPhraseFilters(conn(ctx, r.db).Model(&phraseModel{}), &typed)
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count phrases: %w", err)
	}

	var models []phraseModel
	err := filtered().
		Order(orderClause(listPhrasesSchema.Order, typed.PrimaryKey, typed.PrimaryDesc)).
		Order(orderClause(listPhrasesSchema.Order, typed.SecondaryKey, typed.SecondaryDesc)).
		Limit(int(query.PageSize)).
		Offset(int(query.Offset())).
		Find(&models).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list phrases: %w", err)
	}

	phrases := make([]*entity.Phrase, 0, len(models))
	for i := range models {
		phrases = append(phrases, fromPhraseModel(&models[i]))
	}
	return phrases, total, nil
}

func (r *phraseRepository) SetActivated(ctx context.Context, id int64, activated bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	res := conn(ctx, r.db).Model(&phraseModel{}).Where("id = ?", id).Update("activated", activated)
	if res.Error != nil {
		return fmt.Errorf("set phrase activated: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return entity.ErrNotFound
	}
	return nil
}

func (r *phraseRepository) SetInStudy(ctx context.Context, id int64, inStudy bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	res := conn(ctx, r.db).Model(&phraseModel{}).Where("id = ?", id).Update("in_study", inStudy)
	if res.Error != nil {
		return fmt.Errorf("set phrase in study: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return entity.ErrNotFound
	}
	return nil
}

func applyPhraseFilters(db *gorm.DB, q *entity.PhraseQuery) *gorm.DB {
	if q.Level != nil {
		db = db.Where("level = ?", *q.Level)
	}
	if q.LevelMin != nil {
		db = db.Where("level >= ?", *q.LevelMin)
	}
	if q.LevelMax != nil {
		db = db.Where("level <= ?", *q.LevelMax)
	}
	if q.Tier != nil {
		db = db.Where("tier = ?", *q.Tier)
	}
	if len(q.Tiers) > 0 {
		db = db.Where("tier IN ?", q.Tiers)
	}
	if q.Form != nil {
		db = db.Where(`form LIKE ? ESCAPE '\'`, escapeLike(*q.Form)+"%")
	}
	if q.Activated != nil {
		db = db.Where("activated = ?", *q.Activated)
	}
	if q.InStudy != nil {
		db = db.Where("in_study = ?", *q.InStudy)
	}
	if q.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *q.CreatedAfter)
	}
	if q.CreatedBefore != nil {
		db = db.Where("created_at <= ?", *q.CreatedBefore)
	}
	return db
}

type activationLogRepository struct {
	db *gorm.DB
}

// NewActivationLogRepository constructs a gorm-backed activation log.
func NewActivationLogRepository(db *gorm.DB) repository.ActivationLogRepository {
	return &activationLogRepository{db: db}
}

func (r *activationLogRepository) Append(ctx context.Context, log *entity.ActivationLog) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	model := toActivationLogModel(log)
	if err := conn(ctx, r.db).Create(&model).Error; err != nil {
		return fmt.Errorf("append activation log: %w", err)
	}
	log.ID = model.ID
	return nil
}

func (r *activationLogRepository) ListByPhrase(ctx context.Context, phraseID int64) ([]*entity.ActivationLog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var models []activationLogModel
	if err := conn(ctx, r.db).Where("phrase_id = ?", phraseID).Order("id ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list activation logs: %w", err)
	}
	logs := make([]*entity.ActivationLog, 0, len(models))
	for i := range models {
		logs = append(logs, fromActivationLogModel(&models[i]))
	}
	return logs, nil
}
