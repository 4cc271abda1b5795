package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/eslsoft/phrasenet/internal/entity"
	"github.com/eslsoft/phrasenet/internal/repository"
)

type studyEntryRepository struct {
	db *gorm.DB
}

// NewStudyEntryRepository constructs a gorm-backed study list repository.
func NewStudyEntryRepository(db *gorm.DB) repository.StudyEntryRepository {
	return &studyEntryRepository{db: db}
}

func (r *studyEntryRepository) Create(ctx context.Context, studyEntry *entity.StudyEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	model := toStudyEntryModel(studyEntry)
	if err := conn(ctx, r.db).Create(&model).Error; err != nil {
		return translateDBError(err, entity.ErrAlreadyActive)
	}
	studyEntry.ID = model.ID
	return nil
}

func (r *studyEntryRepository) FindByVocabItemID(ctx context.Context, vocabItemID int64) (*entity.StudyEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var models []studyEntryModel
	if err := conn(ctx, r.db).Where("vocab_item_id = ?", vocabItemID).Limit(1).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("find study entry: %w", err)
	}
	if len(models) == 0 {
		return nil, nil
	}
	return fromStudyEntryModel(&models[0]), nil
}

func (r *studyEntryRepository) List(ctx context.Context, activeOnly bool) ([]*entity.StudyEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	q := conn(ctx, r.db).Model(&studyEntryModel{})
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	var models []studyEntryModel
	if err := q.Order("id ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list study entries: %w", err)
	}
	entries := make([]*entity.StudyEntry, 0, len(models))
	for i := range models {
		entries = append(entries, fromStudyEntryModel(&models[i]))
	}
	return entries, nil
}

func (r *studyEntryRepository) SetActive(ctx context.Context, id int64, active bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	res := conn(ctx, r.db).Model(&studyEntryModel{}).Where("id = ?", id).Update("active", active)
	if res.Error != nil {
		return fmt.Errorf("set study entry active: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return entity.ErrNotFound
	}
	return nil
}

func (r *studyEntryRepository) UpdateNote(ctx context.Context, id int64, note string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	res := conn(ctx, r.db).Model(&studyEntryModel{}).Where("id = ?", id).Update("note", note)
	if res.Error != nil {
		return fmt.Errorf("update study entry note: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return entity.ErrNotFound
	}
	return nil
}

func (r *studyEntryRepository) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	res := conn(ctx, r.db).Delete(&studyEntryModel{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete study entry: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return entity.ErrNotFound
	}
	return nil
}
