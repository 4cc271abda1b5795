package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/eslsoft/phrasenet/internal/entity"
	"github.com/eslsoft/phrasenet/internal/repository"
	"github.com/eslsoft/phrasenet/pkg/sm2"
)

type reviewEventRepository struct {
	db *gorm.DB
}

// NewReviewEventRepository constructs a gorm-backed review history.
func NewReviewEventRepository(db *gorm.DB) repository.ReviewEventRepository {
	return &reviewEventRepository{db: db}
}

func (r *reviewEventRepository) Append(ctx context.Context, event *entity.ReviewEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	model := toReviewEventModel(event)
	if err := conn(ctx, r.db).Create(&model).Error; err != nil {
		return fmt.Errorf("append review event: %w", err)
	}
	event.ID = model.ID
	return nil
}

func (r *reviewEventRepository) ListBySession(ctx context.Context, sessionID int64) ([]*entity.ReviewEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var models []reviewEventModel
	if err := conn(ctx, r.db).Where("session_id = ?", sessionID).Order("id ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list session reviews: %w", err)
	}
	events := make([]*entity.ReviewEvent, 0, len(models))
	for i := range models {
		events = append(events, fromReviewEventModel(&models[i]))
	}
	return events, nil
}

func (r *reviewEventRepository) ListByCard(ctx context.Context, cardID int64, limit int32) ([]*entity.ReviewEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	q := conn(ctx, r.db).Where("card_id = ?", cardID).Order("id DESC")
	if limit > 0 {
		q = q.Limit(int(limit))
	}
	var models []reviewEventModel
	if err := q.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list card reviews: %w", err)
	}
	events := make([]*entity.ReviewEvent, 0, len(models))
	for i := range models {
		events = append(events, fromReviewEventModel(&models[i]))
	}
	return events, nil
}

func (r *reviewEventRepository) DeleteByCardIDs(ctx context.Context, cardIDs []int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(cardIDs) == 0 {
		return nil
	}
	if err := conn(ctx, r.db).Where("card_id IN ?", cardIDs).Delete(&reviewEventModel{}).Error; err != nil {
		return fmt.Errorf("delete review events: %w", err)
	}
	return nil
}

func (r *reviewEventRepository) Totals(ctx context.Context) (int64, int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}
	var row struct {
		Total   int64
		Correct int64
	}
	err := conn(ctx, r.db).
		Model(&reviewEventModel{}).
		Select("COUNT(*) AS total, COALESCE(SUM(CASE WHEN quality >= ? THEN 1 ELSE 0 END), 0) AS correct", int16(sm2.QualityHard)).
		Scan(&row).Error
	if err != nil {
		return 0, 0, fmt.Errorf("review totals: %w", err)
	}
	return row.Total, row.Correct, nil
}
