package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/eslsoft/phrasenet/internal/entity"
	"github.com/eslsoft/phrasenet/internal/repository"
	"github.com/eslsoft/phrasenet/pkg/sm2"
)

type progressRepository struct {
	db *gorm.DB
}

// NewProgressRepository constructs a gorm-backed scheduling state repository.
func NewProgressRepository(db *gorm.DB) repository.ProgressRepository {
	return &progressRepository{db: db}
}

func (r *progressRepository) GetOrCreate(ctx context.Context, cardID int64, now time.Time) (*entity.Progress, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	handle := conn(ctx, r.db)

	var model progressModel
	err := handle.First(&model, "card_id = ?", cardID).Error
	if err == nil {
		return fromProgressModel(&model), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("get progress: %w", err)
	}

	fresh := entity.NewProgress(cardID, now)
	model = toProgressModel(&fresh)
	if err := handle.Create(&model).Error; err != nil {
		// A concurrent reviewer may have inserted the row first.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if err := handle.First(&model, "card_id = ?", cardID).Error; err != nil {
				return nil, fmt.Errorf("get progress: %w", err)
			}
			return fromProgressModel(&model), nil
		}
		return nil, fmt.Errorf("create progress: %w", err)
	}
	return fromProgressModel(&model), nil
}

func (r *progressRepository) ListByCardIDs(ctx context.Context, cardIDs []int64) ([]*entity.Progress, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(cardIDs) == 0 {
		return nil, nil
	}
	var models []progressModel
	if err := conn(ctx, r.db).Where("card_id IN ?", cardIDs).Order("card_id ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	rows := make([]*entity.Progress, 0, len(models))
	for i := range models {
		rows = append(rows, fromProgressModel(&models[i]))
	}
	return rows, nil
}

func (r *progressRepository) Commit(ctx context.Context, progress *entity.Progress, expectedVersion int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	res := conn(ctx, r.db).
		Model(&progressModel{}).
		Where("card_id = ? AND version = ?", progress.CardID, expectedVersion).
		Updates(map[string]any{
			"easiness":        progress.Easiness,
			"repetitions":     progress.Repetitions,
			"interval_days":   progress.IntervalDays,
			"next_review_at":  progress.NextReviewAt,
			"state":           int16(progress.State),
			"total_reviews":   progress.TotalReviews,
			"correct_reviews": progress.CorrectReviews,
			"last_review_at":  progress.LastReviewAt,
			"version":         expectedVersion + 1,
		})
	if res.Error != nil {
		return fmt.Errorf("commit progress: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := conn(ctx, r.db).Model(&progressModel{}).Where("card_id = ?", progress.CardID).Count(&count).Error; err != nil {
			return fmt.Errorf("commit progress: %w", err)
		}
		if count == 0 {
			return entity.ErrNotFound
		}
		return entity.ErrConflict
	}
	progress.Version = expectedVersion + 1
	return nil
}

func (r *progressRepository) DueCards(ctx context.Context, activeOnly bool, asOf time.Time) ([]entity.DueCard, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	q := conn(ctx, r.db).
		Table("cards").
		Select("cards.id, cards.owner_kind, cards.owner_id, cards.modality, cards.active, cards.created_at").
		Joins("LEFT JOIN card_progress ON card_progress.card_id = cards.id").
		Where("card_progress.card_id IS NULL OR card_progress.next_review_at <= ?", asOf)
	if activeOnly {
		q = q.Where("cards.active = ?", true)
	}
	var models []cardModel
	if err := q.Order("cards.id ASC").Scan(&models).Error; err != nil {
		return nil, fmt.Errorf("list due cards: %w", err)
	}
	return r.hydrateDueCards(ctx, models)
}

// hydrateDueCards resolves the owner content each due card renders its
// prompt from.
func (r *progressRepository) hydrateDueCards(ctx context.Context, models []cardModel) ([]entity.DueCard, error) {
	var vocabIDs, phraseIDs []int64
	for i := range models {
		switch entity.OwnerKind(models[i].OwnerKind) {
		case entity.OwnerVocab:
			vocabIDs = append(vocabIDs, models[i].OwnerID)
		case entity.OwnerPhrase:
			phraseIDs = append(phraseIDs, models[i].OwnerID)
		}
	}

	vocabs := make(map[int64]vocabItemModel, len(vocabIDs))
	if len(vocabIDs) > 0 {
		var rows []vocabItemModel
		if err := conn(ctx, r.db).Where("id IN ?", vocabIDs).Find(&rows).Error; err != nil {
			return nil, fmt.Errorf("hydrate due cards: %w", err)
		}
		for i := range rows {
			vocabs[rows[i].ID] = rows[i]
		}
	}
	phrases := make(map[int64]phraseModel, len(phraseIDs))
	if len(phraseIDs) > 0 {
		var rows []phraseModel
		if err := conn(ctx, r.db).Where("id IN ?", phraseIDs).Find(&rows).Error; err != nil {
			return nil, fmt.Errorf("hydrate due cards: %w", err)
		}
		for i := range rows {
			phrases[rows[i].ID] = rows[i]
		}
	}

	due := make([]entity.DueCard, 0, len(models))
	for i := range models {
		card := fromCardModel(&models[i])
		item := entity.DueCard{Card: *card}
		switch card.OwnerKind {
		case entity.OwnerVocab:
			if owner, ok := vocabs[card.OwnerID]; ok {
				item.Form = owner.Form
				item.Pronunciation = owner.Pronunciation
				item.Meaning = owner.Meaning
			}
		case entity.OwnerPhrase:
			if owner, ok := phrases[card.OwnerID]; ok {
				item.Form = owner.Form
				item.Pronunciation = owner.Pronunciation
				item.Meaning = owner.Meaning
			}
		}
		due = append(due, item)
	}
	return due, nil
}

func (r *progressRepository) ResetForReactivation(ctx context.Context, cardIDs []int64, now time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(cardIDs) == 0 {
		return nil
	}
	err := conn(ctx, r.db).
		Model(&progressModel{}).
		Where("card_id IN ?", cardIDs).
		Updates(map[string]any{
			"easiness":       sm2.InitialEasiness,
			"repetitions":    0,
			"interval_days":  0,
			"next_review_at": now,
			"state":          int16(sm2.StateLearning),
			"version":        gorm.Expr("version + 1"),
		}).Error
	if err != nil {
		return fmt.Errorf("reset progress: %w", err)
	}
	return nil
}

func (r *progressRepository) DeleteByCardIDs(ctx context.Context, cardIDs []int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(cardIDs) == 0 {
		return nil
	}
	if err := conn(ctx, r.db).Where("card_id IN ?", cardIDs).Delete(&progressModel{}).Error; err != nil {
		return fmt.Errorf("delete progress: %w", err)
	}
	return nil
}

func (r *progressRepository) StateCounts(ctx context.Context) (map[sm2.State]int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var rows []struct {
		State *int16
		Count int64
	}
	err := conn(ctx, r.db).
		Table("cards").
		Select("card_progress.state AS state, COUNT(*) AS count").
		Joins("LEFT JOIN card_progress ON card_progress.card_id = cards.id").
		Group("card_progress.state").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count card states: %w", err)
	}
	counts := make(map[sm2.State]int64, len(rows))
	for _, row := range rows {
		// Cards with no progress row yet count as new.
		state := sm2.StateNew
		if row.State != nil {
			state = sm2.State(*row.State)
		}
		counts[state] += row.Count
	}
	return counts, nil
}

func (r *progressRepository) DueCount(ctx context.Context, asOf time.Time) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var count int64
	err := conn(ctx, r.db).
		Table("cards").
		Joins("LEFT JOIN card_progress ON card_progress.card_id = cards.id").
		Where("cards.active = ?", true).
		Where("card_progress.card_id IS NULL OR card_progress.next_review_at <= ?", asOf).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count due cards: %w", err)
	}
	return count, nil
}
