package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/eslsoft/phrasenet/internal/entity"
	"github.com/eslsoft/phrasenet/internal/repository"
)

type cardRepository struct {
	db *gorm.DB
}

// NewCardRepository constructs a gorm-backed card repository.
func NewCardRepository(db *gorm.DB) repository.CardRepository {
	return &cardRepository{db: db}
}

func (r *cardRepository) CreateBatch(ctx context.Context, cards []*entity.Card) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(cards) == 0 {
		return nil
	}
	models := make([]cardModel, 0, len(cards))
	for _, card := range cards {
		models = append(models, toCardModel(card))
	}
	if err := conn(ctx, r.db).Create(&models).Error; err != nil {
		return translateDBError(err, entity.ErrAlreadyActive)
	}
	for i := range models {
		cards[i].ID = models[i].ID
	}
	return nil
}

func (r *cardRepository) GetByID(ctx context.Context, id int64) (*entity.Card, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var model cardModel
	if err := conn(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entity.ErrNotFound
		}
		return nil, fmt.Errorf("get card: %w", err)
	}
	return fromCardModel(&model), nil
}

func (r *cardRepository) ListByOwner(ctx context.Context, ownerKind entity.OwnerKind, ownerID int64) ([]*entity.Card, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var models []cardModel
	err := conn(ctx, r.db).
		Where("owner_kind = ? AND owner_id = ?", string(ownerKind), ownerID).
		Order("modality ASC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("list cards by owner: %w", err)
	}
	cards := make([]*entity.Card, 0, len(models))
	for i := range models {
		cards = append(cards, fromCardModel(&models[i]))
	}
	return cards, nil
}

func (r *cardRepository) SetActiveByOwner(ctx context.Context, ownerKind entity.OwnerKind, ownerID int64, active bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := conn(ctx, r.db).
		Model(&cardModel{}).
		Where("owner_kind = ? AND owner_id = ?", string(ownerKind), ownerID).
		Update("active", active).Error
	if err != nil {
		return fmt.Errorf("set cards active: %w", err)
	}
	return nil
}

func (r *cardRepository) DeleteByOwner(ctx context.Context, ownerKind entity.OwnerKind, ownerID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := conn(ctx, r.db).
		Where("owner_kind = ? AND owner_id = ?", string(ownerKind), ownerID).
		Delete(&cardModel{}).Error
	if err != nil {
		return fmt.Errorf("delete cards by owner: %w", err)
	}
	return nil
}
