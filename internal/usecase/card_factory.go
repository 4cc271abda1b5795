package usecase

import (
	"time"

	"github.com/eslsoft/phrasenet/internal/entity"
)

// newCardSet expands a study owner into its six review cards, one per
// prompt modality, all active. Progress rows are created lazily on
// first review. Callers must guard against generating a second set for
// the same owner.
func newCardSet(ownerKind entity.OwnerKind, ownerID int64, now time.Time) []*entity.Card {
	modalities := entity.CardModalities()
	cards := make([]*entity.Card, 0, len(modalities))
	for _, modality := range modalities {
		cards = append(cards, &entity.Card{
			OwnerKind: ownerKind,
			OwnerID:   ownerID,
			Modality:  modality,
			Active:    true,
			CreatedAt: now,
		})
	}
	return cards
}
