package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/eslsoft/phrasenet/internal/entity"
	"github.com/eslsoft/phrasenet/internal/repository"
	"github.com/eslsoft/phrasenet/pkg/sm2"
)

// Propagator walks the dependency graph after a committed review and
// derives the coverage changes it implies: phrase activation once every
// component is mastered, retirement of material covered by a mastered
// phrase, and reactivation of components that failed inside a phrase.
type Propagator struct {
	phrases  repository.PhraseRepository
	graph    repository.DependencyGraph
	studies  repository.StudyEntryRepository
	cards    repository.CardRepository
	progress repository.ProgressRepository
	logs     repository.ActivationLogRepository
	logger   *logrus.Logger
	clock    func() time.Time
}

// NewPropagator wires the graph walker with its repositories.
func NewPropagator(
	phrases repository.PhraseRepository,
	graph repository.DependencyGraph,
	studies repository.StudyEntryRepository,
	cards repository.CardRepository,
	progress repository.ProgressRepository,
	logs repository.ActivationLogRepository,
	logger *logrus.Logger,
) *Propagator {
	return &Propagator{
		phrases:  phrases,
		graph:    graph,
		studies:  studies,
		cards:    cards,
		progress: progress,
		logs:     logs,
		logger:   logger,
		clock:    time.Now,
	}
}

// AfterReview computes the effects implied by a committed review, in
// trigger order: reactivation of failed components, phrase-mastery
// cascade, then activation checks for phrases containing the item. It
// only reads; pass the result to Apply within the same transaction.
// Re-running it against an already-settled graph yields no effects.
func (p *Propagator) AfterReview(ctx context.Context, card *entity.Card, event *entity.ReviewEvent) ([]Effect, error) {
	var effects []Effect

	switch card.OwnerKind {
	case entity.OwnerPhrase:
		if event.Quality == sm2.QualityForgot && len(event.FailedComponentIDs) > 0 {
			reactivations, err := p.reactivationEffects(ctx, event.FailedComponentIDs)
			if err != nil {
				return nil, err
			}
			effects = append(effects, reactivations...)
		}
		if event.StateAfter.Settled() {
			cascade, err := p.cascadeEffects(ctx, card.OwnerID)
			if err != nil {
				return nil, err
			}
			effects = append(effects, cascade...)
		}
	case entity.OwnerVocab:
		if event.StateAfter.Settled() {
			activations, err := p.activationEffects(ctx, card.OwnerID)
			if err != nil {
				return nil, err
			}
			effects = append(effects, activations...)
		}
	}

	return effects, nil
}

// Apply executes the effects in order. It must run inside the same
// transaction as the progress commit that produced them.
func (p *Propagator) Apply(ctx context.Context, effects []Effect) error {
	now := p.clock()
	for _, effect := range effects {
		switch effect.Kind {
		case EffectPhraseActivated:
			if err := p.phrases.SetActivated(ctx, effect.PhraseID, true); err != nil {
				return err
			}
			log := &entity.ActivationLog{
				PhraseID:     effect.PhraseID,
				Reason:       entity.ActivationReasonComponentsMastered,
				ComponentIDs: effect.ComponentIDs,
				CreatedAt:    now,
			}
			if err := p.logs.Append(ctx, log); err != nil {
				return err
			}
		case EffectStudyEntryDeactivated:
			if err := p.studies.SetActive(ctx, effect.StudyEntryID, false); err != nil {
				return err
			}
		case EffectCardsDeactivated:
			if err := p.setCardsActive(ctx, effect, false); err != nil {
				return err
			}
		case EffectStudyEntryReactivated:
			if err := p.studies.SetActive(ctx, effect.StudyEntryID, true); err != nil {
				return err
			}
		case EffectCardsReactivated:
			if err := p.setCardsActive(ctx, effect, true); err != nil {
				return err
			}
		case EffectProgressReset:
			if err := p.progress.ResetForReactivation(ctx, effect.CardIDs, now); err != nil {
				return err
			}
		case EffectSkippedEdge:
			// Logged when computed; nothing to write.
		}
	}
	return nil
}

// reactivationEffects rewinds the listed components: their study entry
// and cards come back, and their progress is forced to a fresh learning
// state. Failing a word inside a phrase outweighs whatever the word's
// own cards recorded.
func (p *Propagator) reactivationEffects(ctx context.Context, failed []int64) ([]Effect, error) {
	var effects []Effect
	for _, vocabItemID := range lo.Uniq(failed) {
		entry, err := p.studies.FindByVocabItemID(ctx, vocabItemID)
		if err != nil {
			return nil, err
		}
		if entry == nil {
			effects = append(effects, p.skip("no study entry for failed component %d", vocabItemID))
			continue
		}

		ownedCards, err := p.cards.ListByOwner(ctx, entity.OwnerVocab, vocabItemID)
		if err != nil {
			return nil, err
		}

		if !entry.Active {
			effects = append(effects, Effect{
				Kind:         EffectStudyEntryReactivated,
				VocabItemID:  vocabItemID,
				StudyEntryID: entry.ID,
			})
		}
		inactive := lo.Filter(ownedCards, func(c *entity.Card, _ int) bool { return !c.Active })
		if len(inactive) > 0 {
			effects = append(effects, Effect{
				Kind:        EffectCardsReactivated,
				VocabItemID: vocabItemID,
				CardIDs:     cardIDs(inactive),
			})
		}
		if len(ownedCards) == 0 {
			effects = append(effects, p.skip("no cards for failed component %d", vocabItemID))
			continue
		}
		effects = append(effects, Effect{
			Kind:        EffectProgressReset,
			VocabItemID: vocabItemID,
			CardIDs:     cardIDs(ownedCards),
		})
	}
	return effects, nil
}

// cascadeEffects retires material covered by a phrase whose cards are
// now all mastered: component study entries and cards, plus the cards
// of in-study simple phrases one hierarchy hop down.
func (p *Propagator) cascadeEffects(ctx context.Context, phraseID int64) ([]Effect, error) {
	phrase, err := p.phrases.GetByID(ctx, phraseID)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return []Effect{p.skip("phrase %d missing during cascade", phraseID)}, nil
		}
		return nil, err
	}
	if !phrase.InStudy {
		return nil, nil
	}

	settled, err := p.ownerSettled(ctx, entity.OwnerPhrase, phraseID)
	if err != nil {
		return nil, err
	}
	if !settled {
		return nil, nil
	}

	componentIDs, err := p.graph.ComponentsOf(ctx, phraseID)
	if err != nil {
		return nil, err
	}

	var effects []Effect
	for _, vocabItemID := range lo.Uniq(componentIDs) {
		entry, err := p.studies.FindByVocabItemID(ctx, vocabItemID)
		if err != nil {
			return nil, err
		}
		if entry == nil {
			effects = append(effects, p.skip("no study entry for component %d of phrase %d", vocabItemID, phraseID))
			continue
		}
		if entry.Active {
			effects = append(effects, Effect{
				Kind:         EffectStudyEntryDeactivated,
				VocabItemID:  vocabItemID,
				StudyEntryID: entry.ID,
			})
		}
		ownedCards, err := p.cards.ListByOwner(ctx, entity.OwnerVocab, vocabItemID)
		if err != nil {
			return nil, err
		}
		active := lo.Filter(ownedCards, func(c *entity.Card, _ int) bool { return c.Active })
		if len(active) > 0 {
			effects = append(effects, Effect{
				Kind:        EffectCardsDeactivated,
				VocabItemID: vocabItemID,
				CardIDs:     cardIDs(active),
			})
		}
	}

	simpleIDs, err := p.graph.SimplePhrasesOf(ctx, phraseID)
	if err != nil {
		return nil, err
	}
	for _, simpleID := range simpleIDs {
		simple, err := p.phrases.GetByID(ctx, simpleID)
		if err != nil {
			if errors.Is(err, entity.ErrNotFound) {
				effects = append(effects, p.skip("simple phrase %d missing during cascade", simpleID))
				continue
			}
			return nil, err
		}
		if !simple.InStudy {
			continue
		}
		ownedCards, err := p.cards.ListByOwner(ctx, entity.OwnerPhrase, simpleID)
		if err != nil {
			return nil, err
		}
		active := lo.Filter(ownedCards, func(c *entity.Card, _ int) bool { return c.Active })
		if len(active) > 0 {
			effects = append(effects, Effect{
				Kind:     EffectCardsDeactivated,
				PhraseID: simpleID,
				CardIDs:  cardIDs(active),
			})
		}
	}

	return effects, nil
}

// activationEffects re-evaluates every phrase containing the vocab item
// and activates those whose components are now all mastered.
func (p *Propagator) activationEffects(ctx context.Context, vocabItemID int64) ([]Effect, error) {
	phraseIDs, err := p.graph.PhrasesContaining(ctx, vocabItemID)
	if err != nil {
		return nil, err
	}

	var effects []Effect
	for _, phraseID := range phraseIDs {
		phrase, err := p.phrases.GetByID(ctx, phraseID)
		if err != nil {
			if errors.Is(err, entity.ErrNotFound) {
				effects = append(effects, p.skip("phrase %d missing during activation check", phraseID))
				continue
			}
			return nil, err
		}
		if phrase.Activated {
			continue
		}

		componentIDs, err := p.graph.ComponentsOf(ctx, phraseID)
		if err != nil {
			return nil, err
		}
		distinct := lo.Uniq(componentIDs)
		if len(distinct) == 0 {
			effects = append(effects, p.skip("phrase %d has no components", phraseID))
			continue
		}

		allSettled := true
		for _, componentID := range distinct {
			settled, err := p.ownerSettled(ctx, entity.OwnerVocab, componentID)
			if err != nil {
				return nil, err
			}
			if !settled {
				allSettled = false
				break
			}
		}
		if allSettled {
			effects = append(effects, Effect{
				Kind:         EffectPhraseActivated,
				PhraseID:     phraseID,
				ComponentIDs: distinct,
			})
		}
	}
	return effects, nil
}

// ownerSettled reports whether the owner has cards and every one of
// them carries mastered/mature progress. An owner without cards, or a
// card never reviewed, does not count as mastered.
func (p *Propagator) ownerSettled(ctx context.Context, kind entity.OwnerKind, ownerID int64) (bool, error) {
	ownedCards, err := p.cards.ListByOwner(ctx, kind, ownerID)
	if err != nil {
		return false, err
	}
	if len(ownedCards) == 0 {
		return false, nil
	}
	progresses, err := p.progress.ListByCardIDs(ctx, cardIDs(ownedCards))
	if err != nil {
		return false, err
	}
	if len(progresses) < len(ownedCards) {
		return false, nil
	}
	for _, pr := range progresses {
		if !pr.State.Settled() {
			return false, nil
		}
	}
	return true, nil
}

func (p *Propagator) setCardsActive(ctx context.Context, effect Effect, active bool) error {
	if effect.PhraseID != 0 {
		return p.cards.SetActiveByOwner(ctx, entity.OwnerPhrase, effect.PhraseID, active)
	}
	return p.cards.SetActiveByOwner(ctx, entity.OwnerVocab, effect.VocabItemID, active)
}

func (p *Propagator) skip(format string, args ...any) Effect {
	detail := fmt.Sprintf(format, args...)
	p.logger.Warnf("propagation: %s", detail)
	return Effect{Kind: EffectSkippedEdge, Detail: detail}
}

func cardIDs(cards []*entity.Card) []int64 {
	return lo.Map(cards, func(c *entity.Card, _ int) int64 { return c.ID })
}
