package usecase

import "fmt"

// EffectKind identifies one propagation side effect.
type EffectKind int8

const (
	EffectPhraseActivated EffectKind = iota + 1
	EffectStudyEntryDeactivated
	EffectCardsDeactivated
	EffectStudyEntryReactivated
	EffectCardsReactivated
	EffectProgressReset
	EffectSkippedEdge
)

var effectKindNames = [...]string{
	EffectPhraseActivated:       "phrase-activated",
	EffectStudyEntryDeactivated: "study-entry-deactivated",
	EffectCardsDeactivated:      "cards-deactivated",
	EffectStudyEntryReactivated: "study-entry-reactivated",
	EffectCardsReactivated:      "cards-reactivated",
	EffectProgressReset:         "progress-reset",
	EffectSkippedEdge:           "skipped-edge",
}

var _ fmt.Stringer = EffectKind(0)

func (k EffectKind) String() string {
	if k < 1 || int(k) >= len(effectKindNames) {
		return fmt.Sprintf("effectkind(%d)", int(k))
	}
	return effectKindNames[k]
}

// Effect describes one state change implied by a committed review. The
// propagator computes effects without writing anything; Apply executes
// them inside the caller's transaction. Exactly one of PhraseID and
// VocabItemID identifies the subject, depending on the kind.
type Effect struct {
	Kind         EffectKind
	PhraseID     int64
	VocabItemID  int64
	StudyEntryID int64
	CardIDs      []int64
	ComponentIDs []int64
	Detail       string
}
