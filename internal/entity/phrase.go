package entity

import (
	"strings"
	"time"
)

// Phrase is a composite expression built from an ordered sequence of
// vocabulary items. A phrase sleeps until the propagator activates it
// (all components mastered); the learner then opts it into study.
type Phrase struct {
	ID            int64     `json:"id"`
	Form          string    `json:"form"`
	Pronunciation string    `json:"pronunciation"`
	Meaning       string    `json:"meaning"`
	Level         int32     `json:"level"`
	Tier          Tier      `json:"tier"`      // derived from the component count at creation
	Activated     bool      `json:"activated"` // mutated only by the mastery propagator
	InStudy       bool      `json:"in_study"`  // mutated only by explicit study opt-in/out
	CreatedAt     time.Time `json:"created_at"`
}

// Normalize ensures defaults & constraints before persistence.
func (p *Phrase) Normalize(now time.Time) {
	p.Form = strings.TrimSpace(p.Form)
	p.Pronunciation = strings.TrimSpace(p.Pronunciation)
	p.Meaning = strings.TrimSpace(p.Meaning)
	if p.Level < 1 {
		p.Level = 1
	}
	if p.Level > 6 {
		p.Level = 6
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
}

// PhraseComponent is an ordered edge from a phrase to one of its
// vocabulary items. Position runs left to right from zero and is unique
// per phrase.
type PhraseComponent struct {
	PhraseID    int64 `json:"phrase_id"`
	VocabItemID int64 `json:"vocab_item_id"`
	Position    int32 `json:"position"`
}

// PhraseHierarchy marks a complex phrase as subsuming a simpler one.
// The edges form a DAG; acyclicity is guaranteed by the authoring and
// import boundaries and is not re-validated at propagation time.
type PhraseHierarchy struct {
	ComplexPhraseID int64 `json:"complex_phrase_id"`
	SimplePhraseID  int64 `json:"simple_phrase_id"`
}

// PhraseQuery narrows phrase listings. The filter fields are populated
// from a CEL filter expression, the order fields from an order_by clause.
type PhraseQuery struct {
	Level         *int64
	LevelMin      *int64
	LevelMax      *int64
	Tier          *string
	Tiers         []string
	Form          *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time

	// Flag constraints pinned by the calling usecase, not by user filters.
	Activated *bool
	InStudy   *bool

	PrimaryKey    string
	PrimaryDesc   bool
	SecondaryKey  string
	SecondaryDesc bool

	Limit  int32
	Offset int32
}
