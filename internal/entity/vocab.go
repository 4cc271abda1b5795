package entity

import (
	"strings"
	"time"
)

// VocabItem is an atomic vocabulary entry: a single word with its
// pronunciation and primary meaning. Items are immutable once created;
// cards and phrase components reference them but never own them.
type VocabItem struct {
	ID            int64     `json:"id"`
	Level         int32     `json:"level"` // graded difficulty, 1-6
	Form          string    `json:"form"`
	Pronunciation string    `json:"pronunciation"`
	Meaning       string    `json:"meaning"`
	AltForms      []string  `json:"alt_forms,omitempty"`
	Category      string    `json:"category,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Normalize ensures defaults & constraints before persistence.
func (v *VocabItem) Normalize(now time.Time) {
	v.Form = strings.TrimSpace(v.Form)
	v.Pronunciation = strings.TrimSpace(v.Pronunciation)
	v.Meaning = strings.TrimSpace(v.Meaning)
	if v.Level < 1 {
		v.Level = 1
	}
	if v.Level > 6 {
		v.Level = 6
	}
	if v.AltForms == nil {
		v.AltForms = []string{}
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = now
	}
}

// Validate checks the fields required of an imported entry.
func (v *VocabItem) Validate() error {
	if strings.TrimSpace(v.Form) == "" {
		return ErrInvalidInput
	}
	if strings.TrimSpace(v.Meaning) == "" {
		return ErrInvalidInput
	}
	return nil
}

// VocabQuery narrows vocabulary listings. The filter fields are populated
// from a CEL filter expression, the order fields from an order_by clause.
type VocabQuery struct {
	Level         *int64
	LevelMin      *int64
	LevelMax      *int64
	Form          *string
	Category      *string
	Categories    []string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time

	PrimaryKey    string
	PrimaryDesc   bool
	SecondaryKey  string
	SecondaryDesc bool

	Limit  int32
	Offset int32
}
