package repository

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/eslsoft/phrasenet/internal/infrastructure/database/types"
)

// Database row shapes. Kept separate from the entity layer so schema
// concerns (column types, indexes) never leak into domain types. The
// json tags give backup files column-named payloads.

type vocabItemModel struct {
	ID            int64            `gorm:"primaryKey;autoIncrement" json:"id"`
	Form          string           `gorm:"size:128;not null;uniqueIndex" json:"form"`
	Pronunciation string           `gorm:"size:128;not null;default:''" json:"pronunciation"`
	Meaning       string           `gorm:"not null" json:"meaning"`
	Level         int32            `gorm:"not null;default:1;index" json:"level"`
	AltForms      types.StringList `gorm:"type:text" json:"alt_forms"`
	Category      string           `gorm:"size:64;not null;default:'';index" json:"category"`
	CreatedAt     time.Time        `gorm:"not null" json:"created_at"`
}

func (vocabItemModel) TableName() string { return "vocab_items" }

type phraseModel struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Form          string    `gorm:"size:256;not null;uniqueIndex" json:"form"`
	Pronunciation string    `gorm:"size:256;not null;default:''" json:"pronunciation"`
	Meaning       string    `gorm:"not null" json:"meaning"`
	Level         int32     `gorm:"not null;default:1;index" json:"level"`
	Tier          string    `gorm:"size:16;not null;index" json:"tier"`
	Activated     bool      `gorm:"not null;default:false;index" json:"activated"`
	InStudy       bool      `gorm:"not null;default:false;index" json:"in_study"`
	CreatedAt     time.Time `gorm:"not null" json:"created_at"`
}

func (phraseModel) TableName() string { return "phrases" }

type phraseComponentModel struct {
	PhraseID    int64 `gorm:"primaryKey;autoIncrement:false" json:"phrase_id"`
	Position    int32 `gorm:"primaryKey;autoIncrement:false" json:"position"`
	VocabItemID int64 `gorm:"not null;index" json:"vocab_item_id"`
}

func (phraseComponentModel) TableName() string { return "phrase_components" }

type phraseHierarchyModel struct {
	ComplexPhraseID int64 `gorm:"primaryKey;autoIncrement:false" json:"complex_phrase_id"`
	SimplePhraseID  int64 `gorm:"primaryKey;autoIncrement:false;index" json:"simple_phrase_id"`
}

func (phraseHierarchyModel) TableName() string { return "phrase_hierarchies" }

type studyEntryModel struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	VocabItemID int64     `gorm:"not null;uniqueIndex" json:"vocab_item_id"`
	Active      bool      `gorm:"not null;default:true;index" json:"active"`
	Note        string    `gorm:"not null;default:''" json:"note"`
	AddedAt     time.Time `gorm:"not null" json:"added_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

func (studyEntryModel) TableName() string { return "study_entries" }

type cardModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OwnerKind string    `gorm:"size:8;not null;uniqueIndex:idx_cards_owner_modality,priority:1" json:"owner_kind"`
	OwnerID   int64     `gorm:"not null;uniqueIndex:idx_cards_owner_modality,priority:2" json:"owner_id"`
	Modality  int16     `gorm:"not null;uniqueIndex:idx_cards_owner_modality,priority:3" json:"modality"`
	Active    bool      `gorm:"not null;default:true;index" json:"active"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (cardModel) TableName() string { return "cards" }

type progressModel struct {
	CardID         int64      `gorm:"primaryKey;autoIncrement:false" json:"card_id"`
	Easiness       float64    `gorm:"not null;default:2.5" json:"easiness"`
	Repetitions    int32      `gorm:"not null;default:0" json:"repetitions"`
	IntervalDays   int32      `gorm:"not null;default:0" json:"interval_days"`
	NextReviewAt   time.Time  `gorm:"not null;index" json:"next_review_at"`
	State          int16      `gorm:"not null;index" json:"state"`
	TotalReviews   int32      `gorm:"not null;default:0" json:"total_reviews"`
	CorrectReviews int32      `gorm:"not null;default:0" json:"correct_reviews"`
	LastReviewAt   *time.Time `json:"last_review_at"`
	Version        int64      `gorm:"not null;default:0" json:"version"`
	CreatedAt      time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"not null" json:"updated_at"`
}

func (progressModel) TableName() string { return "card_progress" }

type reviewEventModel struct {
	ID                 int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	CardID             int64           `gorm:"not null;index" json:"card_id"`
	SessionID          *int64          `gorm:"index" json:"session_id"`
	Quality            int16           `gorm:"not null" json:"quality"`
	Answer             string          `gorm:"not null;default:''" json:"answer"`
	EasinessBefore     float64         `gorm:"not null" json:"easiness_before"`
	EasinessAfter      float64         `gorm:"not null" json:"easiness_after"`
	IntervalBefore     int32           `gorm:"not null" json:"interval_before"`
	IntervalAfter      int32           `gorm:"not null" json:"interval_after"`
	StateBefore        int16           `gorm:"not null" json:"state_before"`
	StateAfter         int16           `gorm:"not null" json:"state_after"`
	FailedComponentIDs types.Int64List `gorm:"type:text" json:"failed_component_ids"`
	FailedStructure    bool            `gorm:"not null;default:false" json:"failed_structure"`
	CreatedAt          time.Time       `gorm:"not null;index" json:"created_at"`
}

func (reviewEventModel) TableName() string { return "review_events" }

type studySessionModel struct {
	ID        int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	StartedAt time.Time  `gorm:"not null;index" json:"started_at"`
	EndedAt   *time.Time `json:"ended_at"`
	Studied   int32      `gorm:"not null;default:0" json:"studied"`
	Correct   int32      `gorm:"not null;default:0" json:"correct"`
	Incorrect int32      `gorm:"not null;default:0" json:"incorrect"`
}

func (studySessionModel) TableName() string { return "study_sessions" }

type activationLogModel struct {
	ID           int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	PhraseID     int64           `gorm:"not null;index" json:"phrase_id"`
	Reason       string          `gorm:"size:64;not null" json:"reason"`
	ComponentIDs types.Int64List `gorm:"type:text" json:"component_ids"`
	CreatedAt    time.Time       `gorm:"not null" json:"created_at"`
}

func (activationLogModel) TableName() string { return "activation_logs" }

func models() []any {
	return []any{
		&vocabItemModel{},
		&phraseModel{},
		&phraseComponentModel{},
		&phraseHierarchyModel{},
		&studyEntryModel{},
		&cardModel{},
		&progressModel{},
		&reviewEventModel{},
		&studySessionModel{},
		&activationLogModel{},
	}
}

// Migrate creates or updates every table this package reads and writes.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models()...); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}
