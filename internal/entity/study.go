package entity

import "time"

// StudyEntry joins a vocabulary item to "currently being actively
// tested". Active flips to false when a covering phrase is mastered and
// back to true when that phrase later fails on the item's form. Phrases
// play the same role through their InStudy flag.
type StudyEntry struct {
	ID          int64     `json:"id"`
	VocabItemID int64     `json:"vocab_item_id"`
	Active      bool      `json:"active"`
	Note        string    `json:"note,omitempty"`
	AddedAt     time.Time `json:"added_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
