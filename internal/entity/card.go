package entity

import (
	"fmt"
	"time"
)

// AnswerSide names the side of a card the learner must produce.
type AnswerSide string

const (
	AnswerMeaning AnswerSide = "meaning"
	AnswerForm    AnswerSide = "form"
)

// Modality is one of the six fixed prompt/answer variants a studied item
// is drilled with. The closed set makes invalid prompt combinations
// unrepresentable.
type Modality int16

const (
	ModalityFormPronAudio    Modality = iota + 1 // form + pronunciation + audio -> meaning
	ModalityFormOnly                             // form -> meaning
	ModalityAudioOnly                            // audio alone -> meaning
	ModalityMeaningPronAudio                     // meaning + pronunciation + audio -> form
	ModalityMeaningAudio                         // meaning + audio -> form
	ModalityMeaningOnly                          // meaning -> form
)

var modalityNames = [...]string{
	ModalityFormPronAudio:    "form-pron-audio",
	ModalityFormOnly:         "form-only",
	ModalityAudioOnly:        "audio-only",
	ModalityMeaningPronAudio: "meaning-pron-audio",
	ModalityMeaningAudio:     "meaning-audio",
	ModalityMeaningOnly:      "meaning-only",
}

// CardModalities returns the fixed six-variant template every studied
// owner is expanded into, in canonical order.
func CardModalities() [6]Modality {
	return [6]Modality{
		ModalityFormPronAudio,
		ModalityFormOnly,
		ModalityAudioOnly,
		ModalityMeaningPronAudio,
		ModalityMeaningAudio,
		ModalityMeaningOnly,
	}
}

// String returns the modality name, or "Modality(n)" for invalid values.
func (m Modality) String() string {
	if m.IsValid() {
		return modalityNames[m]
	}
	return fmt.Sprintf("Modality(%d)", int(m))
}

// IsValid reports whether m is one of the six template variants.
func (m Modality) IsValid() bool {
	return m >= ModalityFormPronAudio && m <= ModalityMeaningOnly
}

// ShowsForm reports whether the prompt displays the native form.
func (m Modality) ShowsForm() bool {
	return m == ModalityFormPronAudio || m == ModalityFormOnly
}

// ShowsPronunciation reports whether the prompt displays the pronunciation.
func (m Modality) ShowsPronunciation() bool {
	return m == ModalityFormPronAudio || m == ModalityMeaningPronAudio
}

// ShowsMeaning reports whether the prompt displays the translation.
func (m Modality) ShowsMeaning() bool {
	return m == ModalityMeaningPronAudio || m == ModalityMeaningAudio || m == ModalityMeaningOnly
}

// HasAudio reports whether the prompt plays the audio track.
func (m Modality) HasAudio() bool {
	return m != ModalityFormOnly && m != ModalityMeaningOnly
}

// Answer returns the side the learner is asked to produce.
func (m Modality) Answer() AnswerSide {
	if m.ShowsForm() || m == ModalityAudioOnly {
		return AnswerMeaning
	}
	return AnswerForm
}

// Card is a single drill unit owned by exactly one studied vocabulary
// item or phrase. Deactivated cards stay persisted (their progress is
// kept) but are excluded from due selection.
type Card struct {
	ID        int64     `json:"id"`
	OwnerKind OwnerKind `json:"owner_kind"`
	OwnerID   int64     `json:"owner_id"`
	Modality  Modality  `json:"modality"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// DueCard is a card due for review together with the owner content the
// boundary needs to render its prompt.
type DueCard struct {
	Card          Card   `json:"card"`
	Form          string `json:"form"`
	Pronunciation string `json:"pronunciation"`
	Meaning       string `json:"meaning"`
}
