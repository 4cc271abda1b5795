package repository

import (
	"github.com/eslsoft/phrasenet/internal/entity"
	"github.com/eslsoft/phrasenet/internal/infrastructure/database/types"
	"github.com/eslsoft/phrasenet/pkg/sm2"
)

func toVocabItemModel(item *entity.VocabItem) vocabItemModel {
	return vocabItemModel{
		ID:            item.ID,
		Form:          item.Form,
		Pronunciation: item.Pronunciation,
		Meaning:       item.Meaning,
		Level:         item.Level,
		AltForms:      types.StringList(item.AltForms),
		Category:      item.Category,
		CreatedAt:     item.CreatedAt,
	}
}

func fromVocabItemModel(m *vocabItemModel) *entity.VocabItem {
	return &entity.VocabItem{
		ID:            m.ID,
		Form:          m.Form,
		Pronunciation: m.Pronunciation,
		Meaning:       m.Meaning,
		Level:         m.Level,
		AltForms:      []string(m.AltForms),
		Category:      m.Category,
		CreatedAt:     m.CreatedAt,
	}
}

func toPhraseModel(phrase *entity.Phrase) phraseModel {
	return phraseModel{
		ID:            phrase.ID,
		Form:          phrase.Form,
		Pronunciation: phrase.Pronunciation,
		Meaning:       phrase.Meaning,
		Level:         phrase.Level,
		Tier:          string(phrase.Tier),
		Activated:     phrase.Activated,
		InStudy:       phrase.InStudy,
		CreatedAt:     phrase.CreatedAt,
	}
}

func fromPhraseModel(m *phraseModel) *entity.Phrase {
	return &entity.Phrase{
		ID:            m.ID,
		Form:          m.Form,
		Pronunciation: m.Pronunciation,
		Meaning:       m.Meaning,
		Level:         m.Level,
		Tier:          entity.Tier(m.Tier),
		Activated:     m.Activated,
		InStudy:       m.InStudy,
		CreatedAt:     m.CreatedAt,
	}
}

func toStudyEntryModel(entry *entity.StudyEntry) studyEntryModel {
	return studyEntryModel{
		ID:          entry.ID,
		VocabItemID: entry.VocabItemID,
		Active:      entry.Active,
		Note:        entry.Note,
		AddedAt:     entry.AddedAt,
		UpdatedAt:   entry.UpdatedAt,
	}
}

func fromStudyEntryModel(m *studyEntryModel) *entity.StudyEntry {
	return &entity.StudyEntry{
		ID:          m.ID,
		VocabItemID: m.VocabItemID,
		Active:      m.Active,
		Note:        m.Note,
		AddedAt:     m.AddedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toCardModel(card *entity.Card) cardModel {
	return cardModel{
		ID:        card.ID,
		OwnerKind: string(card.OwnerKind),
		OwnerID:   card.OwnerID,
		Modality:  int16(card.Modality),
		Active:    card.Active,
		CreatedAt: card.CreatedAt,
	}
}

func fromCardModel(m *cardModel) *entity.Card {
	return &entity.Card{
		ID:        m.ID,
		OwnerKind: entity.OwnerKind(m.OwnerKind),
		OwnerID:   m.OwnerID,
		Modality:  entity.Modality(m.Modality),
		Active:    m.Active,
		CreatedAt: m.CreatedAt,
	}
}

func toProgressModel(progress *entity.Progress) progressModel {
	return progressModel{
		CardID:         progress.CardID,
		Easiness:       progress.Easiness,
		Repetitions:    progress.Repetitions,
		IntervalDays:   progress.IntervalDays,
		NextReviewAt:   progress.NextReviewAt,
		State:          int16(progress.State),
		TotalReviews:   progress.TotalReviews,
		CorrectReviews: progress.CorrectReviews,
		LastReviewAt:   progress.LastReviewAt,
		Version:        progress.Version,
		CreatedAt:      progress.CreatedAt,
		UpdatedAt:      progress.UpdatedAt,
	}
}

func fromProgressModel(m *progressModel) *entity.Progress {
	return &entity.Progress{
		CardID:         m.CardID,
		Easiness:       m.Easiness,
		Repetitions:    m.Repetitions,
		IntervalDays:   m.IntervalDays,
		NextReviewAt:   m.NextReviewAt,
		State:          sm2.State(m.State),
		TotalReviews:   m.TotalReviews,
		CorrectReviews: m.CorrectReviews,
		LastReviewAt:   m.LastReviewAt,
		Version:        m.Version,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func toReviewEventModel(event *entity.ReviewEvent) reviewEventModel {
	return reviewEventModel{
		ID:                 event.ID,
		CardID:             event.CardID,
		SessionID:          event.SessionID,
		Quality:            int16(event.Quality),
		Answer:             event.Answer,
		EasinessBefore:     event.EasinessBefore,
		EasinessAfter:      event.EasinessAfter,
		IntervalBefore:     event.IntervalBefore,
		IntervalAfter:      event.IntervalAfter,
		StateBefore:        int16(event.StateBefore),
		StateAfter:         int16(event.StateAfter),
		FailedComponentIDs: types.Int64List(event.FailedComponentIDs),
		FailedStructure:    event.FailedStructure,
		CreatedAt:          event.CreatedAt,
	}
}

func fromReviewEventModel(m *reviewEventModel) *entity.ReviewEvent {
	return &entity.ReviewEvent{
		ID:                 m.ID,
		CardID:             m.CardID,
		SessionID:          m.SessionID,
		Quality:            sm2.Quality(m.Quality),
		Answer:             m.Answer,
		EasinessBefore:     m.EasinessBefore,
		EasinessAfter:      m.EasinessAfter,
		IntervalBefore:     m.IntervalBefore,
		IntervalAfter:      m.IntervalAfter,
		StateBefore:        sm2.State(m.StateBefore),
		StateAfter:         sm2.State(m.StateAfter),
		FailedComponentIDs: []int64(m.FailedComponentIDs),
		FailedStructure:    m.FailedStructure,
		CreatedAt:          m.CreatedAt,
	}
}

func toStudySessionModel(session *entity.StudySession) studySessionModel {
	return studySessionModel{
		ID:        session.ID,
		StartedAt: session.StartedAt,
		EndedAt:   session.EndedAt,
		Studied:   session.Studied,
		Correct:   session.Correct,
		Incorrect: session.Incorrect,
	}
}

func fromStudySessionModel(m *studySessionModel) *entity.StudySession {
	return &entity.StudySession{
		ID:        m.ID,
		StartedAt: m.StartedAt,
		EndedAt:   m.EndedAt,
		Studied:   m.Studied,
		Correct:   m.Correct,
		Incorrect: m.Incorrect,
	}
}

func toActivationLogModel(log *entity.ActivationLog) activationLogModel {
	return activationLogModel{
		ID:           log.ID,
		PhraseID:     log.PhraseID,
		Reason:       log.Reason,
		ComponentIDs: types.Int64List(log.ComponentIDs),
		CreatedAt:    log.CreatedAt,
	}
}

func fromActivationLogModel(m *activationLogModel) *entity.ActivationLog {
	return &entity.ActivationLog{
		ID:           m.ID,
		PhraseID:     m.PhraseID,
		Reason:       m.Reason,
		ComponentIDs: []int64(m.ComponentIDs),
		CreatedAt:    m.CreatedAt,
	}
}
