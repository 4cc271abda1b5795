package usecase

import (
	"context"
	"time"

	"github.com/eslsoft/phrasenet/internal/entity"
	"github.com/eslsoft/phrasenet/internal/repository"
)

const defaultRecentSessions = 10

// SessionUsecase groups reviews into study sessions and settles their
// outcome counts.
type SessionUsecase interface {
	Start(ctx context.Context) (*entity.StudySession, error)
	End(ctx context.Context, sessionID int64) (*entity.SessionSummary, error)
	Recent(ctx context.Context, limit int32) ([]*entity.StudySession, error)
}

// NewSessionUsecase wires the session flow with default behaviour.
func NewSessionUsecase(
	tx repository.TxManager,
	sessions repository.SessionRepository,
	reviews repository.ReviewEventRepository,
) SessionUsecase {
	return &sessionUsecase{
		tx:       tx,
		sessions: sessions,
		reviews:  reviews,
		clock:    time.Now,
	}
}

type sessionUsecase struct {
	tx       repository.TxManager
	sessions repository.SessionRepository
	reviews  repository.ReviewEventRepository
	clock    func() time.Time
}

func (u *sessionUsecase) Start(ctx context.Context) (*entity.StudySession, error) {
	session := &entity.StudySession{StartedAt: u.clock()}
	if err := u.sessions.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// End closes the session, settling its counts from the review events
// recorded under it. Ending twice is an error.
func (u *sessionUsecase) End(ctx context.Context, sessionID int64) (*entity.SessionSummary, error) {
	var summary *entity.SessionSummary
	err := u.tx.Within(ctx, func(ctx context.Context) error {
		session, err := u.sessions.GetByID(ctx, sessionID)
		if err != nil {
			return err
		}
		if session.EndedAt != nil {
			return entity.ErrInvalidInput
		}

		events, err := u.reviews.ListBySession(ctx, sessionID)
		if err != nil {
			return err
		}
		var correct int32
		for _, event := range events {
			if event.Correct() {
				correct++
			}
		}
		studied := int32(len(events))

		now := u.clock()
		session.Studied = studied
		session.Correct = correct
		session.Incorrect = studied - correct
		session.EndedAt = &now
		if err := u.sessions.Update(ctx, session); err != nil {
			return err
		}

		summary = &entity.SessionSummary{
			SessionID:   session.ID,
			Studied:     studied,
			Correct:     correct,
			Incorrect:   studied - correct,
			AccuracyPct: entity.AccuracyPct(int64(correct), int64(studied)),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

func (u *sessionUsecase) Recent(ctx context.Context, limit int32) ([]*entity.StudySession, error) {
	if limit <= 0 {
		limit = defaultRecentSessions
	}
	return u.sessions.ListRecent(ctx, limit)
}
