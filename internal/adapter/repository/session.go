package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/eslsoft/phrasenet/internal/entity"
	"github.com/eslsoft/phrasenet/internal/repository"
)

type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository constructs a gorm-backed study session repository.
func NewSessionRepository(db *gorm.DB) repository.SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(ctx context.Context, session *entity.StudySession) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	model := toStudySessionModel(session)
	if err := conn(ctx, r.db).Create(&model).Error; err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	session.ID = model.ID
	return nil
}

func (r *sessionRepository) GetByID(ctx context.Context, id int64) (*entity.StudySession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var model studySessionModel
	if err := conn(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entity.ErrNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return fromStudySessionModel(&model), nil
}

func (r *sessionRepository) Update(ctx context.Context, session *entity.StudySession) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	model := toStudySessionModel(session)
	res := conn(ctx, r.db).
		Model(&studySessionModel{}).
		Where("id = ?", session.ID).
		Updates(map[string]any{
			"ended_at":  model.EndedAt,
			"studied":   model.Studied,
			"correct":   model.Correct,
			"incorrect": model.Incorrect,
		})
	if res.Error != nil {
		return fmt.Errorf("update session: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return entity.ErrNotFound
	}
	return nil
}

func (r *sessionRepository) ListRecent(ctx context.Context, limit int32) ([]*entity.StudySession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	q := conn(ctx, r.db).Order("started_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(int(limit))
	}
	var models []studySessionModel
	if err := q.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list recent sessions: %w", err)
	}
	sessions := make([]*entity.StudySession, 0, len(models))
	for i := range models {
		sessions = append(sessions, fromStudySessionModel(&models[i]))
	}
	return sessions, nil
}
