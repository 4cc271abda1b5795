package repository

import (
	"context"

	"github.com/eslsoft/phrasenet/internal/entity"
)

// SessionRepository abstracts persistence for study sessions.
type SessionRepository interface {
	Create(ctx context.Context, session *entity.StudySession) error
	GetByID(ctx context.Context, id int64) (*entity.StudySession, error)
	Update(ctx context.Context, session *entity.StudySession) error
	ListRecent(ctx context.Context, limit int32) ([]*entity.StudySession, error)
}
