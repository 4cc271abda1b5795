package app

import (
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/eslsoft/phrasenet/internal/infrastructure/config"
	"github.com/eslsoft/phrasenet/internal/usecase"
)

// Container aggregates the application dependencies produced by Wire.
type Container struct {
	Config   *config.Config
	Logger   *logrus.Logger
	DB       *gorm.DB
	Vocab    usecase.VocabUsecase
	Phrases  usecase.PhraseUsecase
	Study    usecase.StudyUsecase
	Reviews  usecase.ReviewUsecase
	Sessions usecase.SessionUsecase
}

func provideReviewOptions(cfg *config.Config) usecase.ReviewOptions {
	return usecase.ReviewOptions{
		DueLimit:        cfg.Review.DueLimit,
		ConflictRetries: cfg.Review.ConflictRetries,
	}
}
