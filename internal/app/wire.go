//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"

	"github.com/eslsoft/phrasenet/internal/adapter/repository"
	"github.com/eslsoft/phrasenet/internal/infrastructure/config"
	"github.com/eslsoft/phrasenet/internal/infrastructure/database"
	"github.com/eslsoft/phrasenet/internal/infrastructure/logging"
	"github.com/eslsoft/phrasenet/internal/usecase"
)

var configSet = wire.NewSet(
	config.Load,
)

var loggerSet = wire.NewSet(
	logging.NewLogger,
)

var databaseSet = wire.NewSet(
	database.Open,
)

var repositorySet = wire.NewSet(
	repository.NewTxManager,
	repository.NewCardLocker,
	repository.NewVocabRepository,
	repository.NewPhraseRepository,
	repository.NewActivationLogRepository,
	repository.NewDependencyGraph,
	repository.NewStudyEntryRepository,
	repository.NewCardRepository,
	repository.NewProgressRepository,
	repository.NewReviewEventRepository,
	repository.NewSessionRepository,
)

var usecaseSet = wire.NewSet(
	provideReviewOptions,
	usecase.NewPropagator,
	usecase.NewVocabUsecase,
	usecase.NewPhraseUsecase,
	usecase.NewStudyUsecase,
	usecase.NewReviewUsecase,
	usecase.NewSessionUsecase,
)

// Initialize builds the application container using Wire.
func Initialize() (*Container, func(), error) {
	wire.Build(
		configSet,
		loggerSet,
		databaseSet,
		repositorySet,
		usecaseSet,
		wire.Struct(new(Container), "*"),
	)
	return nil, nil, nil
}
