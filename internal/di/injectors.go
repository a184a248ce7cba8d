//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"
	"smd/internal"
	"smd/internal/controllers"
	"smd/internal/extraction"
	"smd/internal/persistence"
	"smd/internal/providers"
	"smd/internal/services"
	"smd/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,

		persistence.NewZstdCompressor,
		persistence.NewStateFile,
		wire.Bind(new(services.StatePersister), new(*persistence.StateFile)),
		services.NewMetricsService,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,
		persistence.NewScheduler,

		extraction.NewGeminiExtractor,
		extraction.NewSession,

		controllers.NewApiController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
