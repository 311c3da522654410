//go:build wireinject
// +build wireinject

package di

import (
	"TradeLens/pkg/config"
	"TradeLens/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,

		// Repositories (with business logic)
		ProvideCandleStore,
		ProvideCandlePublisher,
		ProvideSignalPublisher,
		ProvideBinanceStream,
		ProvideBackfiller,

		ProvideRedisCache,

		// Use cases
		ProvideSeriesBuffer,
		ProvideCandleProcessor,
		ProvideCandleCollector,
		ProvideAnalysisCache,
		ProvideMarketAnalyzer,
		ProvideCandlesUseCase,
		ProvideKafkaCandlesHandler,
		ProvideBotExecutor,
		ProvideSignalDispatcher,

		// HTTP surface
		ProvideHTTPHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
