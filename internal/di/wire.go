//go:build wireinject
// +build wireinject

package di

import (
	"MarketSentinel/pkg/config"
	"MarketSentinel/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire generates the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,
		ProvideTables,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,
		ProvideRoutedCache,
		ProvideBacklogQueue,

		// Repositories
		ProvideHistorySink,
		ProvideAlertPublisher,
		ProvideBacklog,
		ProvideSignalSource,

		// Pipeline
		ProvideIntake,
		ProvideEventProcessor,
		ProvideBatchPipeline,
		ProvideDeduplicator,
		ProvideRouter,
		ProvideBatchRunner,
		ProvideCollector,
		ProvideKafkaSignalsHandler,
		ProvideEventFeed,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
