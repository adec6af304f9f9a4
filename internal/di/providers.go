package di

import (
	"context"
	"fmt"
	"time"

	"MarketSentinel/internal/domain/repository"
	mid "MarketSentinel/internal/middleware"
	internalrepo "MarketSentinel/internal/repository"
	"MarketSentinel/internal/service/socialfeed"
	"MarketSentinel/internal/services/classify"
	"MarketSentinel/internal/services/dedup"
	"MarketSentinel/internal/services/normalize"
	"MarketSentinel/internal/services/scoring"
	"MarketSentinel/internal/services/sentiment"
	"MarketSentinel/internal/usecase"
	pkgcache "MarketSentinel/pkg/cache"
	pkgch "MarketSentinel/pkg/clickhouse"
	"MarketSentinel/pkg/config"
	pkgkafka "MarketSentinel/pkg/kafka"
	applogger "MarketSentinel/pkg/logger"
	"MarketSentinel/pkg/metrics"
	"MarketSentinel/pkg/queue"
	"MarketSentinel/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	level := "info"
	format := "json"
	if cfg.Environment == "dev" {
		level = "debug"
		format = "console"
	}
	return applogger.New(&applogger.Config{Level: level, Format: format, Output: "stdout"})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

func eventsTable(cfg *config.Config) string {
	return cfg.ClickHouse.Database + ".sentinel_events"
}

// ProvideClickHouseClient creates a ClickHouse client and ensures the schema.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	stmts := append(
		[]string{fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", cfg.ClickHouse.Database)},
		internalrepo.Schema(eventsTable(cfg))...,
	)
	if err := client.InitSchema(ctx, stmts); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideKafkaProducer creates a Kafka producer.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideKafkaConsumer creates a Kafka consumer for the raw signals topic.
// Returns nil when no topic is configured; the app treats that intake path
// as disabled.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	if cfg.Kafka.SignalsTopic == "" {
		return nil, nil
	}
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	consumer.WithConsumerHook(pkgkafka.NoopHook{})
	return consumer, nil
}

// ProvideHistorySink creates the ClickHouse event history.
func ProvideHistorySink(chClient *pkgch.Client, cfg *config.Config) repository.HistorySink {
	return internalrepo.NewClickHouseHistory(chClient.DB(), eventsTable(cfg))
}

// ProvideAlertPublisher creates the Kafka alert publisher.
func ProvideAlertPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.AlertPublisher {
	return internalrepo.NewKafkaAlerts(producer, cfg.Kafka.AlertsTopic)
}

// ProvideRoutedCache creates the routed-event idempotence cache. Layered over
// Redis when available so routed ids survive a restart, memory-only otherwise.
func ProvideRoutedCache(cfg *config.Config) (pkgcache.Service, error) {
	if !cfg.Redis.Enabled {
		return pkgcache.NewMemoryCache(), nil
	}
	rc, err := pkgcache.NewRedisCache(
		pkgcache.WithRedisHost(cfg.Redis.Host),
		pkgcache.WithRedisPort(cfg.Redis.Port),
		pkgcache.WithRedisPassword(cfg.Redis.Password),
		pkgcache.WithRedisDB(cfg.Redis.DB),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return pkgcache.NewLayeredCache(rc), nil
}

// ProvideBacklogQueue creates the Redis queue carrying deferred signals.
// Nil when Redis is disabled.
func ProvideBacklogQueue(cfg *config.Config, log *applogger.Logger) (*queue.RedisQueue, error) {
	if !cfg.Redis.Enabled {
		return nil, nil
	}
	rc, err := pkgcache.NewRedisCache(
		pkgcache.WithRedisHost(cfg.Redis.Host),
		pkgcache.WithRedisPort(cfg.Redis.Port),
		pkgcache.WithRedisPassword(cfg.Redis.Password),
		pkgcache.WithRedisDB(cfg.Redis.DB),
	)
	if err != nil {
		return nil, fmt.Errorf("backlog redis: %w", err)
	}
	return queue.NewRedisQueue(log, &queue.QueueConfig{
		Workers:    1,
		RetryLimit: 3,
		RetryDelay: 10 * time.Second,
	}, rc.Client(), queue.ModeProducerConsumer), nil
}

// ProvideBacklog adapts the queue to the Backlog port. Nil queue means
// deferred signals are dropped with an error log instead of replayed.
func ProvideBacklog(q *queue.RedisQueue) repository.Backlog {
	if q == nil {
		return nil
	}
	return internalrepo.NewRedisBacklog(q)
}

// ProvideTables exposes the rule tables from configuration.
func ProvideTables(cfg *config.Config) *config.Tables {
	return &cfg.Tables
}

// ProvideIntake creates the shared signal intake buffer.
func ProvideIntake(cfg *config.Config, m repository.Metrics) *usecase.SignalIntake {
	return usecase.NewSignalIntake(cfg.Pipeline.MaxSourceRPS, m)
}

// ProvideEventProcessor assembles the per-event stages.
func ProvideEventProcessor(cfg *config.Config, tables *config.Tables, m repository.Metrics) (*usecase.EventProcessor, error) {
	classifier, err := classify.New(tables)
	if err != nil {
		return nil, fmt.Errorf("classifier: %w", err)
	}
	return usecase.NewEventProcessor(
		normalize.New(tables, cfg.Pipeline.ClockSkew),
		classifier,
		scoring.NewWeigher(tables),
		scoring.NewSurpriseScorer(tables),
		scoring.NewAggregator(tables, cfg.Pipeline.Watchlist, cfg.Pipeline.HomeMarket),
		sentiment.New(tables),
		m,
	), nil
}

// ProvideBatchPipeline creates the worker-pool stage.
func ProvideBatchPipeline(proc *usecase.EventProcessor, m repository.Metrics, log *applogger.Logger, cfg *config.Config) *mid.BatchPipeline {
	return mid.NewBatchPipeline(proc, m, log,
		mid.WithWorkers(cfg.Pipeline.Workers),
		mid.WithQueueSize(cfg.Pipeline.QueueSize),
		mid.WithDropOldest(cfg.Pipeline.OverflowPolicy == "drop_oldest"),
		mid.WithBatchTimeout(cfg.Pipeline.BatchTimeout),
	)
}

// ProvideDeduplicator creates the batch deduplicator.
func ProvideDeduplicator(cfg *config.Config) *dedup.Deduplicator {
	return dedup.New(cfg.Dedup.Window, cfg.Dedup.SimilarityThreshold)
}

// ProvideRouter creates the priority router.
func ProvideRouter(
	history repository.HistorySink,
	alerts repository.AlertPublisher,
	routed pkgcache.Service,
	m repository.Metrics,
	log *applogger.Logger,
	cfg *config.Config,
) *usecase.PriorityRouter {
	return usecase.NewPriorityRouter(history, alerts, routed, m, log, cfg.Dedup.SeenTTL)
}

// ProvideBatchRunner creates the batch orchestrator.
func ProvideBatchRunner(
	pipe *mid.BatchPipeline,
	dd *dedup.Deduplicator,
	router *usecase.PriorityRouter,
	backlog repository.Backlog,
	m repository.Metrics,
	log *applogger.Logger,
) *usecase.BatchRunner {
	return usecase.NewBatchRunner(pipe, dd, router, backlog, m, log)
}

// ProvideSignalSource creates the websocket feed source. Nil when no feed URL
// is configured; Kafka then remains the only intake path.
func ProvideSignalSource(cfg *config.Config) repository.SignalSource {
	if cfg.Feed.WebSocketURL == "" {
		return nil
	}
	return socialfeed.New(
		cfg.Feed.APIKey,
		cfg.Feed.WebSocketURL,
		cfg.Feed.Channels,
		cfg.Feed.ReconnectDelay,
		cfg.Feed.PingInterval,
	)
}

// ProvideCollector creates the event collector.
func ProvideCollector(
	source repository.SignalSource,
	intake *usecase.SignalIntake,
	runner *usecase.BatchRunner,
	cfg *config.Config,
	log *applogger.Logger,
) *usecase.EventCollector {
	return usecase.NewEventCollector(source, intake, runner, cfg.Pipeline.PollInterval, log)
}

// ProvideKafkaSignalsHandler registers the handler for the raw signals topic.
func ProvideKafkaSignalsHandler(intake *usecase.SignalIntake, m repository.Metrics, cfg *config.Config) *usecase.KafkaSignalsHandler {
	return usecase.NewKafkaSignalsHandler(cfg.Kafka.SignalsTopic, intake, m)
}

// ProvideEventFeed creates the dashboard read model.
func ProvideEventFeed(history repository.HistorySink, cfg *config.Config) *usecase.EventFeed {
	return usecase.NewEventFeed(history, cfg.Tables.Priority)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	log *applogger.Logger,
	collector *usecase.EventCollector,
	consumer *pkgkafka.Consumer,
	kh *usecase.KafkaSignalsHandler,
	chClient *pkgch.Client,
	backlogQ *queue.RedisQueue,
	intake *usecase.SignalIntake,
	feed *usecase.EventFeed,
	alerts repository.AlertPublisher,
) *server.App {
	return server.New(cfg, log, collector, consumer, kh, chClient, backlogQ, intake, feed, alerts)
}
