package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"MarketSentinel/internal/domain/repository"
	"MarketSentinel/internal/handler/api"
	internalrepo "MarketSentinel/internal/repository"
	icache "MarketSentinel/internal/service/cache"
	"MarketSentinel/internal/usecase"
	pkgch "MarketSentinel/pkg/clickhouse"
	"MarketSentinel/pkg/config"
	xhttp "MarketSentinel/pkg/http"
	pkgkafka "MarketSentinel/pkg/kafka"
	applogger "MarketSentinel/pkg/logger"
	"MarketSentinel/pkg/queue"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	log        *applogger.Logger
	collector  *usecase.EventCollector
	consumer   *pkgkafka.Consumer
	kh         pkgkafka.MessageHandler
	chClient   *pkgch.Client
	backlogQ   *queue.RedisQueue
	intake     *usecase.SignalIntake
	feed       *usecase.EventFeed
	alerts     repository.AlertPublisher
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
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
) *App {
	return &App{
		cfg:       cfg,
		log:       log,
		collector: collector,
		consumer:  consumer,
		kh:        kh,
		chClient:  chClient,
		backlogQ:  backlogQ,
		intake:    intake,
		feed:      feed,
		alerts:    alerts,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Dashboard endpoints with a response cache: Redis-backed when available
	// so replicas share entries, in-process otherwise.
	handler := api.NewEventsEchoHandler(a.log, a.feed)
	if a.cfg.Redis.Enabled {
		handler.SetCache(icache.NewRedisCache(icache.RedisConfig{
			Addr:     fmt.Sprintf("%s:%d", a.cfg.Redis.Host, a.cfg.Redis.Port),
			Password: a.cfg.Redis.Password,
			DB:       a.cfg.Redis.DB,
		}))
	} else {
		handler.SetCache(icache.NewTTLCache())
	}

	a.httpServer = xhttp.NewServer(handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	// Backlog replay: deferred signals re-enter the intake on later cycles.
	if a.backlogQ != nil {
		a.backlogQ.RegisterJob(internalrepo.NewBacklogReplayJob(a.intake))
		if err := a.backlogQ.Start(); err != nil {
			a.log.Error("backlog queue start error", applogger.Error(err))
			return err
		}
	}

	if err := a.collector.Start(ctx); err != nil {
		a.log.Error("collector start error", applogger.Error(err))
		return err
	}
	a.log.Info("collector started",
		applogger.Int("workers", a.cfg.Pipeline.Workers),
		applogger.String("poll_interval", a.cfg.Pipeline.PollInterval.String()))

	// Kafka intake if configured
	if a.consumer != nil {
		a.consumer.RegisterHandler(a.kh)
		go func() {
			if err := a.consumer.Start(); err != nil {
				a.log.Error("kafka consumer error", applogger.Error(err))
			}
		}()
		a.log.Info("kafka consumer started", applogger.String("topic", a.kh.Topic()))
	}

	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown stops ingest first so the final intake flush sees every signal,
// then the serving and infrastructure layers.
func (a *App) shutdown(ctx context.Context) error {
	if a.consumer != nil {
		if err := a.consumer.Stop(ctx); err != nil {
			a.log.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}

	if err := a.collector.Shutdown(ctx); err != nil {
		a.log.Warn("collector stop error", applogger.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}

	if a.backlogQ != nil {
		if err := a.backlogQ.Stop(shutdownCtx); err != nil {
			a.log.Warn("backlog queue stop error", applogger.Error(err))
		}
	}

	if a.alerts != nil {
		if err := a.alerts.Close(); err != nil {
			a.log.Warn("alert publisher close error", applogger.Error(err))
		}
	}

	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.log.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	a.log.Info("shutdown complete")
	return nil
}
