package usecase

import (
	"context"

	"github.com/google/uuid"

	"MarketSentinel/internal/domain/models"
	drepo "MarketSentinel/internal/domain/repository"
	"MarketSentinel/internal/middleware"
	"MarketSentinel/internal/services/dedup"
	"MarketSentinel/pkg/logger"
)

// BatchRunner drives one full cycle: score the batch on the worker pool,
// deduplicate the collected results in a single pass, then route each
// surviving representative. Signals the pool could not take before the batch
// deadline go to the backlog and re-enter on a later cycle.
type BatchRunner struct {
	pipe    *middleware.BatchPipeline
	dedup   *dedup.Deduplicator
	router  *PriorityRouter
	backlog drepo.Backlog
	metrics drepo.Metrics
	log     *logger.Logger
}

func NewBatchRunner(
	pipe *middleware.BatchPipeline,
	dd *dedup.Deduplicator,
	router *PriorityRouter,
	backlog drepo.Backlog,
	metrics drepo.Metrics,
	log *logger.Logger,
) *BatchRunner {
	return &BatchRunner{
		pipe:    pipe,
		dedup:   dd,
		router:  router,
		backlog: backlog,
		metrics: metrics,
		log:     log,
	}
}

// Run processes one batch of raw signals end to end and reports the tallies.
// Routing failures are isolated per event: one bad sink write does not stop
// the rest of the batch.
func (r *BatchRunner) Run(ctx context.Context, signals []*models.RawSignal) (*models.BatchResult, error) {
	res := &models.BatchResult{
		BatchID:  uuid.NewString(),
		Received: len(signals),
	}
	if len(signals) == 0 {
		return res, nil
	}

	scored, rejected, deferredSignals := r.pipe.Run(ctx, signals)
	res.Rejected = rejected
	res.Deferred = len(deferredSignals)

	clusters := r.dedup.Dedup(scored)
	for _, cl := range clusters {
		for _, id := range cl.Suppressed {
			res.Duplicates++
			r.metrics.RecordDuplicate()
			r.log.Debug("duplicate suppressed",
				logger.String("batch_id", res.BatchID),
				logger.String("event_id", id),
				logger.String("kept", cl.Representative.ID))
		}
	}

	// Routing runs on the parent context so events already scored still reach
	// their sinks even when the batch deadline expired mid-feed.
	for _, ev := range dedup.Representatives(clusters) {
		if _, err := r.router.Route(ctx, ev); err != nil {
			r.log.Error("routing failed",
				logger.String("batch_id", res.BatchID),
				logger.String("event_id", ev.ID),
				logger.Error(err))
			continue
		}
		res.Routed++
	}

	if len(deferredSignals) > 0 && r.backlog != nil {
		if err := r.backlog.Defer(ctx, deferredSignals); err != nil {
			r.metrics.RecordError("backlog_defer")
			r.log.Error("deferral failed",
				logger.String("batch_id", res.BatchID),
				logger.Int("count", len(deferredSignals)),
				logger.Error(err))
		}
	}

	r.log.Info("batch complete",
		logger.String("batch_id", res.BatchID),
		logger.Int("received", res.Received),
		logger.Int("rejected", res.Rejected),
		logger.Int("routed", res.Routed),
		logger.Int("duplicates", res.Duplicates),
		logger.Int("deferred", res.Deferred))
	return res, nil
}
