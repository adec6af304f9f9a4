package usecase

import (
	"context"
	"time"

	"MarketSentinel/internal/domain/models"
	drepo "MarketSentinel/internal/domain/repository"
	"MarketSentinel/pkg/cache"
	"MarketSentinel/pkg/logger"
)

// PriorityRouter hands finalized events to downstream collaborators based on
// the priority tier. Routing the same event id twice is a no-op: the routed
// set lives in the cache so side effects are not duplicated across cycles.
type PriorityRouter struct {
	history drepo.HistorySink
	alerts  drepo.AlertPublisher
	routed  cache.Service
	metrics drepo.Metrics
	log     *logger.Logger
	seenTTL time.Duration
}

func NewPriorityRouter(
	history drepo.HistorySink,
	alerts drepo.AlertPublisher,
	routed cache.Service,
	metrics drepo.Metrics,
	log *logger.Logger,
	seenTTL time.Duration,
) *PriorityRouter {
	if seenTTL <= 0 {
		seenTTL = 7 * 24 * time.Hour
	}
	return &PriorityRouter{
		history: history,
		alerts:  alerts,
		routed:  routed,
		metrics: metrics,
		log:     log,
		seenTTL: seenTTL,
	}
}

// Decide maps a priority tier to its routing decision. Every tier appends to
// history; NOISE is archived with suppressed visibility and never notifies.
func Decide(e *models.ScoredEvent) *models.RoutingDecision {
	d := &models.RoutingDecision{
		EventID:       e.ID,
		Priority:      e.Priority,
		HistoryAppend: true,
	}
	switch e.Priority {
	case models.PriorityCritical:
		d.Notify = true
		d.Sound = true
	case models.PriorityHigh:
		d.Notify = true
	case models.PriorityNoise:
		d.Suppressed = true
	}
	return d
}

// Route applies the routing decision for one representative event.
func (r *PriorityRouter) Route(ctx context.Context, e *models.ScoredEvent) (*models.RoutingDecision, error) {
	d := Decide(e)

	key := cache.GenerateKey("routed", e.ID)
	if exists, err := r.routed.Exists(ctx, key); err == nil && exists {
		r.log.Debug("event already routed", logger.String("event_id", e.ID))
		return d, nil
	}

	if d.HistoryAppend {
		if err := r.history.Append(ctx, e, d); err != nil {
			r.metrics.RecordError("history_append")
			return nil, err
		}
	}
	if d.Notify {
		if err := r.alerts.Publish(ctx, e, d); err != nil {
			// Notification failure does not undo the history append; the
			// dispatcher owns its own retries.
			r.metrics.RecordError("alert_publish")
			r.log.Warn("alert publish failed",
				logger.String("event_id", e.ID), logger.Error(err))
		}
	}

	if err := r.routed.Set(ctx, key, "1", r.seenTTL); err != nil {
		r.log.Warn("routed-set update failed", logger.Error(err))
	}

	r.metrics.RecordRouting(string(e.Priority))
	return d, nil
}
