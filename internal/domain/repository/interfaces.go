package repository

import (
	"context"
	"time"

	"MarketSentinel/internal/domain/models"
)

// SignalSource streams RawSignals from an ingestion collaborator.
type SignalSource interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Read(ctx context.Context) (<-chan *models.RawSignal, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

// HistorySink is the append-only event history. Representatives are appended
// once and never mutated; retention is the sink's concern (7 days).
type HistorySink interface {
	Init(ctx context.Context) error
	Append(ctx context.Context, e *models.ScoredEvent, d *models.RoutingDecision) error
	AppendBatch(ctx context.Context, events []*models.ScoredEvent, decisions []*models.RoutingDecision) error
	Recent(ctx context.Context, since time.Time, limit int, category string, minScore float64) ([]*models.ScoredEvent, error)
	Counts(ctx context.Context, since time.Time) (*models.EventCounts, error)
	Health(ctx context.Context) error
	Close() error
}

// AlertPublisher hands notify-worthy events to the notification dispatcher.
type AlertPublisher interface {
	Publish(ctx context.Context, e *models.ScoredEvent, d *models.RoutingDecision) error
	PublishBatch(ctx context.Context, events []*models.ScoredEvent, decisions []*models.RoutingDecision) error
	Close() error
}

// Backlog defers unprocessed signals to the next poll cycle.
type Backlog interface {
	Defer(ctx context.Context, signals []*models.RawSignal) error
}

type Metrics interface {
	RecordEvent(stage string, category string)
	RecordError(kind string)
	RecordRouting(level string)
	RecordDuplicate()
	RecordLatency(op string, seconds float64)
	RecordQueueDepth(stage string, depth int)
}
