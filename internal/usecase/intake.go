package usecase

import (
	"sync"

	"MarketSentinel/internal/domain/models"
	drepo "MarketSentinel/internal/domain/repository"
	"MarketSentinel/internal/service/ratelimit"
)

// SignalIntake is the shared buffer every ingest path writes into: the
// websocket feed, the Kafka consumer and the backlog replay all converge
// here, and the collector drains it once per cycle.
type SignalIntake struct {
	mu      sync.Mutex
	buf     []*models.RawSignal
	limiter *ratelimit.Limiter
	maxRPS  float64
	metrics drepo.Metrics
}

func NewSignalIntake(maxRPS float64, metrics drepo.Metrics) *SignalIntake {
	return &SignalIntake{
		limiter: ratelimit.New(),
		maxRPS:  maxRPS,
		metrics: metrics,
	}
}

// Add buffers one signal. A source exceeding its rate budget gets shed here,
// before the signal costs any processing.
func (i *SignalIntake) Add(s *models.RawSignal) bool {
	if s == nil {
		return false
	}
	if i.maxRPS > 0 && !i.limiter.Allow(s.Source, i.maxRPS, i.maxRPS) {
		i.metrics.RecordError("source_rate_limited")
		return false
	}
	i.mu.Lock()
	i.buf = append(i.buf, s)
	depth := len(i.buf)
	i.mu.Unlock()
	i.metrics.RecordQueueDepth("intake", depth)
	return true
}

// Drain returns the buffered signals and resets the buffer.
func (i *SignalIntake) Drain() []*models.RawSignal {
	i.mu.Lock()
	out := i.buf
	i.buf = nil
	i.mu.Unlock()
	i.metrics.RecordQueueDepth("intake", 0)
	return out
}

// Len reports the current buffer depth.
func (i *SignalIntake) Len() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.buf)
}
