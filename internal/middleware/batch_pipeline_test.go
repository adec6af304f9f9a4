package middleware

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"MarketSentinel/internal/domain/models"
	"MarketSentinel/pkg/logger"
)

type stubProc struct {
	failOn map[string]bool
	delay  time.Duration
}

func (p *stubProc) Process(s *models.RawSignal) (*models.ScoredEvent, error) {
	if p.delay > 0 {
		time.Sleep(p.delay)
	}
	if p.failOn[s.Text] {
		return nil, errors.New("invalid signal")
	}
	return &models.ScoredEvent{
		ClassifiedEvent: models.ClassifiedEvent{
			NormalizedEvent: models.NormalizedEvent{ID: s.Text, Text: s.Text},
		},
	}, nil
}

type nopMetrics struct{}

func (nopMetrics) RecordEvent(stage, category string)      {}
func (nopMetrics) RecordError(kind string)                 {}
func (nopMetrics) RecordRouting(level string)              {}
func (nopMetrics) RecordDuplicate()                        {}
func (nopMetrics) RecordLatency(op string, secs float64)   {}
func (nopMetrics) RecordQueueDepth(stage string, depth int) {}

func pipelineLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger init: %v", err)
	}
	return log
}

func rawBatch(n int) []*models.RawSignal {
	out := make([]*models.RawSignal, n)
	for i := range out {
		out[i] = &models.RawSignal{Source: "reuters", Text: "signal-" + strconv.Itoa(i)}
	}
	return out
}

func TestPipelineProcessesAll(t *testing.T) {
	p := NewBatchPipeline(&stubProc{}, nopMetrics{}, pipelineLogger(t), WithWorkers(3))
	scored, rejected, deferred := p.Run(context.Background(), rawBatch(20))
	if len(scored) != 20 {
		t.Fatalf("expected 20 scored, got %d", len(scored))
	}
	if rejected != 0 {
		t.Fatalf("expected no rejections, got %d", rejected)
	}
	if deferred != nil {
		t.Fatalf("expected no deferred signals, got %d", len(deferred))
	}
}

func TestPipelineIsolatesFailures(t *testing.T) {
	proc := &stubProc{failOn: map[string]bool{"signal-3": true, "signal-7": true}}
	p := NewBatchPipeline(proc, nopMetrics{}, pipelineLogger(t), WithWorkers(2))
	scored, rejected, deferred := p.Run(context.Background(), rawBatch(10))
	if len(scored) != 8 {
		t.Fatalf("expected 8 scored, got %d", len(scored))
	}
	if rejected != 2 {
		t.Fatalf("expected 2 rejections, got %d", rejected)
	}
	if deferred != nil {
		t.Fatalf("expected no deferred signals")
	}
}

func TestPipelineEmptyBatch(t *testing.T) {
	p := NewBatchPipeline(&stubProc{}, nopMetrics{}, pipelineLogger(t))
	scored, rejected, deferred := p.Run(context.Background(), nil)
	if scored != nil || rejected != 0 || deferred != nil {
		t.Fatalf("empty batch must be a no-op")
	}
}

func TestPipelineDefersOnTimeout(t *testing.T) {
	proc := &stubProc{delay: 50 * time.Millisecond}
	p := NewBatchPipeline(proc, nopMetrics{}, pipelineLogger(t),
		WithWorkers(1), WithBatchTimeout(120*time.Millisecond))

	scored, _, deferred := p.Run(context.Background(), rawBatch(10))
	if len(deferred) == 0 {
		t.Fatalf("expected some signals deferred past the deadline")
	}
	if len(scored) == 0 {
		t.Fatalf("signals dequeued before the deadline must still be scored")
	}
	if len(scored)+len(deferred) > 10 {
		t.Fatalf("scored %d + deferred %d exceeds batch size", len(scored), len(deferred))
	}
}

func TestPipelineDropOldest(t *testing.T) {
	p := NewBatchPipeline(&stubProc{}, nopMetrics{}, pipelineLogger(t),
		WithWorkers(4), WithQueueSize(2), WithDropOldest(true))
	scored, rejected, _ := p.Run(context.Background(), rawBatch(50))
	// With an eager collector most events survive; the invariant is that
	// nothing is rejected and the run terminates.
	if rejected != 0 {
		t.Fatalf("drop-oldest must not count rejections, got %d", rejected)
	}
	if len(scored) == 0 {
		t.Fatalf("expected scored events")
	}
}
