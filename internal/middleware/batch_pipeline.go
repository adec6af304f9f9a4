package middleware

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"MarketSentinel/internal/domain/models"
	domrepo "MarketSentinel/internal/domain/repository"
	"MarketSentinel/pkg/logger"
)

// Proc is the minimal per-event processor interface the pipeline needs.
type Proc interface {
	Process(s *models.RawSignal) (*models.ScoredEvent, error)
}

// BatchPipeline fans a batch of raw signals across a bounded worker pool and
// funnels the scored results through a single collector, which is the
// serialized stage the deduplicator depends on. Queues between the stages are
// bounded; when the collector falls behind, workers either block (default) or
// drop the oldest queued event, per configuration.
type BatchPipeline struct {
	proc       Proc
	metrics    domrepo.Metrics
	log        *logger.Logger
	workers    int
	queueSize  int
	dropOldest bool
	timeout    time.Duration

	mu sync.Mutex // guards drop-oldest eviction
}

type PipelineOption func(*BatchPipeline)

// WithWorkers sets the worker pool size.
func WithWorkers(n int) PipelineOption {
	return func(p *BatchPipeline) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithQueueSize bounds the scored-event queue between workers and collector.
func WithQueueSize(n int) PipelineOption {
	return func(p *BatchPipeline) {
		if n > 0 {
			p.queueSize = n
		}
	}
}

// WithDropOldest switches the overflow policy from blocking to drop-oldest.
func WithDropOldest(drop bool) PipelineOption {
	return func(p *BatchPipeline) { p.dropOldest = drop }
}

// WithBatchTimeout bounds total processing time for one batch.
func WithBatchTimeout(d time.Duration) PipelineOption {
	return func(p *BatchPipeline) { p.timeout = d }
}

func NewBatchPipeline(proc Proc, metrics domrepo.Metrics, log *logger.Logger, opts ...PipelineOption) *BatchPipeline {
	p := &BatchPipeline{
		proc:      proc,
		metrics:   metrics,
		log:       log,
		workers:   4,
		queueSize: 256,
		timeout:   30 * time.Second,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run processes one batch. Signals not dequeued before the batch timeout come
// back as deferred so the caller can hand them to the next cycle; nothing is
// silently lost. Rejected counts signals that failed validation and were
// skipped.
func (p *BatchPipeline) Run(ctx context.Context, signals []*models.RawSignal) (scored []*models.ScoredEvent, rejected int, deferred []*models.RawSignal) {
	if len(signals) == 0 {
		return nil, 0, nil
	}

	batchCtx := ctx
	var cancel context.CancelFunc
	if p.timeout > 0 {
		batchCtx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	in := make(chan *models.RawSignal)
	out := make(chan *models.ScoredEvent, p.queueSize)
	deferredCh := make(chan []*models.RawSignal, 1)

	// feeder: stops at the deadline and reports what never entered the pool
	go func() {
		defer close(in)
		for i, s := range signals {
			select {
			case in <- s:
			case <-batchCtx.Done():
				rest := make([]*models.RawSignal, len(signals)-i)
				copy(rest, signals[i:])
				deferredCh <- rest
				return
			}
		}
		deferredCh <- nil
	}()

	var rejectedN int64
	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for s := range in {
				ev, err := p.proc.Process(s)
				if err != nil {
					atomic.AddInt64(&rejectedN, 1)
					p.log.Warn("signal skipped", logger.String("source", s.Source), logger.Error(err))
					continue
				}
				p.push(out, ev)
			}
		}()
	}

	// single collector: the serialized stage ahead of deduplication
	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range out {
			scored = append(scored, ev)
			p.metrics.RecordQueueDepth("scored", len(out))
		}
	}()

	wg.Wait()
	close(out)
	<-done

	return scored, int(atomic.LoadInt64(&rejectedN)), <-deferredCh
}

func (p *BatchPipeline) push(out chan *models.ScoredEvent, ev *models.ScoredEvent) {
	if !p.dropOldest {
		out <- ev
		return
	}
	for {
		select {
		case out <- ev:
			return
		default:
			// evict the oldest queued event to make room
			p.mu.Lock()
			select {
			case <-out:
				p.metrics.RecordError("queue_drop_oldest")
			default:
			}
			p.mu.Unlock()
		}
	}
}
