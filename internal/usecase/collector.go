package usecase

import (
	"context"
	"sync"
	"time"

	"MarketSentinel/internal/domain/models"
	drepo "MarketSentinel/internal/domain/repository"
	"MarketSentinel/pkg/logger"
)

// EventCollector pumps the live feed into the intake and runs a batch on a
// fixed cadence. It owns the source connection lifecycle including
// reconnects.
type EventCollector struct {
	source       drepo.SignalSource
	intake       *SignalIntake
	runner       *BatchRunner
	pollInterval time.Duration
	log          *logger.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewEventCollector(
	source drepo.SignalSource,
	intake *SignalIntake,
	runner *BatchRunner,
	pollInterval time.Duration,
	log *logger.Logger,
) *EventCollector {
	if pollInterval <= 0 {
		pollInterval = 5 * time.Minute
	}
	return &EventCollector{
		source:       source,
		intake:       intake,
		runner:       runner,
		pollInterval: pollInterval,
		log:          log,
	}
}

// Start connects the source and launches the consume and batch loops.
func (c *EventCollector) Start(ctx context.Context) error {
	ctx, c.cancel = context.WithCancel(ctx)

	if c.source != nil {
		if err := c.source.Connect(ctx); err != nil {
			return err
		}
		if err := c.source.Subscribe(ctx); err != nil {
			return err
		}
		signals, errs := c.source.Read(ctx)
		c.wg.Add(1)
		go c.consume(ctx, signals, errs)
	}

	c.wg.Add(1)
	go c.batchLoop(ctx)
	return nil
}

// Shutdown stops the loops, closes the source and flushes the remaining
// intake through one final batch.
func (c *EventCollector) Shutdown(ctx context.Context) error {
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()

	var srcErr error
	if c.source != nil {
		srcErr = c.source.Close()
	}

	if rest := c.intake.Drain(); len(rest) > 0 {
		c.log.Info("flushing intake on shutdown", logger.Int("count", len(rest)))
		if _, err := c.runner.Run(ctx, rest); err != nil {
			return err
		}
	}
	return srcErr
}

// consume pumps the feed into the intake. The source closes both channels
// when the connection drops, so a successful reconnect re-acquires them.
func (c *EventCollector) consume(ctx context.Context, signals <-chan *models.RawSignal, errs <-chan error) {
	defer c.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case s, ok := <-signals:
			if !ok {
				if !c.reconnect(ctx) {
					return
				}
				signals, errs = c.source.Read(ctx)
				continue
			}
			c.intake.Add(s)
		case err, ok := <-errs:
			if ok {
				c.log.Warn("feed error, reconnecting", logger.Error(err))
			}
			if !c.reconnect(ctx) {
				return
			}
			signals, errs = c.source.Read(ctx)
		}
	}
}

// reconnect retries with doubling backoff until the source is back or the
// context ends. Reports whether the connection was re-established.
func (c *EventCollector) reconnect(ctx context.Context) bool {
	backoff := time.Second
	for {
		select {
		case <-ctx.Done():
			return false
		case <-time.After(backoff):
		}
		if err := c.source.Reconnect(ctx); err != nil {
			c.log.Warn("reconnect failed", logger.Error(err))
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		c.log.Info("feed reconnected")
		return true
	}
}

func (c *EventCollector) batchLoop(ctx context.Context) {
	defer c.wg.Done()
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			batch := c.intake.Drain()
			if len(batch) == 0 {
				continue
			}
			if _, err := c.runner.Run(ctx, batch); err != nil {
				c.log.Error("batch run failed", logger.Error(err))
			}
		}
	}
}
