package repository

import (
	"context"
	"fmt"

	"MarketSentinel/internal/domain/models"
	"MarketSentinel/internal/domain/repository"
	"MarketSentinel/pkg/queue"
)

// DeferredSignalType is the queue message type for batch-timeout leftovers.
const DeferredSignalType = "signal.deferred"

// RedisBacklog implements Backlog on the Redis job queue. Each deferred
// signal becomes its own message so a replay failure only retries one signal.
type RedisBacklog struct {
	q queue.QueueService
}

func NewRedisBacklog(q queue.QueueService) repository.Backlog {
	return &RedisBacklog{q: q}
}

func (b *RedisBacklog) Defer(ctx context.Context, signals []*models.RawSignal) error {
	for i, s := range signals {
		if err := b.q.PublishMessage(ctx, DeferredSignalType, s); err != nil {
			return fmt.Errorf("defer signal %d/%d: %w", i+1, len(signals), err)
		}
	}
	return nil
}
