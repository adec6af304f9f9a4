package usecase

import (
	"context"
	"time"

	"MarketSentinel/internal/domain/models"
	drepo "MarketSentinel/internal/domain/repository"
	"MarketSentinel/pkg/config"
)

// EventFeed serves read queries for the dashboard endpoints.
type EventFeed struct {
	history drepo.HistorySink
	bands   []config.PriorityBand
}

func NewEventFeed(history drepo.HistorySink, bands []config.PriorityBand) *EventFeed {
	return &EventFeed{history: history, bands: bands}
}

// minScore maps a priority level to the lower bound of its score band.
func (f *EventFeed) minScore(level string) float64 {
	for _, b := range f.bands {
		if b.Level == level {
			return b.Min
		}
	}
	return 0
}

func (f *EventFeed) Recent(ctx context.Context, req *models.RecentEventsRequest) ([]*models.ScoredEvent, error) {
	since := time.Now().UTC().Add(-time.Duration(req.Hours) * time.Hour)
	var min float64
	if req.MinLevel != "" {
		min = f.minScore(req.MinLevel)
	}
	return f.history.Recent(ctx, since, req.Limit, req.Category, min)
}

func (f *EventFeed) Critical(ctx context.Context, req *models.CriticalEventsRequest) ([]*models.ScoredEvent, error) {
	since := time.Now().UTC().Add(-time.Duration(req.Hours) * time.Hour)
	return f.history.Recent(ctx, since, req.Limit, "", f.minScore(string(models.PriorityCritical)))
}

func (f *EventFeed) Counts(ctx context.Context, req *models.EventCountsRequest) (*models.EventCounts, error) {
	since := time.Now().UTC().Add(-time.Duration(req.Hours) * time.Hour)
	return f.history.Counts(ctx, since)
}

func (f *EventFeed) Health(ctx context.Context) error {
	return f.history.Health(ctx)
}
