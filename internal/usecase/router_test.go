package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"MarketSentinel/internal/domain/models"
	"MarketSentinel/pkg/cache"
	"MarketSentinel/pkg/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger init: %v", err)
	}
	return log
}

type fakeHistory struct {
	appended []*models.ScoredEvent
	failWith error
}

func (h *fakeHistory) Init(ctx context.Context) error { return nil }
func (h *fakeHistory) Append(ctx context.Context, e *models.ScoredEvent, d *models.RoutingDecision) error {
	if h.failWith != nil {
		return h.failWith
	}
	h.appended = append(h.appended, e)
	return nil
}
func (h *fakeHistory) AppendBatch(ctx context.Context, events []*models.ScoredEvent, decisions []*models.RoutingDecision) error {
	h.appended = append(h.appended, events...)
	return nil
}
func (h *fakeHistory) Recent(ctx context.Context, since time.Time, limit int, category string, minScore float64) ([]*models.ScoredEvent, error) {
	return nil, nil
}
func (h *fakeHistory) Counts(ctx context.Context, since time.Time) (*models.EventCounts, error) {
	return &models.EventCounts{}, nil
}
func (h *fakeHistory) Health(ctx context.Context) error { return nil }
func (h *fakeHistory) Close() error                     { return nil }

type fakeAlerts struct {
	published []*models.ScoredEvent
	failWith  error
}

func (a *fakeAlerts) Publish(ctx context.Context, e *models.ScoredEvent, d *models.RoutingDecision) error {
	if a.failWith != nil {
		return a.failWith
	}
	a.published = append(a.published, e)
	return nil
}
func (a *fakeAlerts) PublishBatch(ctx context.Context, events []*models.ScoredEvent, decisions []*models.RoutingDecision) error {
	a.published = append(a.published, events...)
	return nil
}
func (a *fakeAlerts) Close() error { return nil }

type fakeMetrics struct {
	errors  map[string]int
	routed  map[string]int
	dups    int
	events  int
	latency int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{errors: map[string]int{}, routed: map[string]int{}}
}

func (m *fakeMetrics) RecordEvent(stage, category string)      { m.events++ }
func (m *fakeMetrics) RecordError(kind string)                 { m.errors[kind]++ }
func (m *fakeMetrics) RecordRouting(level string)              { m.routed[level]++ }
func (m *fakeMetrics) RecordDuplicate()                        { m.dups++ }
func (m *fakeMetrics) RecordLatency(op string, secs float64)   { m.latency++ }
func (m *fakeMetrics) RecordQueueDepth(stage string, depth int) {}

func scoredAt(id string, priority models.PriorityLevel) *models.ScoredEvent {
	return &models.ScoredEvent{
		ClassifiedEvent: models.ClassifiedEvent{
			NormalizedEvent: models.NormalizedEvent{
				ID:        id,
				Text:      "rbi cuts repo rate by 50 bps",
				Timestamp: time.Now().UTC(),
			},
		},
		Priority: priority,
	}
}

func TestDecide(t *testing.T) {
	cases := []struct {
		priority   models.PriorityLevel
		notify     bool
		sound      bool
		suppressed bool
	}{
		{models.PriorityCritical, true, true, false},
		{models.PriorityHigh, true, false, false},
		{models.PriorityMedium, false, false, false},
		{models.PriorityLow, false, false, false},
		{models.PriorityNoise, false, false, true},
	}
	for _, c := range cases {
		d := Decide(scoredAt("e1", c.priority))
		if !d.HistoryAppend {
			t.Fatalf("%s: every tier must append to history", c.priority)
		}
		if d.Notify != c.notify || d.Sound != c.sound || d.Suppressed != c.suppressed {
			t.Fatalf("%s: got notify=%v sound=%v suppressed=%v", c.priority, d.Notify, d.Sound, d.Suppressed)
		}
	}
}

func TestRouteCritical(t *testing.T) {
	history := &fakeHistory{}
	alerts := &fakeAlerts{}
	metrics := newFakeMetrics()
	r := NewPriorityRouter(history, alerts, cache.NewMemoryCache(), metrics, testLogger(t), time.Hour)

	d, err := r.Route(context.Background(), scoredAt("e1", models.PriorityCritical))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !d.Notify || !d.Sound {
		t.Fatalf("critical must notify with sound")
	}
	if len(history.appended) != 1 {
		t.Fatalf("expected 1 history append, got %d", len(history.appended))
	}
	if len(alerts.published) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(alerts.published))
	}
	if metrics.routed["CRITICAL"] != 1 {
		t.Fatalf("expected routing metric for CRITICAL")
	}
}

func TestRouteMediumSkipsAlerts(t *testing.T) {
	history := &fakeHistory{}
	alerts := &fakeAlerts{}
	r := NewPriorityRouter(history, alerts, cache.NewMemoryCache(), newFakeMetrics(), testLogger(t), time.Hour)

	if _, err := r.Route(context.Background(), scoredAt("e2", models.PriorityMedium)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(history.appended) != 1 {
		t.Fatalf("expected history append for MEDIUM")
	}
	if len(alerts.published) != 0 {
		t.Fatalf("MEDIUM must not alert, got %d", len(alerts.published))
	}
}

func TestRouteIdempotent(t *testing.T) {
	history := &fakeHistory{}
	alerts := &fakeAlerts{}
	r := NewPriorityRouter(history, alerts, cache.NewMemoryCache(), newFakeMetrics(), testLogger(t), time.Hour)

	e := scoredAt("e3", models.PriorityCritical)
	if _, err := r.Route(context.Background(), e); err != nil {
		t.Fatalf("first route: %v", err)
	}
	if _, err := r.Route(context.Background(), e); err != nil {
		t.Fatalf("second route: %v", err)
	}
	if len(history.appended) != 1 {
		t.Fatalf("re-routing must not append again, got %d", len(history.appended))
	}
	if len(alerts.published) != 1 {
		t.Fatalf("re-routing must not alert again, got %d", len(alerts.published))
	}
}

func TestRouteHistoryFailure(t *testing.T) {
	history := &fakeHistory{failWith: errors.New("sink down")}
	alerts := &fakeAlerts{}
	metrics := newFakeMetrics()
	r := NewPriorityRouter(history, alerts, cache.NewMemoryCache(), metrics, testLogger(t), time.Hour)

	if _, err := r.Route(context.Background(), scoredAt("e4", models.PriorityHigh)); err == nil {
		t.Fatalf("expected error when history append fails")
	}
	if metrics.errors["history_append"] != 1 {
		t.Fatalf("expected history_append error metric")
	}
	if len(alerts.published) != 0 {
		t.Fatalf("no alert should follow a failed append")
	}
}

func TestRouteAlertFailureIsNonFatal(t *testing.T) {
	history := &fakeHistory{}
	alerts := &fakeAlerts{failWith: errors.New("broker down")}
	metrics := newFakeMetrics()
	r := NewPriorityRouter(history, alerts, cache.NewMemoryCache(), metrics, testLogger(t), time.Hour)

	d, err := r.Route(context.Background(), scoredAt("e5", models.PriorityCritical))
	if err != nil {
		t.Fatalf("alert failure must not fail routing: %v", err)
	}
	if d == nil || !d.Notify {
		t.Fatalf("decision should still notify")
	}
	if metrics.errors["alert_publish"] != 1 {
		t.Fatalf("expected alert_publish error metric")
	}
	if len(history.appended) != 1 {
		t.Fatalf("history append must survive an alert failure")
	}
}
