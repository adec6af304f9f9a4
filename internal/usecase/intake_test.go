package usecase

import (
	"testing"

	"MarketSentinel/internal/domain/models"
)

func TestIntakeAddAndDrain(t *testing.T) {
	in := NewSignalIntake(0, newFakeMetrics())

	if in.Add(nil) {
		t.Fatalf("nil signal must be rejected")
	}
	in.Add(&models.RawSignal{Source: "reuters", Text: "a"})
	in.Add(&models.RawSignal{Source: "reuters", Text: "b"})
	if in.Len() != 2 {
		t.Fatalf("expected 2 buffered, got %d", in.Len())
	}

	batch := in.Drain()
	if len(batch) != 2 {
		t.Fatalf("expected 2 drained, got %d", len(batch))
	}
	if in.Len() != 0 {
		t.Fatalf("drain must reset the buffer, got %d", in.Len())
	}
	if batch[0].Text != "a" || batch[1].Text != "b" {
		t.Fatalf("drain must preserve arrival order")
	}
}

func TestIntakeRateShedding(t *testing.T) {
	metrics := newFakeMetrics()
	in := NewSignalIntake(2, metrics)

	accepted := 0
	for i := 0; i < 10; i++ {
		if in.Add(&models.RawSignal{Source: "twitter", Text: "spam"}) {
			accepted++
		}
	}
	if accepted >= 10 {
		t.Fatalf("expected the burst to be shed, all %d accepted", accepted)
	}
	if metrics.errors["source_rate_limited"] == 0 {
		t.Fatalf("expected rate-limit metric")
	}

	// Another source has its own budget.
	if !in.Add(&models.RawSignal{Source: "reuters", Text: "real news"}) {
		t.Fatalf("a different source must not be shed")
	}
}
