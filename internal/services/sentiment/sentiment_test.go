package sentiment

import (
	"math"
	"testing"

	"MarketSentinel/internal/domain/models"
	"MarketSentinel/pkg/config"
)

func testAnalyzer() *Analyzer {
	tables := config.DefaultTables()
	return New(&tables)
}

func fptr(v float64) *float64 { return &v }

func TestAnnotateBullish(t *testing.T) {
	a := testAnalyzer()
	s := a.Annotate(&models.NormalizedEvent{
		Text: "banks rally as earnings surge past estimates",
	})
	if s.BullishHits != 2 {
		t.Fatalf("expected 2 bullish hits, got %d", s.BullishHits)
	}
	if s.BearishHits != 0 {
		t.Fatalf("expected 0 bearish hits, got %d", s.BearishHits)
	}
	if math.Abs(s.Score-0.2) > 1e-9 {
		t.Fatalf("expected score 0.2, got %v", s.Score)
	}
	if s.Label != "slightly_positive" {
		t.Fatalf("expected slightly_positive, got %s", s.Label)
	}
}

func TestAnnotateBaseScoreAdjustment(t *testing.T) {
	a := testAnalyzer()
	s := a.Annotate(&models.NormalizedEvent{
		Text:        "brutal selloff deepens, crash fears grow",
		SentimentIn: fptr(-0.5),
	})
	// base -0.5 with two bearish keywords: -0.7
	if math.Abs(s.Score-(-0.7)) > 1e-9 {
		t.Fatalf("expected score -0.7, got %v", s.Score)
	}
	if s.Label != "negative" {
		t.Fatalf("expected negative, got %s", s.Label)
	}
}

func TestAnnotateClamp(t *testing.T) {
	a := testAnalyzer()
	s := a.Annotate(&models.NormalizedEvent{
		Text:        "rally surge breakout gains everywhere",
		SentimentIn: fptr(0.95),
	})
	if s.Score != 1.0 {
		t.Fatalf("expected score clamped to 1.0, got %v", s.Score)
	}
}

func TestAnnotateUrgencyHits(t *testing.T) {
	a := testAnalyzer()
	s := a.Annotate(&models.NormalizedEvent{
		Text: "breaking: official statement due shortly",
	})
	if s.UrgencyHits != 2 {
		t.Fatalf("expected 2 urgency hits, got %d", s.UrgencyHits)
	}
}

func TestLabelBuckets(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{0.5, "positive"},
		{0.3, "positive"},
		{0.1, "slightly_positive"},
		{0.04, "neutral"},
		{0, "neutral"},
		{-0.04, "neutral"},
		{-0.1, "slightly_negative"},
		{-0.3, "negative"},
		{-0.8, "negative"},
	}
	for _, c := range cases {
		if got := Label(c.score); got != c.want {
			t.Fatalf("score %v: label %s, want %s", c.score, got, c.want)
		}
	}
}
