package dedup

import (
	"math"
	"testing"
	"time"

	"MarketSentinel/internal/domain/models"
)

func scored(id, text string, cred float64, ts time.Time) *models.ScoredEvent {
	return &models.ScoredEvent{
		ClassifiedEvent: models.ClassifiedEvent{
			NormalizedEvent: models.NormalizedEvent{ID: id, Text: text, Timestamp: ts},
		},
		Credibility: cred,
	}
}

func TestSimilarity(t *testing.T) {
	if got := Similarity("rbi cuts repo rate", "rbi cuts repo rate"); got != 1.0 {
		t.Fatalf("identical texts: %v, want 1.0", got)
	}
	if got := Similarity("apple banana", "cherry mango"); got != 0 {
		t.Fatalf("disjoint texts: %v, want 0", got)
	}
	if got := Similarity("", "anything"); got != 0 {
		t.Fatalf("empty text: %v, want 0", got)
	}
	// 5 shared tokens over 6+5 tokens: 10/11
	got := Similarity("rbi cuts repo rate by 50bps", "rbi cuts repo rate 50bps")
	if math.Abs(got-10.0/11.0) > 1e-9 {
		t.Fatalf("near-duplicate: %v, want %v", got, 10.0/11.0)
	}
}

func TestDedupKeepsMostCredible(t *testing.T) {
	d := New(5*time.Minute, 0.70)
	base := time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC)

	low := scored("a", "rbi cuts repo rate by 50 bps today", 0.3, base)
	high := scored("b", "rbi cuts repo rate by 50 bps", 0.9, base.Add(2*time.Minute))

	clusters := d.Dedup([]*models.ScoredEvent{low, high})
	if len(clusters) != 1 {
		t.Fatalf("expected 1 cluster, got %d", len(clusters))
	}
	if clusters[0].Representative.ID != "b" {
		t.Fatalf("expected the 0.9-credibility event to survive, got %s", clusters[0].Representative.ID)
	}
	if len(clusters[0].Suppressed) != 1 || clusters[0].Suppressed[0] != "a" {
		t.Fatalf("expected event a suppressed, got %v", clusters[0].Suppressed)
	}
}

func TestDedupOutsideWindow(t *testing.T) {
	d := New(5*time.Minute, 0.70)
	base := time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC)

	first := scored("a", "rbi cuts repo rate by 50 bps", 0.9, base)
	later := scored("b", "rbi cuts repo rate by 50 bps", 0.9, base.Add(10*time.Minute))

	clusters := d.Dedup([]*models.ScoredEvent{first, later})
	if len(clusters) != 2 {
		t.Fatalf("expected 2 clusters outside the window, got %d", len(clusters))
	}
}

func TestDedupDissimilarTexts(t *testing.T) {
	d := New(5*time.Minute, 0.70)
	base := time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC)

	a := scored("a", "rbi cuts repo rate by 50 bps", 0.9, base)
	b := scored("b", "nifty hits an all-time high at open", 0.9, base.Add(time.Minute))

	clusters := d.Dedup([]*models.ScoredEvent{a, b})
	if len(clusters) != 2 {
		t.Fatalf("expected 2 clusters for dissimilar texts, got %d", len(clusters))
	}
}

func TestDedupTimestampTieBreak(t *testing.T) {
	d := New(5*time.Minute, 0.70)
	base := time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC)

	late := scored("late", "fed raises funds rate by 25 bps", 0.8, base.Add(time.Minute))
	early := scored("early", "fed raises funds rate by 25 bps", 0.8, base)

	clusters := d.Dedup([]*models.ScoredEvent{late, early})
	if len(clusters) != 1 {
		t.Fatalf("expected 1 cluster, got %d", len(clusters))
	}
	if clusters[0].Representative.ID != "early" {
		t.Fatalf("equal credibility should keep the earliest, got %s", clusters[0].Representative.ID)
	}
}

func TestDedupEmptyBatch(t *testing.T) {
	d := New(5*time.Minute, 0.70)
	if clusters := d.Dedup(nil); clusters != nil {
		t.Fatalf("expected nil for empty batch, got %v", clusters)
	}
}

func TestRepresentatives(t *testing.T) {
	d := New(5*time.Minute, 0.70)
	base := time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC)

	events := []*models.ScoredEvent{
		scored("a", "rbi cuts repo rate by 50 bps", 0.9, base),
		scored("b", "rbi cuts repo rate by 50 bps", 0.3, base.Add(time.Minute)),
		scored("c", "nifty hits an all-time high at open", 0.8, base),
	}
	reps := Representatives(d.Dedup(events))
	if len(reps) != 2 {
		t.Fatalf("expected 2 representatives, got %d", len(reps))
	}
}
