package scoring

import (
	"math"
	"testing"
	"time"

	"MarketSentinel/internal/domain/models"
	"MarketSentinel/pkg/config"
)

func testAggregator(now time.Time, watchlist []string) *Aggregator {
	tables := config.DefaultTables()
	return NewAggregator(&tables, watchlist, "india", WithClock(func() time.Time { return now }))
}

func ist(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		t.Fatalf("load timezone: %v", err)
	}
	return loc
}

func TestLevelPartition(t *testing.T) {
	a := testAggregator(time.Now(), nil)
	cases := []struct {
		score float64
		want  models.PriorityLevel
	}{
		{100, models.PriorityCritical},
		{80, models.PriorityCritical},
		{79.9, models.PriorityHigh},
		{60, models.PriorityHigh},
		{59.9, models.PriorityMedium},
		{40, models.PriorityMedium},
		{20, models.PriorityLow},
		{19.9, models.PriorityNoise},
		{0, models.PriorityNoise},
	}
	for _, c := range cases {
		if got := a.Level(c.score); got != c.want {
			t.Fatalf("score %v: level %s, want %s", c.score, got, c.want)
		}
	}
}

func TestSessionWeights(t *testing.T) {
	loc := ist(t)
	cases := []struct {
		hour int
		want float64
	}{
		{8, 10}, // pre-market
		{10, 9}, // open
		{16, 6}, // post-market
		{2, 4},  // closed
	}
	for _, c := range cases {
		ts := time.Date(2025, 3, 3, c.hour, 0, 0, 0, loc)
		a := testAggregator(ts, nil)
		ev := a.Aggregate(&models.ClassifiedEvent{
			NormalizedEvent: models.NormalizedEvent{Timestamp: ts},
		}, 1.0, 0, 0, false)
		if ev.UrgencyScore != c.want {
			t.Fatalf("hour %d: urgency %v, want %v", c.hour, ev.UrgencyScore, c.want)
		}
	}
}

func TestDecayFactor(t *testing.T) {
	a := testAggregator(time.Now(), nil)
	if got := a.DecayFactor(0); got != 1.0 {
		t.Fatalf("zero age should not decay, got %v", got)
	}
	if got := a.DecayFactor(30 * time.Minute); math.Abs(got-0.5) > 1e-9 {
		t.Fatalf("one half-life should halve, got %v", got)
	}
	if got := a.DecayFactor(time.Hour); math.Abs(got-0.25) > 1e-9 {
		t.Fatalf("two half-lives should quarter, got %v", got)
	}
	if a.DecayFactor(10*time.Minute) <= a.DecayFactor(time.Hour) {
		t.Fatalf("decay must shrink with age")
	}
}

func TestAggregateCriticalEvent(t *testing.T) {
	loc := ist(t)
	ts := time.Date(2025, 3, 3, 10, 0, 0, 0, loc)
	a := testAggregator(ts, []string{"nifty"})

	ev := a.Aggregate(&models.ClassifiedEvent{
		NormalizedEvent: models.NormalizedEvent{
			Text:      "nifty hits a record on rate cut hopes",
			Timestamp: ts,
			Verified:  true,
		},
		Category: models.CategoryMarketStructure,
	}, 1.0, 8.0, 1.0, false)

	// impact 8 * urgency 9 * credibility 10 / 100 * 10 = 72, plus the
	// watch-list bonus of 10.
	if math.Abs(ev.FinalScore-82) > 1e-9 {
		t.Fatalf("final score %v, want 82", ev.FinalScore)
	}
	if ev.Priority != models.PriorityCritical {
		t.Fatalf("priority %s, want CRITICAL", ev.Priority)
	}
	if ev.UrgencyScore != 9 {
		t.Fatalf("urgency %v, want 9", ev.UrgencyScore)
	}
	if ev.CredibilityScore != 10 {
		t.Fatalf("credibility score %v, want 10", ev.CredibilityScore)
	}
	if ev.RelevanceBonus != 10 {
		t.Fatalf("relevance %v, want 10", ev.RelevanceBonus)
	}
}

func TestAggregateHomeMarketBoost(t *testing.T) {
	loc := ist(t)
	ts := time.Date(2025, 3, 3, 10, 0, 0, 0, loc)
	a := testAggregator(ts, []string{"rbi"})

	ev := a.Aggregate(&models.ClassifiedEvent{
		NormalizedEvent: models.NormalizedEvent{
			Text:      "rbi decision lifts india markets",
			Timestamp: ts,
		},
		Category: models.CategoryMonetaryPolicy,
	}, 1.0, 5.0, 0.8, false)

	if ev.RelevanceBonus != 15 {
		t.Fatalf("relevance %v, want 15 with home-market boost", ev.RelevanceBonus)
	}
}

func TestAggregateUnverifiedPenalty(t *testing.T) {
	loc := ist(t)
	ts := time.Date(2025, 3, 3, 10, 0, 0, 0, loc)
	a := testAggregator(ts, nil)

	ev := a.Aggregate(&models.ClassifiedEvent{
		NormalizedEvent: models.NormalizedEvent{
			Text:      "unattributed chatter about a large move",
			Timestamp: ts,
			Verified:  false,
		},
		Category: models.CategoryMarketStructure,
	}, 1.0, 5.0, 1.0, true)

	if math.Abs(ev.CredibilityScore-6) > 1e-9 {
		t.Fatalf("credibility score %v, want 6 after unverified penalty", ev.CredibilityScore)
	}
	if !ev.RequiresVerification {
		t.Fatalf("verification flag must carry through")
	}
}

func TestAggregateCapsAtHundred(t *testing.T) {
	loc := ist(t)
	ts := time.Date(2025, 3, 3, 8, 0, 0, 0, loc)
	a := testAggregator(ts, []string{"nifty"})

	ev := a.Aggregate(&models.ClassifiedEvent{
		NormalizedEvent: models.NormalizedEvent{
			Text:      "nifty circuit breaker as india markets crash",
			Timestamp: ts,
			Verified:  true,
		},
		Category: models.CategoryMarketStructure,
	}, 2.0, 10.0, 1.0, false)

	if ev.FinalScore != 100 {
		t.Fatalf("final score %v, want capped 100", ev.FinalScore)
	}
}

func TestAggregateOldEventDecays(t *testing.T) {
	loc := ist(t)
	ts := time.Date(2025, 3, 3, 10, 0, 0, 0, loc)
	now := ts.Add(2 * time.Hour)
	a := testAggregator(now, nil)

	fresh := testAggregator(ts, nil).Aggregate(&models.ClassifiedEvent{
		NormalizedEvent: models.NormalizedEvent{Timestamp: ts, Verified: true},
	}, 1.0, 8.0, 1.0, false)
	stale := a.Aggregate(&models.ClassifiedEvent{
		NormalizedEvent: models.NormalizedEvent{Timestamp: ts, Verified: true},
	}, 1.0, 8.0, 1.0, false)

	if stale.FinalScore >= fresh.FinalScore {
		t.Fatalf("stale %v should score below fresh %v", stale.FinalScore, fresh.FinalScore)
	}
}
