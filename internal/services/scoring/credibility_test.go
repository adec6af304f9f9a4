package scoring

import (
	"math"
	"testing"

	"MarketSentinel/internal/domain/models"
	"MarketSentinel/pkg/config"
)

func testWeigher() *Weigher {
	tables := config.DefaultTables()
	return NewWeigher(&tables)
}

func TestWeighVerifiedBoost(t *testing.T) {
	w := testWeigher()
	cred, requires := w.Weigh(&models.NormalizedEvent{
		Text:     "RBI announces repo rate decision",
		BaseTier: 0.8,
		Verified: true,
	})
	// 0.8 * 1.2 = 0.96, no hedging, "announces" confirms: clamped to 1.0
	if cred != 1.0 {
		t.Fatalf("expected credibility 1.0, got %v", cred)
	}
	if requires {
		t.Fatalf("verified high-tier source should not require verification")
	}
}

func TestWeighHedgingPenalty(t *testing.T) {
	w := testWeigher()
	cred, requires := w.Weigh(&models.NormalizedEvent{
		Text:     "reportedly a big rate move is coming",
		BaseTier: 0.4,
	})
	if math.Abs(cred-0.28) > 1e-9 {
		t.Fatalf("expected 0.4*0.7=0.28, got %v", cred)
	}
	if !requires {
		t.Fatalf("credibility below 0.7 must require verification")
	}
}

func TestWeighModifierOrder(t *testing.T) {
	w := testWeigher()
	// Verified boost clamps at 1.0 first, then hedging, then confirmation:
	// 0.9*1.2 -> 1.0, *0.7 -> 0.7, *1.3 -> 0.91.
	cred, requires := w.Weigh(&models.NormalizedEvent{
		Text:     "sources say the move is confirmed",
		BaseTier: 0.9,
		Verified: true,
	})
	if math.Abs(cred-0.91) > 1e-9 {
		t.Fatalf("expected 0.91, got %v", cred)
	}
	if requires {
		t.Fatalf("0.91 is above the verification threshold")
	}
}

func TestWeighNeutralText(t *testing.T) {
	w := testWeigher()
	cred, requires := w.Weigh(&models.NormalizedEvent{
		Text:     "markets closed flat ahead of the budget",
		BaseTier: 0.75,
	})
	if cred != 0.75 {
		t.Fatalf("expected untouched base tier 0.75, got %v", cred)
	}
	if requires {
		t.Fatalf("0.75 is above the verification threshold")
	}
}

func TestWeighThresholdBoundary(t *testing.T) {
	w := testWeigher()
	cred, requires := w.Weigh(&models.NormalizedEvent{
		Text:     "markets closed flat ahead of the budget",
		BaseTier: 0.7,
	})
	if cred != 0.7 {
		t.Fatalf("expected 0.7, got %v", cred)
	}
	if requires {
		t.Fatalf("exactly 0.7 does not require verification")
	}
}
