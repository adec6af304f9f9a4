package scoring

import (
	"testing"

	"MarketSentinel/internal/domain/models"
	"MarketSentinel/pkg/config"
)

func fptr(v float64) *float64 { return &v }
func iptr(v int) *int         { return &v }

func testSurpriseScorer() *SurpriseScorer {
	tables := config.DefaultTables()
	return NewSurpriseScorer(&tables)
}

func macroEvent(indicator string, actual, consensus float64) *models.ClassifiedEvent {
	return &models.ClassifiedEvent{
		NormalizedEvent: models.NormalizedEvent{
			Actual:    fptr(actual),
			Consensus: fptr(consensus),
			Indicator: indicator,
		},
		Category: models.CategoryMacroData,
	}
}

func TestMacroSurpriseTiers(t *testing.T) {
	s := testSurpriseScorer()
	// cpi has std 0.3, so the deviations below land at z = 3.5, 2.5, 1.5, 0.5.
	cases := []struct {
		actual float64
		want   float64
	}{
		{6.05, 2.0},
		{5.75, 1.7},
		{5.45, 1.3},
		{5.15, 1.0},
	}
	for _, c := range cases {
		got := s.Surprise(macroEvent("cpi", c.actual, 5.0))
		if got != c.want {
			t.Fatalf("actual %v: surprise %v, want %v", c.actual, got, c.want)
		}
	}
}

func TestMacroSurpriseMissingConsensus(t *testing.T) {
	s := testSurpriseScorer()
	e := macroEvent("cpi", 6.5, 0)
	e.Consensus = nil
	if got := s.Surprise(e); got != 1.0 {
		t.Fatalf("expected neutral 1.0 without consensus, got %v", got)
	}
}

func TestMacroSurpriseUnknownIndicator(t *testing.T) {
	s := testSurpriseScorer()
	if got := s.Surprise(macroEvent("shoe_sales", 100, 1)); got != 1.0 {
		t.Fatalf("expected neutral 1.0 for unknown indicator, got %v", got)
	}
}

func rateEvent(bank string, action models.RateAction) *models.ClassifiedEvent {
	return &models.ClassifiedEvent{
		Category:     models.CategoryMonetaryPolicy,
		RateDecision: &models.RateDecision{Bank: bank, Action: action},
	}
}

func TestRateSurpriseEmergency(t *testing.T) {
	s := testSurpriseScorer()
	if got := s.Surprise(rateEvent("RBI", models.RateActionEmergency)); got != 2.0 {
		t.Fatalf("expected 2.0 for emergency action, got %v", got)
	}
}

func TestRateSurpriseBpsDeviation(t *testing.T) {
	s := testSurpriseScorer()
	cases := []struct {
		bps  int
		want float64
	}{
		{50, 2.0}, // beyond the 25 bps tolerance
		{10, 1.5},
		{0, 1.0}, // exactly as implied
	}
	for _, c := range cases {
		e := rateEvent("RBI", models.RateActionCut)
		e.RateDecision.BpsChange = iptr(c.bps)
		if got := s.Surprise(e); got != c.want {
			t.Fatalf("bps %d: surprise %v, want %v", c.bps, got, c.want)
		}
	}
}

func TestRateSurpriseImpliedRate(t *testing.T) {
	s := testSurpriseScorer()
	cases := []struct {
		rate float64
		want float64
	}{
		{5.75, 2.0}, // 50 bps from the implied 5.25
		{5.5, 1.5},
		{5.25, 1.0},
	}
	for _, c := range cases {
		e := rateEvent("FED", models.RateActionHike)
		e.RateDecision.Rate = fptr(c.rate)
		if got := s.Surprise(e); got != c.want {
			t.Fatalf("rate %v: surprise %v, want %v", c.rate, got, c.want)
		}
	}
}

func TestRateSurpriseNoComparable(t *testing.T) {
	s := testSurpriseScorer()
	if got := s.Surprise(rateEvent("RBI", models.RateActionCut)); got != 1.0 {
		t.Fatalf("expected neutral 1.0 without bps or rate, got %v", got)
	}
}

func TestSurpriseOtherCategories(t *testing.T) {
	s := testSurpriseScorer()
	e := &models.ClassifiedEvent{Category: models.CategoryCorporate}
	if got := s.Surprise(e); got != 1.0 {
		t.Fatalf("expected neutral 1.0 for corporate, got %v", got)
	}
}

func TestImpactClamp(t *testing.T) {
	s := testSurpriseScorer()
	e := rateEvent("RBI", models.RateActionEmergency)
	e.BaseImpact = 9.0
	e.RateDecision.BpsChange = iptr(50)
	if got := s.Impact(e, 2.0); got != 10 {
		t.Fatalf("expected impact clamped to 10, got %v", got)
	}
}

func TestImpactNeutralMagnitude(t *testing.T) {
	s := testSurpriseScorer()
	e := &models.ClassifiedEvent{Category: models.CategoryCorporate, BaseImpact: 5.0}
	if got := s.Impact(e, 1.0); got != 5.0 {
		t.Fatalf("expected impact 5.0, got %v", got)
	}
}

func TestDirection(t *testing.T) {
	s := testSurpriseScorer()

	// gdp is higher-is-better with std 0.4
	if d, impl := s.Direction(macroEvent("gdp", 8.0, 7.0)); d != 2 || impl != "strongly bullish" {
		t.Fatalf("gdp beat: got %d %q", d, impl)
	}
	if d, _ := s.Direction(macroEvent("gdp", 7.6, 7.0)); d != 1 {
		t.Fatalf("gdp mild beat: got %d", d)
	}
	if d, _ := s.Direction(macroEvent("gdp", 6.0, 7.0)); d != -2 {
		t.Fatalf("gdp miss: got %d", d)
	}

	// cpi is lower-is-better: an upside print is bearish
	if d, impl := s.Direction(macroEvent("cpi", 5.75, 5.0)); d != -2 || impl != "strongly bearish" {
		t.Fatalf("cpi beat: got %d %q", d, impl)
	}

	// non-macro events are always neutral
	e := rateEvent("RBI", models.RateActionCut)
	if d, impl := s.Direction(e); d != 0 || impl != "neutral" {
		t.Fatalf("rate event: got %d %q", d, impl)
	}
}
