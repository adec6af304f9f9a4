package classify

import (
	"testing"

	"MarketSentinel/internal/domain/models"
	"MarketSentinel/pkg/config"
)

func testClassifier(t *testing.T) *Classifier {
	t.Helper()
	tables := config.DefaultTables()
	c, err := New(&tables)
	if err != nil {
		t.Fatalf("classifier init: %v", err)
	}
	return c
}

func TestClassifyMonetaryPolicy(t *testing.T) {
	c := testClassifier(t)
	ce, err := c.Classify(&models.NormalizedEvent{
		Text: "RBI cuts repo rate by 50 bps in an emergency move",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ce.Category != models.CategoryMonetaryPolicy {
		t.Fatalf("expected MONETARY_POLICY, got %s", ce.Category)
	}
	if ce.RateDecision == nil {
		t.Fatalf("expected rate decision")
	}
	if ce.RateDecision.Bank != "RBI" {
		t.Fatalf("expected bank RBI, got %s", ce.RateDecision.Bank)
	}
	if ce.RateDecision.Action != models.RateActionEmergency {
		t.Fatalf("expected emergency, got %s", ce.RateDecision.Action)
	}
	if ce.Subtype != "emergency" {
		t.Fatalf("expected subtype emergency, got %q", ce.Subtype)
	}
	if ce.BaseImpact != 9.0 {
		t.Fatalf("expected base impact 9.0, got %v", ce.BaseImpact)
	}
}

func TestClassifyUnmatched(t *testing.T) {
	c := testClassifier(t)
	_, err := c.Classify(&models.NormalizedEvent{
		Text: "had a wonderful lunch at the new cafe downtown",
	})
	if err != ErrUnclassified {
		t.Fatalf("expected ErrUnclassified, got %v", err)
	}
}

func TestClassifyKeywordPlusEntity(t *testing.T) {
	c := testClassifier(t)
	ce, err := c.Classify(&models.NormalizedEvent{
		Text: "SEBI issues new circular on disclosure norms",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ce.Category != models.CategoryRegulatory {
		t.Fatalf("expected REGULATORY, got %s", ce.Category)
	}
}

func TestClassifySingleKeywordRejected(t *testing.T) {
	c := testClassifier(t)
	// One keyword hit without an entity is not enough to match.
	_, err := c.Classify(&models.NormalizedEvent{
		Text: "new regulation expected sometime next year",
	})
	if err != ErrUnclassified {
		t.Fatalf("expected ErrUnclassified, got %v", err)
	}
}

func TestClassifyGeopoliticalAnnotation(t *testing.T) {
	c := testClassifier(t)
	ce, err := c.Classify(&models.NormalizedEvent{
		Text: "Missile attack triggers escalation near Ukraine and Russia border",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ce.Category != models.CategoryGeopolitical {
		t.Fatalf("expected GEOPOLITICAL, got %s", ce.Category)
	}
	if ce.Subtype != "conflict" {
		t.Fatalf("expected subtype conflict, got %q", ce.Subtype)
	}
	want := map[string]bool{"region:ukraine": false, "region:russia": false}
	for _, m := range ce.MarketsAffected {
		if _, ok := want[m]; ok {
			want[m] = true
		}
	}
	for tag, seen := range want {
		if !seen {
			t.Fatalf("missing market tag %s in %v", tag, ce.MarketsAffected)
		}
	}
}

func TestClassifyMacroSubtypeFromIndicator(t *testing.T) {
	c := testClassifier(t)
	ce, err := c.Classify(&models.NormalizedEvent{
		Text:      "CPI inflation prints above consensus",
		Indicator: "cpi",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ce.Category != models.CategoryMacroData {
		t.Fatalf("expected MACRO_DATA, got %s", ce.Category)
	}
	if ce.Subtype != "cpi" {
		t.Fatalf("expected subtype cpi, got %q", ce.Subtype)
	}
}

func TestClassifyTieBreakByTableOrder(t *testing.T) {
	c := testClassifier(t)
	// One keyword+entity for monetary policy and two keywords for macro data
	// reach the same confidence; table order keeps monetary policy first.
	ce, err := c.Classify(&models.NormalizedEvent{
		Text: "Fed rate decision looms after cpi inflation data",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ce.Category != models.CategoryMonetaryPolicy {
		t.Fatalf("expected MONETARY_POLICY primary, got %s", ce.Category)
	}
	if len(ce.Secondary) == 0 {
		t.Fatalf("expected secondary matches")
	}
	if ce.Secondary[0].Category != models.CategoryMacroData {
		t.Fatalf("expected MACRO_DATA secondary, got %s", ce.Secondary[0].Category)
	}
}

func TestClassifyConfidenceCap(t *testing.T) {
	c := testClassifier(t)
	ce, err := c.Classify(&models.NormalizedEvent{
		Text: "war conflict military attack missile troops invasion in ukraine russia iran",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ce.Confidence != 1.0 {
		t.Fatalf("expected confidence capped at 1.0, got %v", ce.Confidence)
	}
}
