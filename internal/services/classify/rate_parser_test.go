package classify

import (
	"testing"

	"MarketSentinel/internal/domain/models"
	"MarketSentinel/pkg/config"
)

func testRateParser(t *testing.T) *RateParser {
	t.Helper()
	tables := config.DefaultTables()
	p, err := NewRateParser(&tables)
	if err != nil {
		t.Fatalf("rate parser init: %v", err)
	}
	return p
}

func TestParseEmergencyBeatsCut(t *testing.T) {
	p := testRateParser(t)
	rd := p.Parse("rbi announces emergency rate cut of 50 bps")
	if rd == nil {
		t.Fatalf("expected rate decision")
	}
	if rd.Bank != "RBI" {
		t.Fatalf("expected RBI, got %s", rd.Bank)
	}
	if rd.Action != models.RateActionEmergency {
		t.Fatalf("expected emergency, got %s", rd.Action)
	}
	if rd.BpsChange == nil || *rd.BpsChange != 50 {
		t.Fatalf("expected 50 bps, got %v", rd.BpsChange)
	}
}

func TestParseHikeWithRateLevel(t *testing.T) {
	p := testRateParser(t)
	rd := p.Parse("fed raises funds rate to 5.5% at fomc meeting")
	if rd == nil {
		t.Fatalf("expected rate decision")
	}
	if rd.Bank != "FED" {
		t.Fatalf("expected FED, got %s", rd.Bank)
	}
	if rd.Action != models.RateActionHike {
		t.Fatalf("expected hike, got %s", rd.Action)
	}
	if rd.Rate == nil || *rd.Rate != 5.5 {
		t.Fatalf("expected rate 5.5, got %v", rd.Rate)
	}
	// The percentage was consumed as the rate level, never as a bps change.
	if rd.BpsChange != nil {
		t.Fatalf("expected no bps change, got %v", *rd.BpsChange)
	}
}

func TestParsePercentFallbackToBps(t *testing.T) {
	p := testRateParser(t)
	rd := p.Parse("boj lowers policy rate by 0.25%")
	if rd == nil {
		t.Fatalf("expected rate decision")
	}
	if rd.Action != models.RateActionCut {
		t.Fatalf("expected cut, got %s", rd.Action)
	}
	if rd.Rate != nil {
		t.Fatalf("expected no rate level, got %v", *rd.Rate)
	}
	if rd.BpsChange == nil || *rd.BpsChange != 25 {
		t.Fatalf("expected 25 bps from percent fallback, got %v", rd.BpsChange)
	}
}

func TestParseHold(t *testing.T) {
	p := testRateParser(t)
	rd := p.Parse("rbi holds repo rate at 6.5%")
	if rd == nil {
		t.Fatalf("expected rate decision")
	}
	if rd.Action != models.RateActionHold {
		t.Fatalf("expected hold, got %s", rd.Action)
	}
	if rd.Rate == nil || *rd.Rate != 6.5 {
		t.Fatalf("expected rate 6.5, got %v", rd.Rate)
	}
}

func TestParseNoBank(t *testing.T) {
	p := testRateParser(t)
	if rd := p.Parse("central bank of norway cuts rates by 25 bps"); rd != nil {
		t.Fatalf("expected nil for unconfigured bank, got %+v", rd)
	}
}

func TestParseFirstBankWins(t *testing.T) {
	p := testRateParser(t)
	rd := p.Parse("rbi and fed both signal rate cuts ahead")
	if rd == nil {
		t.Fatalf("expected rate decision")
	}
	if rd.Bank != "RBI" {
		t.Fatalf("expected first configured bank RBI, got %s", rd.Bank)
	}
}

func TestParseUnknownAction(t *testing.T) {
	p := testRateParser(t)
	rd := p.Parse("fomc minutes show a divided committee on the rate path")
	if rd == nil {
		t.Fatalf("expected rate decision")
	}
	if rd.Action != models.RateActionUnknown {
		t.Fatalf("expected unknown action, got %s", rd.Action)
	}
}

func TestImplied(t *testing.T) {
	p := testRateParser(t)
	bps, rate := p.Implied("FED")
	if bps == nil || *bps != 0 {
		t.Fatalf("expected implied 0 bps, got %v", bps)
	}
	if rate == nil || *rate != 5.25 {
		t.Fatalf("expected implied rate 5.25, got %v", rate)
	}
	if bps, rate := p.Implied("SNB"); bps != nil || rate != nil {
		t.Fatalf("expected nil implied for unconfigured bank")
	}
}
