package scoring

import (
	"math"

	"MarketSentinel/internal/domain/models"
	"MarketSentinel/pkg/config"
)

// surprise thresholds on the deviation z-score
const (
	zHigh = 3.0
	zMid  = 2.0
	zLow  = 1.0
)

// implied-rate tolerance in basis points
const impliedToleranceBps = 25

// SurpriseScorer maps deviation-from-expectation into a bounded multiplier
// in [1.0, 2.0]. Missing inputs degrade to the neutral 1.0, never to an error.
type SurpriseScorer struct {
	indicators map[string]config.Indicator
	implied    map[string]config.BankRule
}

func NewSurpriseScorer(tables *config.Tables) *SurpriseScorer {
	s := &SurpriseScorer{
		indicators: tables.Indicators,
		implied:    make(map[string]config.BankRule, len(tables.Banks)),
	}
	for _, b := range tables.Banks {
		s.implied[b.Bank] = b
	}
	return s
}

// Surprise computes the surprise factor for a classified event.
func (s *SurpriseScorer) Surprise(e *models.ClassifiedEvent) float64 {
	switch e.Category {
	case models.CategoryMacroData:
		return s.macroSurprise(e)
	case models.CategoryMonetaryPolicy:
		return s.rateSurprise(e)
	default:
		return 1.0
	}
}

func (s *SurpriseScorer) macroSurprise(e *models.ClassifiedEvent) float64 {
	z := s.zScore(e)
	switch {
	case z > zHigh:
		return 2.0
	case z > zMid:
		return 1.7
	case z > zLow:
		return 1.3
	default:
		return 1.0
	}
}

// zScore returns |actual-consensus| / historical std, or 0 when inputs are
// missing or the std is non-positive.
func (s *SurpriseScorer) zScore(e *models.ClassifiedEvent) float64 {
	if e.Actual == nil || e.Consensus == nil {
		return 0
	}
	ind, ok := s.indicators[e.Indicator]
	if !ok || ind.Std <= 0 {
		return 0
	}
	return math.Abs(*e.Actual-*e.Consensus) / ind.Std
}

func (s *SurpriseScorer) rateSurprise(e *models.ClassifiedEvent) float64 {
	rd := e.RateDecision
	if rd == nil {
		return 1.0
	}
	// Emergency actions are a maximum surprise by definition, regardless of
	// how the move compares to expectations.
	if rd.Action == models.RateActionEmergency {
		return 2.0
	}

	bank, ok := s.implied[rd.Bank]
	if !ok {
		return 1.0
	}

	var diffBps float64 = -1
	switch {
	case rd.BpsChange != nil && bank.ImpliedBps != nil:
		diffBps = math.Abs(float64(*rd.BpsChange - *bank.ImpliedBps))
	case rd.Rate != nil && bank.ImpliedRate != nil:
		diffBps = math.Abs(*rd.Rate-*bank.ImpliedRate) * 100
	}

	switch {
	case diffBps < 0:
		return 1.0
	case diffBps > impliedToleranceBps:
		return 2.0
	case diffBps > 0:
		return 1.5
	default:
		return 1.0
	}
}

// Impact combines base impact, surprise, and the magnitude of the underlying
// move, clamped to [0,10].
func (s *SurpriseScorer) Impact(e *models.ClassifiedEvent, surprise float64) float64 {
	impact := e.BaseImpact * surprise * s.magnitude(e)
	if impact > 10 {
		impact = 10
	}
	if impact < 0 {
		impact = 0
	}
	return impact
}

// magnitude is in [0,2]: derived from the event's numeric fields, 1.0 when
// none are available.
func (s *SurpriseScorer) magnitude(e *models.ClassifiedEvent) float64 {
	if e.RateDecision != nil && e.RateDecision.BpsChange != nil && *e.RateDecision.BpsChange > 0 {
		return clamp(float64(*e.RateDecision.BpsChange)/50.0, 0.5, 2)
	}
	if z := s.zScore(e); z > 0 {
		return clamp(z/2.0, 0.5, 2)
	}
	return 1.0
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
