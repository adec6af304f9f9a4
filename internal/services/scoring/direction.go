package scoring

import (
	"MarketSentinel/internal/domain/models"
)

// implications is the fixed lookup from directional score to a human-readable
// read. Auxiliary annotation only; it never feeds the final score.
var implications = map[int]string{
	-2: "strongly bearish",
	-1: "mildly bearish",
	0:  "neutral",
	1:  "mildly bullish",
	2:  "strongly bullish",
}

// Direction maps a macro release's signed z-score into {-2..2} using the
// indicator's higher_is_better flag (GDP up is bullish, CPI up is bearish).
func (s *SurpriseScorer) Direction(e *models.ClassifiedEvent) (int, string) {
	if e.Category != models.CategoryMacroData || e.Actual == nil || e.Consensus == nil {
		return 0, implications[0]
	}
	ind, ok := s.indicators[e.Indicator]
	if !ok || ind.Std <= 0 {
		return 0, implications[0]
	}

	z := (*e.Actual - *e.Consensus) / ind.Std
	if !ind.HigherIsBetter {
		z = -z
	}

	var d int
	switch {
	case z > zMid:
		d = 2
	case z > zLow:
		d = 1
	case z < -zMid:
		d = -2
	case z < -zLow:
		d = -1
	}
	return d, implications[d]
}
