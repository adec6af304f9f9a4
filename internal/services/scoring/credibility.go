package scoring

import (
	"strings"

	"MarketSentinel/internal/domain/models"
	"MarketSentinel/pkg/config"
)

const (
	verifiedBoost     = 1.2
	hedgingPenalty    = 0.7
	confirmationBoost = 1.3
	verifyThreshold   = 0.7
)

// Weigher adjusts a source's baseline credibility from language signals.
type Weigher struct {
	hedging      []string
	confirmation []string
}

func NewWeigher(tables *config.Tables) *Weigher {
	return &Weigher{
		hedging:      loweredAll(tables.Hedging),
		confirmation: loweredAll(tables.Confirmation),
	}
}

// Weigh compounds the modifiers in a fixed order: verified boost, hedging
// penalty, confirmation boost. The order matters and is part of the contract;
// the result is always clamped to [0,1].
func (w *Weigher) Weigh(e *models.NormalizedEvent) (credibility float64, requiresVerification bool) {
	cred := e.BaseTier
	text := strings.ToLower(e.Text)

	if e.Verified {
		cred *= verifiedBoost
		if cred > 1 {
			cred = 1
		}
	}
	if containsAny(text, w.hedging) {
		cred *= hedgingPenalty
	}
	if containsAny(text, w.confirmation) {
		cred *= confirmationBoost
		if cred > 1 {
			cred = 1
		}
	}

	if cred < 0 {
		cred = 0
	}
	if cred > 1 {
		cred = 1
	}
	return cred, cred < verifyThreshold
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

func loweredAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = strings.ToLower(s)
	}
	return out
}
