package sentiment

import (
	"strings"

	"MarketSentinel/internal/domain/models"
	"MarketSentinel/pkg/config"
)

const keywordWeight = 0.1

// Analyzer is the rule layer of sentiment annotation. A model-based
// collaborator may supply a base score on the raw signal; this layer adjusts
// it with market keyword counts. The result rides along on events for
// display and audit and never feeds the final score.
type Analyzer struct {
	bullish []string
	bearish []string
	urgency []string
}

func New(tables *config.Tables) *Analyzer {
	return &Analyzer{
		bullish: lowered(tables.Sentiment.Bullish),
		bearish: lowered(tables.Sentiment.Bearish),
		urgency: lowered(tables.Sentiment.Urgency),
	}
}

// Annotate computes the adjusted sentiment for an event.
func (a *Analyzer) Annotate(e *models.NormalizedEvent) *models.Sentiment {
	text := strings.ToLower(e.Text)

	bull := count(text, a.bullish)
	bear := count(text, a.bearish)
	urg := count(text, a.urgency)

	base := 0.0
	if e.SentimentIn != nil {
		base = clamp(*e.SentimentIn)
	}
	adj := float64(bull-bear) * keywordWeight
	score := clamp(base + adj)

	return &models.Sentiment{
		Score:       score,
		Label:       Label(score),
		BullishHits: bull,
		BearishHits: bear,
		UrgencyHits: urg,
		Adjustment:  adj,
	}
}

// Label buckets a score in [-1,1] into the five display labels.
func Label(score float64) string {
	switch {
	case score >= 0.3:
		return "positive"
	case score >= 0.05:
		return "slightly_positive"
	case score <= -0.3:
		return "negative"
	case score <= -0.05:
		return "slightly_negative"
	default:
		return "neutral"
	}
}

func count(text string, words []string) int {
	n := 0
	for _, w := range words {
		if strings.Contains(text, w) {
			n++
		}
	}
	return n
}

func clamp(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}

func lowered(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = strings.ToLower(s)
	}
	return out
}
