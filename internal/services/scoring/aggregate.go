package scoring

import (
	"math"
	"strings"
	"time"

	"MarketSentinel/internal/domain/models"
	"MarketSentinel/pkg/config"
)

const (
	unverifiedPenalty = 0.6
	homeMarketBoost   = 1.5
	relevanceCap      = 20.0
)

// Aggregator combines impact, urgency, credibility, and relevance into one
// bounded final score and assigns the priority level.
type Aggregator struct {
	sessions   config.SessionTable
	bands      []config.PriorityBand
	watchlist  []string
	homeMarket string
	halfLife   time.Duration
	loc        *time.Location
	now        func() time.Time
}

type AggregatorOption func(*Aggregator)

// WithClock overrides the clock, for tests.
func WithClock(now func() time.Time) AggregatorOption {
	return func(a *Aggregator) { a.now = now }
}

func NewAggregator(tables *config.Tables, watchlist []string, homeMarket string, opts ...AggregatorOption) *Aggregator {
	a := &Aggregator{
		sessions:   tables.Sessions,
		bands:      tables.Priority,
		watchlist:  loweredAll(watchlist),
		homeMarket: strings.ToLower(homeMarket),
		halfLife:   30 * time.Minute,
		now:        time.Now,
	}
	if d, err := time.ParseDuration(tables.Sessions.HalfLife); err == nil && d > 0 {
		a.halfLife = d
	}
	if loc, err := time.LoadLocation(tables.Sessions.Timezone); err == nil {
		a.loc = loc
	} else {
		a.loc = time.UTC
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Aggregate produces the immutable ScoredEvent. Credibility weighing happens
// strictly before this call; the event is never mutated afterward.
func (a *Aggregator) Aggregate(e *models.ClassifiedEvent, surprise, impact, credibility float64, requiresVerification bool) *models.ScoredEvent {
	urgency := a.urgencyScore(e.Timestamp)
	credScore := a.credibilityScore(credibility, e.Verified)
	relevance := a.relevanceBonus(e)

	final := (impact*urgency*credScore/100.0)*10.0 + relevance
	if final > 100 {
		final = 100
	}
	if final < 0 {
		final = 0
	}

	return &models.ScoredEvent{
		ClassifiedEvent:      *e,
		ImpactScore:          impact,
		UrgencyScore:         urgency,
		CredibilityScore:     credScore,
		RelevanceBonus:       relevance,
		FinalScore:           final,
		Priority:             a.Level(final),
		Credibility:          credibility,
		RequiresVerification: requiresVerification,
		SurpriseFactor:       surprise,
	}
}

// urgencyScore is the session weight decayed by event age. DecayFactor is
// monotonically non-increasing in age, so urgency only ever shrinks.
func (a *Aggregator) urgencyScore(ts time.Time) float64 {
	u := a.timeSensitivity(ts) * a.DecayFactor(a.now().Sub(ts))
	if u > 10 {
		u = 10
	}
	if u < 0 {
		u = 0
	}
	return u
}

// timeSensitivity resolves the market session weight at the event timestamp.
func (a *Aggregator) timeSensitivity(ts time.Time) float64 {
	h := ts.In(a.loc).Hour()
	s := a.sessions
	switch {
	case h >= s.PreMarketStart && h < s.MarketOpen:
		return s.PreMarketWeight
	case h >= s.MarketOpen && h < s.MarketClose:
		return s.OpenWeight
	case h >= s.MarketClose && h < s.PostMarketEnd:
		return s.PostWeight
	default:
		return s.ClosedWeight
	}
}

// DecayFactor is exponential decay with the configured half-life.
func (a *Aggregator) DecayFactor(age time.Duration) float64 {
	if age <= 0 {
		return 1.0
	}
	return math.Pow(0.5, age.Seconds()/a.halfLife.Seconds())
}

func (a *Aggregator) credibilityScore(credibility float64, verified bool) float64 {
	mult := unverifiedPenalty
	if verified {
		mult = 1.0
	}
	cs := credibility * mult * 10
	if cs > 10 {
		cs = 10
	}
	if cs < 0 {
		cs = 0
	}
	return cs
}

// relevanceBonus is watch-list match (0 or 1) times the home-market
// multiplier times 10, capped at 20.
func (a *Aggregator) relevanceBonus(e *models.ClassifiedEvent) float64 {
	if !a.watchMatch(e) {
		return 0
	}
	bonus := 10.0
	if a.affectsHomeMarket(e) {
		bonus *= homeMarketBoost
	}
	if bonus > relevanceCap {
		bonus = relevanceCap
	}
	return bonus
}

func (a *Aggregator) watchMatch(e *models.ClassifiedEvent) bool {
	text := strings.ToLower(e.Text)
	for _, w := range a.watchlist {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

func (a *Aggregator) affectsHomeMarket(e *models.ClassifiedEvent) bool {
	if a.homeMarket == "" {
		return false
	}
	for _, m := range e.MarketsAffected {
		if strings.EqualFold(strings.TrimPrefix(m, "region:"), a.homeMarket) {
			return true
		}
	}
	return strings.Contains(strings.ToLower(e.Text), a.homeMarket)
}

// Level maps a final score onto the priority bands (highest band first).
func (a *Aggregator) Level(score float64) models.PriorityLevel {
	for _, b := range a.bands {
		if score >= b.Min {
			return models.PriorityLevel(b.Level)
		}
	}
	return models.PriorityNoise
}
