package models

import "time"

// Channel identifies the ingestion channel a signal arrived on.
type Channel string

const (
	ChannelNews         Channel = "news"
	ChannelSocial       Channel = "social"
	ChannelCalendar     Channel = "calendar"
	ChannelGeopolitical Channel = "geopolitical"
)

// Category is the primary classification of an event.
type Category string

const (
	CategoryMonetaryPolicy  Category = "MONETARY_POLICY"
	CategoryMacroData       Category = "MACRO_DATA"
	CategoryGeopolitical    Category = "GEOPOLITICAL"
	CategoryCorporate       Category = "CORPORATE"
	CategoryMarketStructure Category = "MARKET_STRUCTURE"
	CategoryRegulatory      Category = "REGULATORY"
)

// PriorityLevel is the alerting tier derived from the final score.
type PriorityLevel string

const (
	PriorityCritical PriorityLevel = "CRITICAL"
	PriorityHigh     PriorityLevel = "HIGH"
	PriorityMedium   PriorityLevel = "MEDIUM"
	PriorityLow      PriorityLevel = "LOW"
	PriorityNoise    PriorityLevel = "NOISE"
)

// RawSignal is a single fetched item as delivered by an ingestion source.
// Consumed exactly once by the normalizer; never retained.
type RawSignal struct {
	Channel    Channel  `json:"channel" validate:"required,oneof=news social calendar geopolitical"`
	Source     string   `json:"source" validate:"required"`
	Text       string   `json:"text"`
	Timestamp  string   `json:"timestamp"` // RFC3339 or unix seconds
	Verified   bool     `json:"verified"`
	Engagement int64    `json:"engagement,omitempty"`
	Actual     *float64 `json:"actual,omitempty"`
	Consensus  *float64 `json:"consensus,omitempty"`
	Previous   *float64 `json:"previous,omitempty"`
	// Indicator names the calendar series (gdp, cpi, ...) when Channel is calendar.
	Indicator string `json:"indicator,omitempty"`
	// SentimentBase is an optional model-supplied sentiment score in [-1,1],
	// annotated by an upstream collaborator before the pipeline runs.
	SentimentBase *float64 `json:"sentiment_base,omitempty"`
}

// NormalizedEvent is a validated, cleaned signal with a stable identity.
// Fields set here are immutable for the rest of the pipeline.
type NormalizedEvent struct {
	ID          string    `json:"id"`
	Channel     Channel   `json:"channel"`
	Source      string    `json:"source"`
	Text        string    `json:"text"`
	Timestamp   time.Time `json:"timestamp"` // always UTC
	Verified    bool      `json:"verified"`
	Engagement  int64     `json:"engagement,omitempty"`
	BaseTier    float64   `json:"base_tier"` // source credibility tier in [0,1]
	Actual      *float64  `json:"actual,omitempty"`
	Consensus   *float64  `json:"consensus,omitempty"`
	Previous    *float64  `json:"previous,omitempty"`
	Indicator   string    `json:"indicator,omitempty"`
	SentimentIn *float64  `json:"-"`
}

// CategoryMatch is one taxonomy hit, retained for audit when an event
// matches more than one category.
type CategoryMatch struct {
	Category   Category `json:"category"`
	Confidence float64  `json:"confidence"`
	Keywords   []string `json:"keywords,omitempty"`
	Entities   []string `json:"entities,omitempty"`
}

// ClassifiedEvent extends NormalizedEvent with taxonomy results.
type ClassifiedEvent struct {
	NormalizedEvent

	Category        Category        `json:"category"`
	Subtype         string          `json:"subtype,omitempty"`
	Confidence      float64         `json:"confidence"`
	BaseImpact      float64         `json:"base_impact"`
	MarketsAffected []string        `json:"markets_affected,omitempty"`
	Secondary       []CategoryMatch `json:"secondary,omitempty"`
	RateDecision    *RateDecision   `json:"rate_decision,omitempty"`
}

// Sentiment is the rule-adjusted sentiment annotation. It rides along for
// display and audit; it does not feed the final score.
type Sentiment struct {
	Score        float64 `json:"score"`
	Label        string  `json:"label"`
	BullishHits  int     `json:"bullish_hits"`
	BearishHits  int     `json:"bearish_hits"`
	UrgencyHits  int     `json:"urgency_hits"`
	Adjustment   float64 `json:"adjustment"`
}

// ScoredEvent is the finished pipeline product for one event.
// Created once by the aggregator and never mutated afterward.
type ScoredEvent struct {
	ClassifiedEvent

	ImpactScore      float64       `json:"impact_score"`      // [0,10]
	UrgencyScore     float64       `json:"urgency_score"`     // [0,10]
	CredibilityScore float64       `json:"credibility_score"` // [0,10]
	RelevanceBonus   float64       `json:"relevance_bonus"`   // [0,20]
	FinalScore       float64       `json:"final_score"`       // [0,100]
	Priority         PriorityLevel `json:"priority"`

	Credibility          float64 `json:"credibility"` // weighed, [0,1]
	RequiresVerification bool    `json:"requires_verification"`
	SurpriseFactor       float64 `json:"surprise_factor"` // [1,2]

	Direction   int        `json:"direction"` // {-2..2} qualitative macro read
	Implication string     `json:"implication,omitempty"`
	Sentiment   *Sentiment `json:"sentiment,omitempty"`
}

// DedupCluster groups near-duplicate events for the span of one batch.
// Only the representative survives routing; suppressed ids are kept for audit.
type DedupCluster struct {
	Representative *ScoredEvent `json:"representative"`
	Suppressed     []string     `json:"suppressed,omitempty"`
}
