package config

import "fmt"

// Tables holds the declarative rule tables the pipeline is driven by.
// They are loaded once at startup and must be treated as read-only afterward.
type Tables struct {
	Taxonomy     []TaxonomyRule     `yaml:"taxonomy"`
	SourceTiers  map[string]float64 `yaml:"source_tiers"`
	DefaultTier  float64            `yaml:"default_tier" default:"0.3"`
	Banks        []BankRule         `yaml:"banks"`
	RateActions  RateActionWords    `yaml:"rate_actions"`
	Priority     []PriorityBand     `yaml:"priority"`
	Sessions     SessionTable       `yaml:"sessions"`
	Indicators   map[string]Indicator `yaml:"indicators"`
	Hedging      []string           `yaml:"hedging"`
	Confirmation []string           `yaml:"confirmation"`
	Sentiment    SentimentWords     `yaml:"sentiment"`
}

// TaxonomyRule maps one category to its matching sets and defaults.
// Slice order is the tie-break when two categories reach equal confidence.
type TaxonomyRule struct {
	Category   string   `yaml:"category"`
	Keywords   []string `yaml:"keywords"`
	Entities   []string `yaml:"entities"`
	BaseImpact float64  `yaml:"base_impact"` // [0,10]
	Markets    []string `yaml:"markets"`
}

// BankRule identifies one central bank. Slice order is the tie-break when a
// text mentions several banks: the first configured match wins.
type BankRule struct {
	Bank        string   `yaml:"bank"`
	Names       []string `yaml:"names"`
	Currencies  []string `yaml:"currencies"`
	RatePattern string   `yaml:"rate_pattern"` // per-bank numeric pattern, regexp
	ImpliedBps  *int     `yaml:"implied_bps,omitempty"`
	ImpliedRate *float64 `yaml:"implied_rate,omitempty"`
}

// RateActionWords are the keyword sets for the action buckets. The evaluation
// order is fixed in code (emergency > hike > cut > hold), not configurable.
type RateActionWords struct {
	Emergency []string `yaml:"emergency"`
	Hike      []string `yaml:"hike"`
	Cut       []string `yaml:"cut"`
	Hold      []string `yaml:"hold"`
}

// PriorityBand maps a minimum final score to an alerting tier. Bands are
// evaluated highest-first; together they partition [0,100].
type PriorityBand struct {
	Level string  `yaml:"level"`
	Min   float64 `yaml:"min"`
}

// SessionTable drives the time-sensitivity weight of urgency scoring.
// Hours are in the exchange timezone.
type SessionTable struct {
	Timezone        string  `yaml:"timezone" default:"Asia/Kolkata"`
	PreMarketStart  int     `yaml:"pre_market_start" default:"7"`
	MarketOpen      int     `yaml:"market_open" default:"9"`
	MarketClose     int     `yaml:"market_close" default:"15"`
	PostMarketEnd   int     `yaml:"post_market_end" default:"18"`
	PreMarketWeight float64 `yaml:"pre_market_weight" default:"10"`
	OpenWeight      float64 `yaml:"open_weight" default:"9"`
	PostWeight      float64 `yaml:"post_weight" default:"6"`
	ClosedWeight    float64 `yaml:"closed_weight" default:"4"`
	HalfLife        string  `yaml:"half_life" default:"30m"`
}

// Indicator describes one calendar series used by the surprise scorer.
type Indicator struct {
	HigherIsBetter bool    `yaml:"higher_is_better"`
	Std            float64 `yaml:"std"` // historical standard deviation of surprises
}

// SentimentWords are the keyword lists for the rule-based sentiment layer.
type SentimentWords struct {
	Bullish []string `yaml:"bullish"`
	Bearish []string `yaml:"bearish"`
	Urgency []string `yaml:"urgency"`
}

// Validate checks table invariants.
func (t *Tables) Validate() error {
	if len(t.Taxonomy) == 0 {
		return fmt.Errorf("taxonomy is empty")
	}
	for _, r := range t.Taxonomy {
		if r.Category == "" {
			return fmt.Errorf("taxonomy rule without category")
		}
		if r.BaseImpact < 0 || r.BaseImpact > 10 {
			return fmt.Errorf("taxonomy %s: base_impact %v out of [0,10]", r.Category, r.BaseImpact)
		}
	}
	if t.DefaultTier < 0 || t.DefaultTier > 1 {
		return fmt.Errorf("default_tier %v out of [0,1]", t.DefaultTier)
	}
	for src, tier := range t.SourceTiers {
		if tier < 0 || tier > 1 {
			return fmt.Errorf("source %s: tier %v out of [0,1]", src, tier)
		}
	}
	if len(t.Priority) == 0 {
		return fmt.Errorf("priority bands are empty")
	}
	prev := 101.0
	for _, b := range t.Priority {
		if b.Min < 0 || b.Min >= prev {
			return fmt.Errorf("priority bands must be strictly descending and non-negative")
		}
		prev = b.Min
	}
	if t.Priority[len(t.Priority)-1].Min != 0 {
		return fmt.Errorf("lowest priority band must start at 0")
	}
	return nil
}

// fillDefaults substitutes the built-in table set for any section the YAML
// file leaves empty.
func (t *Tables) fillDefaults() {
	def := DefaultTables()
	if len(t.Taxonomy) == 0 {
		t.Taxonomy = def.Taxonomy
	}
	if len(t.SourceTiers) == 0 {
		t.SourceTiers = def.SourceTiers
	}
	if t.DefaultTier == 0 {
		t.DefaultTier = def.DefaultTier
	}
	if len(t.Banks) == 0 {
		t.Banks = def.Banks
	}
	if len(t.RateActions.Hike) == 0 {
		t.RateActions = def.RateActions
	}
	if len(t.Priority) == 0 {
		t.Priority = def.Priority
	}
	if t.Sessions.Timezone == "" {
		t.Sessions = def.Sessions
	}
	if len(t.Indicators) == 0 {
		t.Indicators = def.Indicators
	}
	if len(t.Hedging) == 0 {
		t.Hedging = def.Hedging
	}
	if len(t.Confirmation) == 0 {
		t.Confirmation = def.Confirmation
	}
	if len(t.Sentiment.Bullish) == 0 {
		t.Sentiment = def.Sentiment
	}
}

// DefaultTables returns the built-in rule set.
func DefaultTables() Tables {
	i := func(v int) *int { return &v }
	f := func(v float64) *float64 { return &v }
	return Tables{
		Taxonomy: []TaxonomyRule{
			{
				Category: "MONETARY_POLICY",
				Keywords: []string{"rate cut", "rate hike", "repo rate", "interest rate",
					"monetary policy", "basis points", "bps", "policy decision", "rate decision"},
				Entities:   []string{"rbi", "fed", "fomc", "ecb", "boe", "boj", "mpc", "federal reserve"},
				BaseImpact: 9.0,
				Markets:    []string{"rates", "fx", "equities", "bonds"},
			},
			{
				Category: "MACRO_DATA",
				Keywords: []string{"gdp", "cpi", "inflation", "pmi", "iip", "employment",
					"jobs report", "nonfarm", "trade deficit", "current account", "retail sales"},
				Entities:   []string{"bls", "mospi", "eurostat", "census bureau"},
				BaseImpact: 7.5,
				Markets:    []string{"equities", "bonds", "fx"},
			},
			{
				Category: "GEOPOLITICAL",
				Keywords: []string{"war", "conflict", "sanctions", "military", "attack",
					"missile", "troops", "invasion", "embargo", "tariff", "escalation"},
				Entities:   []string{"taiwan", "china", "russia", "ukraine", "iran", "israel", "north korea", "red sea"},
				BaseImpact: 8.5,
				Markets:    []string{"commodities", "fx", "equities"},
			},
			{
				Category: "MARKET_STRUCTURE",
				Keywords: []string{"crash", "rally", "surge", "plunge", "circuit breaker",
					"all-time high", "record", "selloff", "correction", "halt"},
				Entities:   []string{"nifty", "sensex", "s&p", "nasdaq", "dow"},
				BaseImpact: 7.0,
				Markets:    []string{"equities"},
			},
			{
				Category: "CORPORATE",
				Keywords: []string{"earnings", "quarterly results", "profit", "revenue",
					"guidance", "merger", "acquisition", "buyback", "dividend", "ipo"},
				Entities:   []string{"q1", "q2", "q3", "q4", "fy24", "fy25", "fy26"},
				BaseImpact: 5.0,
				Markets:    []string{"equities"},
			},
			{
				Category: "REGULATORY",
				Keywords: []string{"regulation", "compliance", "tax", "gst",
					"policy change", "amendment", "notification", "circular", "probe"},
				Entities:   []string{"sebi", "sec", "cci", "irdai", "finance ministry"},
				BaseImpact: 6.0,
				Markets:    []string{"equities", "banking"},
			},
		},
		SourceTiers: map[string]float64{
			"reuters":        0.95,
			"bloomberg":      0.95,
			"rbi_press":      1.0,
			"pib":            0.9,
			"economic_times": 0.8,
			"moneycontrol":   0.8,
			"livemint":       0.8,
			"cnbc":           0.75,
			"firstsquawk":    0.6,
			"deltaone":       0.6,
			"twitter":        0.4,
			"reddit":         0.25,
		},
		DefaultTier: 0.3,
		Banks: []BankRule{
			{
				Bank:        "RBI",
				Names:       []string{"rbi", "reserve bank of india", "mpc"},
				Currencies:  []string{"rupee", "inr"},
				RatePattern: `(?:repo rate|rate)\s+(?:to|at|of)?\s*(\d+(?:\.\d+)?)\s*%`,
				ImpliedBps:  i(0),
			},
			{
				Bank:        "FED",
				Names:       []string{"fed", "federal reserve", "fomc", "powell"},
				Currencies:  []string{"dollar", "usd"},
				RatePattern: `(?:funds rate|rate)\s+(?:to|at|of)?\s*(\d+(?:\.\d+)?)\s*%`,
				ImpliedBps:  i(0),
				ImpliedRate: f(5.25),
			},
			{
				Bank:        "ECB",
				Names:       []string{"ecb", "european central bank", "lagarde"},
				Currencies:  []string{"euro", "eur"},
				RatePattern: `rate\s+(?:to|at|of)?\s*(\d+(?:\.\d+)?)\s*%`,
				ImpliedBps:  i(0),
			},
			{
				Bank:        "BOE",
				Names:       []string{"boe", "bank of england"},
				Currencies:  []string{"pound", "sterling", "gbp"},
				RatePattern: `rate\s+(?:to|at|of)?\s*(\d+(?:\.\d+)?)\s*%`,
				ImpliedBps:  i(0),
			},
			{
				Bank:        "BOJ",
				Names:       []string{"boj", "bank of japan"},
				Currencies:  []string{"yen", "jpy"},
				RatePattern: `rate\s+(?:to|at|of)?\s*(-?\d+(?:\.\d+)?)\s*%`,
				ImpliedBps:  i(0),
			},
		},
		RateActions: RateActionWords{
			Emergency: []string{"emergency", "unscheduled", "intermeeting", "surprise move"},
			Hike:      []string{"hike", "raise", "raises", "increase", "tightening", "higher"},
			Cut:       []string{"cut", "cuts", "lower", "lowers", "reduce", "reduction", "easing"},
			Hold:      []string{"hold", "holds", "unchanged", "maintain", "steady", "pause"},
		},
		Priority: []PriorityBand{
			{Level: "CRITICAL", Min: 80},
			{Level: "HIGH", Min: 60},
			{Level: "MEDIUM", Min: 40},
			{Level: "LOW", Min: 20},
			{Level: "NOISE", Min: 0},
		},
		Sessions: SessionTable{
			Timezone:        "Asia/Kolkata",
			PreMarketStart:  7,
			MarketOpen:      9,
			MarketClose:     15,
			PostMarketEnd:   18,
			PreMarketWeight: 10,
			OpenWeight:      9,
			PostWeight:      6,
			ClosedWeight:    4,
			HalfLife:        "30m",
		},
		Indicators: map[string]Indicator{
			"gdp":        {HigherIsBetter: true, Std: 0.4},
			"pmi":        {HigherIsBetter: true, Std: 1.8},
			"iip":        {HigherIsBetter: true, Std: 1.2},
			"employment": {HigherIsBetter: true, Std: 60},
			"nonfarm":    {HigherIsBetter: true, Std: 75},
			"cpi":        {HigherIsBetter: false, Std: 0.3},
			"inflation":  {HigherIsBetter: false, Std: 0.3},
		},
		Hedging: []string{"rumor", "rumour", "unconfirmed", "reportedly", "allegedly",
			"may", "might", "could", "sources say", "speculation"},
		Confirmation: []string{"confirmed", "official", "breaking", "press release",
			"announces", "statement"},
		Sentiment: SentimentWords{
			Bullish: []string{"rally", "surge", "breakout", "all-time high", "ath", "bullish",
				"accumulate", "upgrade", "beat", "outperform", "recovery", "gains"},
			Bearish: []string{"crash", "plunge", "breakdown", "selloff", "bearish", "capitulation",
				"downgrade", "miss", "warning", "crisis", "collapse", "losses", "weakness", "decline"},
			Urgency: []string{"breaking", "just in", "alert", "emergency", "flash", "urgent",
				"developing", "confirmed", "official"},
		},
	}
}
