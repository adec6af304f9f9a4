package normalize

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
	"time"

	"MarketSentinel/internal/domain/models"
	"MarketSentinel/pkg/config"
	"MarketSentinel/pkg/util"
)

// ValidationError rejects a single signal; the batch continues without it.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid signal: %s %s", e.Field, e.Reason)
}

var (
	tagRe    = regexp.MustCompile(`<[^>]*>`)
	entityRe = regexp.MustCompile(`&[a-zA-Z#0-9]+;`)
	spaceRe  = regexp.MustCompile(`\s+`)
)

// Normalizer turns RawSignals into NormalizedEvents. It is a pure
// transformation; the tier table is read-only after construction.
type Normalizer struct {
	tiers       map[string]float64
	defaultTier float64
	clockSkew   time.Duration
	now         func() time.Time
}

type Option func(*Normalizer)

// WithNow overrides the clock, for tests.
func WithNow(now func() time.Time) Option {
	return func(n *Normalizer) { n.now = now }
}

func New(tables *config.Tables, clockSkew time.Duration, opts ...Option) *Normalizer {
	n := &Normalizer{
		tiers:       tables.SourceTiers,
		defaultTier: tables.DefaultTier,
		clockSkew:   clockSkew,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize validates and cleans one signal.
func (n *Normalizer) Normalize(s *models.RawSignal) (*models.NormalizedEvent, error) {
	if s == nil {
		return nil, &ValidationError{Field: "signal", Reason: "is nil"}
	}

	text := CleanText(s.Text)
	if text == "" {
		return nil, &ValidationError{Field: "text", Reason: "is empty"}
	}

	ts, ok := util.ParseTime(s.Timestamp)
	if !ok {
		return nil, &ValidationError{Field: "timestamp", Reason: "does not parse"}
	}
	ts = ts.UTC()
	if ts.After(n.now().UTC().Add(n.clockSkew)) {
		return nil, &ValidationError{Field: "timestamp", Reason: "is in the future"}
	}

	source := strings.ToLower(strings.TrimSpace(s.Source))
	if source == "" {
		return nil, &ValidationError{Field: "source", Reason: "is empty"}
	}

	// Unknown sources are not an error; they fall back to the default tier.
	tier, ok := n.tiers[source]
	if !ok {
		tier = n.defaultTier
	}

	return &models.NormalizedEvent{
		ID:          EventID(source, text),
		Channel:     s.Channel,
		Source:      source,
		Text:        text,
		Timestamp:   ts,
		Verified:    s.Verified,
		Engagement:  s.Engagement,
		BaseTier:    tier,
		Actual:      s.Actual,
		Consensus:   s.Consensus,
		Previous:    s.Previous,
		Indicator:   strings.ToLower(s.Indicator),
		SentimentIn: s.SentimentBase,
	}, nil
}

// CleanText strips markup and collapses whitespace.
func CleanText(s string) string {
	s = tagRe.ReplaceAllString(s, " ")
	s = entityRe.ReplaceAllString(s, " ")
	s = spaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// EventID derives the stable event identity from source and cleaned text.
func EventID(source, text string) string {
	h := sha1.Sum([]byte(source + "|" + text))
	return hex.EncodeToString(h[:])
}
