package normalize

import (
	"testing"
	"time"

	"MarketSentinel/internal/domain/models"
	"MarketSentinel/pkg/config"
)

func testNormalizer() *Normalizer {
	tables := config.DefaultTables()
	now := time.Date(2025, 3, 3, 12, 0, 0, 0, time.UTC)
	return New(&tables, 2*time.Minute, WithNow(func() time.Time { return now }))
}

func TestNormalizeValid(t *testing.T) {
	n := testNormalizer()
	ne, err := n.Normalize(&models.RawSignal{
		Channel:   models.ChannelNews,
		Source:    "Reuters",
		Text:      "<b>RBI cuts repo rate</b>&nbsp;by 50 bps",
		Timestamp: "2025-03-03T11:30:00Z",
		Verified:  true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ne.Text != "RBI cuts repo rate by 50 bps" {
		t.Fatalf("unexpected text %q", ne.Text)
	}
	if ne.Source != "reuters" {
		t.Fatalf("unexpected source %q", ne.Source)
	}
	if ne.BaseTier != 0.95 {
		t.Fatalf("unexpected tier %v", ne.BaseTier)
	}
	if ne.Timestamp.Location() != time.UTC {
		t.Fatalf("timestamp not UTC")
	}
	if ne.ID == "" {
		t.Fatalf("expected event id")
	}
}

func TestNormalizeStableID(t *testing.T) {
	n := testNormalizer()
	s := &models.RawSignal{
		Channel:   models.ChannelNews,
		Source:    "reuters",
		Text:      "RBI cuts repo rate",
		Timestamp: "2025-03-03T11:30:00Z",
	}
	a, err := n.Normalize(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := n.Normalize(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.ID != b.ID {
		t.Fatalf("id not stable: %s vs %s", a.ID, b.ID)
	}
}

func TestNormalizeEmptyTextAfterCleanup(t *testing.T) {
	n := testNormalizer()
	_, err := n.Normalize(&models.RawSignal{
		Channel:   models.ChannelSocial,
		Source:    "twitter",
		Text:      "<div>&nbsp;</div>",
		Timestamp: "2025-03-03T11:30:00Z",
	})
	if err == nil {
		t.Fatalf("expected error for empty text")
	}
}

func TestNormalizeFutureTimestamp(t *testing.T) {
	n := testNormalizer()
	_, err := n.Normalize(&models.RawSignal{
		Channel:   models.ChannelNews,
		Source:    "reuters",
		Text:      "something happened",
		Timestamp: "2025-03-03T12:05:00Z", // beyond the 2m skew
	})
	if err == nil {
		t.Fatalf("expected error for future timestamp")
	}
}

func TestNormalizeWithinClockSkew(t *testing.T) {
	n := testNormalizer()
	_, err := n.Normalize(&models.RawSignal{
		Channel:   models.ChannelNews,
		Source:    "reuters",
		Text:      "something happened",
		Timestamp: "2025-03-03T12:01:00Z",
	})
	if err != nil {
		t.Fatalf("timestamp within skew rejected: %v", err)
	}
}

func TestNormalizeUnknownSourceTier(t *testing.T) {
	n := testNormalizer()
	ne, err := n.Normalize(&models.RawSignal{
		Channel:   models.ChannelSocial,
		Source:    "some-blog",
		Text:      "markets are moving",
		Timestamp: "2025-03-03T11:00:00Z",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ne.BaseTier != 0.3 {
		t.Fatalf("expected default tier 0.3, got %v", ne.BaseTier)
	}
}

func TestNormalizeUnparseableTimestamp(t *testing.T) {
	n := testNormalizer()
	_, err := n.Normalize(&models.RawSignal{
		Channel:   models.ChannelNews,
		Source:    "reuters",
		Text:      "something happened",
		Timestamp: "yesterday-ish",
	})
	if err == nil {
		t.Fatalf("expected error for unparseable timestamp")
	}
}

func TestCleanText(t *testing.T) {
	cases := []struct{ in, want string }{
		{"<p>hello   world</p>", "hello world"},
		{"a&amp;b", "a b"},
		{"  spaced\t\nout  ", "spaced out"},
	}
	for _, c := range cases {
		if got := CleanText(c.in); got != c.want {
			t.Fatalf("CleanText(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
