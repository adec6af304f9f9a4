package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"MarketSentinel/internal/domain/models"
	"MarketSentinel/internal/domain/repository"
)

// ClickHouseHistory implements HistorySink on a MergeTree table. Rows expire
// server-side via a 7 day TTL; nothing ever updates a row in place.
type ClickHouseHistory struct {
	db    *sql.DB
	table string
}

func NewClickHouseHistory(db *sql.DB, table string) repository.HistorySink {
	if table == "" {
		table = "sentinel_events"
	}
	return &ClickHouseHistory{db: db, table: table}
}

// Schema returns the idempotent DDL for the events table.
func Schema(table string) []string {
	if table == "" {
		table = "sentinel_events"
	}
	return []string{fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id String,
		channel LowCardinality(String),
		source LowCardinality(String),
		text String,
		ts DateTime64(3, 'UTC'),
		verified UInt8,
		category LowCardinality(String),
		subtype LowCardinality(String),
		confidence Float64,
		impact_score Float64,
		urgency_score Float64,
		credibility_score Float64,
		relevance_bonus Float64,
		final_score Float64,
		priority LowCardinality(String),
		credibility Float64,
		requires_verification UInt8,
		surprise_factor Float64,
		direction Int8,
		implication String,
		sentiment_score Float64,
		sentiment_label LowCardinality(String),
		markets Array(String),
		notified UInt8,
		suppressed UInt8,
		ingested_at DateTime DEFAULT now()
	) ENGINE = MergeTree
	PARTITION BY toYYYYMMDD(ts)
	ORDER BY (ts, id)
	TTL toDateTime(ts) + INTERVAL 7 DAY`, table)}
}

func (s *ClickHouseHistory) Init(ctx context.Context) error {
	for _, stmt := range Schema(s.table) {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init history schema: %w", err)
		}
	}
	return nil
}

const historyColumns = "id, channel, source, text, ts, verified, category, subtype, confidence, " +
	"impact_score, urgency_score, credibility_score, relevance_bonus, final_score, priority, " +
	"credibility, requires_verification, surprise_factor, direction, implication, " +
	"sentiment_score, sentiment_label, markets, notified, suppressed"

func historyArgs(e *models.ScoredEvent, d *models.RoutingDecision) []interface{} {
	var sentScore float64
	var sentLabel string
	if e.Sentiment != nil {
		sentScore = e.Sentiment.Score
		sentLabel = e.Sentiment.Label
	}
	return []interface{}{
		e.ID,
		string(e.Channel),
		e.Source,
		e.Text,
		e.Timestamp,
		boolToUint8(e.Verified),
		string(e.Category),
		e.Subtype,
		e.Confidence,
		e.ImpactScore,
		e.UrgencyScore,
		e.CredibilityScore,
		e.RelevanceBonus,
		e.FinalScore,
		string(e.Priority),
		e.Credibility,
		boolToUint8(e.RequiresVerification),
		e.SurpriseFactor,
		int8(e.Direction),
		e.Implication,
		sentScore,
		sentLabel,
		e.MarketsAffected,
		boolToUint8(d.Notify),
		boolToUint8(d.Suppressed),
	}
}

func (s *ClickHouseHistory) Append(ctx context.Context, e *models.ScoredEvent, d *models.RoutingDecision) error {
	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		s.table, historyColumns, placeholders(25))
	_, err := s.db.ExecContext(ctx, q, historyArgs(e, d)...)
	return err
}

func (s *ClickHouseHistory) AppendBatch(ctx context.Context, events []*models.ScoredEvent, decisions []*models.RoutingDecision) error {
	if len(events) == 0 {
		return nil
	}
	if len(events) != len(decisions) {
		return fmt.Errorf("events/decisions length mismatch: %d vs %d", len(events), len(decisions))
	}

	// Multi-row VALUES keeps one round trip per chunk.
	const chunkSize = 1000
	for start := 0; start < len(events); start += chunkSize {
		end := start + chunkSize
		if end > len(events) {
			end = len(events)
		}

		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*25)
		for i := start; i < end; i++ {
			values = append(values, "("+placeholders(25)+")")
			args = append(args, historyArgs(events[i], decisions[i])...)
		}
		q := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
			s.table, historyColumns, strings.Join(values, ","))
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			return err
		}
	}
	return nil
}

func (s *ClickHouseHistory) Recent(ctx context.Context, since time.Time, limit int, category string, minScore float64) ([]*models.ScoredEvent, error) {
	var sb strings.Builder
	args := []interface{}{since}
	fmt.Fprintf(&sb,
		"SELECT %s FROM %s WHERE ts >= ? AND suppressed = 0", historyColumns, s.table)
	if category != "" {
		sb.WriteString(" AND category = ?")
		args = append(args, category)
	}
	if minScore > 0 {
		sb.WriteString(" AND final_score >= ?")
		args = append(args, minScore)
	}
	sb.WriteString(" ORDER BY final_score DESC, ts DESC LIMIT ?")
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.ScoredEvent
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *ClickHouseHistory) Counts(ctx context.Context, since time.Time) (*models.EventCounts, error) {
	counts := &models.EventCounts{
		ByCategory: make(map[string]int64),
		ByPriority: make(map[string]int64),
	}

	q := fmt.Sprintf(
		"SELECT category, priority, count() FROM %s WHERE ts >= ? GROUP BY category, priority", s.table)
	rows, err := s.db.QueryContext(ctx, q, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var category, priority string
		var n uint64
		if err := rows.Scan(&category, &priority, &n); err != nil {
			return nil, err
		}
		counts.Total += int64(n)
		counts.ByCategory[category] += int64(n)
		counts.ByPriority[priority] += int64(n)
	}
	return counts, rows.Err()
}

func (s *ClickHouseHistory) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *ClickHouseHistory) Close() error {
	return nil // pool lifecycle owned by pkg/clickhouse
}

func scanEvent(rows *sql.Rows) (*models.ScoredEvent, error) {
	var e models.ScoredEvent
	var channel, category, priority string
	var verified, requiresVerification, notified, suppressed uint8
	var direction int8
	var sentScore float64
	var sentLabel string
	var markets []string

	if err := rows.Scan(
		&e.ID, &channel, &e.Source, &e.Text, &e.Timestamp, &verified,
		&category, &e.Subtype, &e.Confidence,
		&e.ImpactScore, &e.UrgencyScore, &e.CredibilityScore, &e.RelevanceBonus,
		&e.FinalScore, &priority,
		&e.Credibility, &requiresVerification, &e.SurpriseFactor,
		&direction, &e.Implication,
		&sentScore, &sentLabel, &markets, &notified, &suppressed,
	); err != nil {
		return nil, err
	}

	e.Channel = models.Channel(channel)
	e.Category = models.Category(category)
	e.Priority = models.PriorityLevel(priority)
	e.Verified = verified == 1
	e.RequiresVerification = requiresVerification == 1
	e.Direction = int(direction)
	e.MarketsAffected = markets
	if sentLabel != "" {
		e.Sentiment = &models.Sentiment{Score: sentScore, Label: sentLabel}
	}
	return &e, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func boolToUint8(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
