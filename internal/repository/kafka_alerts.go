package repository

import (
	"context"

	"MarketSentinel/internal/domain/models"
	"MarketSentinel/internal/domain/repository"
	pkgkafka "MarketSentinel/pkg/kafka"
)

// alertEnvelope is the wire shape consumed by the notification dispatcher.
type alertEnvelope struct {
	EventID     string   `json:"event_id"`
	Priority    string   `json:"priority"`
	Sound       bool     `json:"sound"`
	Category    string   `json:"category"`
	Subtype     string   `json:"subtype,omitempty"`
	Source      string   `json:"source"`
	Text        string   `json:"text"`
	Timestamp   string   `json:"timestamp"`
	FinalScore  float64  `json:"final_score"`
	Direction   int      `json:"direction"`
	Implication string   `json:"implication,omitempty"`
	Markets     []string `json:"markets,omitempty"`
	Unverified  bool     `json:"unverified,omitempty"`
}

// KafkaAlerts implements AlertPublisher on the alerts topic. Messages are
// keyed by event id so replays of the same event land on the same partition.
type KafkaAlerts struct {
	producer *pkgkafka.Producer
	topic    string
}

func NewKafkaAlerts(producer *pkgkafka.Producer, topic string) repository.AlertPublisher {
	return &KafkaAlerts{producer: producer, topic: topic}
}

func envelope(e *models.ScoredEvent, d *models.RoutingDecision) alertEnvelope {
	return alertEnvelope{
		EventID:     e.ID,
		Priority:    string(e.Priority),
		Sound:       d.Sound,
		Category:    string(e.Category),
		Subtype:     e.Subtype,
		Source:      e.Source,
		Text:        e.Text,
		Timestamp:   e.Timestamp.Format("2006-01-02T15:04:05.000Z07:00"),
		FinalScore:  e.FinalScore,
		Direction:   e.Direction,
		Implication: e.Implication,
		Markets:     e.MarketsAffected,
		Unverified:  e.RequiresVerification,
	}
}

func (p *KafkaAlerts) Publish(ctx context.Context, e *models.ScoredEvent, d *models.RoutingDecision) error {
	return p.producer.Publish(ctx, p.topic, []byte(e.ID), envelope(e, d))
}

func (p *KafkaAlerts) PublishBatch(ctx context.Context, events []*models.ScoredEvent, decisions []*models.RoutingDecision) error {
	if len(events) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, len(events))
	for i, e := range events {
		msgs[i] = pkgkafka.Message{
			Key:   []byte(e.ID),
			Value: envelope(e, decisions[i]),
		}
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

func (p *KafkaAlerts) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
