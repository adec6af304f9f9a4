package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"MarketSentinel/internal/domain/models"
	drepo "MarketSentinel/internal/domain/repository"
)

// KafkaSignalsHandler feeds raw signals arriving over Kafka into the intake.
// Decode failures are returned so the consumer can retry and eventually dead
// letter the message.
type KafkaSignalsHandler struct {
	topic   string
	intake  *SignalIntake
	metrics drepo.Metrics
}

func NewKafkaSignalsHandler(topic string, intake *SignalIntake, metrics drepo.Metrics) *KafkaSignalsHandler {
	return &KafkaSignalsHandler{topic: topic, intake: intake, metrics: metrics}
}

func (h *KafkaSignalsHandler) Topic() string { return h.topic }

func (h *KafkaSignalsHandler) Handle(_ context.Context, data []byte) error {
	var s models.RawSignal
	if err := json.Unmarshal(data, &s); err != nil {
		h.metrics.RecordError("kafka_decode")
		return fmt.Errorf("decode raw signal: %w", err)
	}
	if !h.intake.Add(&s) {
		// rate-shed signals are acknowledged, not retried
		return nil
	}
	h.metrics.RecordEvent("ingest_kafka", string(s.Channel))
	return nil
}
