package usecase

import (
	"errors"
	"time"

	"MarketSentinel/internal/domain/models"
	drepo "MarketSentinel/internal/domain/repository"
	"MarketSentinel/internal/services/classify"
	"MarketSentinel/internal/services/normalize"
	"MarketSentinel/internal/services/scoring"
	"MarketSentinel/internal/services/sentiment"
)

// EventProcessor runs the per-event stages: normalize, classify, weigh
// credibility, score. Each call is independent, so processors are safe to
// run concurrently on a worker pool.
type EventProcessor struct {
	normalizer *normalize.Normalizer
	classifier *classify.Classifier
	weigher    *scoring.Weigher
	surprise   *scoring.SurpriseScorer
	aggregator *scoring.Aggregator
	sentiment  *sentiment.Analyzer
	metrics    drepo.Metrics
}

func NewEventProcessor(
	normalizer *normalize.Normalizer,
	classifier *classify.Classifier,
	weigher *scoring.Weigher,
	surprise *scoring.SurpriseScorer,
	aggregator *scoring.Aggregator,
	sent *sentiment.Analyzer,
	metrics drepo.Metrics,
) *EventProcessor {
	return &EventProcessor{
		normalizer: normalizer,
		classifier: classifier,
		weigher:    weigher,
		surprise:   surprise,
		aggregator: aggregator,
		sentiment:  sent,
		metrics:    metrics,
	}
}

// Process turns one raw signal into a scored event. A ValidationError means
// the signal is skipped; an unclassified event is not an error and comes back
// as a NOISE-tier event with zero scores.
func (p *EventProcessor) Process(s *models.RawSignal) (*models.ScoredEvent, error) {
	start := time.Now()

	ne, err := p.normalizer.Normalize(s)
	if err != nil {
		p.metrics.RecordError("normalize")
		return nil, err
	}
	p.metrics.RecordEvent("normalize", string(ne.Channel))

	sent := p.sentiment.Annotate(ne)

	ce, err := p.classifier.Classify(ne)
	if errors.Is(err, classify.ErrUnclassified) {
		p.metrics.RecordEvent("unclassified", "")
		ev := &models.ScoredEvent{
			ClassifiedEvent: models.ClassifiedEvent{NormalizedEvent: *ne},
			Priority:        models.PriorityNoise,
			SurpriseFactor:  1.0,
			Sentiment:       sent,
		}
		return ev, nil
	}
	if err != nil {
		p.metrics.RecordError("classify")
		return nil, err
	}
	p.metrics.RecordEvent("classify", string(ce.Category))

	// Credibility is weighed strictly before scoring; the aggregated event is
	// immutable afterward.
	credibility, requiresVerification := p.weigher.Weigh(ne)

	surprise := p.surprise.Surprise(ce)
	impact := p.surprise.Impact(ce, surprise)

	ev := p.aggregator.Aggregate(ce, surprise, impact, credibility, requiresVerification)
	ev.Direction, ev.Implication = p.surprise.Direction(ce)
	ev.Sentiment = sent

	p.metrics.RecordEvent("score", string(ev.Priority))
	p.metrics.RecordLatency("process_event", time.Since(start).Seconds())
	return ev, nil
}
