package dedup

import (
	"sort"
	"time"

	"MarketSentinel/internal/domain/models"
)

// Deduplicator collapses near-duplicate events inside one batch window.
type Deduplicator struct {
	window    time.Duration
	threshold float64
}

func New(window time.Duration, threshold float64) *Deduplicator {
	if window <= 0 {
		window = 5 * time.Minute
	}
	if threshold <= 0 || threshold > 1 {
		threshold = 0.70
	}
	return &Deduplicator{window: window, threshold: threshold}
}

// Dedup returns the surviving clusters, each holding one representative.
//
// The batch is sorted by credibility descending (earliest timestamp breaks
// ties), then scanned greedily: a candidate similar to an already-accepted
// representative within the window folds into that cluster, otherwise it
// opens a new one. The fixed sort makes the greedy pass deterministic; it
// keeps at most one representative per similarity cluster but makes no claim
// of globally optimal clustering.
func (d *Deduplicator) Dedup(batch []*models.ScoredEvent) []*models.DedupCluster {
	if len(batch) == 0 {
		return nil
	}

	sorted := make([]*models.ScoredEvent, len(batch))
	copy(sorted, batch)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Credibility != sorted[j].Credibility {
			return sorted[i].Credibility > sorted[j].Credibility
		}
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	var clusters []*models.DedupCluster
	for _, cand := range sorted {
		var owner *models.DedupCluster
		for _, cl := range clusters {
			rep := cl.Representative
			if !withinWindow(rep.Timestamp, cand.Timestamp, d.window) {
				continue
			}
			if Similarity(rep.Text, cand.Text) >= d.threshold {
				owner = cl
				break
			}
		}
		if owner != nil {
			owner.Suppressed = append(owner.Suppressed, cand.ID)
			continue
		}
		clusters = append(clusters, &models.DedupCluster{Representative: cand})
	}
	return clusters
}

// Representatives flattens clusters back to the surviving events.
func Representatives(clusters []*models.DedupCluster) []*models.ScoredEvent {
	out := make([]*models.ScoredEvent, 0, len(clusters))
	for _, cl := range clusters {
		out = append(out, cl.Representative)
	}
	return out
}

func withinWindow(a, b time.Time, w time.Duration) bool {
	delta := a.Sub(b)
	if delta < 0 {
		delta = -delta
	}
	return delta <= w
}
