// Package enrich merges per-candidate aggregate statistics into search candidates.
package enrich

import (
	"context"
	"fmt"

	"github.com/MarcosHerrera95/buscapro/internal/models"
	"github.com/MarcosHerrera95/buscapro/pkg/utils"
)

// StatsSource provides batched aggregate lookups keyed by candidate id.
type StatsSource interface {
	BatchRatings(ctx context.Context, ids []int64) (map[int64][]float64, error)
	BatchCompletedCounts(ctx context.Context, ids []int64) (map[int64]int, error)
}

// Enricher computes derived reputation stats for a candidate set.
type Enricher struct {
	stats StatsSource
}

// NewEnricher creates an enricher reading from stats.
func NewEnricher(stats StatsSource) *Enricher {
	return &Enricher{stats: stats}
}

// Enrich annotates candidates with average rating, review count, and
// completed-job count. It issues exactly two batched calls over the id set,
// never one round-trip per candidate.
func (e *Enricher) Enrich(ctx context.Context, candidates []models.Candidate) ([]models.EnrichedCandidate, error) {
	enriched := make([]models.EnrichedCandidate, 0, len(candidates))
	if len(candidates) == 0 {
		return enriched, nil
	}

	ids := make([]int64, len(candidates))
	for i, c := range candidates {
		ids[i] = c.ID
	}

	ratings, err := e.stats.BatchRatings(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("batch ratings: %w", err)
	}
	completed, err := e.stats.BatchCompletedCounts(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("batch completed counts: %w", err)
	}

	for _, c := range candidates {
		ec := models.EnrichedCandidate{
			Candidate:     c,
			CompletedJobs: completed[c.ID],
		}
		if rs := ratings[c.ID]; len(rs) > 0 {
			var sum float64
			for _, r := range rs {
				sum += r
			}
			ec.AvgRating = utils.Round1(sum / float64(len(rs)))
			ec.ReviewCount = len(rs)
		}
		enriched = append(enriched, ec)
	}
	return enriched, nil
}
