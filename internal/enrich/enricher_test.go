package enrich

import (
	"context"
	"errors"
	"testing"

	"github.com/MarcosHerrera95/buscapro/internal/models"
)

type fakeStats struct {
	ratings                     map[int64][]float64
	completed                   map[int64]int
	ratingCalls, completedCalls int
	err                         error
}

func (f *fakeStats) BatchRatings(_ context.Context, ids []int64) (map[int64][]float64, error) {
	f.ratingCalls++
	return f.ratings, f.err
}

func (f *fakeStats) BatchCompletedCounts(_ context.Context, ids []int64) (map[int64]int, error) {
	f.completedCalls++
	return f.completed, f.err
}

func TestEnrich(t *testing.T) {
	stats := &fakeStats{
		ratings: map[int64][]float64{
			1: {5, 4, 4}, // avg 4.333 -> 4.3
			2: {3},
		},
		completed: map[int64]int{1: 12},
	}
	e := NewEnricher(stats)

	candidates := []models.Candidate{{ID: 1}, {ID: 2}, {ID: 3}}
	enriched, err := e.Enrich(context.Background(), candidates)
	if err != nil {
		t.Fatalf("Enrich() error = %v", err)
	}
	if len(enriched) != 3 {
		t.Fatalf("len = %d, want 3", len(enriched))
	}

	if enriched[0].AvgRating != 4.3 || enriched[0].ReviewCount != 3 || enriched[0].CompletedJobs != 12 {
		t.Errorf("candidate 1 = %+v", enriched[0])
	}
	if enriched[1].AvgRating != 3 || enriched[1].ReviewCount != 1 || enriched[1].CompletedJobs != 0 {
		t.Errorf("candidate 2 = %+v", enriched[1])
	}
	// no ratings, no completed jobs: zeros, not errors
	if enriched[2].AvgRating != 0 || enriched[2].ReviewCount != 0 || enriched[2].CompletedJobs != 0 {
		t.Errorf("candidate 3 = %+v", enriched[2])
	}
}

func TestEnrich_ExactlyTwoBatchCalls(t *testing.T) {
	stats := &fakeStats{}
	e := NewEnricher(stats)

	candidates := make([]models.Candidate, 50)
	for i := range candidates {
		candidates[i] = models.Candidate{ID: int64(i + 1)}
	}
	if _, err := e.Enrich(context.Background(), candidates); err != nil {
		t.Fatal(err)
	}
	if stats.ratingCalls != 1 || stats.completedCalls != 1 {
		t.Errorf("calls = %d ratings, %d completed; want 1 and 1",
			stats.ratingCalls, stats.completedCalls)
	}
}

func TestEnrich_EmptyInputSkipsBatches(t *testing.T) {
	stats := &fakeStats{}
	e := NewEnricher(stats)

	enriched, err := e.Enrich(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(enriched) != 0 {
		t.Errorf("len = %d, want 0", len(enriched))
	}
	if stats.ratingCalls != 0 || stats.completedCalls != 0 {
		t.Error("batches issued for empty candidate set")
	}
}

func TestEnrich_PropagatesUpstreamError(t *testing.T) {
	stats := &fakeStats{err: errors.New("connection reset")}
	e := NewEnricher(stats)

	if _, err := e.Enrich(context.Background(), []models.Candidate{{ID: 1}}); err == nil {
		t.Error("expected error")
	}
}
