// Package store defines the persistence interface for candidate retrieval
// and aggregate statistics.
package store

import (
	"context"

	"github.com/MarcosHerrera95/buscapro/internal/models"
)

// Store defines the queries the search pipeline issues against the
// persistent record store. Every filter expressible as an equality, range,
// or substring predicate is pushed down here; distance filtering is not (it
// is computed in-process from per-candidate coordinates).
type Store interface {
	// FindCandidates returns one page of candidates matching the query's
	// pushed-down predicates.
	FindCandidates(ctx context.Context, q *models.SearchQuery, skip, take int) ([]models.Candidate, error)

	// CountCandidates returns the total match count for the same predicates,
	// independent of the page window.
	CountCandidates(ctx context.Context, q *models.SearchQuery) (int, error)

	// BatchRatings returns all non-null review ratings grouped by candidate
	// for the given id set, in one round-trip.
	BatchRatings(ctx context.Context, ids []int64) (map[int64][]float64, error)

	// BatchCompletedCounts returns the completed-job count per candidate for
	// the given id set, in one round-trip. Absent ids have no entry.
	BatchCompletedCounts(ctx context.Context, ids []int64) (map[int64]int, error)

	// SuggestSpecialties returns specialties whose name matches the prefix.
	SuggestSpecialties(ctx context.Context, prefix string, limit int) ([]models.Suggestion, error)

	Close()
}
