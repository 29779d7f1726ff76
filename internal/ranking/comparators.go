// Package ranking orders enriched candidates under a fixed multi-key
// tie-break chain.
package ranking

import (
	"golang.org/x/text/collate"

	"github.com/MarcosHerrera95/buscapro/internal/models"
)

// Comparator is a single ordering criterion. It returns a negative value
// when a sorts before b, positive when b sorts first, and 0 on a tie, which
// hands the decision to the next comparator in the chain.
type Comparator struct {
	Name    string
	Compare func(a, b *models.EnrichedCandidate) int
}

// ByDistanceAsc sorts nearer candidates first. Candidates without a computed
// distance sort last.
var ByDistanceAsc = Comparator{
	Name: "distance_asc",
	Compare: func(a, b *models.EnrichedCandidate) int {
		switch {
		case a.DistanceKm == nil && b.DistanceKm == nil:
			return 0
		case a.DistanceKm == nil:
			return 1
		case b.DistanceKm == nil:
			return -1
		case *a.DistanceKm < *b.DistanceKm:
			return -1
		case *a.DistanceKm > *b.DistanceKm:
			return 1
		}
		return 0
	},
}

// ByRatingDesc sorts higher-rated candidates first.
var ByRatingDesc = Comparator{
	Name: "rating_desc",
	Compare: func(a, b *models.EnrichedCandidate) int {
		switch {
		case a.AvgRating > b.AvgRating:
			return -1
		case a.AvgRating < b.AvgRating:
			return 1
		}
		return 0
	},
}

// ByVerifiedFirst sorts verified candidates before unverified ones.
var ByVerifiedFirst = Comparator{
	Name: "verified_first",
	Compare: func(a, b *models.EnrichedCandidate) int {
		switch {
		case a.Verified && !b.Verified:
			return -1
		case !a.Verified && b.Verified:
			return 1
		}
		return 0
	},
}

// ByCompletedJobsDesc sorts candidates with more completed jobs first.
var ByCompletedJobsDesc = Comparator{
	Name: "completed_jobs_desc",
	Compare: func(a, b *models.EnrichedCandidate) int {
		switch {
		case a.CompletedJobs > b.CompletedJobs:
			return -1
		case a.CompletedJobs < b.CompletedJobs:
			return 1
		}
		return 0
	},
}

// ByNameAsc sorts by display name under the given collator, making the chain
// fully deterministic.
func ByNameAsc(col *collate.Collator) Comparator {
	return Comparator{
		Name: "name_asc",
		Compare: func(a, b *models.EnrichedCandidate) int {
			return col.CompareString(a.DisplayName, b.DisplayName)
		},
	}
}

// Chain combines comparators into one: the first non-zero criterion wins.
func Chain(comparators ...Comparator) func(a, b *models.EnrichedCandidate) int {
	return func(a, b *models.EnrichedCandidate) int {
		for _, c := range comparators {
			if v := c.Compare(a, b); v != 0 {
				return v
			}
		}
		return 0
	}
}
