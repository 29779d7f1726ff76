package ranking

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/MarcosHerrera95/buscapro/internal/models"
)

// Ranker applies the tie-break chain to enriched candidates.
type Ranker struct {
	tag language.Tag
}

// NewRanker creates a ranker whose name comparisons follow locale. Unknown
// locale tags fall back to the neutral collation rather than erroring.
func NewRanker(locale string) *Ranker {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Und
	}
	return &Ranker{tag: tag}
}

// Rank stable-sorts candidates under the chain:
// distance (only when sorting by distance with geo active), rating desc,
// verified first, completed jobs desc, display name asc. Deterministic for a
// fixed input set regardless of the store's native ordering.
func (r *Ranker) Rank(enriched []models.EnrichedCandidate, q *models.SearchQuery) []models.EnrichedCandidate {
	// A Collator is not safe for concurrent use, so each Rank builds its own.
	col := collate.New(r.tag)

	chain := make([]Comparator, 0, 5)
	if q.SortBy == models.SortByDistance && q.Geo != nil {
		chain = append(chain, ByDistanceAsc)
	}
	chain = append(chain, ByRatingDesc, ByVerifiedFirst, ByCompletedJobsDesc, ByNameAsc(col))
	cmp := Chain(chain...)

	sort.SliceStable(enriched, func(i, j int) bool {
		return cmp(&enriched[i], &enriched[j]) < 0
	})
	return enriched
}
