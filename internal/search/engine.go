// Package search composes the end-to-end query path: normalize, cache,
// retrieve, annotate, enrich, rank, respond.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MarcosHerrera95/buscapro/internal/cache"
	"github.com/MarcosHerrera95/buscapro/internal/enrich"
	"github.com/MarcosHerrera95/buscapro/internal/geo"
	"github.com/MarcosHerrera95/buscapro/internal/metrics"
	"github.com/MarcosHerrera95/buscapro/internal/models"
	"github.com/MarcosHerrera95/buscapro/internal/ranking"
	"github.com/MarcosHerrera95/buscapro/internal/store"
	"github.com/MarcosHerrera95/buscapro/pkg/utils"
)

const maxSuggestions = 10

// Engine runs ranked, geo-aware professional search. It holds no per-request
// state; every request may run fully concurrently with others.
type Engine struct {
	store    store.Store
	enricher *enrich.Enricher
	ranker   *ranking.Ranker
	cache    *cache.MultiTier
	metrics  *metrics.Collector
	logger   *zap.Logger
	norm     models.NormalizeOptions
}

// NewEngine creates a search engine with the given dependencies.
func NewEngine(
	st store.Store,
	enricher *enrich.Enricher,
	ranker *ranking.Ranker,
	tiers *cache.MultiTier,
	collector *metrics.Collector,
	logger *zap.Logger,
	norm models.NormalizeOptions,
) *Engine {
	return &Engine{
		store:    st,
		enricher: enricher,
		ranker:   ranker,
		cache:    tiers,
		metrics:  collector,
		logger:   logger,
		norm:     norm,
	}
}

// Search serves one search request: cache hit when possible, full compute
// otherwise. Returned errors are always *Error.
func (e *Engine) Search(ctx context.Context, raw *models.RawSearchInput) (resp *models.SearchResponse, err error) {
	start := time.Now()

	q, nerr := models.NormalizeSearchInput(raw, e.norm)
	if nerr != nil {
		e.metrics.RecordError(string(ErrKindValidation), nerr.Error())
		return nil, &Error{Kind: ErrKindValidation, Err: nerr}
	}

	// Ranking and enrichment bugs must surface as a classified failure with
	// a metric, not as a lost request.
	defer func() {
		if r := recover(); r != nil {
			err = e.failure(q, ErrKindCompute, fmt.Errorf("panic: %v", r))
			resp = nil
		}
	}()

	key := q.CacheKey()
	if payload, ok := e.cache.Get(ctx, key, cache.ContentSearchResults); ok {
		var result models.SearchResult
		if uerr := json.Unmarshal(payload, &result); uerr == nil {
			elapsed := time.Since(start).Milliseconds()
			e.metrics.RecordSearch(q, elapsed, len(result.Professionals), true)
			return &models.SearchResponse{
				Result: &result,
				Meta:   models.ResponseMeta{Cached: true, SearchTimeMs: elapsed},
			}, nil
		}
		// An undecodable entry is treated as a miss; the recompute overwrites it.
		e.logger.Warn("discarding undecodable cache entry", zap.String("key", key))
	}

	candidates, ferr := e.store.FindCandidates(ctx, q, (q.Page-1)*q.Limit, q.Limit)
	if ferr != nil {
		return nil, e.failure(q, ErrKindUpstream, ferr)
	}
	total, cerr := e.store.CountCandidates(ctx, q)
	if cerr != nil {
		return nil, e.failure(q, ErrKindUpstream, cerr)
	}

	var distances map[int64]*float64
	if q.Geo != nil {
		candidates, distances = applyRadiusFilter(candidates, q.Geo)
	}

	enriched, eerr := e.enricher.Enrich(ctx, candidates)
	if eerr != nil {
		return nil, e.failure(q, ErrKindUpstream, eerr)
	}
	for i := range enriched {
		enriched[i].DistanceKm = distances[enriched[i].ID]
	}

	ranked := e.ranker.Rank(enriched, q)

	elapsed := time.Since(start).Milliseconds()
	result := &models.SearchResult{
		Professionals: ranked,
		Total:         total,
		Page:          q.Page,
		TotalPages:    int(math.Ceil(float64(total) / float64(q.Limit))),
		SearchTimeMs:  elapsed,
	}

	if payload, merr := json.Marshal(result); merr == nil {
		e.cache.Set(ctx, key, payload, cache.ContentSearchResults)
	}

	e.metrics.RecordSearch(q, elapsed, len(ranked), false)
	return &models.SearchResponse{
		Result: result,
		Meta:   models.ResponseMeta{Cached: false, SearchTimeMs: elapsed},
	}, nil
}

// applyRadiusFilter annotates candidates with their distance from the query
// point and drops those outside the radius. A candidate without coordinates
// cannot satisfy "within radius" and is dropped. A candidate at exactly the
// radius is kept.
func applyRadiusFilter(candidates []models.Candidate, g *models.GeoFilter) ([]models.Candidate, map[int64]*float64) {
	kept := candidates[:0]
	distances := make(map[int64]*float64, len(candidates))
	for _, c := range candidates {
		if c.Lat == nil || c.Lng == nil {
			continue
		}
		d, ok := geo.DistanceKm(g.Lat, g.Lng, *c.Lat, *c.Lng)
		if !ok || d > g.RadiusKm {
			continue
		}
		dist := d
		distances[c.ID] = &dist
		kept = append(kept, c)
	}
	return kept, distances
}

// Suggest serves specialty autocomplete through the cache's suggestion
// content type.
func (e *Engine) Suggest(ctx context.Context, prefix string) ([]models.Suggestion, error) {
	prefix = sanitizePrefix(prefix)
	if prefix == "" {
		return []models.Suggestion{}, nil
	}

	key := "q=" + prefix
	if payload, ok := e.cache.Get(ctx, key, cache.ContentSuggestions); ok {
		var suggestions []models.Suggestion
		if err := json.Unmarshal(payload, &suggestions); err == nil {
			return suggestions, nil
		}
	}

	suggestions, err := e.store.SuggestSpecialties(ctx, prefix, maxSuggestions)
	if err != nil {
		return nil, e.failure(&models.SearchQuery{Keyword: prefix}, ErrKindUpstream, err)
	}
	if payload, err := json.Marshal(suggestions); err == nil {
		e.cache.Set(ctx, key, payload, cache.ContentSuggestions)
	}
	return suggestions, nil
}

// InvalidateResults drops cached search pages matching pattern from both
// tiers. Called when a data edit makes cached pages stale before their TTL.
func (e *Engine) InvalidateResults(ctx context.Context, pattern string, ct cache.ContentType) {
	e.cache.Invalidate(ctx, pattern, ct)
}

// failure logs the cause under a fresh correlation ID, records the error
// metric, and returns the classified error the caller may expose.
func (e *Engine) failure(q *models.SearchQuery, kind ErrorKind, cause error) *Error {
	id := uuid.NewString()
	e.logger.Error("search failed",
		zap.String("kind", string(kind)),
		zap.String("correlation_id", id),
		zap.String("category", string(metrics.Categorize(q))),
		zap.Error(cause),
	)
	e.metrics.RecordError(string(kind), cause.Error())
	return &Error{Kind: kind, CorrelationID: id, Err: cause}
}

func sanitizePrefix(s string) string {
	const maxPrefixLen = 50
	return utils.SanitizeText(s, maxPrefixLen)
}
