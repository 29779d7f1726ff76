// Package metrics aggregates serving statistics for the search path.
package metrics

import (
	"sync"
	"time"

	"github.com/MarcosHerrera95/buscapro/internal/models"
)

// QueryCategory classifies a search by which filters it carries.
type QueryCategory string

const (
	CategoryComprehensive QueryCategory = "comprehensive"
	CategoryGeoRadius     QueryCategory = "geo_radius"
	CategorySpecialty     QueryCategory = "specialty_search"
	CategoryKeywordOnly   QueryCategory = "keyword_only"
	CategoryLocationOnly  QueryCategory = "location_only"
	CategoryEmpty         QueryCategory = "empty_search"
)

// Categorize maps a query to its category. Rules are ordered; the first
// match wins, so combined filters beat their components.
func Categorize(q *models.SearchQuery) QueryCategory {
	hasKeyword := q.Keyword != ""
	hasLocation := q.City != "" || q.District != ""
	hasGeo := q.Geo != nil
	hasSpecialty := q.SpecialtyID > 0
	hasPrice := q.Price != nil

	switch {
	case hasKeyword && hasGeo,
		hasKeyword && hasLocation && hasPrice,
		hasKeyword && hasLocation && hasSpecialty:
		return CategoryComprehensive
	case hasGeo:
		return CategoryGeoRadius
	case hasSpecialty:
		return CategorySpecialty
	case hasKeyword:
		return CategoryKeywordOnly
	case hasLocation:
		return CategoryLocationOnly
	}
	return CategoryEmpty
}

// Sample is one recorded search, kept in the recency ring.
type Sample struct {
	Timestamp      time.Time     `json:"timestamp"`
	Category       QueryCategory `json:"category"`
	ResponseTimeMs int64         `json:"response_time_ms"`
	ResultCount    int           `json:"result_count"`
	CacheHit       bool          `json:"cache_hit"`
}

// emaWeight is the exponential-moving-average weight of the newest sample.
const emaWeight = 0.1

// Collector keeps a bounded most-recent-first ring of samples for windowed
// aggregates, plus monotonic counters that outlive the ring. Recording is
// O(1); failure of this path never reaches the search request.
type Collector struct {
	mu sync.Mutex

	ring     []Sample
	ringSize int
	head     int
	filled   bool

	totalSearches int64
	totalHits     int64
	totalErrors   int64
	errorsByKind  map[string]int64

	emaResponseMs float64
	emaSet        bool

	now func() time.Time
}

// NewCollector creates a collector with a ring of ringSize samples.
func NewCollector(ringSize int) *Collector {
	if ringSize <= 0 {
		ringSize = 500
	}
	return &Collector{
		ring:         make([]Sample, ringSize),
		ringSize:     ringSize,
		errorsByKind: make(map[string]int64),
		now:          time.Now,
	}
}

// RecordSearch records one served search.
func (c *Collector) RecordSearch(q *models.SearchQuery, responseTimeMs int64, resultCount int, cacheHit bool) {
	sample := Sample{
		Category:       Categorize(q),
		ResponseTimeMs: responseTimeMs,
		ResultCount:    resultCount,
		CacheHit:       cacheHit,
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	sample.Timestamp = c.now()
	c.ring[c.head] = sample
	c.head++
	if c.head == c.ringSize {
		c.head = 0
		c.filled = true
	}

	c.totalSearches++
	if cacheHit {
		c.totalHits++
	}
	if c.emaSet {
		c.emaResponseMs = c.emaResponseMs*(1-emaWeight) + float64(responseTimeMs)*emaWeight
	} else {
		c.emaResponseMs = float64(responseTimeMs)
		c.emaSet = true
	}
}

// RecordError counts a failed search by kind.
func (c *Collector) RecordError(kind, _ string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.totalErrors++
	c.errorsByKind[kind]++
}

// Realtime is the aggregate view over the recency window plus the
// process-lifetime counters.
type Realtime struct {
	Period            string                `json:"period"`
	WindowSearches    int                   `json:"window_searches"`
	WindowCacheHits   int                   `json:"window_cache_hits"`
	WindowAvgResults  float64               `json:"window_avg_results"`
	ByCategory        map[QueryCategory]int `json:"by_category"`
	EMAResponseTimeMs float64               `json:"ema_response_time_ms"`
	TotalSearches     int64                 `json:"total_searches"`
	TotalCacheHits    int64                 `json:"total_cache_hits"`
	TotalErrors       int64                 `json:"total_errors"`
	ErrorsByKind      map[string]int64      `json:"errors_by_kind"`
}

// RealtimeMetrics aggregates the samples recorded within the trailing period.
// Only samples still in the ring contribute; the monotonic totals do not
// depend on the ring.
func (c *Collector) RealtimeMetrics(period time.Duration) Realtime {
	c.mu.Lock()
	defer c.mu.Unlock()

	cutoff := c.now().Add(-period)
	agg := Realtime{
		Period:            period.String(),
		ByCategory:        make(map[QueryCategory]int),
		EMAResponseTimeMs: c.emaResponseMs,
		TotalSearches:     c.totalSearches,
		TotalCacheHits:    c.totalHits,
		TotalErrors:       c.totalErrors,
		ErrorsByKind:      make(map[string]int64, len(c.errorsByKind)),
	}
	for k, v := range c.errorsByKind {
		agg.ErrorsByKind[k] = v
	}

	n := c.head
	if c.filled {
		n = c.ringSize
	}
	var resultSum int
	for i := 0; i < n; i++ {
		s := c.ring[i]
		if s.Timestamp.Before(cutoff) {
			continue
		}
		agg.WindowSearches++
		resultSum += s.ResultCount
		if s.CacheHit {
			agg.WindowCacheHits++
		}
		agg.ByCategory[s.Category]++
	}
	if agg.WindowSearches > 0 {
		agg.WindowAvgResults = float64(resultSum) / float64(agg.WindowSearches)
	}
	return agg
}
