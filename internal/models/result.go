package models

// SearchResult is the payload assembled for one search computation. It is
// what gets cached, so a cache hit reproduces it byte-for-byte.
type SearchResult struct {
	Professionals []EnrichedCandidate `json:"professionals"`
	Total         int                 `json:"total"`
	Page          int                 `json:"page"`
	TotalPages    int                 `json:"total_pages"`
	SearchTimeMs  int64               `json:"search_time_ms"`
}

// SearchResponse wraps a SearchResult with serving metadata.
type SearchResponse struct {
	Result *SearchResult `json:"data"`
	Meta   ResponseMeta  `json:"meta"`
}

// ResponseMeta describes how the response was served.
type ResponseMeta struct {
	Cached       bool  `json:"cached"`
	SearchTimeMs int64 `json:"search_time_ms"`
}

// Suggestion is a specialty autocomplete entry.
type Suggestion struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
