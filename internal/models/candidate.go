// Package models defines the search data model: queries, candidates, and responses.
package models

// Candidate is a raw professional record as returned by the store.
// The search pipeline treats it as read-only.
type Candidate struct {
	ID           int64    `json:"id"`
	DisplayName  string   `json:"display_name"`
	SpecialtyID  int64    `json:"specialty_id"`
	Specialty    string   `json:"specialty"`
	Description  string   `json:"description"`
	CoverageArea string   `json:"coverage_area"`
	HourlyRate   *float64 `json:"hourly_rate,omitempty"`
	JobRate      *float64 `json:"job_rate,omitempty"`
	Verified     bool     `json:"verified"`
	Available    bool     `json:"available"`
	Lat          *float64 `json:"lat,omitempty"`
	Lng          *float64 `json:"lng,omitempty"`
}

// EnrichedCandidate is a Candidate annotated with per-query derived stats.
// Constructed per request, never persisted.
type EnrichedCandidate struct {
	Candidate

	// AvgRating is 0-5 rounded to one decimal; 0 when the candidate has no reviews.
	AvgRating     float64 `json:"avg_rating"`
	ReviewCount   int     `json:"review_count"`
	CompletedJobs int     `json:"completed_jobs"`
	// DistanceKm is set only when the query has an active geo filter and the
	// candidate has coordinates; one decimal.
	DistanceKm *float64 `json:"distance_km,omitempty"`
}
