package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/MarcosHerrera95/buscapro/pkg/utils"
)

// ErrInvalidInput is returned when the raw input is structurally unusable.
// Out-of-range or malformed individual fields never produce it: they fall
// back to defaults instead.
var ErrInvalidInput = errors.New("invalid search input")

// SortBy identifies a result ordering.
type SortBy string

const (
	SortByRating       SortBy = "rating"
	SortByDistance     SortBy = "distance"
	SortByAvailability SortBy = "availability"
	SortByPrice        SortBy = "price"
)

// ValidSortBy reports whether s is a recognized sort option.
func ValidSortBy(s SortBy) bool {
	switch s {
	case SortByRating, SortByDistance, SortByAvailability, SortByPrice:
		return true
	}
	return false
}

// PriceUnit identifies which rate column a price filter applies to.
type PriceUnit string

const (
	PriceUnitHour PriceUnit = "hour"
	PriceUnitJob  PriceUnit = "job"
)

// PriceFilter is a closed-open rate constraint. Max is +Inf when unbounded.
type PriceFilter struct {
	Min  float64   `json:"min"`
	Max  float64   `json:"max"`
	Unit PriceUnit `json:"unit"`
}

// GeoFilter is a radius constraint around a reference point. It exists on a
// SearchQuery only when all three values were valid on input.
type GeoFilter struct {
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	RadiusKm float64 `json:"radius_km"`
}

// RawSearchInput is the wire shape of a search request. Numeric fields are
// untyped because callers send them inconsistently (numbers, numeric
// strings, or garbage); normalization coerces what it can and drops the rest.
type RawSearchInput struct {
	Keyword      string `json:"keyword"`
	SpecialtyID  any    `json:"specialty_id"`
	City         string `json:"city"`
	District     string `json:"district"`
	PriceMin     any    `json:"price_min"`
	PriceMax     any    `json:"price_max"`
	PriceUnit    string `json:"price_unit"`
	Lat          any    `json:"lat"`
	Lng          any    `json:"lng"`
	RadiusKm     any    `json:"radius_km"`
	SortBy       string `json:"sort_by"`
	OnlyVerified bool   `json:"only_verified"`
	Page         any    `json:"page"`
	Limit        any    `json:"limit"`
}

// SearchQuery is the canonical, fully-defaulted form of a search request.
// Two requests with the same effective filters normalize to structurally
// identical values, so it doubles as the cache-key basis.
type SearchQuery struct {
	Keyword      string       `json:"keyword,omitempty"`
	SpecialtyID  int64        `json:"specialty_id,omitempty"`
	City         string       `json:"city,omitempty"`
	District     string       `json:"district,omitempty"`
	Price        *PriceFilter `json:"price,omitempty"`
	Geo          *GeoFilter   `json:"geo,omitempty"`
	SortBy       SortBy       `json:"sort_by"`
	OnlyVerified bool         `json:"only_verified"`
	Page         int          `json:"page"`
	Limit        int          `json:"limit"`
}

// Normalization bounds used when no config is supplied.
const (
	maxKeywordLen    = 100
	maxLocationLen   = 50
	defaultLimit     = 20
	maxLimit         = 100
	defaultMaxRadius = 50.0
)

// NormalizeOptions tunes defaulting; zero values mean the built-in bounds.
type NormalizeOptions struct {
	DefaultLimit int
	MaxLimit     int
	MaxRadiusKm  float64
}

// NormalizeSearchInput validates and canonicalizes raw into a SearchQuery.
// It is permissive: invalid individual fields are dropped or defaulted, and
// only a structurally unusable input (nil) yields ErrInvalidInput.
func NormalizeSearchInput(raw *RawSearchInput, opts NormalizeOptions) (*SearchQuery, error) {
	if raw == nil {
		return nil, ErrInvalidInput
	}
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = defaultLimit
	}
	if opts.MaxLimit <= 0 {
		opts.MaxLimit = maxLimit
	}
	if opts.MaxRadiusKm <= 0 {
		opts.MaxRadiusKm = defaultMaxRadius
	}

	q := &SearchQuery{
		Keyword:      utils.SanitizeText(raw.Keyword, maxKeywordLen),
		City:         utils.SanitizeText(raw.City, maxLocationLen),
		District:     utils.SanitizeText(raw.District, maxLocationLen),
		OnlyVerified: raw.OnlyVerified,
	}

	if id, ok := coerceInt(raw.SpecialtyID); ok && id > 0 {
		q.SpecialtyID = id
	}

	q.Price = normalizePrice(raw)
	q.Geo = normalizeGeo(raw, opts.MaxRadiusKm)

	q.SortBy = SortBy(strings.ToLower(strings.TrimSpace(raw.SortBy)))
	if !ValidSortBy(q.SortBy) {
		q.SortBy = SortByRating
	}
	// Distance sort is meaningless without a geo reference point.
	if q.SortBy == SortByDistance && q.Geo == nil {
		q.SortBy = SortByRating
	}

	q.Page = 1
	if p, ok := coerceInt(raw.Page); ok && p > 1 {
		q.Page = int(p)
	}
	q.Limit = opts.DefaultLimit
	if l, ok := coerceInt(raw.Limit); ok && l >= 1 {
		q.Limit = int(l)
	}
	if q.Limit > opts.MaxLimit {
		q.Limit = opts.MaxLimit
	}

	return q, nil
}

// normalizePrice builds a price filter, defaulting min to 0 and max to +Inf.
// Returns nil when neither bound was usable (no filtering to do).
func normalizePrice(raw *RawSearchInput) *PriceFilter {
	min, minOK := coerceFloat(raw.PriceMin)
	max, maxOK := coerceFloat(raw.PriceMax)
	if minOK && min < 0 {
		minOK = false
	}
	if maxOK && max < 0 {
		maxOK = false
	}
	if !minOK && !maxOK {
		return nil
	}

	pf := &PriceFilter{Min: 0, Max: math.Inf(1), Unit: PriceUnitHour}
	if minOK {
		pf.Min = min
	}
	if maxOK {
		pf.Max = max
	}
	if PriceUnit(strings.ToLower(strings.TrimSpace(raw.PriceUnit))) == PriceUnitJob {
		pf.Unit = PriceUnitJob
	}
	return pf
}

// normalizeGeo accepts a geo filter only when all three values are present
// and in range; anything else drops the filter silently.
func normalizeGeo(raw *RawSearchInput, maxRadius float64) *GeoFilter {
	lat, latOK := coerceFloat(raw.Lat)
	lng, lngOK := coerceFloat(raw.Lng)
	radius, radOK := coerceFloat(raw.RadiusKm)
	if !latOK || !lngOK || !radOK {
		return nil
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return nil
	}
	if radius <= 0 || radius > maxRadius {
		return nil
	}
	return &GeoFilter{Lat: lat, Lng: lng, RadiusKm: radius}
}

// CacheKey renders the query as a canonical cache key. Every field appears,
// defaults included, so equal effective queries collide.
func (q *SearchQuery) CacheKey() string {
	var b strings.Builder
	b.WriteString("kw=")
	b.WriteString(q.Keyword)
	fmt.Fprintf(&b, "|sp=%d|ci=%s|di=%s", q.SpecialtyID, q.City, q.District)
	if q.Price != nil {
		fmt.Fprintf(&b, "|pr=%s:%s:%s", formatFloat(q.Price.Min), formatFloat(q.Price.Max), q.Price.Unit)
	} else {
		b.WriteString("|pr=")
	}
	if q.Geo != nil {
		fmt.Fprintf(&b, "|geo=%s,%s,%s", formatFloat(q.Geo.Lat), formatFloat(q.Geo.Lng), formatFloat(q.Geo.RadiusKm))
	} else {
		b.WriteString("|geo=")
	}
	fmt.Fprintf(&b, "|sort=%s|ver=%t|p=%d|l=%d", q.SortBy, q.OnlyVerified, q.Page, q.Limit)
	return b.String()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// coerceFloat extracts a finite float from the loosely-typed values JSON
// decoding produces. Non-numeric input reads as absent.
func coerceFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0, false
		}
		return x, true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

func coerceInt(v any) (int64, bool) {
	f, ok := coerceFloat(v)
	if !ok {
		return 0, false
	}
	return int64(f), true
}
