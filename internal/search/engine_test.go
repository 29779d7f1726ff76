package search

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/MarcosHerrera95/buscapro/internal/cache"
	"github.com/MarcosHerrera95/buscapro/internal/enrich"
	"github.com/MarcosHerrera95/buscapro/internal/metrics"
	"github.com/MarcosHerrera95/buscapro/internal/models"
	"github.com/MarcosHerrera95/buscapro/internal/ranking"
)

// fakeStore serves a fixed candidate set with page windowing, standing in
// for the Postgres store.
type fakeStore struct {
	candidates  []models.Candidate
	ratings     map[int64][]float64
	completed   map[int64]int
	suggestions []models.Suggestion

	findErr  error
	countErr error

	findCalls    int
	suggestCalls int
}

func (f *fakeStore) FindCandidates(_ context.Context, _ *models.SearchQuery, skip, take int) ([]models.Candidate, error) {
	f.findCalls++
	if f.findErr != nil {
		return nil, f.findErr
	}
	if skip >= len(f.candidates) {
		return nil, nil
	}
	end := skip + take
	if end > len(f.candidates) {
		end = len(f.candidates)
	}
	return f.candidates[skip:end], nil
}

func (f *fakeStore) CountCandidates(context.Context, *models.SearchQuery) (int, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	return len(f.candidates), nil
}

func (f *fakeStore) BatchRatings(context.Context, []int64) (map[int64][]float64, error) {
	return f.ratings, nil
}

func (f *fakeStore) BatchCompletedCounts(context.Context, []int64) (map[int64]int, error) {
	return f.completed, nil
}

func (f *fakeStore) SuggestSpecialties(context.Context, string, int) ([]models.Suggestion, error) {
	f.suggestCalls++
	return f.suggestions, nil
}

func (f *fakeStore) Close() {}

func newTestEngine(st *fakeStore, fast cache.Tier) *Engine {
	tiers := cache.NewMultiTier(fast, cache.NewMemoryTier(100), 300*time.Second, 180*time.Second, zap.NewNop())
	return NewEngine(
		st,
		enrich.NewEnricher(st),
		ranking.NewRanker("es"),
		tiers,
		metrics.NewCollector(64),
		zap.NewNop(),
		models.NormalizeOptions{},
	)
}

func professionalNames(r *models.SearchResult) []string {
	out := make([]string, len(r.Professionals))
	for i, p := range r.Professionals {
		out[i] = p.DisplayName
	}
	return out
}

func verifiedPlumber(id int64, name string) models.Candidate {
	return models.Candidate{ID: id, DisplayName: name, Specialty: "Plumbing", Verified: true}
}

func TestSearch_EndToEnd(t *testing.T) {
	st := &fakeStore{
		candidates: []models.Candidate{
			verifiedPlumber(1, "Mario"),
			verifiedPlumber(2, "Luisa"),
			verifiedPlumber(3, "Pío"),
		},
		ratings: map[int64][]float64{
			1: {4.5},
			2: {4.5},
			3: {3.0},
		},
		completed: map[int64]int{1: 5, 2: 20},
	}
	e := newTestEngine(st, nil)
	raw := &models.RawSearchInput{Keyword: "plumber", City: "Springfield", Page: 1, Limit: 20}

	resp, err := e.Search(context.Background(), raw)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if resp.Meta.Cached {
		t.Error("first call must not be served from cache")
	}
	if resp.Result.Total != 3 || resp.Result.TotalPages != 1 || resp.Result.Page != 1 {
		t.Errorf("result = total %d, pages %d, page %d", resp.Result.Total, resp.Result.TotalPages, resp.Result.Page)
	}
	// equal 4.5 ratings: tie broken by completed jobs; 3.0 last
	want := []string{"Luisa", "Mario", "Pío"}
	if got := professionalNames(resp.Result); !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}

	// identical second call within the TTL window is a cache hit with an
	// unchanged payload
	resp2, err := e.Search(context.Background(), raw)
	if err != nil {
		t.Fatalf("second Search() error = %v", err)
	}
	if !resp2.Meta.Cached {
		t.Error("second call should be served from cache")
	}
	if !reflect.DeepEqual(professionalNames(resp2.Result), want) || resp2.Result.Total != 3 {
		t.Errorf("cached payload differs: %v", professionalNames(resp2.Result))
	}
	if st.findCalls != 1 {
		t.Errorf("store hit %d times, want 1", st.findCalls)
	}
}

func TestSearch_PaginationLaw(t *testing.T) {
	st := &fakeStore{}
	for i := int64(1); i <= 45; i++ {
		st.candidates = append(st.candidates, verifiedPlumber(i, "P"))
	}
	e := newTestEngine(st, nil)

	resp, err := e.Search(context.Background(), &models.RawSearchInput{Page: 3, Limit: 20})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Result.TotalPages != 3 {
		t.Errorf("totalPages = %d, want ceil(45/20) = 3", resp.Result.TotalPages)
	}
	if len(resp.Result.Professionals) != 5 {
		t.Errorf("page 3 size = %d, want 5", len(resp.Result.Professionals))
	}

	// page beyond totalPages: empty results, total unchanged
	resp, err = e.Search(context.Background(), &models.RawSearchInput{Page: 4, Limit: 20})
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Result.Professionals) != 0 {
		t.Errorf("page beyond end returned %d results", len(resp.Result.Professionals))
	}
	if resp.Result.Total != 45 {
		t.Errorf("total = %d, want 45", resp.Result.Total)
	}
}

func TestSearch_RadiusFilterBoundary(t *testing.T) {
	lat := func(km float64) *float64 {
		v := km / 111.195 // degrees latitude per km along a meridian
		return &v
	}
	zero := 0.0
	st := &fakeStore{
		candidates: []models.Candidate{
			{ID: 1, DisplayName: "At radius", Lat: lat(5.0), Lng: &zero},
			{ID: 2, DisplayName: "Just outside", Lat: lat(5.1), Lng: &zero},
			{ID: 3, DisplayName: "No location"},
		},
	}
	e := newTestEngine(st, nil)

	resp, err := e.Search(context.Background(), &models.RawSearchInput{
		Lat: 0.0, Lng: 0.0, RadiusKm: 5.0,
	})
	if err != nil {
		t.Fatal(err)
	}
	got := professionalNames(resp.Result)
	if !reflect.DeepEqual(got, []string{"At radius"}) {
		t.Errorf("professionals = %v, want only the candidate at exactly the radius", got)
	}
	if d := resp.Result.Professionals[0].DistanceKm; d == nil || *d != 5.0 {
		t.Errorf("distance = %v, want 5.0", d)
	}
}

func TestSearch_ValidationFailureDistinct(t *testing.T) {
	e := newTestEngine(&fakeStore{}, nil)

	_, err := e.Search(context.Background(), nil)
	var serr *Error
	if !errors.As(err, &serr) || serr.Kind != ErrKindValidation {
		t.Fatalf("error = %v, want validation kind", err)
	}
}

func TestSearch_UpstreamFailureOpaque(t *testing.T) {
	st := &fakeStore{findErr: errors.New("connection refused")}
	e := newTestEngine(st, nil)

	_, err := e.Search(context.Background(), &models.RawSearchInput{Keyword: "plumber"})
	var serr *Error
	if !errors.As(err, &serr) {
		t.Fatalf("error = %T, want *Error", err)
	}
	if serr.Kind != ErrKindUpstream {
		t.Errorf("kind = %q, want upstream", serr.Kind)
	}
	if serr.CorrelationID == "" {
		t.Error("expected a correlation ID for operator diagnosis")
	}
}

// brokenTier simulates a fast tier that is down for every operation.
type brokenTier struct{}

func (brokenTier) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("i/o timeout")
}

func (brokenTier) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("i/o timeout")
}

func (brokenTier) DeletePattern(context.Context, string) error {
	return errors.New("i/o timeout")
}

func TestSearch_FastTierOutageInvisible(t *testing.T) {
	st := &fakeStore{
		candidates: []models.Candidate{verifiedPlumber(1, "Mario")},
		ratings:    map[int64][]float64{1: {4.0}},
	}
	e := newTestEngine(st, brokenTier{})
	raw := &models.RawSearchInput{Keyword: "plumber"}

	resp, err := e.Search(context.Background(), raw)
	if err != nil {
		t.Fatalf("Search() with broken fast tier error = %v", err)
	}
	if resp.Result.Total != 1 {
		t.Errorf("total = %d", resp.Result.Total)
	}

	// fallback tier still provides the hit
	resp, err = e.Search(context.Background(), raw)
	if err != nil {
		t.Fatal(err)
	}
	if !resp.Meta.Cached {
		t.Error("expected fallback-tier cache hit despite fast tier outage")
	}
}

func TestSuggest_ReadThrough(t *testing.T) {
	st := &fakeStore{
		suggestions: []models.Suggestion{{ID: 1, Name: "Plumbing"}, {ID: 2, Name: "Painting"}},
	}
	e := newTestEngine(st, nil)

	got, err := e.Suggest(context.Background(), "p")
	if err != nil {
		t.Fatalf("Suggest() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("suggestions = %v", got)
	}

	if _, err := e.Suggest(context.Background(), "p"); err != nil {
		t.Fatal(err)
	}
	if st.suggestCalls != 1 {
		t.Errorf("store suggest calls = %d, want 1 (second served from cache)", st.suggestCalls)
	}
}

func TestSuggest_EmptyPrefix(t *testing.T) {
	st := &fakeStore{}
	e := newTestEngine(st, nil)

	got, err := e.Suggest(context.Background(), "   ")
	if err != nil || len(got) != 0 {
		t.Errorf("Suggest(blank) = %v, %v; want empty, nil", got, err)
	}
	if st.suggestCalls != 0 {
		t.Error("blank prefix must not reach the store")
	}
}
