package store

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MarcosHerrera95/buscapro/internal/models"
)

// PostgresStore implements Store over a pgxpool connection pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresPool creates and verifies a pgxpool connection pool.
func NewPostgresPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}

	return pool, nil
}

// NewPostgresStore returns a Store backed by pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const candidateColumns = `p.id, p.display_name, p.specialty_id, COALESCE(s.name, ''),
	       COALESCE(p.description, ''), COALESCE(p.coverage_area, ''),
	       p.hourly_rate, p.job_rate, p.verified, p.available, p.lat, p.lng`

// buildCandidateFilter renders the query's pushed-down predicates as a WHERE
// clause with positional args. Kept as a pure function so the pushdown logic
// is testable without a database.
func buildCandidateFilter(q *models.SearchQuery) (string, []any) {
	conds := []string{"p.active"}
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if q.Keyword != "" {
		p := arg("%" + q.Keyword + "%")
		conds = append(conds, fmt.Sprintf("(s.name ILIKE %s OR p.description ILIKE %s)", p, p))
	}
	if q.SpecialtyID > 0 {
		conds = append(conds, "p.specialty_id = "+arg(q.SpecialtyID))
	}
	if q.City != "" {
		conds = append(conds, "p.coverage_area ILIKE "+arg("%"+q.City+"%"))
	}
	if q.District != "" {
		conds = append(conds, "p.coverage_area ILIKE "+arg("%"+q.District+"%"))
	}
	if q.Price != nil {
		col := "p.hourly_rate"
		if q.Price.Unit == models.PriceUnitJob {
			col = "p.job_rate"
		}
		if q.Price.Min > 0 {
			conds = append(conds, col+" >= "+arg(q.Price.Min))
		}
		if !math.IsInf(q.Price.Max, 1) {
			conds = append(conds, col+" <= "+arg(q.Price.Max))
		}
	}
	if q.OnlyVerified {
		conds = append(conds, "p.verified")
	}
	if q.SortBy == models.SortByAvailability {
		conds = append(conds, "p.available")
	}

	return "WHERE " + strings.Join(conds, " AND "), args
}

// orderHint gives the store a deterministic native ordering for the page
// window. The ranking engine re-sorts in memory; this only fixes which rows
// land in the window for a given data snapshot.
func orderHint(q *models.SearchQuery) string {
	if q.SortBy == models.SortByPrice {
		if q.Price != nil && q.Price.Unit == models.PriceUnitJob {
			return "ORDER BY p.job_rate ASC NULLS LAST, p.id"
		}
		return "ORDER BY p.hourly_rate ASC NULLS LAST, p.id"
	}
	return "ORDER BY p.display_name, p.id"
}

// FindCandidates returns one page of candidates matching the pushed-down predicates.
func (s *PostgresStore) FindCandidates(ctx context.Context, q *models.SearchQuery, skip, take int) ([]models.Candidate, error) {
	where, args := buildCandidateFilter(q)
	sql := fmt.Sprintf(`
		SELECT %s
		FROM professionals p
		LEFT JOIN specialties s ON s.id = p.specialty_id
		%s
		%s
		OFFSET $%d LIMIT $%d`,
		candidateColumns, where, orderHint(q), len(args)+1, len(args)+2)
	args = append(args, skip, take)

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("findCandidates query: %w", err)
	}
	defer rows.Close()

	candidates := make([]models.Candidate, 0, take)
	for rows.Next() {
		var c models.Candidate
		if err := rows.Scan(
			&c.ID, &c.DisplayName, &c.SpecialtyID, &c.Specialty,
			&c.Description, &c.CoverageArea,
			&c.HourlyRate, &c.JobRate, &c.Verified, &c.Available, &c.Lat, &c.Lng,
		); err != nil {
			return nil, fmt.Errorf("findCandidates scan: %w", err)
		}
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}

// CountCandidates returns the total match count, independent of the page window.
func (s *PostgresStore) CountCandidates(ctx context.Context, q *models.SearchQuery) (int, error) {
	where, args := buildCandidateFilter(q)
	sql := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM professionals p
		LEFT JOIN specialties s ON s.id = p.specialty_id
		%s`, where)

	var total int
	if err := s.pool.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("countCandidates: %w", err)
	}
	return total, nil
}

// BatchRatings returns all non-null ratings grouped by candidate in one round-trip.
func (s *PostgresStore) BatchRatings(ctx context.Context, ids []int64) (map[int64][]float64, error) {
	ratings := make(map[int64][]float64, len(ids))
	if len(ids) == 0 {
		return ratings, nil
	}

	rows, err := s.pool.Query(ctx,
		`SELECT professional_id, rating
		 FROM reviews
		 WHERE rating IS NOT NULL AND professional_id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("batchRatings query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var rating float64
		if err := rows.Scan(&id, &rating); err != nil {
			return nil, fmt.Errorf("batchRatings scan: %w", err)
		}
		ratings[id] = append(ratings[id], rating)
	}
	return ratings, rows.Err()
}

// BatchCompletedCounts returns completed-job counts per candidate in one round-trip.
func (s *PostgresStore) BatchCompletedCounts(ctx context.Context, ids []int64) (map[int64]int, error) {
	counts := make(map[int64]int, len(ids))
	if len(ids) == 0 {
		return counts, nil
	}

	rows, err := s.pool.Query(ctx,
		`SELECT professional_id, COUNT(*)
		 FROM jobs
		 WHERE status = 'completed' AND professional_id = ANY($1)
		 GROUP BY professional_id`, ids)
	if err != nil {
		return nil, fmt.Errorf("batchCompletedCounts query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var count int
		if err := rows.Scan(&id, &count); err != nil {
			return nil, fmt.Errorf("batchCompletedCounts scan: %w", err)
		}
		counts[id] = count
	}
	return counts, rows.Err()
}

// SuggestSpecialties returns specialties whose name starts with prefix.
func (s *PostgresStore) SuggestSpecialties(ctx context.Context, prefix string, limit int) ([]models.Suggestion, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name FROM specialties WHERE name ILIKE $1 ORDER BY name LIMIT $2`,
		prefix+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("suggestSpecialties query: %w", err)
	}
	defer rows.Close()

	suggestions := make([]models.Suggestion, 0, limit)
	for rows.Next() {
		var s models.Suggestion
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, fmt.Errorf("suggestSpecialties scan: %w", err)
		}
		suggestions = append(suggestions, s)
	}
	return suggestions, rows.Err()
}

// Close releases the underlying pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}
