package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/arthouse/theaters/internal/metrics"
)

// StateCount is the number of theaters recorded for one state.
type StateCount struct {
	State string `json:"state"`
	Count int    `json:"count"`
}

// Completeness counts rows missing optional columns.
type Completeness struct {
	Total              int `json:"total"`
	MissingDescription int `json:"missing_description"`
	MissingWebsite     int `json:"missing_website"`
	MissingYear        int `json:"missing_year_established"`
	MissingScreens     int `json:"missing_screens"`
}

// Count returns the number of theater rows.
func (r *TheaterRepo) Count(ctx context.Context) (n int64, err error) {
	start := time.Now()
	defer func() { metrics.RecordQuery("count", start, err) }()

	if err = r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM theaters").Scan(&n); err != nil {
		return 0, fmt.Errorf("count theaters: %w", err)
	}
	return n, nil
}

// Sample returns up to limit raw rows with every column, plus the column
// names, for diagnostics.
func (r *TheaterRepo) Sample(ctx context.Context, limit int) (out []map[string]any, cols []string, err error) {
	start := time.Now()
	defer func() { metrics.RecordQuery("sample", start, err) }()

	rows, err := r.db.QueryContext(ctx, "SELECT * FROM theaters LIMIT ?", limit)
	if err != nil {
		return nil, nil, fmt.Errorf("sample theaters: %w", err)
	}
	defer rows.Close()

	cols, err = rows.Columns()
	if err != nil {
		return nil, nil, fmt.Errorf("sample columns: %w", err)
	}
	out = []map[string]any{}
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, fmt.Errorf("sample scan: %w", err)
		}
		row := make(map[string]any, len(cols))
		for i, c := range cols {
			// the mysql driver hands text columns back as []byte
			if b, ok := vals[i].([]byte); ok {
				row[c] = string(b)
				continue
			}
			row[c] = vals[i]
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("sample rows: %w", err)
	}
	return out, cols, nil
}

// CountByState returns per-state counts, largest first.
func (r *TheaterRepo) CountByState(ctx context.Context) (out []StateCount, err error) {
	start := time.Now()
	defer func() { metrics.RecordQuery("count_by_state", start, err) }()

	rows, err := r.db.QueryContext(ctx,
		"SELECT state, COUNT(*) AS n FROM theaters GROUP BY state ORDER BY n DESC, state")
	if err != nil {
		return nil, fmt.Errorf("count by state: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var sc StateCount
		if err := rows.Scan(&sc.State, &sc.Count); err != nil {
			return nil, fmt.Errorf("count by state scan: %w", err)
		}
		out = append(out, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("count by state rows: %w", err)
	}
	return out, nil
}

// Completeness reports how many rows lack each optional column.
func (r *TheaterRepo) Completeness(ctx context.Context) (c Completeness, err error) {
	start := time.Now()
	defer func() { metrics.RecordQuery("completeness", start, err) }()

	const q = `SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN description IS NULL OR description = '' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN website IS NULL OR website = '' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN year_established IS NULL OR year_established = 0 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN screens IS NULL OR screens = 0 THEN 1 ELSE 0 END), 0)
		FROM theaters`
	if err = r.db.QueryRowContext(ctx, q).Scan(
		&c.Total, &c.MissingDescription, &c.MissingWebsite, &c.MissingYear, &c.MissingScreens,
	); err != nil {
		return Completeness{}, fmt.Errorf("completeness: %w", err)
	}
	return c, nil
}

// SlugRef is the minimal row the photo downloader needs.
type SlugRef struct {
	Slug  string
	Name  string
	City  string
	State string
}

// ListRefs returns slug, name, city and state ordered by slug. A limit of
// zero or less means no limit.
func (r *TheaterRepo) ListRefs(ctx context.Context, limit int) (out []SlugRef, err error) {
	start := time.Now()
	defer func() { metrics.RecordQuery("list_refs", start, err) }()

	q := "SELECT slug, name, city, state FROM theaters ORDER BY slug"
	var args []any
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list theater refs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s SlugRef
		if err := rows.Scan(&s.Slug, &s.Name, &s.City, &s.State); err != nil {
			return nil, fmt.Errorf("list theater refs scan: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list theater refs rows: %w", err)
	}
	return out, nil
}
