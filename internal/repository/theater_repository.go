// Package repository contains data access logic separated from HTTP handlers.
// This file defines read access to the theaters table. The site never writes
// theater rows; they are maintained outside this application.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/arthouse/theaters/internal/metrics"
	"github.com/arthouse/theaters/internal/metro"
	"github.com/arthouse/theaters/internal/model"
)

// ErrTheaterNotFound is returned when no theater has the requested slug.
var ErrTheaterNotFound = errors.New("theater not found")

const theaterColumns = "slug, name, city, state, year_established, screens, is_nonprofit, website, description"

// orderColumns whitelists the ORDER BY fields a query plan may name.
var orderColumns = map[string]string{
	metro.OrderCity: "city",
	metro.OrderName: "name",
}

// TheaterRepo encapsulates all queries against the theaters table.
type TheaterRepo struct {
	db *sql.DB
}

// NewTheaterRepo constructs a TheaterRepo with the provided DB handle.
func NewTheaterRepo(db *sql.DB) *TheaterRepo {
	return &TheaterRepo{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTheater(s rowScanner) (model.Theater, error) {
	var (
		t        model.Theater
		year     sql.NullInt64
		screens  sql.NullInt64
		nonprof  sql.NullBool
		website  sql.NullString
		descript sql.NullString
	)
	if err := s.Scan(&t.Slug, &t.Name, &t.City, &t.State, &year, &screens, &nonprof, &website, &descript); err != nil {
		return model.Theater{}, err
	}
	if year.Valid {
		v := int(year.Int64)
		t.YearEstablished = &v
	}
	if screens.Valid {
		v := int(screens.Int64)
		t.Screens = &v
	}
	if nonprof.Valid {
		v := nonprof.Bool
		t.IsNonprofit = &v
	}
	if website.Valid {
		v := website.String
		t.Website = &v
	}
	if descript.Valid {
		v := descript.String
		t.Description = &v
	}
	return t, nil
}

// list runs a theater query and records it under name.
func (r *TheaterRepo) list(ctx context.Context, name, q string, args ...any) (out []model.Theater, err error) {
	start := time.Now()
	defer func() { metrics.RecordQuery(name, start, err) }()

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out = []model.Theater{}
	for rows.Next() {
		t, err := scanTheater(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListAll returns every theater ordered by name.
func (r *TheaterRepo) ListAll(ctx context.Context) ([]model.Theater, error) {
	out, err := r.list(ctx, "list_all", "SELECT "+theaterColumns+" FROM theaters ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("list theaters: %w", err)
	}
	return out, nil
}

// ListWithDescription returns up to limit theaters that have a non-empty description.
func (r *TheaterRepo) ListWithDescription(ctx context.Context, limit int) ([]model.Theater, error) {
	const q = "SELECT " + theaterColumns + ` FROM theaters
		WHERE description IS NOT NULL AND description <> '' LIMIT ?`
	out, err := r.list(ctx, "featured_described", q, limit)
	if err != nil {
		return nil, fmt.Errorf("list described theaters: %w", err)
	}
	return out, nil
}

// ListWithoutDescription returns up to limit theaters lacking a description.
func (r *TheaterRepo) ListWithoutDescription(ctx context.Context, limit int) ([]model.Theater, error) {
	const q = "SELECT " + theaterColumns + ` FROM theaters
		WHERE description IS NULL OR description = '' LIMIT ?`
	out, err := r.list(ctx, "featured_undescribed", q, limit)
	if err != nil {
		return nil, fmt.Errorf("list undescribed theaters: %w", err)
	}
	return out, nil
}

// ListByPlan returns the theaters selected by a city page's query plan.
// MatchExact compares the city column byte-for-byte against every entry;
// MatchFold compares case-insensitively against the first entry.
func (r *TheaterRepo) ListByPlan(ctx context.Context, plan metro.QueryPlan) ([]model.Theater, error) {
	if len(plan.MatchCities) == 0 {
		return []model.Theater{}, nil
	}

	var (
		where string
		args  []any
	)
	switch plan.Match {
	case metro.MatchFold:
		where = "LOWER(city) = LOWER(?)"
		args = []any{plan.MatchCities[0]}
	default:
		where = "BINARY city IN (" + placeholders(len(plan.MatchCities)) + ")"
		for _, c := range plan.MatchCities {
			args = append(args, c)
		}
	}

	q := "SELECT " + theaterColumns + " FROM theaters WHERE " + where + " ORDER BY " + orderClause(plan.OrderBy)
	out, err := r.list(ctx, "by_city", q, args...)
	if err != nil {
		return nil, fmt.Errorf("list theaters by city: %w", err)
	}
	return out, nil
}

// Search returns theaters whose name, city or state contains any search
// term, case-insensitively, ordered by name. A blank query returns nothing.
func (r *TheaterRepo) Search(ctx context.Context, query string) ([]model.Theater, error) {
	terms := SearchTerms(query)
	if len(terms) == 0 {
		return []model.Theater{}, nil
	}

	conds := make([]string, 0, len(terms)*3)
	args := make([]any, 0, len(terms)*3)
	for _, term := range terms {
		pattern := "%" + strings.ToLower(escapeLike(term)) + "%"
		for _, col := range []string{"name", "city", "state"} {
			conds = append(conds, "LOWER("+col+") LIKE ?")
			args = append(args, pattern)
		}
	}

	q := "SELECT " + theaterColumns + " FROM theaters WHERE " + strings.Join(conds, " OR ") + " ORDER BY name"
	out, err := r.list(ctx, "search", q, args...)
	if err != nil {
		return nil, fmt.Errorf("search theaters: %w", err)
	}
	return out, nil
}

// GetBySlug fetches a single theater. It returns ErrTheaterNotFound if no
// row matches.
func (r *TheaterRepo) GetBySlug(ctx context.Context, slug string) (t *model.Theater, err error) {
	start := time.Now()
	defer func() {
		if errors.Is(err, ErrTheaterNotFound) {
			metrics.RecordQuery("by_slug", start, nil)
			return
		}
		metrics.RecordQuery("by_slug", start, err)
	}()

	const q = "SELECT " + theaterColumns + " FROM theaters WHERE slug = ? LIMIT 1"
	got, err := scanTheater(r.db.QueryRowContext(ctx, q, slug))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTheaterNotFound
		}
		return nil, fmt.Errorf("get theater %q: %w", slug, err)
	}
	return &got, nil
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func orderClause(fields []string) string {
	cols := make([]string, 0, len(fields))
	seen := map[string]bool{}
	for _, f := range fields {
		col, ok := orderColumns[f]
		if !ok || seen[col] {
			continue
		}
		seen[col] = true
		cols = append(cols, col)
	}
	if len(cols) == 0 {
		return "name"
	}
	return strings.Join(cols, ", ")
}
