// Package metro maps URL slugs onto metro areas (named groups of city
// names browsed as one unit) or standalone cities, and derives the display
// text and query shape a city page needs. Everything here is a pure
// function of an immutable table, so a Resolver may be shared freely
// between request goroutines.
package metro

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Area is one metro area. Cities holds the exact city names stored on
// theater rows; membership is case-sensitive.
type Area struct {
	Slug        string
	DisplayName string
	State       string
	Description string
	Cities      []string
}

// Kind tags a Resolution.
type Kind int

const (
	// KindStandalone is a slug with no metro entry, read as one city.
	KindStandalone Kind = iota
	// KindMetro is a slug found in the metro table.
	KindMetro
)

func (k Kind) String() string {
	if k == KindMetro {
		return "metro"
	}
	return "standalone"
}

// MatchMode tells the data layer how to compare MatchCities to the stored
// city column.
type MatchMode int

const (
	// MatchExact compares case-sensitively against any of MatchCities.
	MatchExact MatchMode = iota
	// MatchFold compares case-insensitively against the single entry.
	MatchFold
)

// Order columns understood by the theater repository.
const (
	OrderCity = "city"
	OrderName = "name"
)

// QueryPlan is the read filter for a city page.
type QueryPlan struct {
	MatchCities []string
	Match       MatchMode
	OrderBy     []string
}

// Resolution is the outcome of resolving a slug. Area is only meaningful
// when Kind is KindMetro; Name always carries the heading to display.
type Resolution struct {
	Kind Kind
	Area Area
	Name string
}

// IsMetro reports whether the slug named a metro area.
func (r Resolution) IsMetro() bool { return r.Kind == KindMetro }

// DescriptionTemplate is used for slugs without a metro entry.
const DescriptionTemplate = "Find art house and independent theaters in %s. Discover repertory cinemas, indie film venues, and community theaters."

var (
	ErrDuplicateSlug = errors.New("metro: duplicate slug")
	ErrNoCities      = errors.New("metro: area has no cities")
	ErrEmptySlug     = errors.New("metro: empty slug")
)

// Table is an immutable slug-indexed set of areas.
type Table struct {
	bySlug map[string]Area
	order  []string
}

// NewTable validates areas and builds a Table. The input slice is copied.
func NewTable(areas []Area) (*Table, error) {
	t := &Table{bySlug: make(map[string]Area, len(areas)), order: make([]string, 0, len(areas))}
	for _, a := range areas {
		if a.Slug == "" {
			return nil, ErrEmptySlug
		}
		if _, dup := t.bySlug[a.Slug]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateSlug, a.Slug)
		}
		if len(a.Cities) == 0 {
			return nil, fmt.Errorf("%w: %q", ErrNoCities, a.Slug)
		}
		a.Cities = append([]string(nil), a.Cities...)
		t.bySlug[a.Slug] = a
		t.order = append(t.order, a.Slug)
	}
	return t, nil
}

// MustNewTable is NewTable that panics on an invalid table.
func MustNewTable(areas []Area) *Table {
	t, err := NewTable(areas)
	if err != nil {
		panic(err)
	}
	return t
}

// Len returns the number of areas.
func (t *Table) Len() int { return len(t.order) }

// Areas returns the areas in declaration order.
func (t *Table) Areas() []Area {
	out := make([]Area, 0, len(t.order))
	for _, s := range t.order {
		out = append(out, t.get(s))
	}
	return out
}

// get returns a copy so callers can't reach the table's slices.
func (t *Table) get(slug string) Area {
	a := t.bySlug[slug]
	a.Cities = append([]string(nil), a.Cities...)
	return a
}

// Resolver answers slug questions against one Table.
type Resolver struct {
	table *Table
}

// NewResolver binds a resolver to t.
func NewResolver(t *Table) *Resolver {
	return &Resolver{table: t}
}

// Lookup returns the area for slug. The slug must match a key exactly.
func (r *Resolver) Lookup(slug string) (Area, bool) {
	if _, ok := r.table.bySlug[slug]; !ok {
		return Area{}, false
	}
	return r.table.get(slug), true
}

// Resolve classifies slug as a metro area or a standalone city.
func (r *Resolver) Resolve(slug string) Resolution {
	if a, ok := r.Lookup(slug); ok {
		return Resolution{Kind: KindMetro, Area: a, Name: a.DisplayName}
	}
	return Resolution{Kind: KindStandalone, Name: TitleCase(slug)}
}

// DisplayName is the page heading for slug.
func (r *Resolver) DisplayName(slug string) string {
	return r.Resolve(slug).Name
}

// RegionCode is the metro's state, or "" when unknown.
func (r *Resolver) RegionCode(slug string) string {
	res := r.Resolve(slug)
	if !res.IsMetro() {
		return ""
	}
	return res.Area.State
}

// Description is the meta description for slug.
func (r *Resolver) Description(slug string) string {
	res := r.Resolve(slug)
	if res.IsMetro() {
		return res.Area.Description
	}
	return fmt.Sprintf(DescriptionTemplate, res.Name)
}

// QueryPlan describes which theater rows belong on the page for slug.
func (r *Resolver) QueryPlan(slug string) QueryPlan {
	return r.Resolve(slug).Plan()
}

// Plan derives the query shape from a resolution.
func (res Resolution) Plan() QueryPlan {
	if res.IsMetro() {
		return QueryPlan{
			MatchCities: append([]string(nil), res.Area.Cities...),
			Match:       MatchExact,
			OrderBy:     []string{OrderCity, OrderName},
		}
	}
	return QueryPlan{
		MatchCities: []string{res.Name},
		Match:       MatchFold,
		OrderBy:     []string{OrderName},
	}
}

// TitleCase turns a hyphenated slug into words: "san-diego" -> "San Diego".
// Each segment gets its first rune upper-cased and the rest lower-cased,
// so "1st-ave" is "1st Ave". Empty segments are dropped.
func TitleCase(slug string) string {
	if slug == "" {
		return ""
	}
	// A Caser carries state and must not be shared across goroutines.
	upper, lower := cases.Upper(language.Und), cases.Lower(language.Und)
	words := make([]string, 0, strings.Count(slug, "-")+1)
	for _, seg := range strings.Split(slug, "-") {
		if seg == "" {
			continue
		}
		_, size := utf8.DecodeRuneInString(seg)
		words = append(words, upper.String(seg[:size])+lower.String(seg[size:]))
	}
	return strings.Join(words, " ")
}

// Slugify is the inverse direction used for links: "Los Angeles" -> "los-angeles".
func Slugify(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}
