// Package handler exposes the HTTP handlers for the public site. Listing
// pages never fail on a database error: the error is logged and the page
// renders with an empty list. Only the single-theater page distinguishes
// "not found" (404) from other failures (500).
package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/arthouse/theaters/internal/logger"
	"github.com/arthouse/theaters/internal/metro"
	"github.com/arthouse/theaters/internal/model"
	"github.com/arthouse/theaters/internal/repository"
	"github.com/arthouse/theaters/internal/view"
)

// TheaterStore is the read access the site pages need.
type TheaterStore interface {
	FeaturedSource
	ListAll(ctx context.Context) ([]model.Theater, error)
	ListByPlan(ctx context.Context, plan metro.QueryPlan) ([]model.Theater, error)
	Search(ctx context.Context, query string) ([]model.Theater, error)
	GetBySlug(ctx context.Context, slug string) (*model.Theater, error)
}

// SiteHandler renders the public pages.
type SiteHandler struct {
	Store        TheaterStore
	Metro        *metro.Resolver
	QueryTimeout time.Duration
	Shuffle      Shuffler // nil means math/rand
}

// NewSiteHandler wires a SiteHandler. A nil store serves empty pages,
// which is how the site runs in development without a database.
func NewSiteHandler(store TheaterStore, resolver *metro.Resolver, timeout time.Duration) *SiteHandler {
	if store == nil {
		store = emptyStore{}
	}
	if resolver == nil {
		resolver = metro.Default()
	}
	return &SiteHandler{Store: store, Metro: resolver, QueryTimeout: timeout}
}

const homeDescription = "A directory of art house theaters, repertory cinemas, and independent movie houses across America."

// HomePage is the body of the home page.
type HomePage struct {
	Featured []model.Theater
	Cities   []model.City
}

// CityPage is the body of a city or metro page.
type CityPage struct {
	Slug     string
	Name     string
	Region   string
	IsMetro  bool
	Intro    string
	Cities   []string // member cities, metro pages only
	Theaters []model.Theater
}

// SearchPage is the body of the search page.
type SearchPage struct {
	Query    string
	Theaters []model.Theater
}

// TheaterPage is the body of a single-theater page.
type TheaterPage struct {
	Theater model.Theater
	MapsURL string
	CityURL string
}

// DirectoryPage is the body of the full directory.
type DirectoryPage struct {
	Theaters []model.Theater
}

func (h *SiteHandler) queryContext(c echo.Context) (context.Context, context.CancelFunc) {
	if h.QueryTimeout <= 0 {
		return context.WithCancel(c.Request().Context())
	}
	return context.WithTimeout(c.Request().Context(), h.QueryTimeout)
}

// Home renders GET /.
func (h *SiteHandler) Home(c echo.Context) error {
	ctx, cancel := h.queryContext(c)
	defer cancel()

	return c.Render(http.StatusOK, "home", view.Page{
		Title:       view.Title("Find Independent Cinema Near You"),
		Description: homeDescription,
		Body: HomePage{
			Featured: Featured(ctx, h.Store, h.Shuffle),
			Cities:   model.FeaturedCities,
		},
	})
}

// City renders GET /city/:slug. Unknown slugs are treated as standalone
// cities rather than 404s.
func (h *SiteHandler) City(c echo.Context) error {
	slug := c.Param("slug")
	res := h.Metro.Resolve(slug)

	ctx, cancel := h.queryContext(c)
	defer cancel()

	theaters, err := h.Store.ListByPlan(ctx, res.Plan())
	if err != nil {
		logger.Ctx(ctx).Error().Err(err).Str("slug", slug).Str("kind", res.Kind.String()).Msg("city theaters query failed")
		theaters = []model.Theater{}
	}

	page := CityPage{
		Slug:     slug,
		Name:     res.Name,
		Region:   h.Metro.RegionCode(slug),
		IsMetro:  res.IsMetro(),
		Intro:    h.Metro.Description(slug),
		Theaters: theaters,
	}
	if res.IsMetro() {
		page.Cities = res.Area.Cities
	}
	return c.Render(http.StatusOK, "city", view.Page{
		Title:       view.Title("Art House Theaters in " + res.Name),
		Description: page.Intro,
		Body:        page,
	})
}

// Search renders GET /search?q=.
func (h *SiteHandler) Search(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("q"))

	ctx, cancel := h.queryContext(c)
	defer cancel()

	theaters := []model.Theater{}
	if q != "" {
		found, err := h.Store.Search(ctx, q)
		if err != nil {
			logger.Ctx(ctx).Error().Err(err).Str("q", q).Msg("search query failed")
		} else {
			theaters = found
		}
	}

	title, desc := view.Title("Search"), "Search for art house and independent theaters across America."
	if q != "" {
		title = view.Title("Search: " + q)
		desc = fmt.Sprintf("Search results for %q - Find art house and independent theaters.", q)
	}
	return c.Render(http.StatusOK, "search", view.Page{
		Title:       title,
		Description: desc,
		Body:        SearchPage{Query: q, Theaters: theaters},
	})
}

// Theater renders GET /theater/:slug.
func (h *SiteHandler) Theater(c echo.Context) error {
	slug := c.Param("slug")

	ctx, cancel := h.queryContext(c)
	defer cancel()

	t, err := h.Store.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrTheaterNotFound) {
			return renderError(c, http.StatusNotFound)
		}
		logger.Ctx(ctx).Error().Err(err).Str("slug", slug).Msg("theater query failed")
		return renderError(c, http.StatusInternalServerError)
	}

	desc := t.Blurb()
	if desc == "" {
		desc = fmt.Sprintf("%s is an independent movie theater in %s.", t.Name, t.Location())
	}
	return c.Render(http.StatusOK, "theater", view.Page{
		Title:       view.Title(t.Name),
		Description: desc,
		Body: TheaterPage{
			Theater: *t,
			MapsURL: MapsURL(*t),
			CityURL: "/city/" + metro.Slugify(t.City),
		},
	})
}

// Theaters renders GET /theaters, the full directory.
func (h *SiteHandler) Theaters(c echo.Context) error {
	ctx, cancel := h.queryContext(c)
	defer cancel()

	theaters, err := h.Store.ListAll(ctx)
	if err != nil {
		logger.Ctx(ctx).Error().Err(err).Msg("directory query failed")
		theaters = []model.Theater{}
	}
	return c.Render(http.StatusOK, "theaters", view.Page{
		Title:       view.Title("All Theaters"),
		Description: "Every art house and independent theater in the directory.",
		Body:        DirectoryPage{Theaters: theaters},
	})
}

// ComingSoon renders the placeholder shown while the site is gated.
func (h *SiteHandler) ComingSoon(c echo.Context) error {
	return c.Render(http.StatusOK, "coming_soon", view.Page{
		Title:       view.Title("Coming Soon"),
		Description: "A directory of independent cinemas across America",
	})
}

// MapsURL links to a Google Maps search for the theater.
func MapsURL(t model.Theater) string {
	v := url.Values{}
	v.Set("api", "1")
	v.Set("query", fmt.Sprintf("%s, %s, %s", t.Name, t.City, t.State))
	return "https://www.google.com/maps/search/?" + v.Encode()
}

// emptyStore stands in for the database when none is configured.
type emptyStore struct{}

func (emptyStore) ListAll(context.Context) ([]model.Theater, error) { return []model.Theater{}, nil }
func (emptyStore) ListWithDescription(context.Context, int) ([]model.Theater, error) {
	return []model.Theater{}, nil
}
func (emptyStore) ListWithoutDescription(context.Context, int) ([]model.Theater, error) {
	return []model.Theater{}, nil
}
func (emptyStore) ListByPlan(context.Context, metro.QueryPlan) ([]model.Theater, error) {
	return []model.Theater{}, nil
}
func (emptyStore) Search(context.Context, string) ([]model.Theater, error) {
	return []model.Theater{}, nil
}
func (emptyStore) GetBySlug(context.Context, string) (*model.Theater, error) {
	return nil, repository.ErrTheaterNotFound
}
