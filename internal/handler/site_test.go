package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthouse/theaters/internal/metro"
	"github.com/arthouse/theaters/internal/model"
	"github.com/arthouse/theaters/internal/repository"
	"github.com/arthouse/theaters/internal/view"
)

type fakeStore struct {
	described   []model.Theater
	undescribed []model.Theater
	all         []model.Theater
	byPlan      []model.Theater
	bySlug      map[string]model.Theater
	err         error

	plans    []metro.QueryPlan
	searches []string
}

func (f *fakeStore) ListAll(context.Context) ([]model.Theater, error) { return f.all, f.err }
func (f *fakeStore) ListWithDescription(_ context.Context, _ int) ([]model.Theater, error) {
	return append([]model.Theater(nil), f.described...), f.err
}
func (f *fakeStore) ListWithoutDescription(_ context.Context, _ int) ([]model.Theater, error) {
	return append([]model.Theater(nil), f.undescribed...), f.err
}
func (f *fakeStore) ListByPlan(_ context.Context, p metro.QueryPlan) ([]model.Theater, error) {
	f.plans = append(f.plans, p)
	return f.byPlan, f.err
}
func (f *fakeStore) Search(_ context.Context, q string) ([]model.Theater, error) {
	f.searches = append(f.searches, q)
	return f.all, f.err
}
func (f *fakeStore) GetBySlug(_ context.Context, slug string) (*model.Theater, error) {
	if f.err != nil {
		return nil, f.err
	}
	t, ok := f.bySlug[slug]
	if !ok {
		return nil, repository.ErrTheaterNotFound
	}
	return &t, nil
}

func noShuffle(int, func(i, j int)) {}

func th(slug, name, city, state string) model.Theater {
	return model.Theater{Slug: slug, Name: name, City: city, State: state}
}

func newTestEcho(h *SiteHandler) *echo.Echo {
	e := echo.New()
	e.Renderer = view.MustNew()
	e.HTTPErrorHandler = HTTPErrorHandler
	e.GET("/", h.Home)
	e.GET("/city/:slug", h.City)
	e.GET("/search", h.Search)
	e.GET("/theater/:slug", h.Theater)
	e.GET("/theaters", h.Theaters)
	e.GET("/coming-soon", h.ComingSoon)
	return e
}

func get(e *echo.Echo, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestFeatured(t *testing.T) {
	a, b, c, d := th("a", "A", "X", "CA"), th("b", "B", "X", "CA"), th("c", "C", "X", "CA"), th("d", "D", "X", "CA")

	t.Run("enough_described", func(t *testing.T) {
		src := &fakeStore{described: []model.Theater{a, b, c, d}, undescribed: []model.Theater{th("z", "Z", "X", "CA")}}
		got := Featured(context.Background(), src, noShuffle)
		assert.Equal(t, []model.Theater{a, b, c}, got)
	})

	t.Run("padded_from_undescribed", func(t *testing.T) {
		src := &fakeStore{described: []model.Theater{a}, undescribed: []model.Theater{b, c, d}}
		got := Featured(context.Background(), src, noShuffle)
		assert.Equal(t, []model.Theater{a, b, c}, got)
	})

	t.Run("too_few_overall", func(t *testing.T) {
		src := &fakeStore{undescribed: []model.Theater{b}}
		got := Featured(context.Background(), src, noShuffle)
		assert.Equal(t, []model.Theater{b}, got)
	})

	t.Run("errors_yield_empty", func(t *testing.T) {
		src := &fakeStore{err: errors.New("down")}
		got := Featured(context.Background(), src, noShuffle)
		assert.Empty(t, got)
	})

	t.Run("shuffles_before_taking", func(t *testing.T) {
		reverse := func(n int, swap func(i, j int)) {
			for i := 0; i < n/2; i++ {
				swap(i, n-1-i)
			}
		}
		src := &fakeStore{described: []model.Theater{a, b, c, d}}
		got := Featured(context.Background(), src, reverse)
		assert.Equal(t, []model.Theater{d, c, b}, got)
	})

	t.Run("default_shuffle_keeps_members", func(t *testing.T) {
		src := &fakeStore{described: []model.Theater{a, b, c, d}}
		got := Featured(context.Background(), src, nil)
		require.Len(t, got, 3)
		for _, g := range got {
			assert.Contains(t, []model.Theater{a, b, c, d}, g)
		}
	})
}

func TestHome(t *testing.T) {
	store := &fakeStore{described: []model.Theater{th("film-forum", "Film Forum", "New York", "NY")}}
	h := NewSiteHandler(store, nil, 0)
	h.Shuffle = noShuffle

	rec := get(newTestEcho(h), "/")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Film Forum")
	assert.Contains(t, body, `href="/city/atlanta"`)
	assert.Contains(t, body, "Browse by City")
}

func TestCity_Metro(t *testing.T) {
	store := &fakeStore{byPlan: []model.Theater{th("nitehawk", "Nitehawk Cinema", "Brooklyn", "NY")}}
	h := NewSiteHandler(store, metro.Default(), 0)

	rec := get(newTestEcho(h), "/city/new-york")
	require.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, store.plans, 1)
	assert.Equal(t, metro.MatchExact, store.plans[0].Match)
	assert.Contains(t, store.plans[0].MatchCities, "Brooklyn")
	assert.Equal(t, []string{metro.OrderCity, metro.OrderName}, store.plans[0].OrderBy)

	body := rec.Body.String()
	assert.Contains(t, body, "Art House Theaters in New York Area")
	assert.Contains(t, body, "NY &bull; 1 theater")
	assert.Contains(t, body, "Nitehawk Cinema")
}

func TestCity_Standalone(t *testing.T) {
	store := &fakeStore{}
	h := NewSiteHandler(store, metro.Default(), 0)

	rec := get(newTestEcho(h), "/city/salt-lake-city")
	require.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, store.plans, 1)
	assert.Equal(t, metro.MatchFold, store.plans[0].Match)
	assert.Equal(t, []string{"Salt Lake City"}, store.plans[0].MatchCities)

	body := rec.Body.String()
	assert.Contains(t, body, "Art House Theaters in Salt Lake City")
	assert.Contains(t, body, "Find art house and independent theaters in Salt Lake City.")
	assert.Contains(t, body, "No theaters listed in Salt Lake City yet")
}

func TestCity_QueryErrorRendersEmpty(t *testing.T) {
	store := &fakeStore{err: errors.New("timeout")}
	h := NewSiteHandler(store, nil, 0)

	rec := get(newTestEcho(h), "/city/chicago")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "0 theaters")
}

func TestSearch(t *testing.T) {
	t.Run("blank_query_prompts", func(t *testing.T) {
		store := &fakeStore{}
		rec := get(newTestEcho(NewSiteHandler(store, nil, 0)), "/search?q=++")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, store.searches)
		assert.Contains(t, rec.Body.String(), "<title>Search | Art House Theaters</title>")
		assert.Contains(t, rec.Body.String(), "Enter a search term")
	})

	t.Run("results", func(t *testing.T) {
		store := &fakeStore{all: []model.Theater{th("alamo", "Alamo Drafthouse", "Austin", "TX")}}
		rec := get(newTestEcho(NewSiteHandler(store, nil, 0)), "/search?q=Texas")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []string{"Texas"}, store.searches)
		assert.Contains(t, rec.Body.String(), "<title>Search: Texas | Art House Theaters</title>")
		assert.Contains(t, rec.Body.String(), "Alamo Drafthouse")
	})

	t.Run("error_shows_no_results", func(t *testing.T) {
		store := &fakeStore{err: errors.New("boom")}
		rec := get(newTestEcho(NewSiteHandler(store, nil, 0)), "/search?q=zzz")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "No theaters found for")
	})
}

func TestTheater(t *testing.T) {
	website := "https://vintagecinemas.com/vista"
	vista := th("vista-theatre", "The Vista Theatre", "Los Angeles", "CA")
	vista.Website = &website

	t.Run("found", func(t *testing.T) {
		store := &fakeStore{bySlug: map[string]model.Theater{"vista-theatre": vista}}
		rec := get(newTestEcho(NewSiteHandler(store, nil, 0)), "/theater/vista-theatre")
		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "<title>The Vista Theatre | Art House Theaters</title>")
		assert.Contains(t, body, `href="/city/los-angeles"`)
		assert.Contains(t, body, "https://www.google.com/maps/search/?api=1&amp;query=")
		assert.Contains(t, body, website)
	})

	t.Run("not_found", func(t *testing.T) {
		rec := get(newTestEcho(NewSiteHandler(&fakeStore{}, nil, 0)), "/theater/nope")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "Page not found")
	})

	t.Run("db_error", func(t *testing.T) {
		rec := get(newTestEcho(NewSiteHandler(&fakeStore{err: errors.New("down")}, nil, 0)), "/theater/x")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), "Something went wrong")
	})
}

func TestTheaters(t *testing.T) {
	store := &fakeStore{all: []model.Theater{th("a", "Aero", "Santa Monica", "CA"), th("b", "Belcourt", "Nashville", "TN")}}
	rec := get(newTestEcho(NewSiteHandler(store, nil, 0)), "/theaters")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "2 theaters")
}

func TestNilStoreServesEmptyPages(t *testing.T) {
	e := newTestEcho(NewSiteHandler(nil, nil, 0))
	assert.Equal(t, http.StatusOK, get(e, "/").Code)
	assert.Equal(t, http.StatusOK, get(e, "/theaters").Code)
	assert.Equal(t, http.StatusNotFound, get(e, "/theater/film-forum").Code)
}

func TestComingSoon(t *testing.T) {
	rec := get(newTestEcho(NewSiteHandler(nil, nil, 0)), "/coming-soon")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Coming Soon")
}

func TestHTTPErrorHandler(t *testing.T) {
	e := newTestEcho(NewSiteHandler(nil, nil, 0))

	rec := get(e, "/no/such/page")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Page not found")

	rec = get(e, "/api/nothing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Not Found"}`, rec.Body.String())
}

func TestMapsURL(t *testing.T) {
	got := MapsURL(th("x", "Film Forum", "New York", "NY"))
	assert.Equal(t, "https://www.google.com/maps/search/?api=1&query=Film+Forum%2C+New+York%2C+NY", got)
}
