package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthouse/theaters/internal/config"
	"github.com/arthouse/theaters/internal/metro"
)

func do(e *echo.Echo, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestNew_LiveSite(t *testing.T) {
	e := New(config.Config{Env: "dev", SiteLive: true}, nil, metro.Default())

	rec := do(e, "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))

	assert.Equal(t, http.StatusOK, do(e, "/city/boston").Code)
	assert.Equal(t, http.StatusOK, do(e, "/search?q=film").Code)
	assert.Equal(t, http.StatusOK, do(e, "/theaters").Code)
	assert.Equal(t, http.StatusNotFound, do(e, "/theater/anything").Code)

	health := do(e, "/healthz")
	assert.Equal(t, http.StatusOK, health.Code)
	assert.Equal(t, "ok", health.Body.String())

	debug := do(e, "/api/debug")
	assert.Equal(t, http.StatusOK, debug.Code)
	assert.Contains(t, debug.Body.String(), `"database_test"`)

	metrics := do(e, "/metrics")
	require.Equal(t, http.StatusOK, metrics.Code)
	assert.Contains(t, metrics.Body.String(), "arthouse_http_requests_total")
}

func TestNew_GatedSite(t *testing.T) {
	e := New(config.Config{Env: "dev"}, nil, nil)

	rec := do(e, "/city/seattle")
	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, "/coming-soon", rec.Header().Get(echo.HeaderLocation))

	assert.Equal(t, http.StatusOK, do(e, "/coming-soon").Code)
	assert.Equal(t, http.StatusOK, do(e, "/api/debug").Code)
	assert.Equal(t, http.StatusOK, do(e, "/static/site.css").Code)
	assert.Equal(t, http.StatusOK, do(e, "/healthz").Code)
}
