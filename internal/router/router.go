// Package router assembles the echo server: middleware, renderer and the
// public routes.
package router

import (
	"database/sql"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/arthouse/theaters/internal/config"
	"github.com/arthouse/theaters/internal/handler"
	"github.com/arthouse/theaters/internal/metro"
	"github.com/arthouse/theaters/internal/middleware"
	"github.com/arthouse/theaters/internal/repository"
	"github.com/arthouse/theaters/internal/view"
)

// New builds the site server. db may be nil, in which case every listing
// renders empty and /healthz skips the database check.
func New(cfg config.Config, db *sql.DB, resolver *metro.Resolver) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = view.MustNew()
	e.HTTPErrorHandler = handler.HTTPErrorHandler

	// recover first so panics still get a request id and an access log line
	e.Use(echomw.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.AccessLog())
	e.Use(middleware.SiteGate(cfg.SiteLive))

	var (
		store  handler.TheaterStore
		probe  handler.Prober
		pinger handler.Pinger
	)
	if db != nil {
		repo := repository.NewTheaterRepo(db)
		store, probe, pinger = repo, repo, db
	}

	RegisterRoutes(e,
		handler.NewSiteHandler(store, resolver, cfg.QueryTimeout),
		&handler.DebugHandler{Cfg: cfg, Probe: probe},
		&handler.HealthHandler{DB: pinger},
	)
	return e
}

// RegisterRoutes maps every public path to its handler.
func RegisterRoutes(e *echo.Echo, site *handler.SiteHandler, debug *handler.DebugHandler, health *handler.HealthHandler) {
	e.GET("/", site.Home)
	e.GET("/city/:slug", site.City)
	e.GET("/search", site.Search)
	e.GET("/theater/:slug", site.Theater)
	e.GET("/theaters", site.Theaters)
	e.GET(middleware.ComingSoonPath, site.ComingSoon)

	e.GET("/healthz", health.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/api/debug", debug.Debug)

	e.StaticFS("/static", view.Static())
}
