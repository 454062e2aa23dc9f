package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/arthouse/theaters/internal/config"
	"github.com/arthouse/theaters/internal/database"
	"github.com/arthouse/theaters/internal/logger"
	"github.com/arthouse/theaters/internal/metro"
	"github.com/arthouse/theaters/internal/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.LogLevel, cfg.LogFormat)
	log := logger.Log.With().Str("service", "arthouse-web").Str("env", cfg.Env).Logger()

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ---- MySQL ----
	var db *sql.DB
	if cfg.HasDatabase() {
		db, err = database.Open(cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("mysql connect failed")
		}
		defer db.Close()
		log.Info().Str("host", cfg.DBHost).Str("db", cfg.DBName).Msg("mysql connected")
	} else {
		log.Warn().Strs("missing", cfg.MissingDB()).Msg("database not configured; pages will render empty")
	}

	if !cfg.SiteLive {
		log.Info().Msg("SITE_LIVE is not true; redirecting pages to /coming-soon")
	}

	// ---- HTTP server ----
	e := router.New(cfg, db, metro.Default())
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-rootCtx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}
}
