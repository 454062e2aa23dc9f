package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/arthouse/theaters/internal/config"
)

// Prober is the diagnostic access the debug endpoint needs.
type Prober interface {
	Count(ctx context.Context) (int64, error)
	Sample(ctx context.Context, limit int) ([]map[string]any, []string, error)
}

// DebugHandler serves GET /api/debug: environment summary with secrets
// redacted plus a live database probe.
type DebugHandler struct {
	Cfg   config.Config
	Probe Prober // nil when no database is configured
	Now   func() time.Time
}

// DBProbe reports the outcome of the database check.
type DBProbe struct {
	Success    bool             `json:"success"`
	Error      string           `json:"error,omitempty"`
	RowCount   *int64           `json:"row_count"`
	SampleData []map[string]any `json:"sample_data"`
}

// DebugReport is the JSON body of /api/debug.
type DebugReport struct {
	Timestamp   string            `json:"timestamp"`
	Environment string            `json:"environment"`
	SiteLive    bool              `json:"site_live"`
	EnvVars     map[string]string `json:"env_vars"`
	Database    DBProbe           `json:"database_test"`
}

// Debug always answers 200; failures are described in the body.
func (h *DebugHandler) Debug(c echo.Context) error {
	now := time.Now
	if h.Now != nil {
		now = h.Now
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	return c.JSON(http.StatusOK, DebugReport{
		Timestamp:   now().UTC().Format(time.RFC3339),
		Environment: h.Cfg.Env,
		SiteLive:    h.Cfg.SiteLive,
		EnvVars:     h.Cfg.Redacted(),
		Database:    h.probe(ctx),
	})
}

func (h *DebugHandler) probe(ctx context.Context) DBProbe {
	if h.Probe == nil {
		return DBProbe{Error: "database not configured"}
	}
	n, err := h.Probe.Count(ctx)
	if err != nil {
		return DBProbe{Error: err.Error()}
	}
	rows, _, err := h.Probe.Sample(ctx, 3)
	if err != nil {
		return DBProbe{RowCount: &n, Error: err.Error()}
	}
	return DBProbe{Success: true, RowCount: &n, SampleData: rows}
}
