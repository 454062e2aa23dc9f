package middleware

import (
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/arthouse/theaters/internal/logger"
	"github.com/arthouse/theaters/internal/metrics"
)

// RequestID assigns a uuid request id (or keeps the caller's X-Request-Id)
// and makes it visible to logger.Ctx.
func RequestID() echo.MiddlewareFunc {
	return echomw.RequestIDWithConfig(echomw.RequestIDConfig{
		Generator: uuid.NewString,
		RequestIDHandler: func(c echo.Context, id string) {
			req := c.Request()
			c.SetRequest(req.WithContext(logger.WithRequestID(req.Context(), id)))
		},
	})
}

// AccessLog logs each finished request and records request metrics under
// the matched route pattern so city slugs don't explode label cardinality.
func AccessLog() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				// let the HTTP error handler write the response so the status is final
				c.Error(err)
			}

			status := c.Response().Status
			latency := time.Since(start)
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			metrics.RecordRequest(c.Request().Method, route, strconv.Itoa(status), latency)

			l := logger.Ctx(c.Request().Context())
			ev := l.Info()
			if status >= 500 {
				ev = l.Error()
			} else if status >= 400 {
				ev = l.Warn()
			}
			ev.Str("method", c.Request().Method).
				Str("path", c.Request().URL.Path).
				Str("route", route).
				Int("status", status).
				Dur("latency", latency).
				Str("ip", c.RealIP()).
				Msg("http_request")
			return nil
		}
	}
}
