package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// ComingSoonPath is where every page redirects while the site isn't live.
const ComingSoonPath = "/coming-soon"

// SiteGate redirects page requests to ComingSoonPath unless live is true.
// The placeholder itself, /api routes, /static assets, /healthz, /metrics
// and any path with a file extension always pass.
func SiteGate(live bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if live {
			return next
		}
		return func(c echo.Context) error {
			if gateExempt(c.Request().URL.Path) {
				return next(c)
			}
			return c.Redirect(http.StatusTemporaryRedirect, ComingSoonPath)
		}
	}
}

func gateExempt(path string) bool {
	switch {
	case path == ComingSoonPath, path == "/healthz", path == "/metrics":
		return true
	case path == "/api" || strings.HasPrefix(path, "/api/"):
		return true
	case strings.HasPrefix(path, "/static/"):
		return true
	case strings.Contains(path, "."):
		return true
	}
	return false
}
