package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/arthouse/theaters/internal/logger"
	"github.com/arthouse/theaters/internal/view"
)

// ErrorPage is the body of the error page.
type ErrorPage struct {
	Status  int
	Heading string
	Message string
}

func errorPage(status int) ErrorPage {
	switch status {
	case http.StatusNotFound:
		return ErrorPage{status, "Page not found", "We couldn't find that page. It may have moved, or the theater may not be listed yet."}
	case http.StatusInternalServerError:
		return ErrorPage{status, "Something went wrong", "We couldn't load this page. Please try again in a moment."}
	}
	return ErrorPage{status, http.StatusText(status), ""}
}

func renderError(c echo.Context, status int) error {
	p := errorPage(status)
	return c.Render(status, "error", view.Page{Title: view.Title(p.Heading), Body: p})
}

// HTTPErrorHandler renders HTML error pages for site routes and JSON
// errors for /api routes.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := "internal server error"
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		}
	}
	if code >= 500 {
		logger.Ctx(c.Request().Context()).Error().Err(err).Msg("unhandled error")
	}

	var werr error
	switch {
	case c.Request().Method == http.MethodHead:
		werr = c.NoContent(code)
	case strings.HasPrefix(c.Request().URL.Path, "/api"):
		werr = c.JSON(code, echo.Map{"error": msg})
	default:
		werr = renderError(c, code)
	}
	if werr != nil {
		logger.Ctx(c.Request().Context()).Error().Err(werr).Msg("write error response")
	}
}
