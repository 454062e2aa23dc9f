package photos

import (
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/arthouse/theaters/internal/logger"
	"github.com/arthouse/theaters/internal/middleware"
	"github.com/arthouse/theaters/internal/view"
)

// ReviewPhoto is one downloaded image of a theater.
type ReviewPhoto struct {
	Num  int
	File string
}

// ReviewTheater is one theater folder on the review page.
type ReviewTheater struct {
	Slug      string
	Photos    []ReviewPhoto
	Selection Selection
}

// ReviewPage is the body of the review page.
type ReviewPage struct {
	Theaters []ReviewTheater
	Reviewed int
}

type saveRequest struct {
	Slug      string    `json:"slug" validate:"required,slugname"`
	Selection Selection `json:"selection"`
}

// ReviewServer serves the local photo review tool over Dir.
type ReviewServer struct {
	Dir   string
	Store SelectionStore
}

// Echo builds the review tool's server.
func (s *ReviewServer) Echo() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Renderer = view.MustNew()
	e.Validator = newRequestValidator()
	e.Use(echomw.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.AccessLog())

	e.GET("/", s.Index)
	e.GET("/photos/:slug/:file", s.Photo)
	e.POST("/save", s.Save)
	e.GET("/export", s.Export)
	return e
}

// Index renders every theater folder with its photos and saved selection.
func (s *ReviewServer) Index(c echo.Context) error {
	ctx := c.Request().Context()
	sels, err := s.Store.All(ctx)
	if err != nil {
		logger.Ctx(ctx).Error().Err(err).Msg("load selections")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load selections"})
	}
	theaters, err := listTheaters(s.Dir)
	if err != nil {
		logger.Ctx(ctx).Error().Err(err).Str("dir", s.Dir).Msg("list photo folders")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not read photos dir"})
	}
	for i := range theaters {
		theaters[i].Selection = sels[theaters[i].Slug]
	}

	c.Response().Header().Set(echo.HeaderCacheControl, "no-store, no-cache, must-revalidate")
	return c.Render(http.StatusOK, "review", view.Page{
		Title: "Theater Photo Review",
		Body:  ReviewPage{Theaters: theaters, Reviewed: len(sels)},
	})
}

// Photo serves {Dir}/{slug}/{file} for .jpg files only.
func (s *ReviewServer) Photo(c echo.Context) error {
	slug, file := c.Param("slug"), c.Param("file")
	if !safeName(slug) || !safeName(file) || !strings.HasSuffix(file, ".jpg") {
		return c.String(http.StatusNotFound, "Not found")
	}
	path := filepath.Join(s.Dir, slug, file)
	if _, err := os.Stat(path); err != nil {
		return c.String(http.StatusNotFound, "Not found")
	}
	return c.File(path)
}

// Save stores the posted selection for one theater.
func (s *ReviewServer) Save(c echo.Context) error {
	var req saveRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid JSON body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": validationMessage(err)})
	}
	if req.Selection.Selected == nil {
		req.Selection.Selected = []int{}
	}
	if err := s.Store.Save(c.Request().Context(), req.Slug, req.Selection); err != nil {
		logger.Ctx(c.Request().Context()).Error().Err(err).Str("slug", req.Slug).Msg("save selection")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not save selection"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// Export returns every saved selection keyed by slug.
func (s *ReviewServer) Export(c echo.Context) error {
	sels, err := s.Store.All(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load selections"})
	}
	return c.JSON(http.StatusOK, sels)
}

func safeName(s string) bool {
	return s != "" && s != "." && s != ".." && !strings.ContainsAny(s, `/\`)
}

// listTheaters returns the theater folders under dir, sorted by slug, each
// with its .jpg files ordered by photo number.
func listTheaters(dir string) ([]ReviewTheater, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []ReviewTheater{}, nil
		}
		return nil, err
	}
	out := []ReviewTheater{}
	for _, ent := range entries {
		if !ent.IsDir() {
			continue
		}
		files, err := os.ReadDir(filepath.Join(dir, ent.Name()))
		if err != nil {
			return nil, err
		}
		t := ReviewTheater{Slug: ent.Name()}
		for _, f := range files {
			if f.IsDir() || !strings.HasSuffix(f.Name(), ".jpg") {
				continue
			}
			t.Photos = append(t.Photos, ReviewPhoto{File: f.Name()})
		}
		sort.Slice(t.Photos, func(i, j int) bool { return t.Photos[i].File < t.Photos[j].File })
		for i := range t.Photos {
			n, err := strconv.Atoi(strings.TrimSuffix(t.Photos[i].File, ".jpg"))
			if err != nil {
				n = i + 1
			}
			t.Photos[i].Num = n
		}
		sort.SliceStable(t.Photos, func(i, j int) bool { return t.Photos[i].Num < t.Photos[j].Num })
		out = append(out, t)
	}
	// os.ReadDir already sorts by filename
	return out, nil
}
