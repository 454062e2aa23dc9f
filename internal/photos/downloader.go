// Package photos implements the offline photo tooling: downloading venue
// photos from Google Places and reviewing them locally.
package photos

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/arthouse/theaters/internal/config"
	"github.com/arthouse/theaters/internal/logger"
	"github.com/arthouse/theaters/internal/metrics"
	"github.com/arthouse/theaters/internal/places"
	"github.com/arthouse/theaters/internal/queue"
	"github.com/arthouse/theaters/internal/repository"
)

// Download outcomes, one per theater.
const (
	StatusSuccess  = "success"
	StatusNoPlace  = "no_place_found"
	StatusNoPhotos = "no_photos"
	StatusError    = "error"
)

// PlaceFinder is the Places API surface the downloader uses.
type PlaceFinder interface {
	SearchText(ctx context.Context, query string) (*places.Place, error)
	DownloadPhoto(ctx context.Context, photoName string, maxWidth int, w io.Writer) (int64, error)
}

// EventPublisher receives one event per processed theater.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.PhotoResultEvent) error
}

// Result is the outcome for one theater.
type Result struct {
	Theater          repository.SlugRef
	Status           string
	PhotosDownloaded int
	PlaceID          string
	PlaceName        string
	Error            string
}

// Event converts r into the broker payload.
func (r Result) Event(at time.Time) queue.PhotoResultEvent {
	return queue.PhotoResultEvent{
		Slug:        r.Theater.Slug,
		Name:        r.Theater.Name,
		City:        r.Theater.City,
		State:       r.Theater.State,
		Status:      r.Status,
		PlaceID:     r.PlaceID,
		PlaceName:   r.PlaceName,
		Photos:      r.PhotosDownloaded,
		Error:       r.Error,
		ProcessedAt: at.UTC().Format(time.RFC3339),
	}
}

// Downloader fetches up to Cfg.MaxPerTheater photos for each theater into
// Cfg.Dir/{slug}/{n}.jpg. Theaters are processed one at a time with
// Cfg.DelayTheater between them and Cfg.DelayPhoto between photos.
type Downloader struct {
	Places    PlaceFinder
	Cfg       config.PhotosConfig
	Publisher EventPublisher // optional

	// Sleep and Now are replaced in tests.
	Sleep func(ctx context.Context, d time.Duration) error
	Now   func() time.Time
}

func (d *Downloader) sleep(ctx context.Context, dur time.Duration) error {
	if d.Sleep != nil {
		return d.Sleep(ctx, dur)
	}
	if dur <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(dur)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (d *Downloader) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// Run processes theaters in order and returns every result plus the
// elapsed time. It stops early only when ctx is cancelled.
func (d *Downloader) Run(ctx context.Context, theaters []repository.SlugRef) ([]Result, time.Duration, error) {
	if err := os.MkdirAll(d.Cfg.Dir, 0o755); err != nil {
		return nil, 0, fmt.Errorf("create photos dir: %w", err)
	}
	log := logger.Ctx(ctx)
	start := d.now()

	results := make([]Result, 0, len(theaters))
	for i, t := range theaters {
		log.Info().Str("progress", fmt.Sprintf("%d/%d", i+1, len(theaters))).
			Str("slug", t.Slug).Str("theater", t.Name).Msg("processing")

		r := d.ProcessTheater(ctx, t)
		results = append(results, r)
		metrics.RecordPhotoResult(r.Status)

		ev := log.Info()
		if r.Status == StatusError {
			ev = log.Warn().Str("error", r.Error)
		}
		ev.Str("slug", t.Slug).Str("status", r.Status).Int("photos", r.PhotosDownloaded).Msg("processed")

		if d.Publisher != nil {
			if err := d.Publisher.Publish(ctx, r.Event(d.now())); err != nil {
				log.Error().Err(err).Str("slug", t.Slug).Msg("publish photo result")
			}
		}

		if i < len(theaters)-1 {
			if err := d.sleep(ctx, d.Cfg.DelayTheater); err != nil {
				return results, d.now().Sub(start), err
			}
		}
	}
	return results, d.now().Sub(start), nil
}

// ProcessTheater searches for one theater and downloads its photos.
func (d *Downloader) ProcessTheater(ctx context.Context, t repository.SlugRef) Result {
	r := Result{Theater: t, Status: StatusSuccess}

	place, err := d.Places.SearchText(ctx, fmt.Sprintf("%s %s %s", t.Name, t.City, t.State))
	if err != nil {
		r.Status, r.Error = StatusError, err.Error()
		return r
	}
	if place == nil {
		r.Status = StatusNoPlace
		return r
	}
	r.PlaceID = place.ID
	r.PlaceName = place.DisplayName
	if r.PlaceName == "" {
		r.PlaceName = t.Name
	}

	names := place.PhotoNames
	if len(names) > d.Cfg.MaxPerTheater {
		names = names[:d.Cfg.MaxPerTheater]
	}
	if len(names) == 0 {
		r.Status = StatusNoPhotos
		return r
	}

	dir := filepath.Join(d.Cfg.Dir, t.Slug)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		r.Status, r.Error = StatusError, err.Error()
		return r
	}

	for i, name := range names {
		out := filepath.Join(dir, strconv.Itoa(i+1)+".jpg")
		if err := d.savePhoto(ctx, name, out); err != nil {
			logger.Ctx(ctx).Warn().Err(err).Str("slug", t.Slug).Int("photo", i+1).Msg("photo download failed")
		} else {
			r.PhotosDownloaded++
		}
		if i < len(names)-1 {
			if err := d.sleep(ctx, d.Cfg.DelayPhoto); err != nil {
				r.Status, r.Error = StatusError, err.Error()
				return r
			}
		}
	}
	if r.PhotosDownloaded == 0 {
		r.Status = StatusNoPhotos
	}
	return r
}

// savePhoto writes one photo, removing the partial file on failure.
func (d *Downloader) savePhoto(ctx context.Context, name, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	_, err = d.Places.DownloadPhoto(ctx, name, d.Cfg.MaxWidth, f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return err
	}
	return nil
}
