package handler

import (
	"context"
	"math/rand"

	"github.com/arthouse/theaters/internal/logger"
	"github.com/arthouse/theaters/internal/model"
)

const (
	featuredCount = 3
	featuredPool  = 20
)

// FeaturedSource is the part of the theater store the home page needs.
type FeaturedSource interface {
	ListWithDescription(ctx context.Context, limit int) ([]model.Theater, error)
	ListWithoutDescription(ctx context.Context, limit int) ([]model.Theater, error)
}

// Shuffler permutes n elements through swap, like rand.Shuffle.
type Shuffler func(n int, swap func(i, j int))

// Featured picks up to three theaters for the home page. Theaters with a
// description are preferred; when fewer than three exist the rest are
// drawn from theaters without one. Query errors are logged and yield
// fewer (possibly zero) results.
func Featured(ctx context.Context, src FeaturedSource, shuffle Shuffler) []model.Theater {
	if shuffle == nil {
		shuffle = rand.Shuffle
	}
	l := logger.Ctx(ctx)

	described, err := src.ListWithDescription(ctx, featuredPool)
	if err != nil {
		l.Error().Err(err).Msg("featured: list described theaters")
		described = nil
	}
	shuffleTheaters(described, shuffle)
	if len(described) >= featuredCount {
		return described[:featuredCount]
	}

	need := featuredCount - len(described)
	rest, err := src.ListWithoutDescription(ctx, featuredPool)
	if err != nil {
		l.Error().Err(err).Msg("featured: list undescribed theaters")
		rest = nil
	}
	shuffleTheaters(rest, shuffle)
	if len(rest) > need {
		rest = rest[:need]
	}

	out := make([]model.Theater, 0, len(described)+len(rest))
	out = append(out, described...)
	return append(out, rest...)
}

func shuffleTheaters(ts []model.Theater, shuffle Shuffler) {
	shuffle(len(ts), func(i, j int) { ts[i], ts[j] = ts[j], ts[i] })
}
