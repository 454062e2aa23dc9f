package logger

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

type ctxKey struct{}

var Log zerolog.Logger = zlog.Logger

// Init configures the global logger from LOG_LEVEL and LOG_FORMAT.
func Init(level, format string) {
	InitWithWriter(os.Stdout, level, format)
}

func InitWithWriter(w io.Writer, level, format string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	var l zerolog.Logger
	if format == "json" {
		l = zerolog.New(w).With().Timestamp().Logger().Level(lvl)
	} else {
		l = zerolog.New(zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
		}).With().Timestamp().Logger().Level(lvl)
	}

	Log = l
	zlog.Logger = l
}

// WithRequestID stores the request id for Ctx.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// Ctx returns a logger tagged with the request id when one is present.
func Ctx(ctx context.Context) *zerolog.Logger {
	if id, ok := ctx.Value(ctxKey{}).(string); ok && id != "" {
		l := Log.With().Str("request_id", id).Logger()
		return &l
	}
	return &Log
}
