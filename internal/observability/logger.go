package observability

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger builds the process logger. An unknown level falls back to info.
func NewLogger(level string, pretty bool, w io.Writer) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}

	return zerolog.New(w).
		With().
		Timestamp().
		Logger().
		Level(lvl)
}
