package helpers

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the process wide structured logger
var Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// InitLogger sets up Logger. Development environments get a
// human readable console output, everything else JSON.
func InitLogger(env, service string) *zerolog.Logger {
	var w io.Writer = os.Stdout
	if env == "development" || env == "dev" {
		w = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}

	return SetLogger(w, service)
}

// SetLogger sends every log line to w
func SetLogger(w io.Writer, service string) *zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339
	Logger = zerolog.New(w).With().
		Timestamp().
		Str("service", service).
		Logger()

	return &Logger
}
