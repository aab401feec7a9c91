package logger

import (
	"io"
	"os"
	"time"

	"Warbler/api/config"

	"github.com/rs/zerolog"
)

// New builds the application logger. Production logs are JSON on stdout,
// everything else goes through the console writer on stderr.
func New(cfg config.LogConfig, production bool) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	var out io.Writer = os.Stdout
	if !production {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}

	zerolog.TimeFieldFormat = time.RFC3339

	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("service", "warbler").
		Logger()
}
