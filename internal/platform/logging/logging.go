package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"efforts/internal/platform/config"
)

// New builds the root logger. "text" uses zerolog's console writer and any
// other format writes JSON.
func New(cfg config.LoggingConfig, out io.Writer) zerolog.Logger {
	level := zerolog.InfoLevel
	switch cfg.Level {
	case "debug":
		level = zerolog.DebugLevel
	case "info":
		level = zerolog.InfoLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	case "disabled":
		level = zerolog.Disabled
	}

	if cfg.Format == "text" {
		return zerolog.New(zerolog.ConsoleWriter{Out: out, NoColor: out != os.Stderr && out != os.Stdout}).
			Level(level).With().Timestamp().Logger()
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// OpenFile opens the log file used while the terminal UI owns the screen.
func OpenFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}
