package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Config controls where and how much the logger writes.
type Config struct {
	// Level: debug, info, warn, error or disabled
	Level string
	// Format: console or json
	Format string
	// File is appended to; empty means stderr
	File string
	// Output overrides File when set (tests)
	Output io.Writer
}

var (
	logger  = zerolog.Nop()
	logFile *os.File
	mu      sync.RWMutex
)

// InitLogger configures the package logger. It may be called again to
// reconfigure; the previous log file is closed.
func InitLogger(cfg Config) error {
	mu.Lock()
	defer mu.Unlock()

	closeFileLocked()

	out := cfg.Output
	if out == nil {
		out = os.Stderr
		if cfg.File != "" {
			f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
			if err != nil {
				return fmt.Errorf("failed to open log file: %w", err)
			}
			logFile = f
			out = f
		}
	}

	if cfg.Format != "json" {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.TimeOnly,
			NoColor:    cfg.File != "" || cfg.Output != nil,
		}
	}

	logger = zerolog.New(out).
		Level(parseLevel(cfg.Level)).
		With().
		Timestamp().
		Logger()

	return nil
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// Logger returns the configured logger for structured fields.
func Logger() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	l := logger
	return &l
}

// Debug logs a debug message
func Debug(format string, v ...interface{}) {
	Logger().Debug().Msgf(format, v...)
}

// Info logs an info message
func Info(format string, v ...interface{}) {
	Logger().Info().Msgf(format, v...)
}

// Warn logs a warning message
func Warn(format string, v ...interface{}) {
	Logger().Warn().Msgf(format, v...)
}

// Error logs an error message
func Error(format string, v ...interface{}) {
	Logger().Error().Msgf(format, v...)
}

// Close flushes and closes the log file, if any. Logging afterwards is a no-op.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	closeFileLocked()
	logger = zerolog.Nop()
}

func closeFileLocked() {
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}
