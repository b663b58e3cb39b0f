// Package log provides the levelled logging helpers used throughout machinelog-app-sheets.
package log

import (
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

var (
	guard  sync.RWMutex
	logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "2006-01-02 15:04:05"}).
		Level(zerolog.InfoLevel).
		With().
		Timestamp().
		Logger()
)

// SetDebug enables (or disables) DEBUG level messages.
func SetDebug(debug bool) {
	guard.Lock()
	defer guard.Unlock()

	if debug {
		logger = logger.Level(zerolog.DebugLevel)
	} else {
		logger = logger.Level(zerolog.InfoLevel)
	}
}

// SetOutput redirects log output as JSON lines, typically to a buffer in tests.
func SetOutput(w io.Writer) {
	guard.Lock()
	defer guard.Unlock()

	level := logger.GetLevel()
	logger = zerolog.New(w).Level(level).With().Timestamp().Logger()
}

func Debugf(format string, args ...any) {
	get().Debug().Msgf(format, args...)
}

func Infof(format string, args ...any) {
	get().Info().Msgf(format, args...)
}

func Warnf(format string, args ...any) {
	get().Warn().Msgf(format, args...)
}

// Errorf logs at ERROR level and attaches err (if not nil) as the 'error' field.
func Errorf(err error, format string, args ...any) {
	get().Error().Err(err).Msgf(format, args...)
}

func get() *zerolog.Logger {
	guard.RLock()
	defer guard.RUnlock()

	l := logger
	return &l
}
