package seedrand

import (
	"os"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// debugEnabled turns on debug output to stderr via the SEEDRAND_DEBUG
// environment variable. Refill traces also need the program to lower
// zerolog's global level to trace.
var debugEnabled = os.Getenv("SEEDRAND_DEBUG") == "1"

var pkgLogger atomic.Pointer[zerolog.Logger]

func init() {
	l := defaultLogger(debugEnabled)
	pkgLogger.Store(&l)
}

// defaultLogger returns the package logger used before SetLogger: a
// console logger on stderr when debug is set, otherwise a no-op.
func defaultLogger(debug bool) zerolog.Logger {
	if !debug {
		return zerolog.Nop()
	}
	return zerolog.New(zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
		w.Out = os.Stderr
		w.TimeFormat = "15:04:05.000"
	})).Level(zerolog.TraceLevel).With().Timestamp().Str("pkg", "seedrand").Logger()
}

// SetLogger replaces the logger used for seeding, jump and
// reconstruction events (debug level) and cache refills (trace level).
// The default logger discards everything unless SEEDRAND_DEBUG=1.
func SetLogger(l zerolog.Logger) {
	pkgLogger.Store(&l)
}

// log returns the current package logger.
func log() *zerolog.Logger {
	return pkgLogger.Load()
}
