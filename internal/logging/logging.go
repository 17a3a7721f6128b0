// Package logging builds the zerolog loggers used by the seedrand
// binaries.
package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
)

// New returns a logger writing to w at the named level. format is
// "console" for human-readable output or "json".
func New(w io.Writer, level, format string) (zerolog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), err
	}

	var out io.Writer
	switch format {
	case "console", "":
		out = zerolog.NewConsoleWriter(func(cw *zerolog.ConsoleWriter) {
			cw.Out = w
			cw.TimeFormat = "15:04:05.000"
			cw.FormatLevel = formatLevel
		})
	case "json":
		out = w
	default:
		return zerolog.Nop(), fmt.Errorf("logging: unknown format %q", format)
	}

	// The global level filters before the logger's own level.
	if lvl < zerolog.GlobalLevel() {
		zerolog.SetGlobalLevel(lvl)
	}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger(), nil
}

// ParseLevel maps a level name to a zerolog level. The empty string is
// info.
func ParseLevel(level string) (zerolog.Level, error) {
	if level == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("logging: %w", err)
	}
	return lvl, nil
}

// formatLevel renders levels as fixed-width three letter tags.
func formatLevel(i interface{}) string {
	s, ok := i.(string)
	if !ok {
		return "???"
	}
	switch s {
	case "trace":
		return "TRC"
	case "debug":
		return "DBG"
	case "info":
		return "INF"
	case "warn":
		return "WRN"
	case "error":
		return "ERR"
	case "fatal":
		return "FTL"
	case "panic":
		return "PNC"
	default:
		return strings.ToUpper(s)
	}
}
