// Package logging builds the structured logger shared by the CLI and the
// library packages.
package logging

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
)

// Prefix tags every line written by waypoint.
const Prefix = "waypoint"

// New returns a logger writing to w at level in format ("text" or
// "json"). An empty level selects warn.
func New(w io.Writer, level, format string) (*log.Logger, error) {
	if level == "" {
		level = "warn"
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}

	opts := log.Options{
		Level:           lvl,
		Prefix:          Prefix,
		ReportTimestamp: lvl <= log.DebugLevel,
	}
	switch format {
	case "", "text":
		opts.Formatter = log.TextFormatter
	case "json":
		opts.Formatter = log.JSONFormatter
		opts.ReportTimestamp = true
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
	return log.NewWithOptions(w, opts), nil
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard)
}
