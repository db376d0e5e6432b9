// Package nexuslog builds the process-wide zerolog.Logger, grounded in
// intelligencedev-manifold/internal/observability/logging.go's InitLogger
// (console vs. structured output, global level). nexus3 has no TUI to
// protect stdout from, so unlike that source this always logs to stdout.
package nexuslog

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds a logger for format, one of "console" (human-readable,
// colorized when attached to a terminal) or "json" (one JSON object per
// line, for machine consumption — e.g. `cmd/nexus3 serve` under a process
// supervisor).
func New(format string) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339
	switch format {
	case "json":
		return zerolog.New(os.Stdout).With().Timestamp().Logger()
	default:
		w := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}
		return zerolog.New(w).With().Timestamp().Logger()
	}
}
