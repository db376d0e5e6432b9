// Package nexuslog builds the process-wide zerolog.Logger.
//
// Internal packages (pathsec, secio, diff, clipboard) stay logger-free and
// return errors; only the skill boundary, the janitor loop, and cmd/nexus3
// log, matching the teacher's convention of keeping core logic free of ad-hoc
// log statements except at clearly side-effecting boundaries.
package nexuslog

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Format selects the output encoding for New.
type Format string

const (
	FormatConsole Format = "console"
	FormatJSON    Format = "json"
)

// New builds a logger for the given format. An empty or unrecognized format
// falls back to FormatConsole.
func New(format string) zerolog.Logger {
	var w io.Writer = os.Stderr
	if Format(format) != FormatJSON {
		w = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).With().Timestamp().Logger()
}
