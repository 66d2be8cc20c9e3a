// Package cli implements the stackdeck command-line interface.
//
// Every command drives the same deck engine through a different host: a
// terminal surface for play, a virtual clock for simulate, pure geometry
// for layout and render, and per-deck event loops for serve. The CLI is
// built using cobra and supports verbose logging via the
// charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - play: Interactive deck in the terminal
//   - simulate: Run a script of deck operations on a virtual clock
//   - layout: Print the fan placements of a deck
//   - render: Write a fan preview or stacking-order diagram
//   - serve: Expose decks over HTTP
//   - snapshot: List, show and delete saved decks
//   - config: Print or initialize the configuration file
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger
// is shared through the [CLI] struct and handed to every deck.
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine; concurrent calls to done will race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress creates a progress tracker that captures the current time as start.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Rendered fan preview (12ms)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}
