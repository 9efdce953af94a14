// Package cli implements the spotdeck command-line interface.
//
// This package provides commands for generating a deck of cards from a
// directory of symbol images, inspecting the deck design, and producing the
// legend, card back and incidence diagram. The CLI is built using cobra and
// supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - generate: Design, pack and render a complete deck
//   - table: Print the deck design
//   - preprocess: Resize and crop raw symbol images
//   - legend, backside, plane: Render the deck extras
//   - browse: Explore the deck interactively
//   - cache: Manage the layout cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// traces pipeline and cache events.
//
// # Example
//
//	c := cli.New(os.Stderr, cli.LogInfo)
//	if err := c.RootCommand().ExecuteContext(ctx); err != nil {
//	    os.Exit(1)
//	}
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/spotdeck/pkg/observability"
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
// The returned progress should call done when the operation completes.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// The duration is rounded to the nearest millisecond.
// Example output: "Packed 57 cards (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// logHooks traces pipeline and cache events at debug level.
type logHooks struct {
	logger *log.Logger
}

// registerLogHooks installs logHooks as the global observability hooks.
func registerLogHooks(l *log.Logger) {
	h := logHooks{logger: l}
	observability.SetPipelineHooks(h)
	observability.SetCacheHooks(h)
}

func (h logHooks) OnDesignComplete(_ context.Context, symbolsPerCard, cards int, err error) {
	h.logger.Debug("hook: design", "per_card", symbolsPerCard, "cards", cards, "err", err)
}

func (h logHooks) OnPackStart(_ context.Context, card, symbols int) {
	h.logger.Debug("hook: pack start", "card", card+1, "symbols", symbols)
}

func (h logHooks) OnPackComplete(_ context.Context, card, accepted int, d time.Duration, err error) {
	h.logger.Debug("hook: pack done", "card", card+1, "accepted", accepted, "duration", d, "err", err)
}

func (h logHooks) OnRenderComplete(_ context.Context, path string, d time.Duration, err error) {
	h.logger.Debug("hook: render", "path", path, "duration", d, "err", err)
}

func (h logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("hook: cache hit", "type", keyType)
}

func (h logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("hook: cache miss", "type", keyType)
}

func (h logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("hook: cache set", "type", keyType, "bytes", size)
}
