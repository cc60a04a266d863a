// Package ctl implements the tlectl commands. Commands read element sets
// from arguments, files or stdin and render the results to the terminal or
// as JSON.
package ctl

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/large-farva/tlekit/internal/config"
	"github.com/large-farva/tlekit/internal/logging"
	"github.com/large-farva/tlekit/internal/metrics"
)

// ANSI escape codes for terminal formatting.
const (
	reset  = "\033[0m"
	bold   = "\033[1m"
	dim    = "\033[2m"
	red    = "\033[31m"
	green  = "\033[32m"
	yellow = "\033[33m"
	cyan   = "\033[36m"
	white  = "\033[37m"
)

// Env is what every command runs against.
type Env struct {
	In      io.Reader
	Out     io.Writer
	Err     io.Writer
	JSON    bool
	Config  config.Config
	Log     *slog.Logger
	Metrics *metrics.Collector
}

// NewEnv returns an Env bound to the process's standard streams.
func NewEnv(cfg config.Config, logger *slog.Logger, m *metrics.Collector, jsonOutput bool) *Env {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Env{
		In:      os.Stdin,
		Out:     os.Stdout,
		Err:     os.Stderr,
		JSON:    jsonOutput,
		Config:  cfg,
		Log:     logger,
		Metrics: m,
	}
}

// colorEnabled reports whether w is a terminal. When output is piped or
// redirected, ANSI escape codes are suppressed.
func colorEnabled(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

// stateColor returns the ANSI color code for a record state or fit status.
func stateColor(state string) string {
	switch state {
	case "populated", "ok", "FunctionConvergence":
		return green
	case "uninitialized", "IterationLimit", "FunctionEvaluationLimit":
		return yellow
	case "mismatch", "error":
		return red
	default:
		return white
	}
}

// colorize wraps text with an ANSI color sequence.
// Returns the text unchanged when color output is disabled.
func (e *Env) colorize(color, text string) string {
	if !colorEnabled(e.Out) {
		return text
	}
	return color + text + reset
}

// header returns a bold section header, or plain text when color is off.
func (e *Env) header(title string) string {
	if colorEnabled(e.Out) {
		return bold + title + reset
	}
	return title
}

func (e *Env) rule(width int) string {
	return e.colorize(dim, "  "+strings.Repeat("─", width))
}

// padRight pads s with spaces to reach the given width.
func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// formatDuration renders a time.Duration as a compact human string like
// "2m 8s" or "450ms".
func formatDuration(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	switch {
	case h > 0:
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	case m > 0:
		return fmt.Sprintf("%dm %ds", m, s)
	case s > 0:
		return fmt.Sprintf("%ds", s)
	}
	return fmt.Sprintf("%dms", d.Milliseconds())
}

// progressBar builds a simple ASCII bar of the given width.
// The filled portion is colored green when color is true.
func progressBar(pct, width int, color bool) string {
	filled := (pct * width) / 100
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	empty := width - filled
	if color {
		return green + strings.Repeat("=", filled) + reset + strings.Repeat(" ", empty)
	}
	return strings.Repeat("=", filled) + strings.Repeat(" ", empty)
}

// printJSON prints v as indented JSON.
func (e *Env) printJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(e.Out, string(b))
	return err
}

// table aligns rows into columns behind an optional header row.
type table struct {
	tw     *tabwriter.Writer
	indent string
}

func (e *Env) newTable(indent string, headers ...string) *table {
	t := &table{tw: tabwriter.NewWriter(e.Out, 0, 0, 2, ' ', 0), indent: indent}
	if len(headers) > 0 {
		t.row(headers...)
	}
	return t
}

func (t *table) row(cols ...string) {
	fmt.Fprintln(t.tw, t.indent+strings.Join(cols, "\t"))
}

func (t *table) flush() { _ = t.tw.Flush() }
