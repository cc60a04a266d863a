// Package catalog reads and writes streams of element sets in the common
// two-line and three-line (named) layouts.
package catalog

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/large-farva/tlekit/internal/logging"
	"github.com/large-farva/tlekit/internal/metrics"
	"github.com/large-farva/tlekit/internal/tle"
)

//go:embed sample.tle
var sampleTLE string

// Entry is one element set with its optional name line.
type Entry struct {
	Name   string
	Record *tle.Record
}

// Reader parses catalog streams. Groups that cannot be parsed are skipped
// with a warning; they never fail the whole stream.
type Reader struct {
	opts    []tle.Option
	log     *slog.Logger
	metrics *metrics.Collector
}

// NewReader returns a reader that parses each group with opts. logger and m
// may be nil.
func NewReader(logger *slog.Logger, m *metrics.Collector, opts ...tle.Option) *Reader {
	return &Reader{
		opts:    opts,
		log:     logging.Component(logger, "catalog"),
		metrics: m,
	}
}

// Read consumes r until EOF. Blank lines are ignored. A group is either a
// line 1 and line 2 pair or a name line followed by such a pair.
func (c *Reader) Read(r io.Reader) ([]Entry, error) {
	scanner := bufio.NewScanner(r)
	var lines []string
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r\n ")
		if line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}

	var entries []Entry
	for i := 0; i < len(lines); {
		var name, line1, line2 string
		switch {
		case i+1 < len(lines) && isLine(lines[i], '1') && isLine(lines[i+1], '2'):
			line1, line2 = lines[i], lines[i+1]
			i += 2
		case i+2 < len(lines) && isLine(lines[i+1], '1') && isLine(lines[i+2], '2'):
			name, line1, line2 = strings.TrimSpace(strings.TrimPrefix(lines[i], "0 ")), lines[i+1], lines[i+2]
			i += 3
		default:
			c.log.Warn("skipping line outside an element set", "line_index", i, "text", lines[i])
			i++
			continue
		}

		rec, err := tle.Parse(line1, line2, c.opts...)
		if err == nil {
			err = rec.Err()
		}
		c.metrics.ObserveParse(rec, err)
		if err != nil {
			c.log.Warn("skipping malformed element set", "name", name, "error", err)
			continue
		}
		entries = append(entries, Entry{Name: name, Record: rec})
	}
	return entries, nil
}

// ReadFile reads a catalog from path. An empty path reads the embedded
// sample catalog instead.
func (c *Reader) ReadFile(path string) ([]Entry, error) {
	if path == "" {
		return c.Read(strings.NewReader(sampleTLE))
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return c.Read(f)
}

// Sample parses the catalog compiled into the binary with default options.
func Sample() []Entry {
	entries, _ := NewReader(nil, nil).Read(strings.NewReader(sampleTLE))
	return entries
}

func isLine(s string, n byte) bool {
	return len(s) >= 2 && s[0] == n && s[1] == ' '
}

// Write renders entries in three-line layout, or two-line layout for
// entries without a name.
func Write(w io.Writer, entries []Entry) error {
	bw := bufio.NewWriter(w)
	for _, e := range entries {
		l1, l2, err := e.Record.Lines()
		if err != nil {
			return fmt.Errorf("catalog %d: %w", e.Record.SatNo, err)
		}
		if e.Name != "" {
			fmt.Fprintln(bw, e.Name)
		}
		fmt.Fprintln(bw, l1)
		fmt.Fprintln(bw, l2)
	}
	return bw.Flush()
}

// WriteFile atomically replaces path with the rendered entries via a temp
// file and rename so readers never see a half-written catalog.
func WriteFile(path string, entries []Entry) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "catalog-*.tmp")
	if err != nil {
		return err
	}

	if err := Write(tmp, entries); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	return os.Rename(tmp.Name(), path)
}
