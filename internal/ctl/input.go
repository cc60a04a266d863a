package ctl

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/large-farva/tlekit/internal/catalog"
	"github.com/large-farva/tlekit/internal/tle"
)

var errNoInput = errors.New("no element sets given: pass LINE1 LINE2, --file PATH or --file -")

// parseOptions builds the codec options from the [codec] config section.
func (e *Env) parseOptions() ([]tle.Option, error) {
	return e.Config.Codec.ParseOptions()
}

// entries resolves command input. Two positional arguments are taken as a
// line pair and parsed directly, keeping field errors on the record. A
// file (or "-" for stdin) is read as a catalog stream, where malformed
// groups are skipped.
func (e *Env) entries(file string, args []string) ([]catalog.Entry, error) {
	opts, err := e.parseOptions()
	if err != nil {
		return nil, err
	}

	switch {
	case len(args) == 2:
		rec, err := tle.Parse(args[0], args[1], opts...)
		e.Metrics.ObserveParse(rec, err)
		if err != nil {
			return nil, err
		}
		return []catalog.Entry{{Record: rec}}, nil
	case len(args) != 0:
		return nil, fmt.Errorf("expected LINE1 LINE2, got %d arguments", len(args))
	case file == "":
		return nil, errNoInput
	}

	reader := catalog.NewReader(e.Log, e.Metrics, opts...)
	var list []catalog.Entry
	if file == "-" {
		list, err = reader.Read(e.In)
	} else {
		list, err = reader.ReadFile(file)
	}
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("%s: no element sets", file)
	}
	return list, nil
}

// parseTime accepts RFC 3339 or the 14-column YYDDD.DDDDDDDD epoch field.
func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	t, err := tle.ParseEpoch(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("epoch %q is neither RFC 3339 nor YYDDD.DDDDDDDD", s)
	}
	return t, nil
}

// openOutput returns stdout for "" or "-", otherwise a created file.
func (e *Env) openOutput(path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return e.Out, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}
