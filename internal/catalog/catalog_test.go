package catalog

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/large-farva/tlekit/internal/logging"
	"github.com/large-farva/tlekit/internal/metrics"
	"github.com/large-farva/tlekit/internal/tle"
)

const (
	issName  = "ISS (ZARYA)"
	issLine1 = "1 25544U 98067A   08264.51782528 -.00002182  00000-0 -11606-4 0  2927"
	issLine2 = "2 25544  51.6416 247.4627 0006703 130.5360 325.0288 15.72125391563537"
)

func TestSample(t *testing.T) {
	entries := Sample()
	if len(entries) != 4 {
		t.Fatalf("sample has %d entries, want 4", len(entries))
	}
	want := []int{25544, 43744, 43774, 55261}
	for i, e := range entries {
		if e.Record.SatNo != want[i] {
			t.Errorf("entry %d sat no = %d, want %d", i, e.Record.SatNo, want[i])
		}
		if e.Record.State() != tle.Populated || !e.Record.Valid() {
			t.Errorf("entry %d not cleanly parsed: %v", i, e.Record.Err())
		}
	}
	if entries[0].Name != issName || entries[1].Record.Designator != "18096AB" {
		t.Errorf("first entries = %q / %q", entries[0].Name, entries[1].Record.Designator)
	}
}

func TestReadMixedLayouts(t *testing.T) {
	input := strings.Join([]string{
		issLine1,
		issLine2,
		"",
		"0 " + issName,
		issLine1 + "\r",
		issLine2,
		"stray text",
	}, "\n")

	entries, err := NewReader(logging.Discard(), nil).Read(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Name != "" || entries[1].Name != issName {
		t.Errorf("names = %q, %q", entries[0].Name, entries[1].Name)
	}
}

func TestReadSkipsMalformedGroups(t *testing.T) {
	mismatch := "2 25545" + issLine2[7:]
	badField := issLine1[:18] + "XXXXX.51782528" + issLine1[32:]
	input := strings.Join([]string{
		"MISMATCH", issLine1, mismatch,
		"BAD EPOCH", badField, issLine2,
		issName, issLine1, issLine2,
	}, "\n")

	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	if err != nil {
		t.Fatal(err)
	}
	entries, err := NewReader(logging.Discard(), m).Read(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name != issName {
		t.Fatalf("entries = %+v", entries)
	}
	if got := testutil.ToFloat64(m.ParseErrors.WithLabelValues("sat_no_mismatch")); got != 1 {
		t.Errorf("sat_no_mismatch errors = %v", got)
	}
	if got := testutil.ToFloat64(m.ParseErrors.WithLabelValues("malformed")); got != 1 {
		t.Errorf("malformed errors = %v", got)
	}
	if got := testutil.ToFloat64(m.RecordsParsed.WithLabelValues("drag")); got != 1 {
		t.Errorf("parsed = %v", got)
	}
}

func TestReadPassesOptions(t *testing.T) {
	short := issLine1 + "\n" + issLine2[:63] + "\n"

	entries, _ := NewReader(nil, nil).Read(strings.NewReader(short))
	if len(entries) != 1 {
		t.Errorf("padded read kept %d entries, want 1", len(entries))
	}
	entries, _ = NewReader(nil, nil, tle.WithPadPolicy(tle.PadNone)).Read(strings.NewReader(short))
	if len(entries) != 0 {
		t.Errorf("unpadded read kept %d entries, want 0", len(entries))
	}
}

func TestWriteRoundTrip(t *testing.T) {
	entries := Sample()
	var buf bytes.Buffer
	if err := Write(&buf, entries); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), issName+"\n1 25544U") {
		t.Errorf("output starts %q", buf.String()[:40])
	}

	again, err := NewReader(nil, nil).Read(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(again) != len(entries) {
		t.Fatalf("reread %d entries, want %d", len(again), len(entries))
	}
	for i := range entries {
		a, _, _ := entries[i].Record.Lines()
		b, _, _ := again[i].Record.Lines()
		if a != b || again[i].Name != entries[i].Name {
			t.Errorf("entry %d changed:\n%s\n%s", i, a, b)
		}
	}
}

func TestWriteFileAndReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.tle")
	if err := WriteFile(path, Sample()[:2]); err != nil {
		t.Fatal(err)
	}
	entries, err := NewReader(nil, nil).ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Errorf("read back %d entries", len(entries))
	}
	left, _ := filepath.Glob(filepath.Join(filepath.Dir(path), "*.tmp"))
	if len(left) != 0 {
		t.Errorf("temp files left behind: %v", left)
	}

	embedded, err := NewReader(nil, nil).ReadFile("")
	if err != nil || len(embedded) != 4 {
		t.Errorf("ReadFile(\"\") = %d entries, %v", len(embedded), err)
	}
	if _, err := NewReader(nil, nil).ReadFile(filepath.Join(t.TempDir(), "missing")); !os.IsNotExist(err) {
		t.Errorf("missing file err = %v", err)
	}
}
