package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/large-farva/tlekit/internal/tle"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tlekit.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	if err := validate(Default()); err != nil {
		t.Fatalf("Default() does not validate: %v", err)
	}
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\"): %v", err)
	}
	if cfg != Default() {
		t.Errorf("Load(\"\") = %+v, want defaults", cfg)
	}
}

func TestLoadLayersOverDefaults(t *testing.T) {
	path := writeConfig(t, `
[codec]
pad_policy = "none"
strict = true

[fit]
backend = "kepler"
step_minutes = 5.0

[logging]
format = "json"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Codec.PadPolicy != "none" || !cfg.Codec.Strict {
		t.Errorf("codec = %+v", cfg.Codec)
	}
	if cfg.Fit.Backend != "kepler" || cfg.Fit.StepMinutes != 5 {
		t.Errorf("fit = %+v", cfg.Fit)
	}
	// Untouched keys keep their defaults.
	if cfg.Fit.SpanMinutes != 1440 || cfg.Fit.Gravity != "wgs72" || cfg.Logging.Level != "info" {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"pad policy", "[codec]\npad_policy = \"spaces\"\n", "codec.pad_policy"},
		{"backend", "[fit]\nbackend = \"orekit\"\n", "fit.backend"},
		{"gravity", "[fit]\ngravity = \"egm96\"\n", "fit.gravity"},
		{"mu", "[fit]\nmu = 0.0\n", "fit.mu"},
		{"step", "[fit]\nstep_minutes = 2000.0\n", "fit.step_minutes"},
		{"iterations", "[fit]\nmax_iterations = 0\n", "fit.max_iterations"},
		{"level", "[logging]\nlevel = \"trace\"\n", "logging.level"},
		{"format", "[logging]\nformat = \"xml\"\n", "logging.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load err = %v, want mention of %s", err, tt.want)
			}
		})
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("missing file should fail")
	}
	if _, err := Load(writeConfig(t, "[codec\n")); err == nil {
		t.Error("malformed TOML should fail")
	}
}

func TestCodecParseOptions(t *testing.T) {
	const (
		l1 = "1 25544U 98067A   08264.51782528 -.00002182  00000-0 -11606-4 0  2927"
		l2 = "2 25544  51.6416 247.4627 0006703 130.5360 325.0288 15.72125391563537"
	)
	short := l2[:63]

	opts, err := CodecConfig{PadPolicy: "none", Strict: true}.ParseOptions()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tle.Parse(l1, short, opts...); err == nil {
		t.Error("strict unpadded parse of a short line should fail")
	}

	opts, err = Default().Codec.ParseOptions()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tle.Parse(l1, short, opts...); err != nil {
		t.Errorf("default options should pad: %v", err)
	}

	if _, err := (CodecConfig{PadPolicy: "bogus"}).ParseOptions(); err == nil {
		t.Error("unknown pad policy should fail")
	}
}
