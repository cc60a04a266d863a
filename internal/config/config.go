// Package config handles loading, defaulting, and validation of the tlekit
// TOML configuration file. Every section maps to a typed struct so the rest
// of the codebase gets strong typing without manual key lookups.
package config

import (
	"errors"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/large-farva/tlekit/internal/tle"
)

// Config is the top-level configuration, mirroring the TOML sections.
type Config struct {
	Codec   CodecConfig   `toml:"codec"   json:"codec"`
	Fit     FitConfig     `toml:"fit"     json:"fit"`
	Logging LoggingConfig `toml:"logging" json:"logging"`
	Metrics MetricsConfig `toml:"metrics" json:"metrics"`
}

type CodecConfig struct {
	PadPolicy string `toml:"pad_policy" json:"pad_policy"`
	Strict    bool   `toml:"strict"     json:"strict"`
}

// FitConfig drives the orbit fitter. Backend selects the propagator used
// inside the objective; Gravity selects the model constants (wgs72 or
// wgs84) and Mu overrides the gravitational parameter used when building
// records from state vectors.
type FitConfig struct {
	Backend        string  `toml:"backend"         json:"backend"`
	Gravity        string  `toml:"gravity"         json:"gravity"`
	Mu             float64 `toml:"mu"              json:"mu"`
	SpanMinutes    float64 `toml:"span_minutes"    json:"span_minutes"`
	StepMinutes    float64 `toml:"step_minutes"    json:"step_minutes"`
	MaxIterations  int     `toml:"max_iterations"  json:"max_iterations"`
	MaxEvaluations int     `toml:"max_evaluations" json:"max_evaluations"`
	ProgressEvery  int     `toml:"progress_every"  json:"progress_every"`
}

type LoggingConfig struct {
	Level  string `toml:"level"  json:"level"`
	Format string `toml:"format" json:"format"`
}

// MetricsConfig points at a node-exporter textfile. Empty disables export.
type MetricsConfig struct {
	Textfile string `toml:"textfile" json:"textfile"`
}

// Default returns a Config populated with sane defaults. Values here are
// used whenever the TOML file omits a field.
func Default() Config {
	return Config{
		Codec: CodecConfig{
			PadPolicy: "zeros",
			Strict:    false,
		},
		Fit: FitConfig{
			Backend:        "sgp4",
			Gravity:        "wgs72",
			Mu:             398600.8,
			SpanMinutes:    1440,
			StepMinutes:    10,
			MaxIterations:  2000,
			MaxEvaluations: 10000,
			ProgressEvery:  50,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads the TOML file at path, layers it on top of the defaults, and
// validates the result. An empty path returns the defaults. An error is
// returned if the file can't be read, parsed, or if any constraint is
// violated.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := toml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}

	if err := validate(cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// ParseOptions converts the codec section into parser options.
func (c CodecConfig) ParseOptions() ([]tle.Option, error) {
	pad, err := tle.ParsePadPolicy(c.PadPolicy)
	if err != nil {
		return nil, err
	}
	opts := []tle.Option{tle.WithPadPolicy(pad)}
	if c.Strict {
		opts = append(opts, tle.Strict())
	}
	return opts, nil
}

func validate(cfg Config) error {
	if _, err := tle.ParsePadPolicy(cfg.Codec.PadPolicy); err != nil {
		return errors.New("codec.pad_policy must be zeros or none")
	}
	switch strings.ToLower(cfg.Fit.Backend) {
	case "sgp4", "go-satellite", "kepler":
	default:
		return errors.New("fit.backend must be sgp4, go-satellite or kepler")
	}
	switch strings.ToLower(cfg.Fit.Gravity) {
	case "wgs72", "wgs84":
	default:
		return errors.New("fit.gravity must be wgs72 or wgs84")
	}
	if cfg.Fit.Mu <= 0 {
		return errors.New("fit.mu must be > 0")
	}
	if cfg.Fit.SpanMinutes <= 0 {
		return errors.New("fit.span_minutes must be > 0")
	}
	if cfg.Fit.StepMinutes <= 0 || cfg.Fit.StepMinutes > cfg.Fit.SpanMinutes {
		return errors.New("fit.step_minutes must be > 0 and <= fit.span_minutes")
	}
	if cfg.Fit.MaxIterations < 1 {
		return errors.New("fit.max_iterations must be >= 1")
	}
	if cfg.Fit.MaxEvaluations < 1 {
		return errors.New("fit.max_evaluations must be >= 1")
	}
	if cfg.Fit.ProgressEvery < 0 {
		return errors.New("fit.progress_every must be >= 0")
	}
	switch strings.ToLower(cfg.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return errors.New("logging.level must be debug, info, warn or error")
	}
	switch strings.ToLower(cfg.Logging.Format) {
	case "text", "json":
	default:
		return errors.New("logging.format must be text or json")
	}
	return nil
}
