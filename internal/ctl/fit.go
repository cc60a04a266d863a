package ctl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/large-farva/tlekit/internal/catalog"
	"github.com/large-farva/tlekit/internal/fit"
	"github.com/large-farva/tlekit/internal/propagate"
	"github.com/large-farva/tlekit/internal/telemetry"
)

// FitOptions controls the fit command.
type FitOptions struct {
	DecodeOptions
	SatNo     int    // pick this catalog number from the input; 0 takes the first
	Truth     string // backend generating observations when Ephemeris is empty
	Ephemeris string // JSON array of states to fit against
	Events    string // JSON-lines event log destination; "-" for stderr
}

// Fit adjusts an element set until the configured backend reproduces an
// ephemeris. The ephemeris is read from a file or generated from the seed
// with a second backend, which makes fit a converter between propagation
// models.
func Fit(ctx context.Context, e *Env, opts FitOptions) error {
	list, err := e.entries(opts.File, opts.Args)
	if err != nil {
		return err
	}
	seed, err := pick(list, opts.SatNo)
	if err != nil {
		return err
	}

	cfg := e.Config.Fit
	gravity, err := propagate.ParseGravity(cfg.Gravity)
	if err != nil {
		return err
	}
	prop, err := propagate.New(cfg.Backend, gravity)
	if err != nil {
		return err
	}

	obs, err := e.observations(opts, seed, gravity)
	if err != nil {
		return err
	}

	var sinks []telemetry.Sink
	if opts.Events != "" {
		var w io.Writer = e.Err
		if opts.Events != "-" {
			out, closeFn, err := e.openOutput(opts.Events)
			if err != nil {
				return err
			}
			defer closeFn()
			w = out
		}
		sinks = append(sinks, telemetry.NewJSONLines(w))
	}
	if !e.JSON && opts.Events != "-" {
		sinks = append(sinks, &progressSink{w: e.Err, color: colorEnabled(e.Err)})
	}

	fitter := fit.New(prop, fit.Options{
		MaxIterations:  cfg.MaxIterations,
		MaxEvaluations: cfg.MaxEvaluations,
		ProgressEvery:  cfg.ProgressEvery,
		Backend:        cfg.Backend,
	}, e.Log, e.Metrics, telemetry.Tee(sinks...))

	res, err := fitter.Fit(ctx, seed.Record, obs)
	if err != nil {
		return err
	}

	if e.JSON {
		return e.printJSON(res)
	}

	fmt.Fprintln(e.Out)
	fmt.Fprintln(e.Out, e.header(fmt.Sprintf("  FIT %d (%s)", seed.Record.SatNo, cfg.Backend)))
	fmt.Fprintln(e.Out, e.rule(50))
	t := e.newTable("  ")
	t.row("Run:", res.RunID)
	t.row("Status:", e.colorize(stateColor(res.Status), res.Status))
	t.row("Observations:", fmt.Sprintf("%d", len(obs)))
	t.row("Iterations:", fmt.Sprintf("%d", res.Iterations))
	t.row("Evaluations:", fmt.Sprintf("%d", res.Evaluations))
	t.row("Initial RMS:", fmt.Sprintf("%.6f km", res.InitialRMS))
	t.row("Final RMS:", fmt.Sprintf("%.6f km", res.RMS))
	t.row("Duration:", formatDuration(res.Duration))
	t.flush()
	fmt.Fprintln(e.Out)
	if seed.Name != "" {
		fmt.Fprintln(e.Out, seed.Name)
	}
	fmt.Fprintln(e.Out, res.Line1)
	fmt.Fprintln(e.Out, res.Line2)
	return nil
}

func pick(list []catalog.Entry, satNo int) (catalog.Entry, error) {
	if satNo == 0 {
		return list[0], nil
	}
	for _, en := range list {
		if en.Record.SatNo == satNo {
			return en, nil
		}
	}
	return catalog.Entry{}, fmt.Errorf("catalog number %d not in input", satNo)
}

// observations loads the ephemeris file, or propagates the seed with the
// truth backend over the configured span.
func (e *Env) observations(opts FitOptions, seed catalog.Entry, g propagate.Gravity) ([]fit.Observation, error) {
	if opts.Ephemeris != "" {
		b, err := os.ReadFile(opts.Ephemeris)
		if err != nil {
			return nil, err
		}
		var states []propagate.State
		if err := json.Unmarshal(b, &states); err != nil {
			return nil, fmt.Errorf("%s: %w", opts.Ephemeris, err)
		}
		return fit.ObservationsFromStates(states), nil
	}

	truth := opts.Truth
	if truth == "" {
		truth = propagate.BackendSGP4
	}
	prop, err := propagate.New(truth, g)
	if err != nil {
		return nil, err
	}
	l1, l2, err := seed.Record.Lines()
	if err != nil {
		return nil, err
	}
	cfg := e.Config.Fit
	times := propagate.Times(seed.Record.Epoch,
		time.Duration(cfg.SpanMinutes*float64(time.Minute)),
		time.Duration(cfg.StepMinutes*float64(time.Minute)))
	states, err := prop.Propagate(l1, l2, times)
	if err != nil {
		return nil, fmt.Errorf("truth ephemeris from %s: %w", truth, err)
	}
	e.Log.Debug("truth ephemeris generated", "backend", truth, "states", len(states))
	return fit.ObservationsFromStates(states), nil
}

// progressSink draws a single updating progress line for fit events.
type progressSink struct {
	mu    sync.Mutex
	w     io.Writer
	color bool
}

func (p *progressSink) Emit(v any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	switch ev := v.(type) {
	case telemetry.FitProgress:
		fmt.Fprintf(p.w, "\r  [%s] %3.0f%%  rms %.6f km", progressBar(int(ev.Percent), 30, p.color), ev.Percent, ev.RMS)
	case telemetry.FitFinished:
		fmt.Fprintf(p.w, "\r  [%s] done  rms %.6f km\n", progressBar(100, 30, p.color), ev.RMS)
	}
}
