package fit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/large-farva/tlekit/internal/logging"
	"github.com/large-farva/tlekit/internal/metrics"
	"github.com/large-farva/tlekit/internal/propagate"
	"github.com/large-farva/tlekit/internal/telemetry"
	"github.com/large-farva/tlekit/internal/tle"
)

// ErrNoObservations is returned when Fit is given an empty ephemeris.
var ErrNoObservations = errors.New("no observations to fit")

// penalty is the objective value of candidates that cannot be rendered or
// propagated. It only needs to dominate any real residual.
const penalty = 1e12

// Observation is a reference position (km) at a time.
type Observation struct {
	Time     time.Time `json:"time"`
	Position r3.Vec    `json:"position"`
}

// ObservationsFromStates keeps the positions of an ephemeris.
func ObservationsFromStates(states []propagate.State) []Observation {
	out := make([]Observation, len(states))
	for i, s := range states {
		out[i] = Observation{Time: s.Time, Position: s.Position}
	}
	return out
}

// RMS is the root-mean-square distance in km between predicted states and
// observations taken at the same times.
func RMS(pred []propagate.State, obs []Observation) (float64, error) {
	if len(pred) != len(obs) {
		return 0, fmt.Errorf("%d predicted states for %d observations", len(pred), len(obs))
	}
	if len(obs) == 0 {
		return 0, ErrNoObservations
	}
	var sum float64
	for i := range obs {
		d := r3.Norm(r3.Sub(pred[i].Position, obs[i].Position))
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(obs))), nil
}

// Options bound a fit. Zero values select the defaults noted per field.
type Options struct {
	MaxIterations  int    // 2000
	MaxEvaluations int    // 10000
	ProgressEvery  int    // iterations between progress events; 0 disables
	Backend        string // propagator name, reported in events only
}

func (o Options) withDefaults() Options {
	if o.MaxIterations <= 0 {
		o.MaxIterations = 2000
	}
	if o.MaxEvaluations <= 0 {
		o.MaxEvaluations = 10000
	}
	return o
}

// Fitter adjusts an element set until its propagated ephemeris matches a
// set of observations. The objective renders each candidate to text and
// propagates the text, so the result is exactly what the emitted lines
// produce.
type Fitter struct {
	prop    propagate.Propagator
	opts    Options
	log     *slog.Logger
	metrics *metrics.Collector
	sink    telemetry.Sink
}

// New builds a fitter. logger, m and sink may be nil.
func New(prop propagate.Propagator, opts Options, logger *slog.Logger, m *metrics.Collector, sink telemetry.Sink) *Fitter {
	if sink == nil {
		sink = telemetry.Discard{}
	}
	return &Fitter{
		prop:    prop,
		opts:    opts.withDefaults(),
		log:     logging.Component(logger, "fit"),
		metrics: m,
		sink:    sink,
	}
}

// Result is the outcome of a fit.
type Result struct {
	RunID       string        `json:"run_id"`
	Record      *tle.Record   `json:"-"`
	Line1       string        `json:"line1"`
	Line2       string        `json:"line2"`
	InitialRMS  float64       `json:"initial_rms_km"`
	RMS         float64       `json:"rms_km"`
	Iterations  int           `json:"iterations"`
	Evaluations int           `json:"evaluations"`
	Status      string        `json:"status"`
	Duration    time.Duration `json:"duration_ns"`
}

// Fit minimizes the RMS position residual over the normalized vector of
// seed using Nelder-Mead. seed is not modified. Cancelling ctx stops the
// optimizer at its next step.
func (f *Fitter) Fit(ctx context.Context, seed *tle.Record, obs []Observation) (*Result, error) {
	if len(obs) == 0 {
		return nil, ErrNoObservations
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	start := time.Now()
	log := f.log.With("run_id", runID, "sat_no", seed.SatNo)

	times := make([]time.Time, len(obs))
	for i, o := range obs {
		times[i] = o.Time
	}

	vec := NewVector(seed.Clone())
	x0 := vec.ToArray()

	evaluations := 0
	objective := func(x []float64) float64 {
		evaluations++
		f.metrics.ObserveEvaluation()
		return f.residual(seed, x, times, obs)
	}

	initial := objective(x0)
	if initial >= penalty {
		return nil, fmt.Errorf("seed element set cannot be propagated with backend %q", f.opts.Backend)
	}

	log.Info("fit started", "variant", seed.Variant.String(), "parameters", vec.Len(),
		"observations", len(obs), "initial_rms_km", initial)
	f.sink.Emit(telemetry.FitStarted{
		Event:        telemetry.NewEvent(telemetry.EventFitStarted, runID),
		SatNo:        seed.SatNo,
		Variant:      seed.Variant.String(),
		Backend:      f.opts.Backend,
		Parameters:   vec.Names(),
		Observations: len(obs),
		InitialRMS:   initial,
	})

	rec := &progressRecorder{
		ctx:   ctx,
		f:     f,
		log:   log,
		runID: runID,
		evals: func() int { return evaluations },
	}
	settings := &optimize.Settings{
		MajorIterations: f.opts.MaxIterations,
		FuncEvaluations: f.opts.MaxEvaluations,
		Converger:       &optimize.FunctionConverge{Absolute: 1e-9, Iterations: 200},
		Recorder:        rec,
	}
	res, err := optimize.Minimize(optimize.Problem{Func: objective}, x0, settings, &optimize.NelderMead{})
	if err != nil {
		log.Warn("fit aborted", "err", err, "iterations", rec.iterations)
		f.sink.Emit(telemetry.LogLine{
			Event:   telemetry.NewEvent(telemetry.EventLog, runID),
			Level:   "warn",
			Message: "fit aborted: " + err.Error(),
		})
		return nil, fmt.Errorf("fit %s: %w", runID, err)
	}

	best := seed.Clone()
	if err := NewVector(best).FromArray(res.X); err != nil {
		return nil, err
	}
	l1, l2, err := best.Lines()
	if err != nil {
		return nil, fmt.Errorf("render fitted element set: %w", err)
	}
	fitted, err := tle.Parse(l1, l2, tle.Strict())
	if err != nil {
		return nil, fmt.Errorf("reparse fitted element set: %w", err)
	}
	f.metrics.ObserveGenerate()

	out := &Result{
		RunID:       runID,
		Record:      fitted,
		Line1:       l1,
		Line2:       l2,
		InitialRMS:  initial,
		RMS:         math.Min(res.F, initial),
		Iterations:  res.MajorIterations,
		Evaluations: evaluations,
		Status:      res.Status.String(),
		Duration:    time.Since(start),
	}
	f.metrics.ObserveFit(out.Duration, out.RMS)

	log.Info("fit finished", "status", out.Status, "iterations", out.Iterations,
		"evaluations", out.Evaluations, "rms_km", out.RMS, "duration", out.Duration)
	f.sink.Emit(telemetry.FitFinished{
		Event:       telemetry.NewEvent(telemetry.EventFitFinished, runID),
		Status:      out.Status,
		Iterations:  out.Iterations,
		Evaluations: out.Evaluations,
		InitialRMS:  out.InitialRMS,
		RMS:         out.RMS,
		DurationMS:  out.Duration.Milliseconds(),
		Line1:       l1,
		Line2:       l2,
	})
	return out, nil
}

// residual decodes x over a copy of seed, renders it, propagates the text
// and returns the RMS against obs, or penalty on any failure.
func (f *Fitter) residual(seed *tle.Record, x []float64, times []time.Time, obs []Observation) float64 {
	cand := seed.Clone()
	if err := NewVector(cand).FromArray(x); err != nil {
		return penalty
	}
	l1, l2, err := cand.Lines()
	if err != nil {
		return penalty
	}
	states, err := f.prop.Propagate(l1, l2, times)
	if err != nil {
		return penalty
	}
	rms, err := RMS(states, obs)
	if err != nil || math.IsNaN(rms) {
		return penalty
	}
	return rms
}

// progressRecorder is the optimizer hook: it checks for cancellation on
// every operation and reports progress on major iterations.
type progressRecorder struct {
	ctx        context.Context
	f          *Fitter
	log        *slog.Logger
	runID      string
	evals      func() int
	iterations int
}

func (p *progressRecorder) Init() error { return p.ctx.Err() }

func (p *progressRecorder) Record(loc *optimize.Location, op optimize.Operation, _ *optimize.Stats) error {
	if err := p.ctx.Err(); err != nil {
		return err
	}
	if op != optimize.MajorIteration {
		return nil
	}

	p.iterations++
	p.f.metrics.ObserveIteration(loc.F)

	every := p.f.opts.ProgressEvery
	if every <= 0 || p.iterations%every != 0 {
		return nil
	}
	p.log.Debug("fit progress", "iteration", p.iterations, "rms_km", loc.F)
	p.f.sink.Emit(telemetry.FitProgress{
		Event:       telemetry.NewEvent(telemetry.EventFitProgress, p.runID),
		Iteration:   p.iterations,
		Evaluations: p.evals(),
		RMS:         loc.F,
		Percent:     100 * float64(p.iterations) / float64(p.f.opts.MaxIterations),
	})
	return nil
}
