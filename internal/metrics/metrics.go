// Package metrics bundles the Prometheus collectors for codec and fitter
// activity. tlekit is a batch tool, so samples are exported to a
// node-exporter textfile instead of being scraped over HTTP.
package metrics

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/large-farva/tlekit/internal/tle"
)

// Collector holds every tlekit metric. A nil *Collector is valid and
// records nothing.
type Collector struct {
	gatherer prometheus.Gatherer

	RecordsParsed    *prometheus.CounterVec
	ParseErrors      *prometheus.CounterVec
	RecordsGenerated prometheus.Counter

	FitEvaluations prometheus.Counter
	FitIterations  prometheus.Counter
	FitRMS         prometheus.Gauge
	FitDuration    prometheus.Histogram
}

// New registers the tlekit metrics against reg, defaulting to the global
// registry when nil. Registering twice against the same registry returns
// the existing collectors.
func New(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	c := &Collector{gatherer: gatherer}
	var err error

	if c.RecordsParsed, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tlekit_records_parsed_total",
		Help: "Element sets parsed without field errors, labeled by variant.",
	}, []string{"variant"}), "tlekit_records_parsed_total"); err != nil {
		return nil, err
	}
	if c.ParseErrors, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tlekit_parse_errors_total",
		Help: "Element sets that failed to parse, labeled by failure kind.",
	}, []string{"kind"}), "tlekit_parse_errors_total"); err != nil {
		return nil, err
	}
	if c.RecordsGenerated, err = register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tlekit_records_generated_total",
		Help: "Element sets rendered back to two-line text.",
	}), "tlekit_records_generated_total"); err != nil {
		return nil, err
	}
	if c.FitEvaluations, err = register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tlekit_fit_evaluations_total",
		Help: "Objective evaluations performed by the orbit fitter.",
	}), "tlekit_fit_evaluations_total"); err != nil {
		return nil, err
	}
	if c.FitIterations, err = register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tlekit_fit_iterations_total",
		Help: "Optimizer major iterations performed by the orbit fitter.",
	}), "tlekit_fit_iterations_total"); err != nil {
		return nil, err
	}
	if c.FitRMS, err = register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "tlekit_fit_rms_km",
		Help: "Best root-mean-square position residual of the current fit in km.",
	}), "tlekit_fit_rms_km"); err != nil {
		return nil, err
	}
	if c.FitDuration, err = register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "tlekit_fit_duration_seconds",
		Help:    "Wall time of completed fits in seconds.",
		Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 300},
	}), "tlekit_fit_duration_seconds"); err != nil {
		return nil, err
	}
	return c, nil
}

// ObserveParse counts one parse attempt. err is the error returned by
// tle.Parse; field errors recorded on rec count as malformed.
func (c *Collector) ObserveParse(rec *tle.Record, err error) {
	if c == nil {
		return
	}
	if err == nil && rec != nil && rec.Err() != nil {
		err = rec.Err()
	}
	if err != nil {
		c.ParseErrors.WithLabelValues(ErrorKind(err)).Inc()
		return
	}
	c.RecordsParsed.WithLabelValues(rec.Variant.String()).Inc()
}

// ObserveGenerate counts one rendered element set.
func (c *Collector) ObserveGenerate() {
	if c == nil {
		return
	}
	c.RecordsGenerated.Inc()
}

// ObserveEvaluation counts one objective evaluation.
func (c *Collector) ObserveEvaluation() {
	if c == nil {
		return
	}
	c.FitEvaluations.Inc()
}

// ObserveIteration counts one optimizer iteration and records its best
// residual.
func (c *Collector) ObserveIteration(rms float64) {
	if c == nil {
		return
	}
	c.FitIterations.Inc()
	c.FitRMS.Set(rms)
}

// ObserveFit records a finished fit.
func (c *Collector) ObserveFit(d time.Duration, rms float64) {
	if c == nil {
		return
	}
	c.FitDuration.Observe(d.Seconds())
	c.FitRMS.Set(rms)
}

// WriteTextfile atomically writes every metric of the underlying gatherer
// in the text exposition format.
func (c *Collector) WriteTextfile(path string) error {
	if c == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, c.gatherer)
}

// ErrorKind maps a parse error to its metric label.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, tle.ErrSatNoMismatch):
		return "sat_no_mismatch"
	case errors.Is(err, tle.ErrLineNumber):
		return "line_number"
	case errors.Is(err, tle.ErrMalformedField):
		return "malformed"
	default:
		return "other"
	}
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T, name string) (T, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
			return c, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return c, err
	}
	return c, nil
}
