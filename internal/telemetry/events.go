// Package telemetry defines the typed events emitted while fitting element
// sets, and the sinks that deliver them. Events are written as one JSON
// object per line so a run can be followed with tail -f or jq.
package telemetry

import (
	"encoding/json"
	"io"
	"sync"
	"time"
)

// EventType identifies the kind of event.
type EventType string

const (
	EventFitStarted  EventType = "fit_started"
	EventFitProgress EventType = "fit_progress"
	EventFitFinished EventType = "fit_finished"
	EventLog         EventType = "log"
)

// Event is the base envelope shared by every event type.
type Event struct {
	Type  EventType `json:"type"`
	TS    string    `json:"ts"`
	RunID string    `json:"run_id,omitempty"`
}

// NewEvent stamps an envelope with the current time.
func NewEvent(t EventType, runID string) Event {
	return Event{Type: t, TS: NowTS(), RunID: runID}
}

// NowTS returns the current UTC time as an RFC 3339 nano string, matching the
// timestamp format used across all events.
func NowTS() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// FitStarted is emitted once the seed record and observations are known.
type FitStarted struct {
	Event
	SatNo        int      `json:"sat_no"`
	Variant      string   `json:"variant"`
	Backend      string   `json:"backend"`
	Parameters   []string `json:"parameters"`
	Observations int      `json:"observations"`
	InitialRMS   float64  `json:"initial_rms_km"`
}

// FitProgress reports the best residual so far.
type FitProgress struct {
	Event
	Iteration   int     `json:"iteration"`
	Evaluations int     `json:"evaluations"`
	RMS         float64 `json:"rms_km"`
	Percent     float64 `json:"percent"`
}

// FitFinished carries the optimizer outcome and the fitted lines.
type FitFinished struct {
	Event
	Status      string  `json:"status"`
	Iterations  int     `json:"iterations"`
	Evaluations int     `json:"evaluations"`
	InitialRMS  float64 `json:"initial_rms_km"`
	RMS         float64 `json:"rms_km"`
	DurationMS  int64   `json:"duration_ms"`
	Line1       string  `json:"line1,omitempty"`
	Line2       string  `json:"line2,omitempty"`
}

// LogLine carries a human-readable log message at a severity level.
type LogLine struct {
	Event
	Level   string `json:"level"`
	Message string `json:"message"`
}

// Sink receives events. Emit must not block the caller for long.
type Sink interface {
	Emit(v any)
}

// Discard drops every event.
type Discard struct{}

func (Discard) Emit(any) {}

// JSONLines writes each event as a single JSON line. It is safe for
// concurrent use. Events that fail to marshal or write are dropped.
type JSONLines struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// NewJSONLines returns a sink writing to w.
func NewJSONLines(w io.Writer) *JSONLines {
	return &JSONLines{enc: json.NewEncoder(w)}
}

func (s *JSONLines) Emit(v any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.enc.Encode(v)
}

// Recorder keeps every event in memory.
type Recorder struct {
	mu     sync.Mutex
	events []any
}

func (r *Recorder) Emit(v any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, v)
}

// Events returns a copy of the recorded events in emission order.
func (r *Recorder) Events() []any {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]any(nil), r.events...)
}

// Tee fans each event out to every non-nil sink in order.
func Tee(sinks ...Sink) Sink {
	var out tee
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

type tee []Sink

func (t tee) Emit(v any) {
	for _, s := range t {
		s.Emit(v)
	}
}
