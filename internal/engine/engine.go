package engine

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/crimson-sun/gcingest/internal/engine/capacity"
	"github.com/crimson-sun/gcingest/internal/engine/classifier"
	"github.com/crimson-sun/gcingest/internal/engine/timestamp"
	"github.com/crimson-sun/gcingest/internal/model"
)

// ErrMalformedTimestamp is returned for records without any time. It aborts the session.
var ErrMalformedTimestamp = timestamp.ErrMalformedTimestamp

// Sink receives emitted events in encounter order.
type Sink func(model.GCEvent) error

// Option configures an Engine.
type Option func(*Engine)

// WithIDGenerator replaces the random UUID event identifiers.
func WithIDGenerator(f func() string) Option {
	return func(e *Engine) { e.newID = f }
}

// Engine turns raw records into GCEvents: time normalization, classification,
// then capacity reconstruction. It keeps no state of its own; everything that
// spans records lives in the Session, so one Engine can serve many sessions
// concurrently.
type Engine struct {
	classifier    *classifier.Classifier
	reconstructor *capacity.Reconstructor
	newID         func() string
}

// New creates an Engine with the provided components.
func New(cls *classifier.Classifier, rc *capacity.Reconstructor, opts ...Option) *Engine {
	e := &Engine{
		classifier:    cls,
		reconstructor: rc,
		newID:         uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Default creates an Engine over the built-in pattern tables.
func Default(opts ...Option) *Engine {
	cls := classifier.New()
	return New(cls, capacity.New(cls), opts...)
}

// Process maps rec and hands the event to sink. Skipped records never reach
// the sink.
func (e *Engine) Process(s *Session, rec model.RawRecord, sink Sink) error {
	ev, ok, err := e.Map(s, rec)
	if err != nil || !ok {
		return err
	}
	return sink(ev)
}

// Map builds the event for rec. It reports false for concurrent records with a
// non-positive duration; such records leave the session untouched.
func (e *Engine) Map(s *Session, rec model.RawRecord) (model.GCEvent, bool, error) {
	if rec.Concurrent && !rec.VMEvent && rec.Duration <= 0 {
		s.stats.Skipped++
		return model.GCEvent{}, false, nil
	}

	occurred, err := s.clock.Normalize(rec)
	if err != nil {
		return model.GCEvent{}, false, fmt.Errorf("%w: %q", err, rec.Type)
	}

	cls := e.classifier.Classify(s.Collector, rec)
	if cls.Unclassified {
		s.warn("event has no recognizable generation", "description", rec.Type, "generation", string(rec.Generation))
	}

	caps := e.reconstructor.Reconstruct(s.Collector, rec, s.lastYoung)
	if caps.Discarded {
		s.warn("discarding tenured back-calculation outside heap bounds", "description", rec.Type)
	}

	ev := model.GCEvent{
		ID:                   e.newID(),
		SessionID:            s.ID,
		Occurred:             occurred,
		Description:          rec.Type,
		VMEventType:          model.GarbageCollection,
		Capacity:             caps.Capacity,
		TotalCapacity:        caps.Total,
		User:                 orSentinel(rec.User),
		Sys:                  orSentinel(rec.Sys),
		Real:                 orSentinel(rec.Real),
		Generations:          cls.Generations,
		Phase:                cls.Phase,
		Cause:                cls.Cause,
		Properties:           cls.Properties,
		Concurrency:          model.Serial,
		CapacityByGeneration: caps.ByGeneration,
	}
	if rec.Timestamp != nil {
		ev.Timestamp = *rec.Timestamp
	}
	if rec.VMEvent {
		ev.VMEventType = model.StopTheWorldNonGC
	}

	pause, wall := rec.Pause, rec.Pause
	switch {
	case rec.Concurrent && !rec.VMEvent:
		ev.Concurrency = model.Concurrent
		pause, wall = rec.Duration, rec.Duration
	case rec.Real != nil && *rec.Real >= 0:
		wall = *rec.Real
	}
	ev.PauseMu = int64(pause * 1_000_000)
	ev.DurationMu = int64(wall * 1_000_000)

	if s.LinkCycles {
		switch {
		case ev.Phase.InitialMark() && !ev.IsConcurrent():
			s.cycleID = ev.ID
		case ev.IsConcurrent():
			ev.ParentID = s.cycleID
		}
	}

	if rec.Generation == model.RawYoung && !rec.Concurrent && !rec.VMEvent {
		s.lastYoung = &capacity.YoungSnapshot{Young: caps.Capacity, Total: caps.Total}
	}
	s.stats.Emitted++
	return ev, true, nil
}

func orSentinel(v *float64) float64 {
	if v == nil || math.IsNaN(*v) {
		return -1.0
	}
	return *v
}
