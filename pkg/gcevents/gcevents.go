package gcevents

import (
	"context"
	"fmt"
	"io"

	"github.com/crimson-sun/gcingest/internal/connector"
	"github.com/crimson-sun/gcingest/internal/connector/ndjson"
	"github.com/crimson-sun/gcingest/internal/engine"
	"github.com/crimson-sun/gcingest/internal/format"
	"github.com/crimson-sun/gcingest/internal/model"
	"github.com/crimson-sun/gcingest/internal/pipeline"
)

var (
	// ErrUnsupportedFormatVersion is returned when no log layout exists for
	// the configured VM version and collector.
	ErrUnsupportedFormatVersion = format.ErrUnsupportedFormatVersion
	// ErrMalformedTimestamp is returned for a record without any time.
	ErrMalformedTimestamp = engine.ErrMalformedTimestamp
	// ErrStreamRead is returned when the input cannot be read or decoded.
	ErrStreamRead = connector.ErrStreamRead
)

// Result summarizes one parsed log.
type Result = pipeline.Result

// Parser maps GC log records to events.
// Safe for concurrent use; each Parse call runs its own session.
type Parser struct {
	engine *engine.Engine
	opts   options
}

// New creates a Parser. It fails with ErrUnsupportedFormatVersion when the
// configured VM version and collector have no known log layout.
func New(opts ...Option) (*Parser, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if _, err := format.Resolve(o.vmVersion, o.collector); err != nil {
		return nil, fmt.Errorf("gcevents: %w", err)
	}

	var engOpts []engine.Option
	if o.newID != nil {
		engOpts = append(engOpts, engine.WithIDGenerator(o.newID))
	}
	return &Parser{engine: engine.Default(engOpts...), opts: o}, nil
}

// LogType returns the tokenizer layout name for the configured VM version
// and collector, such as "SUN1_8G1".
func (p *Parser) LogType() string {
	lt, _ := format.Resolve(p.opts.vmVersion, p.opts.collector)
	return string(lt)
}

func (p *Parser) sessionConfig() engine.SessionConfig {
	return engine.SessionConfig{
		Collector:  p.opts.collector,
		VMVersion:  p.opts.vmVersion,
		Start:      p.opts.start,
		Logger:     p.opts.logger,
		LinkCycles: p.opts.linkCycles,
	}
}

// NewSession opens a session for one log stream.
func (p *Parser) NewSession() (*Session, error) {
	s, err := engine.NewSession(p.sessionConfig())
	if err != nil {
		return nil, fmt.Errorf("gcevents: %w", err)
	}
	return &Session{engine: p.engine, session: s}, nil
}

// Parse reads NDJSON entries from r in a fresh session and passes every
// event to fn in log order. An error from fn stops parsing and is returned.
// Events already handed to fn stay delivered when a later record fails; the
// partial Result is returned alongside the error.
func (p *Parser) Parse(ctx context.Context, r io.Reader, fn func(Event) error) (Result, error) {
	var plOpts []pipeline.Option
	if p.opts.logger != nil {
		plOpts = append(plOpts, pipeline.WithLogger(p.opts.logger))
	}
	pl := pipeline.New(&ndjson.Connector{Stdin: r}, p.engine, funcOutput(fn), plOpts...)
	return pl.Run(ctx, pipeline.Job{
		Source:  connector.ConnectorConfig{Provider: "ndjson", Path: "-"},
		Session: p.sessionConfig(),
	})
}

// Session is the parsing context of one log. Not safe for concurrent use.
type Session struct {
	engine  *engine.Engine
	session *engine.Session
}

// ID returns the session identifier stamped on every event.
func (s *Session) ID() string { return s.session.ID }

// Map builds the event for rec. It reports false when rec is a concurrent
// record with a non-positive duration, which produces no event.
func (s *Session) Map(rec Record) (Event, bool, error) {
	return s.engine.Map(s.session, rec)
}

// MapAll maps recs in order and returns the emitted events. It stops at the
// first error and returns the events built before it.
func (s *Session) MapAll(recs []Record) ([]Event, error) {
	events := make([]Event, 0, len(recs))
	for _, rec := range recs {
		ev, ok, err := s.Map(rec)
		if err != nil {
			return events, err
		}
		if ok {
			events = append(events, ev)
		}
	}
	return events, nil
}

// Stats returns how many events were emitted and records skipped so far,
// and how many warnings were logged.
func (s *Session) Stats() (emitted, skipped, warnings int) {
	st := s.session.Stats()
	return st.Emitted, st.Skipped, st.Warnings
}

type funcOutput func(Event) error

func (f funcOutput) Write(_ context.Context, ev model.GCEvent) error { return f(ev) }

func (f funcOutput) Close() error { return nil }
