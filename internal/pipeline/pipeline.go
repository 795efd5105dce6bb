package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/crimson-sun/gcingest/internal/connector"
	"github.com/crimson-sun/gcingest/internal/engine"
	"github.com/crimson-sun/gcingest/internal/format"
	"github.com/crimson-sun/gcingest/internal/metrics"
	"github.com/crimson-sun/gcingest/internal/model"
	"github.com/crimson-sun/gcingest/internal/output"
)

// Job is one log stream to ingest.
type Job struct {
	Source  connector.ConnectorConfig
	Session engine.SessionConfig
}

// Result summarizes a finished (or failed) session.
type Result struct {
	Source       string         `json:"source"`
	SessionID    string         `json:"session_id"`
	LogType      format.LogType `json:"log_type"`
	Emitted      int            `json:"emitted"`
	Skipped      int            `json:"skipped"`
	Warnings     int            `json:"warnings"`
	Excluded     int            `json:"excluded"`
	Metadata     Metadata       `json:"metadata"`
	SurvivorAges []AgeStat      `json:"survivor_ages,omitempty"`
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithMetrics records session counters on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// WithLogger sets the logger sessions derive from. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// WithParallelism bounds how many sessions RunAll processes at once.
// Values below 1 mean 1.
func WithParallelism(n int) Option {
	return func(p *Pipeline) {
		if n < 1 {
			n = 1
		}
		p.parallelism = n
	}
}

// Pipeline connects a connector, engine, and output into a processing pipeline.
type Pipeline struct {
	connector   connector.Connector
	engine      *engine.Engine
	output      output.Output
	metrics     *metrics.Metrics
	logger      *slog.Logger
	parallelism int
}

// New creates a Pipeline from the given components.
func New(conn connector.Connector, eng *engine.Engine, out output.Output, opts ...Option) *Pipeline {
	p := &Pipeline{
		connector:   conn,
		engine:      eng,
		output:      out,
		parallelism: 1,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// Run ingests one stream in a fresh session. Events already written to the
// output stay written when a later record fails; the partial Result is
// returned alongside the error.
func (p *Pipeline) Run(ctx context.Context, job Job) (res Result, err error) {
	res.Source = job.Source.Path
	defer func() { p.metrics.Session(err) }()

	cfg := job.Session
	if cfg.Logger == nil {
		cfg.Logger = p.logger.With("source", job.Source.Path)
	}
	s, err := engine.NewSession(cfg)
	if err != nil {
		return res, fmt.Errorf("pipeline run %s: %w", job.Source.Path, err)
	}
	res.SessionID = s.ID
	res.LogType = s.LogType

	md := &metadataCollector{}
	ages := newAgesCollector()
	sink := func(ev model.GCEvent) error {
		if err := p.output.Write(ctx, ev); err != nil {
			return fmt.Errorf("pipeline output: %w", err)
		}
		p.metrics.ObserveEvent(ev)
		return nil
	}

	readErr := p.connector.Read(ctx, job.Source, func(e model.Entry) error {
		switch {
		case e.Record != nil:
			return p.engine.Process(s, *e.Record, sink)
		case e.Header != "":
			md.add(e.Header)
		case e.Excluded != "":
			ages.add(e.Excluded)
			res.Excluded++
		}
		return nil
	})

	stats := s.Stats()
	res.Emitted = stats.Emitted
	res.Skipped = stats.Skipped
	res.Warnings = stats.Warnings
	res.Metadata = md.result()
	res.SurvivorAges = ages.result()

	p.metrics.Skipped(metrics.ReasonEmptyConcurrent, stats.Skipped)
	p.metrics.Skipped(metrics.ReasonExcluded, res.Excluded)
	p.metrics.Warnings(stats.Warnings)

	if readErr != nil {
		s.Logger.Error("session aborted", "error", readErr, "emitted", res.Emitted)
		return res, fmt.Errorf("pipeline run %s: %w", job.Source.Path, readErr)
	}
	s.Logger.Info("session complete",
		"log_type", res.LogType,
		"emitted", res.Emitted,
		"skipped", res.Skipped,
		"warnings", res.Warnings,
		"excluded", res.Excluded,
	)
	return res, nil
}

// RunAll runs independent sessions concurrently, at most Parallelism at a
// time. Results are indexed like jobs. The first failure cancels sessions
// that have not finished; it is returned after all have stopped.
func (p *Pipeline) RunAll(ctx context.Context, jobs []Job) ([]Result, error) {
	results := make([]Result, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.parallelism)

	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			res, err := p.Run(gctx, job)
			results[i] = res
			return err
		})
	}
	return results, g.Wait()
}

// Close shuts down the output.
func (p *Pipeline) Close() error {
	return p.output.Close()
}
