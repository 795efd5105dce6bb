package main

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/crimson-sun/gcingest/internal/config"
	"github.com/crimson-sun/gcingest/internal/metrics"
	"github.com/crimson-sun/gcingest/internal/model"
	"github.com/crimson-sun/gcingest/internal/output"
	"github.com/crimson-sun/gcingest/internal/output/async"
	"github.com/crimson-sun/gcingest/internal/output/file"
	"github.com/crimson-sun/gcingest/internal/output/multi"
	"github.com/crimson-sun/gcingest/internal/output/sqlite"
	"github.com/crimson-sun/gcingest/internal/output/stdout"
)

// buildOutputs opens every configured sink. On failure the sinks opened so
// far are closed again.
func buildOutputs(cfg config.OutputConfig, m *metrics.Metrics) ([]output.Output, error) {
	var outs []output.Output
	for _, sink := range cfg.Sinks {
		o, err := openSink(sink, cfg)
		if err != nil {
			closeErr := multi.New(outs...).Close()
			return nil, errors.Join(err, closeErr)
		}
		if cfg.Async && sink != config.OutputStdout {
			opts := []async.Option{async.WithBufferSize(cfg.AsyncBuffer)}
			if cfg.DropOnFull {
				opts = append(opts, async.WithDropOnFull(), async.WithOnDrop(func(model.GCEvent) {
					m.Skipped(metrics.ReasonDropped, 1)
				}))
			}
			o = async.New(o, opts...)
		}
		outs = append(outs, o)
	}
	return outs, nil
}

func openSink(sink string, cfg config.OutputConfig) (output.Output, error) {
	switch sink {
	case config.OutputStdout:
		return stdout.New(cfg.Verbosity, cfg.Pretty), nil
	case config.OutputFile:
		return file.New(cfg.FilePath, cfg.Verbosity, file.WithMaxSize(cfg.FileMaxSize))
	case config.OutputSQLite:
		return sqlite.Open(cfg.SQLitePath,
			sqlite.WithBatchSize(cfg.BatchSize),
			sqlite.WithVerbosity(cfg.Verbosity),
		)
	}
	return nil, fmt.Errorf("unknown output sink %q", sink)
}

// collector keeps every event in memory for the end-of-run summary.
type collector struct {
	mu     sync.Mutex
	events []model.GCEvent
}

func (c *collector) Write(_ context.Context, e model.GCEvent) error {
	c.mu.Lock()
	c.events = append(c.events, e)
	c.mu.Unlock()
	return nil
}

func (c *collector) Close() error { return nil }

func (c *collector) Events() []model.GCEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.events
}
