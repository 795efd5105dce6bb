package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/crimson-sun/gcingest/internal/config"
	"github.com/crimson-sun/gcingest/internal/connector"
	"github.com/crimson-sun/gcingest/internal/engine"
	"github.com/crimson-sun/gcingest/internal/engine/summary"
	"github.com/crimson-sun/gcingest/internal/metrics"
	"github.com/crimson-sun/gcingest/internal/model"
	"github.com/crimson-sun/gcingest/internal/output"
	"github.com/crimson-sun/gcingest/internal/output/multi"
	"github.com/crimson-sun/gcingest/internal/pipeline"
)

func newIngestCmd(cfg *config.Config) *cobra.Command {
	var (
		showSummary bool
		sessionID   string
	)
	cmd := &cobra.Command{
		Use:   "ingest [files...]",
		Short: "Classify GC log records and write events to the configured sinks",
		Long: `Read NDJSON record streams (one per JVM log) and emit one GC event per
record. Each file is an independent session; "-" or no argument reads stdin.

Examples:
  # G1 log from a Java 8 VM, events to stdout
  gcingest ingest --collector g1 --vm-version 1.8 gc.ndjson

  # Several CMS logs into a sqlite store, four at a time
  gcingest ingest --collector cms --sink sqlite --parallelism 4 a.ndjson b.ndjson`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if sessionID != "" && len(args) > 1 {
				return errors.New("--session-id applies to a single input")
			}
			return runIngest(cmd, cfg, args, sessionID, showSummary)
		},
	}

	f := cmd.Flags()
	f.Var(textValue{&cfg.Session.Collector, "collector"}, "collector", "collector family: serial, parallel, cms, g1")
	f.Var(textValue{&cfg.Session.VMVersion, "version"}, "vm-version", "HotSpot version: 1.2.2 .. 1.9")
	f.StringVar(&cfg.Session.JVMStart, "jvm-start", cfg.Session.JVMStart, "JVM start instant (RFC 3339) for uptime-only records; default now")
	f.BoolVar(&cfg.Session.LinkCycles, "link-cycles", cfg.Session.LinkCycles, "set parent IDs of concurrent phases to their initial mark")
	f.StringVar(&sessionID, "session-id", "", "session ID for a single input (default random)")
	f.StringVar(&cfg.Connector.Provider, "connector", cfg.Connector.Provider, "input connector")
	f.StringSliceVar(&cfg.Output.Sinks, "sink", cfg.Output.Sinks, "output sinks: stdout, file, sqlite")
	f.Var(textValue{&cfg.Output.Verbosity, "verbosity"}, "verbosity", "minimal, standard or full")
	f.BoolVar(&cfg.Output.Pretty, "pretty", cfg.Output.Pretty, "indent stdout JSON")
	f.StringVar(&cfg.Output.FilePath, "file-path", cfg.Output.FilePath, "NDJSON file for the file sink")
	f.Int64Var(&cfg.Output.FileMaxSize, "file-max-size", cfg.Output.FileMaxSize, "rotate the file sink at this many bytes (0 disables)")
	f.StringVar(&cfg.Output.SQLitePath, "sqlite-path", cfg.Output.SQLitePath, "database for the sqlite sink")
	f.IntVar(&cfg.Output.BatchSize, "batch-size", cfg.Output.BatchSize, "events per sqlite transaction")
	f.BoolVar(&cfg.Output.Async, "async", cfg.Output.Async, "decouple file and sqlite sinks through a buffer")
	f.IntVar(&cfg.Parallelism, "parallelism", cfg.Parallelism, "files ingested concurrently")
	f.StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "serve Prometheus metrics on this address while ingesting")
	f.BoolVar(&showSummary, "summary", false, "print a per-session phase/cause summary to stderr")
	f.DurationVar(&cfg.SummaryWindow, "summary-window", cfg.SummaryWindow, "split summary groups after this much time (0 = whole session)")

	return cmd
}

func runIngest(cmd *cobra.Command, cfg *config.Config, files []string, sessionID string, showSummary bool) error {
	ctx := cmd.Context()
	log := logger(cmd)
	if len(files) == 0 {
		files = []string{"-"}
	}

	start, err := cfg.Start()
	if err != nil {
		return err
	}

	ctor, err := connector.Get(cfg.Connector.Provider)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)
	if cfg.MetricsAddr != "" {
		srv := &http.Server{Addr: cfg.MetricsAddr, Handler: metricsMux(reg), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("metrics server failed", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()
		log.Info("serving metrics", "addr", cfg.MetricsAddr)
	}

	outs, err := buildOutputs(cfg.Output, m)
	if err != nil {
		return err
	}
	var events *collector
	if showSummary {
		events = &collector{}
		outs = append(outs, events)
	}
	var out output.Output = multi.New(outs...)

	p := pipeline.New(ctor(), engine.Default(), out,
		pipeline.WithMetrics(m),
		pipeline.WithParallelism(cfg.Parallelism),
		pipeline.WithLogger(log),
	)

	jobs := make([]pipeline.Job, 0, len(files))
	for _, path := range files {
		jobs = append(jobs, pipeline.Job{
			Source: connector.ConnectorConfig{Provider: cfg.Connector.Provider, Path: path},
			Session: engine.SessionConfig{
				ID:         sessionID,
				Collector:  cfg.Session.Collector,
				VMVersion:  cfg.Session.VMVersion,
				Start:      start,
				LinkCycles: cfg.Session.LinkCycles,
			},
		})
	}

	results, runErr := p.RunAll(ctx, jobs)
	closeErr := p.Close()

	for _, res := range results {
		if res.SessionID == "" {
			continue
		}
		log.Info("ingested",
			"source", res.Source,
			"session", res.SessionID,
			"log_type", res.LogType,
			"emitted", res.Emitted,
			"skipped", res.Skipped,
			"warnings", res.Warnings,
		)
	}

	if showSummary {
		sum := summary.New(summary.Config{Window: cfg.SummaryWindow})
		for _, res := range results {
			if res.SessionID == "" {
				continue
			}
			groups := sum.Summarize(sessionEvents(events.Events(), res.SessionID))
			fmt.Fprintln(cmd.ErrOrStderr(), renderSummary(res.SessionID, groups))
		}
	}

	if runErr != nil {
		return runErr
	}
	return closeErr
}

func sessionEvents(all []model.GCEvent, sessionID string) []model.GCEvent {
	var out []model.GCEvent
	for _, e := range all {
		if e.SessionID == sessionID {
			out = append(out, e)
		}
	}
	return out
}

func metricsMux(reg *prometheus.Registry) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(reg))
	return mux
}
