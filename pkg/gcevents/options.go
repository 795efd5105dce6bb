package gcevents

import (
	"log/slog"
	"time"

	"github.com/crimson-sun/gcingest/internal/model"
)

type options struct {
	collector  model.CollectorType
	vmVersion  model.VMVersion
	start      time.Time
	linkCycles bool
	logger     *slog.Logger
	newID      func() string
}

// Option configures a Parser.
type Option func(*options)

func defaultOptions() options {
	return options{
		collector: model.CollectorG1,
		vmVersion: model.HotSpot18,
	}
}

// WithCollector sets the collector the logs were written by. Default: G1.
func WithCollector(c Collector) Option {
	return func(o *options) { o.collector = c }
}

// WithVMVersion sets the HotSpot release. Default: 1.8.
func WithVMVersion(v VMVersion) Option {
	return func(o *options) { o.vmVersion = v }
}

// WithStart sets the instant the JVM started. Records carrying only a
// relative timestamp are offset from it. Default: the time a session opens.
func WithStart(t time.Time) Option {
	return func(o *options) { o.start = t }
}

// WithLinkCycles links concurrent events to the latest initial-mark pause
// through ParentID.
func WithLinkCycles(enabled bool) Option {
	return func(o *options) { o.linkCycles = enabled }
}

// WithLogger sets the logger used for per-record warnings.
// Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithIDGenerator replaces the random UUID event identifiers.
func WithIDGenerator(f func() string) Option {
	return func(o *options) { o.newID = f }
}
