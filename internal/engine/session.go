package engine

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/crimson-sun/gcingest/internal/engine/capacity"
	"github.com/crimson-sun/gcingest/internal/engine/timestamp"
	"github.com/crimson-sun/gcingest/internal/format"
	"github.com/crimson-sun/gcingest/internal/model"
)

// SessionConfig describes one log stream.
type SessionConfig struct {
	ID        string // defaults to a random UUID
	Collector model.CollectorType
	VMVersion model.VMVersion
	Start     time.Time // instant the JVM started; relative timestamps are offset from it
	Logger    *slog.Logger
	// LinkCycles sets ParentID on concurrent events to the latest initial-mark
	// event of the session.
	LinkCycles bool
}

// Stats counts what a session has seen so far.
type Stats struct {
	Emitted  int
	Skipped  int
	Warnings int
}

// Session is the per-stream parsing context. It owns the timezone cache and
// the last young collection, so it must not be shared between goroutines.
type Session struct {
	ID         string
	Collector  model.CollectorType
	VMVersion  model.VMVersion
	LogType    format.LogType
	Logger     *slog.Logger
	LinkCycles bool

	clock     *timestamp.Normalizer
	lastYoung *capacity.YoungSnapshot
	cycleID   string
	stats     Stats
}

// NewSession validates cfg and prepares the per-stream state. It fails with
// format.ErrUnsupportedFormatVersion when the VM version and collector have no
// known log layout.
func NewSession(cfg SessionConfig) (*Session, error) {
	lt, err := format.Resolve(cfg.VMVersion, cfg.Collector)
	if err != nil {
		return nil, fmt.Errorf("new session: %w", err)
	}
	id := cfg.ID
	if id == "" {
		id = uuid.NewString()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	start := cfg.Start
	if start.IsZero() {
		start = time.Now()
	}
	return &Session{
		ID:         id,
		Collector:  cfg.Collector,
		VMVersion:  cfg.VMVersion,
		LogType:    lt,
		Logger:     logger.With("session", id),
		LinkCycles: cfg.LinkCycles,
		clock:      timestamp.New(start),
	}, nil
}

// Stats returns a snapshot of the session counters.
func (s *Session) Stats() Stats {
	return s.stats
}

// LastYoung returns the remembered young collection, or nil.
func (s *Session) LastYoung() *capacity.YoungSnapshot {
	return s.lastYoung
}

// Location returns the log timezone once a datestamp has been seen.
func (s *Session) Location() *time.Location {
	return s.clock.Location()
}

func (s *Session) warn(msg string, args ...any) {
	s.stats.Warnings++
	s.Logger.Warn(msg, args...)
}
