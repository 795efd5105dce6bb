package sqlite

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/crimson-sun/gcingest/internal/model"
	"github.com/crimson-sun/gcingest/internal/output"
)

const defaultBatchSize = 500

const insertEvent = `INSERT OR REPLACE INTO gc_event (
	session_id, date, occurred, id, parent_id, description, written_at, vm_event_type,
	capacity_before, capacity_after, capacity_total, total_before, total_after, total_total,
	jvm_seconds, pause_mu, duration_mu, user_time, sys_time, real_time,
	generations, phase, cause, properties, concurrency, capacity_by_generation, ext
) VALUES (
	:session_id, :date, :occurred, :id, :parent_id, :description, :written_at, :vm_event_type,
	:capacity_before, :capacity_after, :capacity_total, :total_before, :total_after, :total_total,
	:jvm_seconds, :pause_mu, :duration_mu, :user_time, :sys_time, :real_time,
	:generations, :phase, :cause, :properties, :concurrency, :capacity_by_generation, :ext
)`

// Option configures a Store.
type Option func(*Store)

// WithBatchSize sets how many events are buffered before a write transaction.
func WithBatchSize(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// WithVerbosity applies output field stripping before events are stored.
func WithVerbosity(v output.Verbosity) Option {
	return func(s *Store) { s.verbosity = v }
}

// Store is an output.Output that batches events into the gc_event table.
// Re-writing an event with the same key replaces it.
type Store struct {
	mu        sync.Mutex
	db        *Database
	ownsDB    bool
	pending   []eventRow
	batchSize int
	verbosity output.Verbosity
	now       func() time.Time
}

var _ output.Output = (*Store)(nil)

// New creates a Store writing to an already-open database. Close flushes
// but leaves db open.
func New(db *Database, opts ...Option) *Store {
	s := &Store{
		db:        db,
		batchSize: defaultBatchSize,
		verbosity: output.Full,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.pending = make([]eventRow, 0, s.batchSize)
	return s
}

// Open creates the database at path and a Store that closes it on Close.
func Open(path string, opts ...Option) (*Store, error) {
	db, err := NewDatabase(path)
	if err != nil {
		return nil, err
	}
	s := New(db, opts...)
	s.ownsDB = true
	return s, nil
}

// DB returns the underlying database.
func (s *Store) DB() *Database { return s.db }

func (s *Store) Write(ctx context.Context, event model.GCEvent) error {
	row, err := toRow(output.FormatEvent(event, s.verbosity), s.now())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCreate, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(s.pending, row)
	if len(s.pending) < s.batchSize {
		return nil
	}
	return s.flush(ctx)
}

// Flush writes all buffered events in one transaction.
func (s *Store) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flush(ctx)
}

func (s *Store) flush(ctx context.Context) error {
	if len(s.pending) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCreate, err)
	}
	stmt, err := tx.PrepareNamedContext(ctx, insertEvent)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("%w: %w", ErrCreate, err)
	}
	defer stmt.Close()

	for _, row := range s.pending {
		if _, err := stmt.ExecContext(ctx, row); err != nil {
			tx.Rollback()
			return fmt.Errorf("%w: event %s: %w", ErrCreate, row.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrCreate, err)
	}
	s.pending = s.pending[:0]
	return nil
}

// Close flushes pending events and, for stores created by Open, closes the database.
func (s *Store) Close() error {
	err := s.Flush(context.Background())
	if s.ownsDB {
		if cerr := s.db.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
