package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/crimson-sun/gcingest/internal/model"
)

const eventColumns = `session_id, date, occurred, id, parent_id, description, written_at, vm_event_type,
	capacity_before, capacity_after, capacity_total, total_before, total_after, total_total,
	jvm_seconds, pause_mu, duration_mu, user_time, sys_time, real_time,
	generations, phase, cause, properties, concurrency, capacity_by_generation, ext`

const pauseColumns = `id, occurred, vm_event_type, pause_mu, duration_mu, generations, concurrency`

// Repository reads and erases stored events. Ranges are inclusive at both ends.
type Repository struct {
	db *Database
}

func NewRepository(db *Database) *Repository {
	return &Repository{db: db}
}

// Events returns every stored field of the session's events in [from, to],
// ordered by occurrence then insertion.
func (r *Repository) Events(ctx context.Context, sessionID string, from, to time.Time) ([]model.GCEvent, error) {
	events := []model.GCEvent{}
	err := r.EachEvent(ctx, sessionID, from, to, func(e model.GCEvent) error {
		events = append(events, e)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return events, nil
}

// EachEvent streams the session's events in [from, to] to fn without
// loading them all into memory.
func (r *Repository) EachEvent(ctx context.Context, sessionID string, from, to time.Time, fn func(model.GCEvent) error) error {
	rows, err := r.query(ctx, eventColumns, sessionID, from, to)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var row eventRow
		if err := rows.StructScan(&row); err != nil {
			return fmt.Errorf("%w: %w", ErrDBQuery, err)
		}
		e, err := row.event()
		if err != nil {
			return fmt.Errorf("%w: event %s: %w", ErrDBQuery, row.ID, err)
		}
		if err := fn(e); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrDBQuery, err)
	}
	return nil
}

// PauseEvents is Events restricted to timing columns: ID, Occurred,
// VMEventType, PauseMu, DurationMu, Generations and Concurrency.
// Capacities are left as model.NoCapacity.
func (r *Repository) PauseEvents(ctx context.Context, sessionID string, from, to time.Time) ([]model.GCEvent, error) {
	rows, err := r.query(ctx, pauseColumns, sessionID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []model.GCEvent{}
	for rows.Next() {
		var row pauseRow
		if err := rows.StructScan(&row); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDBQuery, err)
		}
		e, err := row.event(sessionID)
		if err != nil {
			return nil, fmt.Errorf("%w: event %s: %w", ErrDBQuery, row.ID, err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDBQuery, err)
	}
	return events, nil
}

// Erase deletes the session's events in [from, to] and reports how many were removed.
func (r *Repository) Erase(ctx context.Context, sessionID string, from, to time.Time) (int64, error) {
	dates, err := buckets(from, to)
	if err != nil {
		return 0, err
	}
	query, args, err := sqlx.In(
		`DELETE FROM gc_event WHERE session_id = ? AND date IN (?) AND occurred >= ? AND occurred <= ?`,
		sessionID, dates, from.UnixMilli(), to.UnixMilli(),
	)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrDelete, err)
	}
	res, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrDelete, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrDelete, err)
	}
	return n, nil
}

// Bounds returns the earliest and latest occurrence stored for the session.
// It fails with ErrNotFound when the session has no events.
func (r *Repository) Bounds(ctx context.Context, sessionID string) (from, to time.Time, err error) {
	var b struct {
		Min sql.NullInt64 `db:"min_occurred"`
		Max sql.NullInt64 `db:"max_occurred"`
	}
	if err := r.db.GetContext(ctx, &b,
		`SELECT MIN(occurred) AS min_occurred, MAX(occurred) AS max_occurred FROM gc_event WHERE session_id = ?`,
		sessionID,
	); err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %w", ErrDBQuery, err)
	}
	if !b.Min.Valid {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: session %s", ErrNotFound, sessionID)
	}
	return time.UnixMilli(b.Min.Int64).UTC(), time.UnixMilli(b.Max.Int64).UTC(), nil
}

// Sessions lists the distinct session IDs in the store.
func (r *Repository) Sessions(ctx context.Context) ([]string, error) {
	ids := []string{}
	if err := r.db.SelectContext(ctx, &ids, `SELECT DISTINCT session_id FROM gc_event ORDER BY session_id`); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDBQuery, err)
	}
	return ids, nil
}

func (r *Repository) query(ctx context.Context, columns, sessionID string, from, to time.Time) (*sqlx.Rows, error) {
	dates, err := buckets(from, to)
	if err != nil {
		return nil, err
	}
	query, args, err := sqlx.In(
		`SELECT `+columns+` FROM gc_event
		WHERE session_id = ? AND date IN (?) AND occurred >= ? AND occurred <= ?
		ORDER BY occurred, rowid`,
		sessionID, dates, from.UnixMilli(), to.UnixMilli(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDBQuery, err)
	}
	rows, err := r.db.QueryxContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDBQuery, err)
	}
	return rows, nil
}
