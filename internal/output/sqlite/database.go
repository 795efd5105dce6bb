// Package sqlite persists GC events in a SQLite database, bucketed by
// session and calendar month.
package sqlite

import (
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	migrate "github.com/rubenv/sql-migrate"
	_ "modernc.org/sqlite"
)

var (
	ErrDBConnection = errors.New("database connection error")
	ErrMigration    = errors.New("database migration error")
	ErrDBQuery      = errors.New("database query error")
	ErrCreate       = errors.New("create error")
	ErrDelete       = errors.New("delete error")
	ErrInvalidRange = errors.New("invalid time range")
	ErrNotFound     = errors.New("not found")
)

// Database is a migrated connection to the event store.
type Database struct {
	*sqlx.DB
}

// NewDatabase opens (or creates) the database at path and applies pending migrations.
// Use ":memory:" for a throwaway store.
func NewDatabase(path string) (*Database, error) {
	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDBConnection, err)
	}

	// SQLite serializes writers; one connection also keeps ":memory:" databases shared.
	db.SetMaxOpenConns(1)

	database := &Database{DB: db}
	if err := database.Migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return database, nil
}

// Migrate applies all pending schema migrations.
func (db *Database) Migrate() error {
	migrations := &migrate.MemoryMigrationSource{
		Migrations: []*migrate.Migration{
			{
				Id: "1_create_gc_event",
				Up: []string{
					`CREATE TABLE IF NOT EXISTS gc_event (
						session_id TEXT NOT NULL,
						date TEXT NOT NULL,
						occurred INTEGER NOT NULL,
						id TEXT NOT NULL,
						parent_id TEXT NOT NULL DEFAULT '',
						description TEXT NOT NULL DEFAULT '',
						written_at INTEGER NOT NULL,
						vm_event_type TEXT NOT NULL,
						capacity_before INTEGER NOT NULL,
						capacity_after INTEGER NOT NULL,
						capacity_total INTEGER NOT NULL,
						total_before INTEGER NOT NULL,
						total_after INTEGER NOT NULL,
						total_total INTEGER NOT NULL,
						jvm_seconds REAL NOT NULL,
						pause_mu INTEGER NOT NULL,
						duration_mu INTEGER NOT NULL,
						user_time REAL NOT NULL,
						sys_time REAL NOT NULL,
						real_time REAL NOT NULL,
						generations INTEGER NOT NULL,
						phase TEXT NOT NULL,
						cause TEXT NOT NULL,
						properties INTEGER NOT NULL DEFAULT 0,
						concurrency TEXT NOT NULL,
						capacity_by_generation TEXT NOT NULL DEFAULT '',
						ext TEXT NOT NULL DEFAULT '',
						PRIMARY KEY (session_id, date, occurred, id)
					)`,
					`CREATE INDEX IF NOT EXISTS idx_gc_event_parent ON gc_event(session_id, parent_id)`,
				},
				Down: []string{
					`DROP INDEX IF EXISTS idx_gc_event_parent`,
					`DROP TABLE IF EXISTS gc_event`,
				},
			},
		},
	}

	if _, err := migrate.Exec(db.DB.DB, "sqlite3", migrations, migrate.Up); err != nil {
		return fmt.Errorf("%w: %w", ErrMigration, err)
	}
	return nil
}

// dateLayout formats the month bucket of an event.
const dateLayout = "2006-01"

func bucket(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

// buckets returns every month bucket touched by [from, to].
func buckets(from, to time.Time) ([]string, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("%w: %s after %s", ErrInvalidRange, from.Format(time.RFC3339), to.Format(time.RFC3339))
	}
	from, to = from.UTC(), to.UTC()
	cur := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, time.UTC)
	var out []string
	for !cur.After(to) {
		out = append(out, cur.Format(dateLayout))
		cur = cur.AddDate(0, 1, 0)
	}
	return out, nil
}
