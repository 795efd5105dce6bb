package sqlite_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crimson-sun/gcingest/internal/model"
	"github.com/crimson-sun/gcingest/internal/output"
	"github.com/crimson-sun/gcingest/internal/output/sqlite"
)

var testDB *sqlite.Database

func TestMain(m *testing.M) {
	dbPath := filepath.Join(os.TempDir(), "test_"+uuid.NewString()+".db")

	var err error
	testDB, err = sqlite.NewDatabase(dbPath)
	if err != nil {
		panic(err)
	}

	code := m.Run()

	testDB.Close()
	os.Remove(dbPath)

	os.Exit(code)
}

func testEvent(sessionID string, occurred time.Time) model.GCEvent {
	return model.GCEvent{
		ID:            uuid.NewString(),
		SessionID:     sessionID,
		Occurred:      occurred,
		Description:   "GC pause (G1 Evacuation Pause) (mixed)",
		Capacity:      model.NewCapacity(400, 100, 500),
		TotalCapacity: model.NewCapacity(1200, 700, 2048),
		Timestamp:     12.5,
		PauseMu:       4200,
		DurationMu:    4300,
		User:          0.01,
		Sys:           -1,
		Real:          0.0043,
		Generations:   model.Generations(model.Young, model.Tenured),
		Phase:         model.PhaseG1Copying,
		Cause:         model.CauseG1EvacuationPause,
		Properties:    model.PropertyG1Mixed,
		Concurrency:   model.Serial,
		CapacityByGeneration: map[model.Generation]model.Capacity{
			model.Young:   model.NewCapacity(400, 100, 500),
			model.Tenured: model.NewCapacity(800, 600, 1548),
		},
		Ext: `{"jvm":"node-1"}`,
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	session := uuid.NewString()
	store := sqlite.New(testDB)
	repo := sqlite.NewRepository(testDB)

	base := time.Date(2016, 7, 24, 10, 0, 0, 0, time.UTC)
	want := testEvent(session, base)
	want.ParentID = uuid.NewString()
	require.NoError(t, store.Write(ctx, want))
	require.NoError(t, store.Close())

	got, err := repo.Events(ctx, session, base.Add(-time.Hour), base.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, want, got[0])
}

func TestStoreBatching(t *testing.T) {
	ctx := context.Background()
	session := uuid.NewString()
	store := sqlite.New(testDB, sqlite.WithBatchSize(3))
	repo := sqlite.NewRepository(testDB)

	base := time.Date(2017, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		require.NoError(t, store.Write(ctx, testEvent(session, base.Add(time.Duration(i)*time.Second))))
	}

	got, err := repo.Events(ctx, session, base, base.Add(time.Minute))
	require.NoError(t, err)
	assert.Len(t, got, 3, "first batch flushed, fourth still pending")

	require.NoError(t, store.Close())
	got, err = repo.Events(ctx, session, base, base.Add(time.Minute))
	require.NoError(t, err)
	assert.Len(t, got, 4)
	for i := 1; i < len(got); i++ {
		assert.False(t, got[i].Occurred.Before(got[i-1].Occurred), "events must be ordered by occurrence")
	}
}

func TestEventsAcrossMonths(t *testing.T) {
	ctx := context.Background()
	session := uuid.NewString()
	store := sqlite.New(testDB)
	repo := sqlite.NewRepository(testDB)

	times := []time.Time{
		time.Date(2016, 11, 30, 23, 59, 0, 0, time.UTC),
		time.Date(2016, 12, 15, 12, 0, 0, 0, time.UTC),
		time.Date(2017, 1, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2017, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	for _, ts := range times {
		require.NoError(t, store.Write(ctx, testEvent(session, ts)))
	}
	require.NoError(t, store.Close())

	cases := []struct {
		desc     string
		from, to time.Time
		want     int
	}{
		{"single month", time.Date(2016, 12, 1, 0, 0, 0, 0, time.UTC), time.Date(2016, 12, 31, 0, 0, 0, 0, time.UTC), 1},
		{"year boundary", times[0], times[2], 3},
		{"everything", times[0].Add(-time.Hour), times[3], 4},
		{"inside gap", time.Date(2017, 2, 1, 0, 0, 0, 0, time.UTC), time.Date(2017, 2, 28, 0, 0, 0, 0, time.UTC), 0},
	}
	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			got, err := repo.Events(ctx, session, tc.from, tc.to)
			require.NoError(t, err)
			assert.Len(t, got, tc.want)
		})
	}
}

func TestPauseEvents(t *testing.T) {
	ctx := context.Background()
	session := uuid.NewString()
	store := sqlite.New(testDB)
	repo := sqlite.NewRepository(testDB)

	at := time.Date(2018, 5, 5, 5, 5, 5, 0, time.UTC)
	ev := testEvent(session, at)
	require.NoError(t, store.Write(ctx, ev))
	require.NoError(t, store.Close())

	got, err := repo.PauseEvents(ctx, session, at, at)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, ev.ID, got[0].ID)
	assert.Equal(t, ev.PauseMu, got[0].PauseMu)
	assert.Equal(t, ev.DurationMu, got[0].DurationMu)
	assert.Equal(t, ev.Generations, got[0].Generations)
	assert.True(t, got[0].Capacity.IsNone())
	assert.Empty(t, got[0].Description)
}

func TestErase(t *testing.T) {
	ctx := context.Background()
	session := uuid.NewString()
	other := uuid.NewString()
	store := sqlite.New(testDB)
	repo := sqlite.NewRepository(testDB)

	base := time.Date(2019, 2, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		require.NoError(t, store.Write(ctx, testEvent(session, base.AddDate(0, 0, i))))
	}
	require.NoError(t, store.Write(ctx, testEvent(other, base)))
	require.NoError(t, store.Close())

	n, err := repo.Erase(ctx, session, base, base.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	left, err := repo.Events(ctx, session, base, base.AddDate(0, 1, 0))
	require.NoError(t, err)
	assert.Len(t, left, 1)

	untouched, err := repo.Events(ctx, other, base, base)
	require.NoError(t, err)
	assert.Len(t, untouched, 1)
}

func TestInvalidRange(t *testing.T) {
	repo := sqlite.NewRepository(testDB)
	now := time.Now()

	_, err := repo.Events(context.Background(), "s", now, now.Add(-time.Hour))
	assert.ErrorIs(t, err, sqlite.ErrInvalidRange)

	_, err = repo.Erase(context.Background(), "s", now, now.Add(-time.Hour))
	assert.ErrorIs(t, err, sqlite.ErrInvalidRange)
}

func TestMinimalVerbosityStore(t *testing.T) {
	ctx := context.Background()
	session := uuid.NewString()
	store := sqlite.New(testDB, sqlite.WithVerbosity(output.Minimal))
	repo := sqlite.NewRepository(testDB)

	at := time.Date(2020, 8, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.Write(ctx, testEvent(session, at)))
	require.NoError(t, store.Close())

	got, err := repo.Events(ctx, session, at, at)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Empty(t, got[0].Description)
	assert.Nil(t, got[0].CapacityByGeneration)
	assert.Empty(t, got[0].Ext)
}

func TestOpenOwnsDatabase(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "events.db")

	store, err := sqlite.Open(path, sqlite.WithBatchSize(10))
	require.NoError(t, err)
	at := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, store.Write(ctx, testEvent("owned", at.Add(time.Duration(i)*time.Millisecond))))
	}
	require.NoError(t, store.Close())

	// Reopening applies no new migrations and sees the flushed rows.
	db, err := sqlite.NewDatabase(path)
	require.NoError(t, err)
	defer db.Close()

	repo := sqlite.NewRepository(db)
	got, err := repo.Events(ctx, "owned", at, at.Add(time.Second))
	require.NoError(t, err)
	assert.Len(t, got, 5)

	sessions, err := repo.Sessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"owned"}, sessions)
}

func TestMemoryDatabase(t *testing.T) {
	db, err := sqlite.NewDatabase(":memory:")
	require.NoError(t, err)
	defer db.Close()

	store := sqlite.New(db, sqlite.WithBatchSize(1))
	at := time.Date(2022, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		ev := testEvent("mem", at)
		ev.ID = fmt.Sprintf("ev-%d", i)
		require.NoError(t, store.Write(context.Background(), ev))
	}

	got, err := sqlite.NewRepository(db).Events(context.Background(), "mem", at, at)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "ev-0", got[0].ID, "same-millisecond events keep insertion order")
}

func TestBounds(t *testing.T) {
	ctx := context.Background()
	session := uuid.NewString()
	store := sqlite.New(testDB)
	repo := sqlite.NewRepository(testDB)

	first := time.Date(2015, 3, 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(2015, 9, 1, 12, 30, 0, 0, time.UTC)
	require.NoError(t, store.Write(ctx, testEvent(session, last)))
	require.NoError(t, store.Write(ctx, testEvent(session, first)))
	require.NoError(t, store.Close())

	from, to, err := repo.Bounds(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, first, from)
	assert.Equal(t, last, to)

	_, _, err = repo.Bounds(ctx, uuid.NewString())
	assert.ErrorIs(t, err, sqlite.ErrNotFound)
}
