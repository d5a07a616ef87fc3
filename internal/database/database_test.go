package database

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"github.com/ahmetcoskunkizilkaya/community-events/internal/models"
)

func TestSchemaStatements(t *testing.T) {
	stmts := schemaStatements()
	require.Len(t, stmts, 7)
	assert.Equal(t, "PRAGMA foreign_keys = ON", stmts[0])
	assert.Contains(t, stmts[6], "idx_events_start")
	for _, stmt := range stmts {
		assert.NotContains(t, stmt, ";")
	}
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := Open(Options{})
	assert.Error(t, err)
}

func TestInitialize_IdempotentSeeding(t *testing.T) {
	store := OpenTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, store.Initialize(ctx))
	}

	names, err := QueryAll[string](ctx, store, `SELECT name FROM categories ORDER BY id`)
	require.NoError(t, err)
	assert.Equal(t, CategoryNames, names)
}

func TestInitialize_KeepsExistingData(t *testing.T) {
	store := OpenTestStore(t)
	ctx := context.Background()

	CreateTestUser(t, store, "u1", "Ana")
	require.NoError(t, store.Initialize(ctx))

	name, ok, err := QueryOne[string](ctx, store, `SELECT name FROM users WHERE id = ?`, "u1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Ana", name)
}

func TestInitialize_InMemory(t *testing.T) {
	store, err := Open(Options{Path: ":memory:", LogLevel: logger.Silent})
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.Initialize(ctx))

	count, _, err := QueryOne[int64](ctx, store, `SELECT COUNT(1) FROM categories`)
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)
}

func TestQueryOne_NotFound(t *testing.T) {
	store := OpenTestStore(t)

	user, ok, err := QueryOne[models.User](context.Background(), store, `SELECT * FROM users WHERE id = ?`, "nobody")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, user.ID)
}

func TestQueryAll_EmptyIsNotNil(t *testing.T) {
	store := OpenTestStore(t)

	users, err := QueryAll[models.User](context.Background(), store, `SELECT * FROM users`)
	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)
}

func TestQueryAll_MalformedSQL(t *testing.T) {
	store := OpenTestStore(t)

	_, err := QueryAll[models.User](context.Background(), store, `SELECT * FROM nope`)
	assert.Error(t, err)
}

func TestExec_ForeignKeyViolation(t *testing.T) {
	store := OpenTestStore(t)

	err := store.Exec(context.Background(),
		`INSERT INTO events(name, start_date, end_date, start_time, end_time, category_id, created_by)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		"Ghost", "2025-01-01", "2025-01-01", "09:00", "10:00", 1, "missing-user")
	require.Error(t, err)
	assert.True(t, IsConstraintViolation(err))
}

func TestExec_UniqueEmailViolation(t *testing.T) {
	store := OpenTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Exec(ctx, `INSERT INTO users (id, email) VALUES (?, ?)`, "a", "x@example.com"))
	err := store.Exec(ctx, `INSERT INTO users (id, email) VALUES (?, ?)`, "b", "x@example.com")
	require.Error(t, err)
	assert.True(t, IsConstraintViolation(err))
}

func TestIsConstraintViolation_OtherErrors(t *testing.T) {
	assert.False(t, IsConstraintViolation(nil))
	assert.False(t, IsConstraintViolation(assert.AnError))
}

func TestCascadeDelete(t *testing.T) {
	store := OpenTestStore(t)
	ctx := context.Background()

	CreateTestUser(t, store, "u1", "Ana")
	CreateTestUser(t, store, "u2", "Beto")

	ev := models.Event{
		Name: "Feria", StartDate: "2025-01-01", EndDate: "2025-01-01",
		StartTime: "09:00", EndTime: "10:00", CategoryID: 1, CreatedBy: "u1",
	}
	require.NoError(t, store.Create(ctx, &ev))
	require.NotZero(t, ev.ID)

	for _, uid := range []string{"u1", "u2"} {
		require.NoError(t, store.Exec(ctx, `INSERT INTO event_attendees(event_id, user_id) VALUES (?, ?)`, ev.ID, uid))
	}

	// Deleting a user drops their attendance rows.
	require.NoError(t, store.Exec(ctx, `DELETE FROM users WHERE id = ?`, "u2"))
	count, _, err := QueryOne[int64](ctx, store, `SELECT COUNT(1) FROM event_attendees WHERE event_id = ?`, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	n, err := store.ExecAffected(ctx, `DELETE FROM events WHERE id = ?`, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	count, _, err = QueryOne[int64](ctx, store, `SELECT COUNT(1) FROM event_attendees WHERE event_id = ?`, ev.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestUpdateColumns(t *testing.T) {
	store := OpenTestStore(t)
	ctx := context.Background()

	CreateTestUser(t, store, "u1", "Ana")
	ev := models.Event{
		Name: "Feria", StartDate: "2025-01-01", EndDate: "2025-01-01",
		StartTime: "09:00", EndTime: "10:00", CategoryID: 1, CreatedBy: "u1",
	}
	require.NoError(t, store.Create(ctx, &ev))

	require.NoError(t, store.UpdateColumns(ctx, "events", ev.ID, nil))
	require.NoError(t, store.UpdateColumns(ctx, "events", ev.ID, map[string]any{"name": "Feria grande"}))

	got, ok, err := QueryOne[models.Event](ctx, store, `SELECT * FROM events WHERE id = ?`, ev.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Feria grande", got.Name)
	assert.Equal(t, "09:00", got.StartTime)
	assert.NotEmpty(t, got.CreatedAt)
}

func TestSeedDevData(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2025, 3, 31, 8, 0, 0, 0, time.UTC))
	store := OpenTestStore(t, func(o *Options) {
		o.SeedDevData = true
		o.Clock = clock
	})
	ctx := context.Background()

	// A second run must not duplicate anything.
	require.NoError(t, store.Initialize(ctx))

	users, err := QueryAll[models.User](ctx, store, `SELECT * FROM users ORDER BY id`)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "seed-user-1", users[0].ID)
	assert.Equal(t, "Usuario Dos", *users[1].Name)

	events, err := QueryAll[models.Event](ctx, store, `SELECT * FROM events ORDER BY id`)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "Partido local", events[0].Name)
	assert.Equal(t, "2025-03-31", events[0].StartDate)
	assert.Equal(t, "Pintura al aire libre", events[1].Name)
	assert.Equal(t, "2025-04-01", events[1].StartDate)

	attendee, ok, err := QueryOne[string](ctx, store, `SELECT user_id FROM event_attendees WHERE event_id = ?`, events[0].ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "seed-user-2", attendee)
}

func TestSeedDevData_SkipsEventsWithoutSeedUsers(t *testing.T) {
	store := OpenTestStore(t)
	ctx := context.Background()

	CreateTestUser(t, store, "real-user", "Real")
	require.NoError(t, SeedDevData(ctx, store, time.Now()))

	count, _, err := QueryOne[int64](ctx, store, `SELECT COUNT(1) FROM events`)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestPing(t *testing.T) {
	store := OpenTestStore(t)
	assert.NoError(t, store.Ping(context.Background()))
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, logger.Silent, ParseLogLevel("silent"))
	assert.Equal(t, logger.Error, ParseLogLevel("error"))
	assert.Equal(t, logger.Warn, ParseLogLevel("warn"))
	assert.Equal(t, logger.Info, ParseLogLevel("info"))
	assert.Equal(t, logger.Warn, ParseLogLevel(""))
}
