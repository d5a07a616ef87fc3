package services

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/ahmetcoskunkizilkaya/community-events/internal/database"
	"github.com/ahmetcoskunkizilkaya/community-events/internal/models"
)

type testEnv struct {
	store      *database.Store
	clock      *clockwork.FakeClock
	categories *CategoryService
	users      *UserService
	events     *EventService
	session    *SessionService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := database.OpenTestStore(t)
	clock := clockwork.NewFakeClockAt(time.Date(2024, 12, 31, 10, 0, 0, 0, time.UTC))
	return &testEnv{
		store:      store,
		clock:      clock,
		categories: NewCategoryService(store),
		users:      NewUserService(store),
		events:     NewEventService(store, clock, time.UTC),
		session:    NewSessionService(store),
	}
}

func (e *testEnv) categoryID(t *testing.T, name string) int64 {
	t.Helper()

	c, ok, err := e.categories.GetByName(context.Background(), name)
	require.NoError(t, err)
	require.True(t, ok, "category %q not seeded", name)
	return c.ID
}

func (e *testEnv) createEvent(t *testing.T, name, createdBy, startDate, startTime, endDate, endTime string) int64 {
	t.Helper()

	id, err := e.events.Create(context.Background(), models.NewEvent{
		Name:       name,
		StartDate:  startDate,
		StartTime:  startTime,
		EndDate:    endDate,
		EndTime:    endTime,
		CategoryID: e.categoryID(t, "Deportes"),
		CreatedBy:  createdBy,
	})
	require.NoError(t, err)
	return id
}

func ptr[T any](v T) *T { return &v }

func eventNames(events []models.EventWithMeta) []string {
	names := make([]string, len(events))
	for i, ev := range events {
		names[i] = ev.Name
	}
	return names
}
