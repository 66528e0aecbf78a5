package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tempohub/tempohub-service/internal/database"
	"github.com/tempohub/tempohub-service/internal/models"
)

var baseTime = time.Date(2025, 6, 1, 20, 0, 0, 0, time.UTC)

func sampleEvents() []models.Event {
	return []models.Event{
		{ID: "1", Title: "Cyberpunk Techno Bunker", Date: baseTime, Location: "Sector 7", Tags: []string{"Techno"}, Attendees: 1240},
		{ID: "2", Title: "Midnight Jazz Collective", Date: baseTime.Add(time.Hour), Location: "Blue Note", Tags: []string{"Jazz", "Chill"}, Attendees: 350},
		{ID: "3", Title: "Quiet Hour", Date: baseTime.Add(2 * time.Hour), Tags: []string{}},
	}
}

// implementations runs fn against every EventRepository backend.
func implementations(t *testing.T, fn func(t *testing.T, repo EventRepository)) {
	t.Run("memory", func(t *testing.T) {
		fn(t, NewMemoryEventRepository())
	})
	t.Run("sqlite", func(t *testing.T) {
		db, err := database.NewSQLiteDB(":memory:")
		require.NoError(t, err)
		t.Cleanup(func() { db.Close() })
		fn(t, NewSQLiteEventRepository(db.DB, zap.NewNop()))
	})
}

func ids(events []models.Event) []string {
	out := make([]string, 0, len(events))
	for _, e := range events {
		out = append(out, e.ID)
	}
	return out
}

func TestEventRepository_SeedKeepsOrder(t *testing.T) {
	implementations(t, func(t *testing.T, repo EventRepository) {
		ctx := context.Background()
		require.NoError(t, repo.Seed(ctx, sampleEvents()))

		events, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"1", "2", "3"}, ids(events))
		assert.Equal(t, []string{"Jazz", "Chill"}, events[1].Tags)
		assert.True(t, baseTime.Add(time.Hour).Equal(events[1].Date))
		assert.NotNil(t, events[2].Tags)
		assert.Empty(t, events[2].Tags)
	})
}

func TestEventRepository_CreatePrepends(t *testing.T) {
	implementations(t, func(t *testing.T, repo EventRepository) {
		ctx := context.Background()
		require.NoError(t, repo.Seed(ctx, sampleEvents()))

		first := &models.Event{ID: "new-1", Title: "Warehouse Rave", Date: baseTime, Tags: []string{"Techno"}, IsAIGenerated: true}
		second := &models.Event{ID: "new-2", Title: "Rooftop Jazz", Date: baseTime, Tags: []string{"Jazz"}, IsAIGenerated: true}
		require.NoError(t, repo.Create(ctx, first))
		require.NoError(t, repo.Create(ctx, second))

		events, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"new-2", "new-1", "1", "2", "3"}, ids(events))
		assert.True(t, events[0].IsAIGenerated)
		assert.False(t, events[2].IsAIGenerated)
	})
}

func TestEventRepository_CreateDuplicate(t *testing.T) {
	implementations(t, func(t *testing.T, repo EventRepository) {
		ctx := context.Background()
		require.NoError(t, repo.Seed(ctx, sampleEvents()))

		err := repo.Create(ctx, &models.Event{ID: "1", Title: "Again", Date: baseTime})
		assert.ErrorIs(t, err, ErrDuplicateEvent)
	})
}

func TestEventRepository_GetByID(t *testing.T) {
	implementations(t, func(t *testing.T, repo EventRepository) {
		ctx := context.Background()
		require.NoError(t, repo.Seed(ctx, sampleEvents()))

		event, err := repo.GetByID(ctx, "2")
		require.NoError(t, err)
		assert.Equal(t, "Midnight Jazz Collective", event.Title)
		assert.Equal(t, 350, event.Attendees)

		_, err = repo.GetByID(ctx, "missing")
		assert.ErrorIs(t, err, ErrEventNotFound)
	})
}

func TestEventRepository_ReturnedEventsAreCopies(t *testing.T) {
	implementations(t, func(t *testing.T, repo EventRepository) {
		ctx := context.Background()
		require.NoError(t, repo.Seed(ctx, sampleEvents()))

		events, err := repo.List(ctx)
		require.NoError(t, err)
		events[0].Tags[0] = "Mutated"
		events[0].Title = "Mutated"

		event, err := repo.GetByID(ctx, "1")
		require.NoError(t, err)
		assert.Equal(t, "Cyberpunk Techno Bunker", event.Title)
		assert.Equal(t, []string{"Techno"}, event.Tags)
	})
}

func TestEventRepository_Registrations(t *testing.T) {
	implementations(t, func(t *testing.T, repo EventRepository) {
		ctx := context.Background()
		require.NoError(t, repo.Seed(ctx, sampleEvents()))

		reg := models.Registration{EventID: "1", UserID: "u1", RegisteredAt: baseTime}

		created, err := repo.AddRegistration(ctx, reg)
		require.NoError(t, err)
		assert.True(t, created)

		created, err = repo.AddRegistration(ctx, reg)
		require.NoError(t, err)
		assert.False(t, created, "second registration is a no-op")

		ok, err := repo.IsRegistered(ctx, "1", "u1")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.IsRegistered(ctx, "2", "u1")
		require.NoError(t, err)
		assert.False(t, ok)

		count, err := repo.CountRegistrations(ctx, "1")
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		// Registering never changes the stored attendee count.
		event, err := repo.GetByID(ctx, "1")
		require.NoError(t, err)
		assert.Equal(t, 1240, event.Attendees)
	})
}

func TestEventRepository_RegistrationUnknownEvent(t *testing.T) {
	implementations(t, func(t *testing.T, repo EventRepository) {
		ctx := context.Background()
		require.NoError(t, repo.Seed(ctx, sampleEvents()))

		_, err := repo.AddRegistration(ctx, models.Registration{EventID: "missing", UserID: "u1", RegisteredAt: baseTime})
		assert.ErrorIs(t, err, ErrEventNotFound)

		_, err = repo.IsRegistered(ctx, "missing", "u1")
		assert.ErrorIs(t, err, ErrEventNotFound)

		_, err = repo.CountRegistrations(ctx, "missing")
		assert.ErrorIs(t, err, ErrEventNotFound)
	})
}

func TestSQLiteEventRepository_SeedSkipsPopulatedCatalog(t *testing.T) {
	db, err := database.NewSQLiteDB(":memory:")
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	repo := NewSQLiteEventRepository(db.DB, zap.NewNop())
	require.NoError(t, repo.Seed(ctx, sampleEvents()))
	require.NoError(t, repo.Create(ctx, &models.Event{ID: "new", Title: "Fresh", Date: baseTime}))

	// A restart seeds again; existing rows must survive untouched.
	require.NoError(t, repo.Seed(ctx, sampleEvents()))

	events, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"new", "1", "2", "3"}, ids(events))
}

func TestMemoryEventRepository_SeedReplaces(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryEventRepository()
	require.NoError(t, repo.Seed(ctx, sampleEvents()))
	require.NoError(t, repo.Seed(ctx, sampleEvents()[:1]))

	events, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, ids(events))
}
