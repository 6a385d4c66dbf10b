package events_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"ms-marketplace/internal/events"
	"ms-marketplace/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func setupEventsDB(t *testing.T) *events.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	require.NoError(t, err)

	bunDB := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { _ = bunDB.Close() })

	ctx := context.Background()
	require.NoError(t, bunDB.ResetModel(ctx, (*models.EventSummary)(nil)))
	require.NoError(t, bunDB.ResetModel(ctx, (*models.Category)(nil)))
	return events.NewDB(bunDB)
}

func seedCatalog(t *testing.T, db *events.DB) {
	t.Helper()
	ctx := context.Background()

	categories := []models.Category{{Name: "Music"}, {Name: "Theatre"}}
	_, err := db.Bun.NewInsert().Model(&categories).Exec(ctx)
	require.NoError(t, err)

	rows := []*models.EventSummary{
		{
			ID: "ev-1", Title: "Indie Night", Category: "Music",
			EventDate:    time.Date(2026, time.July, 1, 19, 0, 0, 0, time.UTC),
			TotalTickets: 100, AvailableTickets: 60, TicketPrice: 50,
			Status: models.EventStatusApproved, CreatedAt: time.Now().UTC(),
		},
		{
			ID: "ev-2", Title: "Jazz Brunch", Category: "Music",
			EventDate:    time.Date(2026, time.June, 20, 11, 0, 0, 0, time.UTC),
			TotalTickets: 40, AvailableTickets: 40, TicketPrice: 30,
			Status: models.EventStatusPending, CreatedAt: time.Now().UTC(),
		},
		{
			ID: "ev-3", Title: "Street Play", Category: "Comedy",
			EventDate:    time.Date(2026, time.August, 5, 18, 0, 0, 0, time.UTC),
			TotalTickets: 80, AvailableTickets: 20, TicketPrice: 15,
			Status: models.EventStatusApproved, CreatedAt: time.Now().UTC(),
		},
	}
	_, err = db.Bun.NewInsert().Model(&rows).Exec(ctx)
	require.NoError(t, err)
}

func TestListEventsOrderedByDate(t *testing.T) {
	db := setupEventsDB(t)
	seedCatalog(t, db)

	list, err := db.ListEvents(context.Background(), events.ListOptions{})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "ev-2", list[0].ID)
	assert.Equal(t, "ev-1", list[1].ID)
	assert.Equal(t, "ev-3", list[2].ID)
}

func TestListEventsFilters(t *testing.T) {
	db := setupEventsDB(t)
	seedCatalog(t, db)
	ctx := context.Background()

	music, err := db.ListEvents(ctx, events.ListOptions{Category: "Music"})
	require.NoError(t, err)
	assert.Len(t, music, 2)

	approved, err := db.ListEvents(ctx, events.ListOptions{Status: models.EventStatusApproved})
	require.NoError(t, err)
	assert.Len(t, approved, 2)

	paged, err := db.ListEvents(ctx, events.ListOptions{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, paged, 1)
	assert.Equal(t, "ev-1", paged[0].ID)
}

func TestGetEvent(t *testing.T) {
	db := setupEventsDB(t)
	seedCatalog(t, db)
	ctx := context.Background()

	event, err := db.GetEvent(ctx, "ev-1")
	require.NoError(t, err)
	require.NotNil(t, event)
	assert.Equal(t, "Indie Night", event.Title)

	event, err = db.GetEvent(ctx, "ev-missing")
	require.NoError(t, err)
	assert.Nil(t, event)
}

func TestEventExists(t *testing.T) {
	db := setupEventsDB(t)
	seedCatalog(t, db)
	ctx := context.Background()

	exists, err := db.EventExists(ctx, "ev-1")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = db.EventExists(ctx, "ev-missing")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCategoryExists(t *testing.T) {
	db := setupEventsDB(t)
	seedCatalog(t, db)
	ctx := context.Background()

	// Curated category.
	exists, err := db.CategoryExists(ctx, "Theatre")
	require.NoError(t, err)
	assert.True(t, exists)

	// Not curated, but used by a catalog event.
	exists, err = db.CategoryExists(ctx, "Comedy")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = db.CategoryExists(ctx, "Opera")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestListCategories(t *testing.T) {
	db := setupEventsDB(t)
	seedCatalog(t, db)

	categories, err := db.ListCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Music", categories[0].Name)
	assert.Equal(t, "Theatre", categories[1].Name)
}
