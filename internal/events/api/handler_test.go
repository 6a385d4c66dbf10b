package events_api_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ms-marketplace/internal/events"
	events_api "ms-marketplace/internal/events/api"
	"ms-marketplace/internal/logger"
	"ms-marketplace/internal/models"
	"ms-marketplace/internal/utils"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func setupRouter(t *testing.T) *chi.Mux {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	require.NoError(t, err)

	bunDB := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { _ = bunDB.Close() })

	ctx := context.Background()
	require.NoError(t, bunDB.ResetModel(ctx, (*models.EventSummary)(nil)))
	require.NoError(t, bunDB.ResetModel(ctx, (*models.Category)(nil)))

	categories := []models.Category{{Name: "Music"}}
	_, err = bunDB.NewInsert().Model(&categories).Exec(ctx)
	require.NoError(t, err)

	event := &models.EventSummary{
		ID: "ev-1", Title: "Indie Night", Category: "Music",
		EventDate:    time.Date(2026, time.July, 1, 19, 0, 0, 0, time.UTC),
		TotalTickets: 100, AvailableTickets: 60, TicketPrice: 50,
		Status: models.EventStatusApproved, CreatedAt: time.Now().UTC(),
	}
	_, err = bunDB.NewInsert().Model(event).Exec(ctx)
	require.NoError(t, err)

	handler := events_api.NewHandler(events.NewDB(bunDB), logger.NewLogger())
	router := chi.NewRouter()
	handler.RegisterRoutes(router)
	return router
}

func get(t *testing.T, router *chi.Mux, path string) (*httptest.ResponseRecorder, utils.APIResponse) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var resp utils.APIResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return rec, resp
}

func TestListEventsEndpoint(t *testing.T) {
	router := setupRouter(t)

	rec, resp := get(t, router, "/events")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, 1.0, data["count"])
}

func TestListEventsCategoryFilter(t *testing.T) {
	router := setupRouter(t)

	rec, resp := get(t, router, "/events?category=Sports")
	require.Equal(t, http.StatusOK, rec.Code)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, 0.0, data["count"])
}

func TestGetEventEndpoint(t *testing.T) {
	router := setupRouter(t)

	rec, resp := get(t, router, "/events/ev-1")
	require.Equal(t, http.StatusOK, rec.Code)

	event := resp.Data.(map[string]interface{})
	assert.Equal(t, "Indie Night", event["title"])

	rec, resp = get(t, router, "/events/ev-missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, resp.Success)
}

func TestListCategoriesEndpoint(t *testing.T) {
	router := setupRouter(t)

	rec, resp := get(t, router, "/events/categories")
	require.Equal(t, http.StatusOK, rec.Code)

	categories := resp.Data.([]interface{})
	require.Len(t, categories, 1)
}
