package reporting_api_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ms-marketplace/internal/auth"
	"ms-marketplace/internal/config"
	"ms-marketplace/internal/logger"
	"ms-marketplace/internal/models"
	"ms-marketplace/internal/reporting"
	reporting_api "ms-marketplace/internal/reporting/api"
	"ms-marketplace/internal/roles"
	"ms-marketplace/internal/utils"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

type handlerFixture struct {
	db     *bun.DB
	router *chi.Mux
}

func setupHandler(t *testing.T) *handlerFixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	require.NoError(t, err)

	bunDB := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { _ = bunDB.Close() })

	ctx := context.Background()
	for _, model := range []interface{}{
		(*models.SaleRecord)(nil),
		(*models.EventSummary)(nil),
		(*models.Category)(nil),
		(*models.UserRole)(nil),
	} {
		require.NoError(t, bunDB.ResetModel(ctx, model))
	}

	cfg := config.ReportingConfig{
		CommissionRate:       models.DefaultCommissionRate,
		DefaultPeriodDays:    30,
		DailySummaryDays:     30,
		MonthlySummaryMonths: 12,
		TopEventsLimit:       20,
	}
	service := reporting.NewService(bunDB, cfg)
	rolesDB := roles.NewDB(bunDB)

	handler := reporting_api.NewHandler(service, rolesDB, nil, logger.NewLogger())
	router := chi.NewRouter()
	handler.RegisterRoutes(router)

	return &handlerFixture{db: bunDB, router: router}
}

func (f *handlerFixture) seedAdmin(t *testing.T, userID string) {
	t.Helper()
	require.NoError(t, roles.NewDB(f.db).GrantRole(context.Background(), userID, models.RoleAdmin))
}

func (f *handlerFixture) seedSales(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	event := &models.EventSummary{
		ID: "ev-1", Title: "Indie Night", Category: "Music",
		EventDate:    time.Now().UTC().AddDate(0, 1, 0),
		TotalTickets: 100, AvailableTickets: 60, TicketPrice: 50,
		Status: models.EventStatusApproved, CreatedAt: time.Now().UTC(),
	}
	_, err := f.db.NewInsert().Model(event).Exec(ctx)
	require.NoError(t, err)

	sale := &models.SaleRecord{
		ID: "sale-1", TicketOrderID: "order-1", EventID: "ev-1",
		CategoryName: "Music", TicketQuantity: 2, UnitPrice: 50,
		TotalAmount: 100, CommissionRate: 0.05, CommissionAmount: 5,
		NetAmount: 95, PaymentMethod: "card",
		Status:    models.SaleStatusCompleted,
		CreatedAt: time.Now().UTC().AddDate(0, 0, -2),
	}
	_, err = f.db.NewInsert().Model(sale).Exec(ctx)
	require.NoError(t, err)
}

func (f *handlerFixture) request(t *testing.T, userID string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(http.MethodPost, "/admin/analytics/sales", bytes.NewReader(payload))
	if userID != "" {
		req = req.WithContext(auth.WithUserID(req.Context(), userID))
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) utils.APIResponse {
	t.Helper()
	var resp utils.APIResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestSalesReportHappyPath(t *testing.T) {
	f := setupHandler(t)
	f.seedAdmin(t, "admin001")
	f.seedSales(t)

	rec := f.request(t, "admin001", map[string]interface{}{})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeResponse(t, rec)
	assert.True(t, resp.Success)

	envelope, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	overview, ok := envelope["overview"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, 100.0, overview["total_revenue"])
	assert.Equal(t, 1.0, overview["total_orders"])

	// Null-safe collections arrive as arrays even when empty.
	assert.NotNil(t, envelope["categoryBreakdown"])
	assert.NotNil(t, envelope["paymentMethods"])
	assert.Contains(t, envelope, "generatedAt")
}

func TestSalesReportEmptyBodyDefaults(t *testing.T) {
	f := setupHandler(t)
	f.seedAdmin(t, "admin001")

	rec := f.request(t, "admin001", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSalesReportRequiresIdentity(t *testing.T) {
	f := setupHandler(t)

	rec := f.request(t, "", map[string]interface{}{})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSalesReportRejectsNonAdmin(t *testing.T) {
	f := setupHandler(t)

	rec := f.request(t, "regular-user", map[string]interface{}{})
	require.Equal(t, http.StatusForbidden, rec.Code)

	resp := decodeResponse(t, rec)
	assert.False(t, resp.Success)
}

func TestSalesReportInvalidDateRange(t *testing.T) {
	f := setupHandler(t)
	f.seedAdmin(t, "admin001")

	rec := f.request(t, "admin001", map[string]interface{}{
		"startDate": "2026-06-14",
		"endDate":   "2026-06-01",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSalesReportMalformedDate(t *testing.T) {
	f := setupHandler(t)
	f.seedAdmin(t, "admin001")

	rec := f.request(t, "admin001", map[string]interface{}{
		"startDate": "June 1st",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSalesReportUnknownEvent(t *testing.T) {
	f := setupHandler(t)
	f.seedAdmin(t, "admin001")

	rec := f.request(t, "admin001", map[string]interface{}{
		"eventId": "ev-missing",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSalesReportSingleDayRange(t *testing.T) {
	f := setupHandler(t)
	f.seedAdmin(t, "admin001")
	f.seedSales(t)

	day := time.Now().UTC().AddDate(0, 0, -2).Format("2006-01-02")
	rec := f.request(t, "admin001", map[string]interface{}{
		"startDate": day,
		"endDate":   day,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	// The end bound is widened to end of day, so the sale is included.
	resp := decodeResponse(t, rec)
	envelope := resp.Data.(map[string]interface{})
	overview := envelope["overview"].(map[string]interface{})
	assert.Equal(t, 100.0, overview["total_revenue"])
}
