package reporting

import (
	"context"
	"fmt"
	"time"

	"ms-marketplace/internal/config"
	"ms-marketplace/internal/models"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
)

// Engine runs the fixed batch of read-only aggregate queries one report is
// built from. Every method takes the bun.IDB of the surrounding read
// transaction so all aggregates see the same snapshot.
type Engine struct {
	db  *bun.DB
	cfg config.ReportingConfig
}

func NewEngine(db *bun.DB, cfg config.ReportingConfig) *Engine {
	return &Engine{db: db, cfg: cfg}
}

// applySalesPredicate narrows a sales_tracking query to the filtered
// predicate: completed rows inside the window, optionally one category
// and/or one event. Built with the query builder so every filter
// combination stays parameterized.
func applySalesPredicate(q *bun.SelectQuery, w Window, f Filter) *bun.SelectQuery {
	q = q.Where("st.status = ?", models.SaleStatusCompleted).
		Where("st.created_at >= ?", w.Start).
		Where("st.created_at <= ?", w.End)
	if f.Category != "" {
		q = q.Where("st.category_name = ?", f.Category)
	}
	if f.EventID != "" {
		q = q.Where("st.event_id = ?", f.EventID)
	}
	return q
}

// dayExpr and monthExpr format created_at into calendar buckets (UTC as
// stored). SQLite is what the test suite runs on, Postgres is production.
func (e *Engine) dayExpr(col string) string {
	if e.db.Dialect().Name() == dialect.SQLite {
		return fmt.Sprintf("strftime('%%Y-%%m-%%d', %s)", col)
	}
	return fmt.Sprintf("to_char(%s, 'YYYY-MM-DD')", col)
}

func (e *Engine) monthExpr(col string) string {
	if e.db.Dialect().Name() == dialect.SQLite {
		return fmt.Sprintf("strftime('%%Y-%%m', %s)", col)
	}
	return fmt.Sprintf("to_char(%s, 'YYYY-MM')", col)
}

// Overview computes the headline totals over the filtered predicate. All
// sums coalesce to 0 when nothing matches.
func (e *Engine) Overview(ctx context.Context, idb bun.IDB, w Window, f Filter) (OverviewTotals, error) {
	var totals OverviewTotals
	q := idb.NewSelect().
		TableExpr("sales_tracking AS st").
		ColumnExpr("COUNT(st.id) AS total_orders").
		ColumnExpr("COALESCE(SUM(st.ticket_quantity), 0) AS total_tickets_sold").
		ColumnExpr("COALESCE(SUM(st.total_amount), 0) AS total_revenue").
		ColumnExpr("COALESCE(SUM(st.commission_amount), 0) AS total_commission").
		ColumnExpr("COALESCE(SUM(st.net_amount), 0) AS total_net_revenue").
		ColumnExpr("COALESCE(AVG(st.total_amount), 0) AS average_order_value")
	q = applySalesPredicate(q, w, f)

	err := q.Scan(ctx, &totals)
	return totals, dataErr("overview", err)
}

// WindowTotals computes just the growth inputs (revenue, orders, tickets)
// over a window, reusing the same category/event filter.
func (e *Engine) WindowTotals(ctx context.Context, idb bun.IDB, w Window, f Filter) (WindowTotals, error) {
	var totals WindowTotals
	q := idb.NewSelect().
		TableExpr("sales_tracking AS st").
		ColumnExpr("COALESCE(SUM(st.total_amount), 0) AS revenue").
		ColumnExpr("COUNT(st.id) AS orders").
		ColumnExpr("COALESCE(SUM(st.ticket_quantity), 0) AS tickets")
	q = applySalesPredicate(q, w, f)

	err := q.Scan(ctx, &totals)
	return totals, dataErr("previous period totals", err)
}

// CategoryBreakdown groups the filtered predicate by category, ordered by
// revenue descending with the category name as deterministic tie-break.
func (e *Engine) CategoryBreakdown(ctx context.Context, idb bun.IDB, w Window, f Filter) ([]CategoryRow, error) {
	var rows []CategoryRow
	q := idb.NewSelect().
		TableExpr("sales_tracking AS st").
		ColumnExpr("st.category_name AS category_name").
		ColumnExpr("COUNT(st.id) AS orders_count").
		ColumnExpr("COALESCE(SUM(st.ticket_quantity), 0) AS tickets_sold").
		ColumnExpr("COALESCE(SUM(st.total_amount), 0) AS revenue").
		ColumnExpr("COALESCE(SUM(st.commission_amount), 0) AS commission").
		ColumnExpr("COALESCE(SUM(st.net_amount), 0) AS net_revenue").
		ColumnExpr("COALESCE(AVG(st.unit_price), 0) AS avg_ticket_price")
	q = applySalesPredicate(q, w, f).
		GroupExpr("st.category_name").
		OrderExpr("revenue DESC, category_name ASC")

	err := q.Scan(ctx, &rows)
	return rows, dataErr("category breakdown", err)
}

// DailySummary buckets the filtered predicate by UTC calendar day, most
// recent day first, capped at the configured number of days.
func (e *Engine) DailySummary(ctx context.Context, idb bun.IDB, w Window, f Filter) ([]DailyBucket, error) {
	var rows []DailyBucket
	day := e.dayExpr("st.created_at")
	q := idb.NewSelect().
		TableExpr("sales_tracking AS st").
		ColumnExpr(day + " AS sale_day").
		ColumnExpr("COALESCE(SUM(st.ticket_quantity), 0) AS daily_tickets").
		ColumnExpr("COALESCE(SUM(st.total_amount), 0) AS daily_revenue").
		ColumnExpr("COALESCE(SUM(st.commission_amount), 0) AS daily_commission").
		ColumnExpr("COUNT(st.id) AS daily_orders").
		ColumnExpr("COUNT(DISTINCT st.event_id) AS events_sold")
	q = applySalesPredicate(q, w, f).
		GroupExpr(day).
		OrderExpr("sale_day DESC").
		Limit(e.cfg.DailySummaryDays)

	err := q.Scan(ctx, &rows)
	return rows, dataErr("daily summary", err)
}

// MonthlySummary buckets by UTC calendar month, most recent first, capped
// at the configured number of months.
func (e *Engine) MonthlySummary(ctx context.Context, idb bun.IDB, w Window, f Filter) ([]MonthlyBucket, error) {
	var rows []MonthlyBucket
	month := e.monthExpr("st.created_at")
	q := idb.NewSelect().
		TableExpr("sales_tracking AS st").
		ColumnExpr(month + " AS sale_month").
		ColumnExpr("COALESCE(SUM(st.ticket_quantity), 0) AS monthly_tickets").
		ColumnExpr("COALESCE(SUM(st.total_amount), 0) AS monthly_revenue").
		ColumnExpr("COALESCE(SUM(st.commission_amount), 0) AS monthly_commission").
		ColumnExpr("COUNT(DISTINCT st.event_id) AS events_sold")
	q = applySalesPredicate(q, w, f).
		GroupExpr(month).
		OrderExpr("sale_month DESC").
		Limit(e.cfg.MonthlySummaryMonths)

	err := q.Scan(ctx, &rows)
	return rows, dataErr("monthly summary", err)
}

// TopEvents joins the filtered predicate to the catalog and returns the
// highest-revenue events, ties broken by event id ascending, capped at the
// configured limit. Sold percentage is derived afterwards so the zero
// total-tickets guard lives in one place.
func (e *Engine) TopEvents(ctx context.Context, idb bun.IDB, w Window, f Filter) ([]TopEventRow, error) {
	var rows []TopEventRow
	q := idb.NewSelect().
		TableExpr("sales_tracking AS st").
		Join("JOIN events AS e ON e.id = st.event_id").
		ColumnExpr("e.id AS event_id").
		ColumnExpr("e.title AS title").
		ColumnExpr("e.category AS category").
		ColumnExpr("e.venue AS venue").
		ColumnExpr("e.event_date AS event_date").
		ColumnExpr("COUNT(st.id) AS orders_count").
		ColumnExpr("COALESCE(SUM(st.ticket_quantity), 0) AS tickets_sold").
		ColumnExpr("COALESCE(SUM(st.total_amount), 0) AS revenue").
		ColumnExpr("COALESCE(SUM(st.commission_amount), 0) AS commission").
		ColumnExpr("e.total_tickets AS total_tickets").
		ColumnExpr("e.available_tickets AS available_tickets")
	q = applySalesPredicate(q, w, f).
		GroupExpr("e.id, e.title, e.category, e.venue, e.event_date, e.total_tickets, e.available_tickets").
		OrderExpr("revenue DESC, event_id ASC").
		Limit(e.cfg.TopEventsLimit)

	if err := q.Scan(ctx, &rows); err != nil {
		return nil, dataErr("top events", err)
	}

	for i := range rows {
		rows[i].SoldPercentage = SoldPercentage(rows[i].TicketsSold, rows[i].TotalTickets)
	}
	return rows, nil
}

// RemainingTickets reports unsold inventory for approved future events,
// soonest event first. It is independent of the sales window but honors
// the category filter.
func (e *Engine) RemainingTickets(ctx context.Context, idb bun.IDB, now time.Time, f Filter) ([]RemainingTicketRow, error) {
	var rows []RemainingTicketRow
	q := idb.NewSelect().
		TableExpr("events AS e").
		ColumnExpr("e.id AS event_id").
		ColumnExpr("e.title AS title").
		ColumnExpr("e.category AS category").
		ColumnExpr("e.venue AS venue").
		ColumnExpr("e.event_date AS event_date").
		ColumnExpr("e.total_tickets AS total_tickets").
		ColumnExpr("e.available_tickets AS available_tickets").
		ColumnExpr("e.ticket_price AS ticket_price").
		ColumnExpr("(e.total_tickets - e.available_tickets) AS tickets_sold").
		ColumnExpr("(e.available_tickets * e.ticket_price) AS potential_revenue").
		Where("e.status = ?", models.EventStatusApproved).
		Where("e.event_date > ?", now)
	if f.Category != "" {
		q = q.Where("e.category = ?", f.Category)
	}
	q = q.OrderExpr("event_date ASC")

	if err := q.Scan(ctx, &rows); err != nil {
		return nil, dataErr("remaining tickets", err)
	}

	for i := range rows {
		rows[i].SoldPercentage = SoldPercentage(rows[i].TicketsSold, rows[i].TotalTickets)
	}
	return rows, nil
}

// PaymentMethods groups the filtered predicate by payment method, with a
// fixed "Unknown" label for rows recorded without one.
func (e *Engine) PaymentMethods(ctx context.Context, idb bun.IDB, w Window, f Filter) ([]PaymentMethodRow, error) {
	var rows []PaymentMethodRow
	label := "COALESCE(NULLIF(st.payment_method, ''), '" + models.PaymentMethodUnknown + "')"
	q := idb.NewSelect().
		TableExpr("sales_tracking AS st").
		ColumnExpr(label + " AS payment_method").
		ColumnExpr("COUNT(st.id) AS order_count").
		ColumnExpr("COALESCE(SUM(st.total_amount), 0) AS revenue")
	q = applySalesPredicate(q, w, f).
		GroupExpr(label).
		OrderExpr("revenue DESC, payment_method ASC")

	err := q.Scan(ctx, &rows)
	return rows, dataErr("payment methods", err)
}
