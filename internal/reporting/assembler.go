package reporting

import (
	"time"

	"ms-marketplace/internal/models"
)

// OverviewTotals is the headline block of a report.
type OverviewTotals struct {
	TotalOrders       int     `bun:"total_orders" json:"total_orders"`
	TotalTicketsSold  int     `bun:"total_tickets_sold" json:"total_tickets_sold"`
	TotalRevenue      float64 `bun:"total_revenue" json:"total_revenue"`
	TotalCommission   float64 `bun:"total_commission" json:"total_commission"`
	TotalNetRevenue   float64 `bun:"total_net_revenue" json:"total_net_revenue"`
	AverageOrderValue float64 `bun:"average_order_value" json:"average_order_value"`
}

// WindowTotals carries the growth inputs for one period.
type WindowTotals struct {
	Revenue float64 `bun:"revenue"`
	Orders  int     `bun:"orders"`
	Tickets int     `bun:"tickets"`
}

type CategoryRow struct {
	CategoryName   string  `bun:"category_name" json:"category_name"`
	OrdersCount    int     `bun:"orders_count" json:"orders_count"`
	TicketsSold    int     `bun:"tickets_sold" json:"tickets_sold"`
	Revenue        float64 `bun:"revenue" json:"revenue"`
	Commission     float64 `bun:"commission" json:"commission"`
	NetRevenue     float64 `bun:"net_revenue" json:"net_revenue"`
	AvgTicketPrice float64 `bun:"avg_ticket_price" json:"avg_ticket_price"`
}

type DailyBucket struct {
	SaleDay         string  `bun:"sale_day" json:"sale_day"`
	DailyTickets    int     `bun:"daily_tickets" json:"daily_tickets"`
	DailyRevenue    float64 `bun:"daily_revenue" json:"daily_revenue"`
	DailyCommission float64 `bun:"daily_commission" json:"daily_commission"`
	DailyOrders     int     `bun:"daily_orders" json:"daily_orders"`
	EventsSold      int     `bun:"events_sold" json:"events_sold"`
}

type MonthlyBucket struct {
	SaleMonth         string  `bun:"sale_month" json:"sale_month"`
	MonthlyTickets    int     `bun:"monthly_tickets" json:"monthly_tickets"`
	MonthlyRevenue    float64 `bun:"monthly_revenue" json:"monthly_revenue"`
	MonthlyCommission float64 `bun:"monthly_commission" json:"monthly_commission"`
	EventsSold        int     `bun:"events_sold" json:"events_sold"`
}

type TopEventRow struct {
	EventID          string    `bun:"event_id" json:"event_id"`
	Title            string    `bun:"title" json:"title"`
	Category         string    `bun:"category" json:"category"`
	Venue            string    `bun:"venue" json:"venue"`
	EventDate        time.Time `bun:"event_date" json:"event_date"`
	OrdersCount      int       `bun:"orders_count" json:"orders_count"`
	TicketsSold      int       `bun:"tickets_sold" json:"tickets_sold"`
	Revenue          float64   `bun:"revenue" json:"revenue"`
	Commission       float64   `bun:"commission" json:"commission"`
	TotalTickets     int       `bun:"total_tickets" json:"total_tickets"`
	AvailableTickets int       `bun:"available_tickets" json:"available_tickets"`
	SoldPercentage   float64   `bun:"-" json:"sold_percentage"`
}

type RemainingTicketRow struct {
	EventID          string    `bun:"event_id" json:"event_id"`
	Title            string    `bun:"title" json:"title"`
	Category         string    `bun:"category" json:"category"`
	Venue            string    `bun:"venue" json:"venue"`
	EventDate        time.Time `bun:"event_date" json:"event_date"`
	TotalTickets     int       `bun:"total_tickets" json:"total_tickets"`
	AvailableTickets int       `bun:"available_tickets" json:"available_tickets"`
	TicketPrice      float64   `bun:"ticket_price" json:"ticket_price"`
	TicketsSold      int       `bun:"tickets_sold" json:"tickets_sold"`
	PotentialRevenue float64   `bun:"potential_revenue" json:"potential_revenue"`
	SoldPercentage   float64   `bun:"-" json:"sold_percentage"`
}

type PaymentMethodRow struct {
	PaymentMethod string  `bun:"payment_method" json:"payment_method"`
	OrderCount    int     `bun:"order_count" json:"order_count"`
	Revenue       float64 `bun:"revenue" json:"revenue"`
}

// GrowthBlock holds period-over-period percentages against the
// immediately preceding window of equal length.
type GrowthBlock struct {
	RevenueGrowth float64 `json:"revenue_growth"`
	OrdersGrowth  float64 `json:"orders_growth"`
	TicketsGrowth float64 `json:"tickets_growth"`
}

// FilterEcho mirrors the request dimensions back to the caller, with
// explicit nulls for anything left unset.
type FilterEcho struct {
	StartDate *string `json:"startDate"`
	EndDate   *string `json:"endDate"`
	Category  *string `json:"category"`
	EventID   *string `json:"eventId"`
}

// PeriodEcho describes the resolved reporting window.
type PeriodEcho struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Days  int       `json:"days"`
}

// Envelope is the full report payload. Every collection is non-nil and
// every numeric field is a concrete zero when there is no data, so
// consumers never branch on missing keys.
type Envelope struct {
	Overview          OverviewTotals       `json:"overview"`
	Growth            GrowthBlock          `json:"growth"`
	CategoryBreakdown []CategoryRow        `json:"categoryBreakdown"`
	DailySummary      []DailyBucket        `json:"dailySummary"`
	MonthlySummary    []MonthlyBucket      `json:"monthlySummary"`
	TopEvents         []TopEventRow        `json:"topEvents"`
	RemainingTickets  []RemainingTicketRow `json:"remainingTickets"`
	PaymentMethods    []PaymentMethodRow   `json:"paymentMethods"`
	Categories        []models.Category    `json:"categories"`
	Filters           FilterEcho           `json:"filters"`
	Period            PeriodEcho           `json:"period"`
	GeneratedAt       time.Time            `json:"generatedAt"`
}

// rawAggregates is the snapshot-consistent batch the engine produces
// inside one read transaction.
type rawAggregates struct {
	overview        OverviewTotals
	previous        WindowTotals
	categories      []CategoryRow
	daily           []DailyBucket
	monthly         []MonthlyBucket
	topEvents       []TopEventRow
	remaining       []RemainingTicketRow
	paymentMethods  []PaymentMethodRow
	catalogOverview []models.Category
}

// assemble folds the raw batch into the wire envelope. Nil slices become
// empty ones and the growth block is derived here so the envelope is the
// only place those rules live.
func assemble(f Filter, w Window, raw rawAggregates, generatedAt time.Time) *Envelope {
	env := &Envelope{
		Overview: raw.overview,
		Growth: GrowthBlock{
			RevenueGrowth: Growth(raw.overview.TotalRevenue, raw.previous.Revenue),
			OrdersGrowth:  Growth(float64(raw.overview.TotalOrders), float64(raw.previous.Orders)),
			TicketsGrowth: Growth(float64(raw.overview.TotalTicketsSold), float64(raw.previous.Tickets)),
		},
		CategoryBreakdown: raw.categories,
		DailySummary:      raw.daily,
		MonthlySummary:    raw.monthly,
		TopEvents:         raw.topEvents,
		RemainingTickets:  raw.remaining,
		PaymentMethods:    raw.paymentMethods,
		Categories:        raw.catalogOverview,
		Filters:           echoFilters(f),
		Period: PeriodEcho{
			Start: w.Start,
			End:   w.End,
			Days:  w.Days(),
		},
		GeneratedAt: generatedAt.UTC(),
	}

	if env.CategoryBreakdown == nil {
		env.CategoryBreakdown = []CategoryRow{}
	}
	if env.DailySummary == nil {
		env.DailySummary = []DailyBucket{}
	}
	if env.MonthlySummary == nil {
		env.MonthlySummary = []MonthlyBucket{}
	}
	if env.TopEvents == nil {
		env.TopEvents = []TopEventRow{}
	}
	if env.RemainingTickets == nil {
		env.RemainingTickets = []RemainingTicketRow{}
	}
	if env.PaymentMethods == nil {
		env.PaymentMethods = []PaymentMethodRow{}
	}
	if env.Categories == nil {
		env.Categories = []models.Category{}
	}
	return env
}

func echoFilters(f Filter) FilterEcho {
	var echo FilterEcho
	if f.StartDate != nil {
		s := f.StartDate.UTC().Format("2006-01-02")
		echo.StartDate = &s
	}
	if f.EndDate != nil {
		s := f.EndDate.UTC().Format("2006-01-02")
		echo.EndDate = &s
	}
	if f.Category != "" {
		c := f.Category
		echo.Category = &c
	}
	if f.EventID != "" {
		id := f.EventID
		echo.EventID = &id
	}
	return echo
}
