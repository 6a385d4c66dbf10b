package reporting

import (
	"context"
	"database/sql"
	"time"

	"ms-marketplace/internal/config"
	"ms-marketplace/internal/events"
	"ms-marketplace/internal/models"

	"github.com/uptrace/bun"
)

// Service computes full sales reports. It performs no authorization
// itself; the caller resolves the requester and passes it in.
type Service struct {
	db     *bun.DB
	engine *Engine
	cfg    config.ReportingConfig
}

func NewService(db *bun.DB, cfg config.ReportingConfig) *Service {
	return &Service{
		db:     db,
		engine: NewEngine(db, cfg),
		cfg:    cfg,
	}
}

// ComputeReport builds the report envelope for the given filter as of now.
func (s *Service) ComputeReport(ctx context.Context, requester models.RequesterContext, f Filter) (*Envelope, error) {
	return s.ComputeReportAt(ctx, requester, f, time.Now())
}

// ComputeReportAt is ComputeReport with an explicit clock. All aggregates
// run inside one read transaction so the envelope is internally
// consistent: every section describes the same committed state.
func (s *Service) ComputeReportAt(ctx context.Context, requester models.RequesterContext, f Filter, now time.Time) (*Envelope, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	if f.PeriodDays == 0 {
		f.PeriodDays = s.cfg.DefaultPeriodDays
	}

	now = now.UTC()
	window := f.Window(now)

	var raw rawAggregates
	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		catalog := events.NewDB(tx)

		if f.EventID != "" {
			exists, err := catalog.EventExists(ctx, f.EventID)
			if err != nil {
				return dataErr("event lookup", err)
			}
			if !exists {
				return &NotFoundError{Kind: "event", ID: f.EventID}
			}
		}
		if f.Category != "" {
			exists, err := catalog.CategoryExists(ctx, f.Category)
			if err != nil {
				return dataErr("category lookup", err)
			}
			if !exists {
				return &NotFoundError{Kind: "category", ID: f.Category}
			}
		}

		var err error
		if raw.overview, err = s.engine.Overview(ctx, tx, window, f); err != nil {
			return err
		}
		if raw.previous, err = s.engine.WindowTotals(ctx, tx, window.Previous(), f); err != nil {
			return err
		}
		if raw.categories, err = s.engine.CategoryBreakdown(ctx, tx, window, f); err != nil {
			return err
		}
		if raw.daily, err = s.engine.DailySummary(ctx, tx, window, f); err != nil {
			return err
		}
		if raw.monthly, err = s.engine.MonthlySummary(ctx, tx, window, f); err != nil {
			return err
		}
		if raw.topEvents, err = s.engine.TopEvents(ctx, tx, window, f); err != nil {
			return err
		}
		if raw.remaining, err = s.engine.RemainingTickets(ctx, tx, now, f); err != nil {
			return err
		}
		if raw.paymentMethods, err = s.engine.PaymentMethods(ctx, tx, window, f); err != nil {
			return err
		}
		if raw.catalogOverview, err = catalog.ListCategories(ctx); err != nil {
			return dataErr("category listing", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return assemble(f, window, raw, now), nil
}
