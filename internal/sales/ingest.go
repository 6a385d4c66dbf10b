package sales

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ms-marketplace/internal/logger"
)

// SaleCompletedEvent is the payload the purchase workflow publishes when
// a ticket order completes.
type SaleCompletedEvent struct {
	TicketOrderID string    `json:"ticket_order_id"`
	EventID       string    `json:"event_id"`
	Category      string    `json:"category"`
	Quantity      int       `json:"quantity"`
	UnitPrice     float64   `json:"unit_price"`
	PaymentMethod string    `json:"payment_method"`
	ProcessedBy   string    `json:"processed_by"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// SaleRefundedEvent is published when an order is refunded.
type SaleRefundedEvent struct {
	TicketOrderID string `json:"ticket_order_id"`
}

// CacheInvalidator drops cached report envelopes after the ledger
// changes. Satisfied by reporting.Cache; nil disables invalidation.
type CacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

// Ingestor decodes purchase-workflow events into ledger writes.
type Ingestor struct {
	DB     *DB
	Cache  CacheInvalidator
	Logger *logger.Logger
}

func NewIngestor(db *DB, cache CacheInvalidator, logger *logger.Logger) *Ingestor {
	return &Ingestor{DB: db, Cache: cache, Logger: logger}
}

func (i *Ingestor) invalidateReports() {
	if i.Cache == nil {
		return
	}
	if err := i.Cache.Invalidate(context.Background()); err != nil {
		i.Logger.Warn("SALES", "report cache invalidation failed: "+err.Error())
	}
}

// HandleCompleted is the consumer handler for the sale-completed topic.
func (i *Ingestor) HandleCompleted(key, value []byte) error {
	var ev SaleCompletedEvent
	if err := json.Unmarshal(value, &ev); err != nil {
		return fmt.Errorf("unmarshal sale completed event: %w", err)
	}

	record, err := i.DB.RecordSale(context.Background(), ev)
	if err != nil {
		return err
	}

	i.Logger.LogDatabase("INSERT", "sales_tracking",
		fmt.Sprintf("recorded sale %s for order %s (%d tickets)", record.ID, record.TicketOrderID, record.TicketQuantity))
	i.invalidateReports()
	return nil
}

// HandleRefunded is the consumer handler for the sale-refunded topic.
func (i *Ingestor) HandleRefunded(key, value []byte) error {
	var ev SaleRefundedEvent
	if err := json.Unmarshal(value, &ev); err != nil {
		return fmt.Errorf("unmarshal sale refunded event: %w", err)
	}

	affected, err := i.DB.MarkRefunded(context.Background(), ev.TicketOrderID)
	if err != nil {
		return err
	}
	if affected == 0 {
		i.Logger.Warn("SALES", "refund event for order "+ev.TicketOrderID+" matched no completed sale")
		return nil
	}

	i.Logger.LogDatabase("UPDATE", "sales_tracking",
		fmt.Sprintf("order %s marked refunded (%d rows)", ev.TicketOrderID, affected))
	i.invalidateReports()
	return nil
}
