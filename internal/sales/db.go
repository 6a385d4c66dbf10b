package sales

import (
	"context"
	"fmt"
	"time"

	"ms-marketplace/internal/models"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// DB is the write side of the sales ledger. Rows are inserted when the
// purchase workflow reports a completed order and are immutable afterwards
// except for the completed -> refunded transition.
type DB struct {
	Bun            bun.IDB
	CommissionRate float64
}

func NewDB(idb bun.IDB, commissionRate float64) *DB {
	if commissionRate <= 0 {
		commissionRate = models.DefaultCommissionRate
	}
	return &DB{Bun: idb, CommissionRate: commissionRate}
}

// RecordSale writes one completed sale row, deriving the money columns
// from quantity and unit price so the ledger invariants hold:
// total == quantity*unit, commission == total*rate, net == total-commission.
func (db *DB) RecordSale(ctx context.Context, ev SaleCompletedEvent) (*models.SaleRecord, error) {
	if ev.TicketOrderID == "" || ev.EventID == "" {
		return nil, fmt.Errorf("sale event missing order or event id")
	}
	if ev.Quantity <= 0 {
		return nil, fmt.Errorf("sale quantity must be positive, got %d", ev.Quantity)
	}
	if ev.UnitPrice < 0 {
		return nil, fmt.Errorf("sale unit price must not be negative, got %f", ev.UnitPrice)
	}

	createdAt := ev.OccurredAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	total := float64(ev.Quantity) * ev.UnitPrice
	commission := total * db.CommissionRate

	record := &models.SaleRecord{
		ID:               uuid.New().String(),
		TicketOrderID:    ev.TicketOrderID,
		EventID:          ev.EventID,
		CategoryName:     ev.Category,
		TicketQuantity:   ev.Quantity,
		UnitPrice:        ev.UnitPrice,
		TotalAmount:      total,
		CommissionRate:   db.CommissionRate,
		CommissionAmount: commission,
		NetAmount:        total - commission,
		PaymentMethod:    ev.PaymentMethod,
		ProcessedBy:      ev.ProcessedBy,
		Status:           models.SaleStatusCompleted,
		CreatedAt:        createdAt.UTC(),
	}

	if _, err := db.Bun.NewInsert().Model(record).Exec(ctx); err != nil {
		return nil, fmt.Errorf("insert sale record: %w", err)
	}
	return record, nil
}

// MarkRefunded flips completed rows of an order to refunded. Refunded rows
// drop out of every revenue aggregate. Returns the number of rows changed.
func (db *DB) MarkRefunded(ctx context.Context, ticketOrderID string) (int64, error) {
	res, err := db.Bun.NewUpdate().
		Model((*models.SaleRecord)(nil)).
		Set("status = ?", models.SaleStatusRefunded).
		Where("ticket_order_id = ?", ticketOrderID).
		Where("status = ?", models.SaleStatusCompleted).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("mark sale refunded: %w", err)
	}
	return res.RowsAffected()
}
