package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Sale statuses. Only completed rows participate in revenue aggregation.
const (
	SaleStatusPending   = "pending"
	SaleStatusCompleted = "completed"
	SaleStatusFailed    = "failed"
	SaleStatusRefunded  = "refunded"
)

// DefaultCommissionRate is the platform fee taken from every sale.
const DefaultCommissionRate = 0.05

// PaymentMethodUnknown is the breakdown label for sales recorded without a method.
const PaymentMethodUnknown = "Unknown"

// ValidPaymentMethods lists the methods the purchase workflow may report.
var ValidPaymentMethods = []string{
	"credit_card",
	"mobile_money",
	"paypal",
	"bank_transfer",
	"crypto",
}

// SaleRecord is one row of the sales ledger, written once per completed
// ticket order. Rows are immutable after creation except for the
// completed -> refunded status transition.
type SaleRecord struct {
	bun.BaseModel `bun:"table:sales_tracking"`

	ID               string    `bun:"id,pk" json:"id"`
	TicketOrderID    string    `bun:"ticket_order_id,notnull" json:"ticket_order_id"`
	EventID          string    `bun:"event_id,notnull" json:"event_id"`
	CategoryName     string    `bun:"category_name,notnull" json:"category_name"`
	TicketQuantity   int       `bun:"ticket_quantity,notnull" json:"ticket_quantity"`
	UnitPrice        float64   `bun:"unit_price,notnull" json:"unit_price"`
	TotalAmount      float64   `bun:"total_amount,notnull" json:"total_amount"`
	CommissionRate   float64   `bun:"commission_rate,notnull" json:"commission_rate"`
	CommissionAmount float64   `bun:"commission_amount,notnull" json:"commission_amount"`
	NetAmount        float64   `bun:"net_amount,notnull" json:"net_amount"`
	PaymentMethod    string    `bun:"payment_method,nullzero" json:"payment_method"`
	ProcessedBy      string    `bun:"processed_by,nullzero" json:"processed_by"`
	Status           string    `bun:"status,notnull" json:"status"`
	CreatedAt        time.Time `bun:"created_at,notnull" json:"created_at"`
}
