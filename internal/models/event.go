package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Event moderation statuses. Only approved events are sellable and only
// approved future events appear in the remaining-tickets report.
const (
	EventStatusPending   = "pending"
	EventStatusApproved  = "approved"
	EventStatusRejected  = "rejected"
	EventStatusCancelled = "cancelled"
)

// EventSummary is the catalog projection of an event. The reporting core
// only reads it; event moderation owns the rows.
type EventSummary struct {
	bun.BaseModel `bun:"table:events"`

	ID               string    `bun:"id,pk" json:"id"`
	Title            string    `bun:"title,notnull" json:"title"`
	Description      string    `bun:"description,nullzero" json:"description,omitempty"`
	Category         string    `bun:"category,notnull" json:"category"`
	Venue            string    `bun:"venue,nullzero" json:"venue"`
	EventDate        time.Time `bun:"event_date,notnull" json:"event_date"`
	ImageURL         string    `bun:"image_url,nullzero" json:"image_url,omitempty"`
	TotalTickets     int       `bun:"total_tickets,notnull" json:"total_tickets"`
	AvailableTickets int       `bun:"available_tickets,notnull" json:"available_tickets"`
	TicketPrice      float64   `bun:"ticket_price,notnull" json:"ticket_price"`
	Status           string    `bun:"status,notnull" json:"status"`
	CreatedBy        string    `bun:"created_by,nullzero" json:"created_by,omitempty"`
	CreatedAt        time.Time `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt        time.Time `bun:"updated_at,nullzero" json:"updated_at,omitempty"`
}

// Category is a curated event category with optional display media.
type Category struct {
	bun.BaseModel `bun:"table:event_categories"`

	Name      string `bun:"name,pk" json:"name"`
	ImageURL  string `bun:"image_url,nullzero" json:"image_url,omitempty"`
	MediaType string `bun:"media_type,nullzero" json:"media_type,omitempty"`
}
