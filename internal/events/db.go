package events

import (
	"context"
	"database/sql"
	"errors"

	"ms-marketplace/internal/models"

	"github.com/uptrace/bun"
)

// ListOptions narrows the public event listing.
type ListOptions struct {
	Category string
	Status   string
	Limit    int
	Offset   int
}

// DB is the read side of the event catalog. Event moderation owns the
// rows; this service only lists and joins them.
type DB struct {
	Bun bun.IDB
}

func NewDB(idb bun.IDB) *DB {
	return &DB{Bun: idb}
}

// ListEvents returns catalog rows ordered by event date, soonest first.
func (db *DB) ListEvents(ctx context.Context, opts ListOptions) ([]models.EventSummary, error) {
	var events []models.EventSummary
	query := db.Bun.NewSelect().Model(&events)

	if opts.Category != "" {
		query = query.Where("category = ?", opts.Category)
	}
	if opts.Status != "" {
		query = query.Where("status = ?", opts.Status)
	}

	query = query.Order("event_date ASC")

	if opts.Limit > 0 {
		query = query.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		query = query.Offset(opts.Offset)
	}

	err := query.Scan(ctx)
	return events, err
}

// GetEvent returns one catalog row, or nil when the id is unknown.
func (db *DB) GetEvent(ctx context.Context, eventID string) (*models.EventSummary, error) {
	event := new(models.EventSummary)
	err := db.Bun.NewSelect().
		Model(event).
		Where("id = ?", eventID).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return event, nil
}

// EventExists reports whether an event id is present in the catalog.
func (db *DB) EventExists(ctx context.Context, eventID string) (bool, error) {
	count, err := db.Bun.NewSelect().
		Model((*models.EventSummary)(nil)).
		Where("id = ?", eventID).
		Count(ctx)
	return count > 0, err
}

// CategoryExists reports whether a category name is known, either as a
// curated category or as the category of any catalog event.
func (db *DB) CategoryExists(ctx context.Context, name string) (bool, error) {
	count, err := db.Bun.NewSelect().
		Model((*models.Category)(nil)).
		Where("name = ?", name).
		Count(ctx)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}

	count, err = db.Bun.NewSelect().
		Model((*models.EventSummary)(nil)).
		Where("category = ?", name).
		Count(ctx)
	return count > 0, err
}

// ListCategories returns curated categories ordered by name.
func (db *DB) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := db.Bun.NewSelect().
		Model(&categories).
		Order("name ASC").
		Scan(ctx)
	return categories, err
}
