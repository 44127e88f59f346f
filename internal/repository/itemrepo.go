package repository

import (
	"context"

	"github.com/garagebuddy/garagebuddy/internal/model"
)

// ItemRepository provides access to catalog items.
type ItemRepository interface {
	// Create inserts a new item and fills in its generated id.
	Create(ctx context.Context, it *model.Item) error
	// GetByID loads an item.
	GetByID(ctx context.Context, id int) (*model.Item, error)
	// Update persists mutable fields and the sale/transaction references.
	Update(ctx context.Context, it *model.Item) error
	// Delete removes the item row.
	Delete(ctx context.Context, id int) error
	// ListBySale returns a sale's items; purchased filters by the purchased
	// flag when non-nil.
	ListBySale(ctx context.Context, saleID int, purchased *bool) ([]model.Item, error)
	// ListByTransaction returns the items attached to a transaction.
	ListByTransaction(ctx context.Context, txnID int) ([]model.Item, error)
	// DeleteBySale removes all of a sale's items; part of the sale-deletion
	// cascade.
	DeleteBySale(ctx context.Context, saleID int) error
}
