package repository

import (
	"context"

	"github.com/garagebuddy/garagebuddy/internal/model"
)

// TransactionRepository provides access to checkout transactions. Attach and
// detach mutate the item row and the transaction's running aggregates inside
// one database transaction so the counters can never drift from the item set,
// even under interleaved requests.
type TransactionRepository interface {
	// Create inserts a new transaction and fills in its generated id.
	Create(ctx context.Context, t *model.Transaction) error
	// GetByID loads a transaction.
	GetByID(ctx context.Context, id int) (*model.Transaction, error)
	// ListBySale returns a sale's transactions, newest first.
	ListBySale(ctx context.Context, saleID int) ([]model.Transaction, error)

	// AttachItem marks the item sold into the transaction at the given price
	// and increments numItems/value atomically. An item already purchased
	// elsewhere yields errs.ErrItemPurchased.
	AttachItem(ctx context.Context, txnID, itemID int, price float64, soldBy string) error
	// DetachItem clears the item's purchased state and decrements the
	// aggregates atomically. Items not attached to this transaction are left
	// alone.
	DetachItem(ctx context.Context, txnID, itemID int) error
	// DetachAll detaches every item pointing at the transaction and zeroes
	// the aggregates. Required before Delete.
	DetachAll(ctx context.Context, txnID int) (int, error)
	// RecomputeValue rebuilds value from the live attached-item set; the
	// reconciliation path, returning the recomputed value.
	RecomputeValue(ctx context.Context, txnID int) (float64, error)

	// Delete removes the transaction; errs.ErrTransactionNotEmpty when items
	// still reference it.
	Delete(ctx context.Context, id int) error
	// DeleteBySale removes all of a sale's transactions; part of the
	// sale-deletion cascade. Fails if any still have attached items.
	DeleteBySale(ctx context.Context, saleID int) error
}
