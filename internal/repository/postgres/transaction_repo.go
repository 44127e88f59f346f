package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/garagebuddy/garagebuddy/internal/errs"
	"github.com/garagebuddy/garagebuddy/internal/model"
)

// TransactionRepo implements TransactionRepository using PostgreSQL.
//
// Attach/detach operations run in a database transaction that locks the item
// row with FOR UPDATE before touching the aggregates, so the numItems/value
// counters always move together with the item-side foreign key even when
// requests interleave.
type TransactionRepo struct{ db *DB }

// NewTransactionRepo constructs a transaction repository.
func NewTransactionRepo(db *DB) *TransactionRepo { return &TransactionRepo{db: db} }

const txnColumns = `id, sale_id, seller_email, customer_name, customer_email, num_items, value, created_at`

// Create inserts a new transaction row and fills in the generated id.
func (r *TransactionRepo) Create(ctx context.Context, t *model.Transaction) error {
	const q = `
INSERT INTO transactions (sale_id, seller_email, customer_name, customer_email)
VALUES ($1, $2, $3, $4)
RETURNING id, created_at`
	return r.db.Pool.QueryRow(ctx, q, t.SaleID, t.SellerEmail, t.CustomerName, t.CustomerEmail).
		Scan(&t.ID, &t.CreatedAt)
}

// GetByID selects a transaction by id.
func (r *TransactionRepo) GetByID(ctx context.Context, id int) (*model.Transaction, error) {
	const q = `
SELECT ` + txnColumns + `
FROM transactions WHERE id=$1`
	row := r.db.Pool.QueryRow(ctx, q, id)
	t, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

// ListBySale returns a sale's transactions, newest first.
func (r *TransactionRepo) ListBySale(ctx context.Context, saleID int) ([]model.Transaction, error) {
	const q = `
SELECT ` + txnColumns + `
FROM transactions WHERE sale_id=$1 ORDER BY created_at DESC, id DESC`
	rows, err := r.db.Pool.Query(ctx, q, saleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txns []model.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, *t)
	}
	return txns, rows.Err()
}

// AttachItem sells an item into the transaction at the given price. The item
// row is locked first; an item already sold elsewhere fails with
// ErrItemPurchased, and re-attaching to the same transaction is a no-op.
func (r *TransactionRepo) AttachItem(
	ctx context.Context, txnID, itemID int, price float64, soldBy string,
) (err error) {
	tx, err := r.db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
			return
		}
		if e := tx.Commit(ctx); e != nil {
			err = e
		}
	}()

	const sel = `SELECT purchased, transaction_id FROM items WHERE id=$1 FOR UPDATE`
	var purchased bool
	var curTxn *int
	if err = tx.QueryRow(ctx, sel, itemID).Scan(&purchased, &curTxn); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return errs.ErrNotFound
		}
		return err
	}
	if curTxn != nil && *curTxn == txnID {
		return nil
	}
	if purchased {
		return fmt.Errorf("item %d: %w", itemID, errs.ErrItemPurchased)
	}

	const updItem = `
UPDATE items
SET transaction_id=$2, purchased=true, sold_for=$3, price=$3, sold_by_email=$4
WHERE id=$1`
	if _, err = tx.Exec(ctx, updItem, itemID, txnID, price, soldBy); err != nil {
		return err
	}
	const updTxn = `UPDATE transactions SET num_items = num_items + 1, value = value + $2 WHERE id=$1`
	tag, e := tx.Exec(ctx, updTxn, txnID, price)
	if e != nil {
		return e
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// DetachItem reverses AttachItem, clearing the item's purchased state and
// decrementing the aggregates. Items not attached to this transaction are
// left alone.
func (r *TransactionRepo) DetachItem(ctx context.Context, txnID, itemID int) (err error) {
	tx, err := r.db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
			return
		}
		if e := tx.Commit(ctx); e != nil {
			err = e
		}
	}()

	const sel = `SELECT price FROM items WHERE id=$1 AND transaction_id=$2 FOR UPDATE`
	var price float64
	if err = tx.QueryRow(ctx, sel, itemID, txnID).Scan(&price); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// not attached to this transaction, nothing to do
			return nil
		}
		return err
	}

	const updItem = `
UPDATE items
SET transaction_id=NULL, purchased=false, sold_for=NULL, sold_by_email=NULL
WHERE id=$1`
	if _, err = tx.Exec(ctx, updItem, itemID); err != nil {
		return err
	}
	const updTxn = `UPDATE transactions SET num_items = num_items - 1, value = value - $2 WHERE id=$1`
	if _, err = tx.Exec(ctx, updTxn, txnID, price); err != nil {
		return err
	}
	return nil
}

// DetachAll detaches every item pointing at the transaction and zeroes the
// aggregates. Returns how many items were detached.
func (r *TransactionRepo) DetachAll(ctx context.Context, txnID int) (n int, err error) {
	tx, err := r.db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
			return
		}
		if e := tx.Commit(ctx); e != nil {
			err = e
		}
	}()

	const updItems = `
UPDATE items
SET transaction_id=NULL, purchased=false, sold_for=NULL, sold_by_email=NULL
WHERE transaction_id=$1`
	tag, err := tx.Exec(ctx, updItems, txnID)
	if err != nil {
		return 0, err
	}
	const updTxn = `UPDATE transactions SET num_items = 0, value = 0 WHERE id=$1`
	if _, err = tx.Exec(ctx, updTxn, txnID); err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

// RecomputeValue rebuilds the aggregates from the live attached-item set and
// returns the recomputed value. Reconciliation path; must converge with the
// incremental updates.
func (r *TransactionRepo) RecomputeValue(ctx context.Context, txnID int) (value float64, err error) {
	tx, err := r.db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
			return
		}
		if e := tx.Commit(ctx); e != nil {
			err = e
		}
	}()

	const sum = `SELECT COALESCE(SUM(price), 0), COUNT(*) FROM items WHERE transaction_id=$1`
	var count int
	if err = tx.QueryRow(ctx, sum, txnID).Scan(&value, &count); err != nil {
		return 0, err
	}
	const upd = `UPDATE transactions SET value=$2, num_items=$3 WHERE id=$1`
	tag, e := tx.Exec(ctx, upd, txnID, value, count)
	if e != nil {
		return 0, e
	}
	if tag.RowsAffected() == 0 {
		return 0, errs.ErrNotFound
	}
	return value, nil
}

// Delete removes the transaction. Items still referencing it fail the delete;
// DetachAll must run first.
func (r *TransactionRepo) Delete(ctx context.Context, id int) error {
	const check = `SELECT EXISTS (SELECT 1 FROM items WHERE transaction_id=$1)`
	var attached bool
	if err := r.db.Pool.QueryRow(ctx, check, id).Scan(&attached); err != nil {
		return err
	}
	if attached {
		return errs.ErrTransactionNotEmpty
	}
	const q = `DELETE FROM transactions WHERE id=$1`
	tag, err := r.db.Pool.Exec(ctx, q, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return errs.ErrTransactionNotEmpty
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// DeleteBySale removes all of a sale's transactions.
func (r *TransactionRepo) DeleteBySale(ctx context.Context, saleID int) error {
	const q = `DELETE FROM transactions WHERE sale_id=$1`
	_, err := r.db.Pool.Exec(ctx, q, saleID)
	if isForeignKeyViolation(err) {
		return errs.ErrTransactionNotEmpty
	}
	return err
}

func scanTransaction(row pgx.Row) (*model.Transaction, error) {
	var t model.Transaction
	if err := row.Scan(&t.ID, &t.SaleID, &t.SellerEmail, &t.CustomerName, &t.CustomerEmail,
		&t.NumItems, &t.Value, &t.CreatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}
