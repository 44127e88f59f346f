package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/garagebuddy/garagebuddy/internal/errs"
	"github.com/garagebuddy/garagebuddy/internal/model"
)

// ItemRepo implements ItemRepository using PostgreSQL.
type ItemRepo struct{ db *DB }

// NewItemRepo constructs an item repository.
func NewItemRepo(db *DB) *ItemRepo { return &ItemRepo{db: db} }

const itemColumns = `id, sale_id, transaction_id, created_by_email, sold_by_email, name, description,
price, min_price, sold_for, purchased, current_bid, reserved_by, created_at`

// Create inserts a new item row and fills in the generated id.
func (r *ItemRepo) Create(ctx context.Context, it *model.Item) error {
	const q = `
INSERT INTO items (sale_id, created_by_email, name, description, price, min_price)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id`
	return r.db.Pool.QueryRow(ctx, q,
		it.SaleID, it.CreatedBy, it.Name, it.Description, it.Price, it.MinPrice).Scan(&it.ID)
}

// GetByID selects an item by id.
func (r *ItemRepo) GetByID(ctx context.Context, id int) (*model.Item, error) {
	const q = `
SELECT ` + itemColumns + `
FROM items WHERE id=$1`
	row := r.db.Pool.QueryRow(ctx, q, id)
	it, err := scanItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return it, nil
}

// Update persists mutable fields and associations. The guard on purchased
// items is enforced in the model; this is a plain row write.
func (r *ItemRepo) Update(ctx context.Context, it *model.Item) error {
	const q = `
UPDATE items
SET sale_id=$2, transaction_id=$3, sold_by_email=$4, name=$5, description=$6,
    price=$7, min_price=$8, sold_for=$9, purchased=$10, current_bid=$11, reserved_by=$12
WHERE id=$1`
	tag, err := r.db.Pool.Exec(ctx, q,
		it.ID, it.SaleID, it.TransactionID, it.SoldBy, it.Name, it.Description,
		it.Price, it.MinPrice, it.SoldFor, it.Purchased, it.CurrentBid, it.ReservedBy)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// Delete removes the item row.
func (r *ItemRepo) Delete(ctx context.Context, id int) error {
	const q = `DELETE FROM items WHERE id=$1`
	tag, err := r.db.Pool.Exec(ctx, q, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// ListBySale returns a sale's items, optionally filtered on the purchased flag.
func (r *ItemRepo) ListBySale(ctx context.Context, saleID int, purchased *bool) ([]model.Item, error) {
	q := `
SELECT ` + itemColumns + `
FROM items WHERE sale_id=$1`
	args := []any{saleID}
	if purchased != nil {
		q += ` AND purchased=$2`
		args = append(args, *purchased)
	}
	q += ` ORDER BY name, id`
	return r.list(ctx, q, args...)
}

// ListByTransaction returns the items attached to a transaction.
func (r *ItemRepo) ListByTransaction(ctx context.Context, txnID int) ([]model.Item, error) {
	const q = `
SELECT ` + itemColumns + `
FROM items WHERE transaction_id=$1 ORDER BY id`
	return r.list(ctx, q, txnID)
}

// DeleteBySale removes all of a sale's items.
func (r *ItemRepo) DeleteBySale(ctx context.Context, saleID int) error {
	const q = `DELETE FROM items WHERE sale_id=$1`
	_, err := r.db.Pool.Exec(ctx, q, saleID)
	return err
}

func (r *ItemRepo) list(ctx context.Context, q string, args ...any) ([]model.Item, error) {
	rows, err := r.db.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *it)
	}
	return items, rows.Err()
}

func scanItem(row pgx.Row) (*model.Item, error) {
	var it model.Item
	if err := row.Scan(&it.ID, &it.SaleID, &it.TransactionID, &it.CreatedBy, &it.SoldBy,
		&it.Name, &it.Description, &it.Price, &it.MinPrice, &it.SoldFor, &it.Purchased,
		&it.CurrentBid, &it.ReservedBy, &it.CreatedAt); err != nil {
		return nil, err
	}
	return &it, nil
}
