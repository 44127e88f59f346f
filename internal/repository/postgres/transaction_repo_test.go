package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"github.com/garagebuddy/garagebuddy/internal/errs"
	"github.com/garagebuddy/garagebuddy/internal/model"
)

func TestTransactionRepo_Create_AssignsID(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewTransactionRepo(db)

	txn := &model.Transaction{SaleID: 1, SellerEmail: "c@x.io", CustomerName: "Walk-in"}
	mock.ExpectQuery(`INSERT INTO transactions`).
		WithArgs(1, "c@x.io", "Walk-in", (*string)(nil)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(42, time.Now()))
	require.NoError(t, r.Create(context.Background(), txn))
	require.Equal(t, 42, txn.ID)
}

func TestTransactionRepo_AttachItem_OK(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewTransactionRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT purchased, transaction_id FROM items WHERE id=\$1 FOR UPDATE`).
		WithArgs(5).
		WillReturnRows(pgxmock.NewRows([]string{"purchased", "transaction_id"}).AddRow(false, nil))
	mock.ExpectExec(`UPDATE items SET transaction_id=\$2, purchased=true, sold_for=\$3, price=\$3, sold_by_email=\$4 WHERE id=\$1`).
		WithArgs(5, 42, 18.0, "cashier@x.io").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`UPDATE transactions SET num_items = num_items \+ 1, value = value \+ \$2 WHERE id=\$1`).
		WithArgs(42, 18.0).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	require.NoError(t, r.AttachItem(context.Background(), 42, 5, 18.0, "cashier@x.io"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_AttachItem_AlreadyPurchased(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewTransactionRepo(db)

	other := 7
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT purchased, transaction_id FROM items WHERE id=\$1 FOR UPDATE`).
		WithArgs(5).
		WillReturnRows(pgxmock.NewRows([]string{"purchased", "transaction_id"}).AddRow(true, &other))
	mock.ExpectRollback()

	err := r.AttachItem(context.Background(), 42, 5, 18.0, "cashier@x.io")
	require.ErrorIs(t, err, errs.ErrItemPurchased)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_AttachItem_SameTransactionIsNoOp(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewTransactionRepo(db)

	same := 42
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT purchased, transaction_id FROM items WHERE id=\$1 FOR UPDATE`).
		WithArgs(5).
		WillReturnRows(pgxmock.NewRows([]string{"purchased", "transaction_id"}).AddRow(true, &same))
	mock.ExpectCommit()

	require.NoError(t, r.AttachItem(context.Background(), 42, 5, 18.0, "cashier@x.io"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_DetachItem_OK(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewTransactionRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT price FROM items WHERE id=\$1 AND transaction_id=\$2 FOR UPDATE`).
		WithArgs(5, 42).
		WillReturnRows(pgxmock.NewRows([]string{"price"}).AddRow(18.0))
	mock.ExpectExec(`UPDATE items SET transaction_id=NULL, purchased=false, sold_for=NULL, sold_by_email=NULL WHERE id=\$1`).
		WithArgs(5).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`UPDATE transactions SET num_items = num_items - 1, value = value - \$2 WHERE id=\$1`).
		WithArgs(42, 18.0).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	require.NoError(t, r.DetachItem(context.Background(), 42, 5))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_DetachItem_NotAttachedIsNoOp(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewTransactionRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT price FROM items WHERE id=\$1 AND transaction_id=\$2 FOR UPDATE`).
		WithArgs(5, 42).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectCommit()

	require.NoError(t, r.DetachItem(context.Background(), 42, 5))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_DetachAll(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewTransactionRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE items SET transaction_id=NULL, purchased=false, sold_for=NULL, sold_by_email=NULL WHERE transaction_id=\$1`).
		WithArgs(42).
		WillReturnResult(pgxmock.NewResult("UPDATE", 3))
	mock.ExpectExec(`UPDATE transactions SET num_items = 0, value = 0 WHERE id=\$1`).
		WithArgs(42).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	n, err := r.DetachAll(context.Background(), 42)
	require.NoError(t, err)
	require.Equal(t, 3, n)
}

func TestTransactionRepo_RecomputeValue(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewTransactionRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(price\), 0\), COUNT\(\*\) FROM items WHERE transaction_id=\$1`).
		WithArgs(42).
		WillReturnRows(pgxmock.NewRows([]string{"sum", "count"}).AddRow(40.0, 2))
	mock.ExpectExec(`UPDATE transactions SET value=\$2, num_items=\$3 WHERE id=\$1`).
		WithArgs(42, 40.0, 2).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	value, err := r.RecomputeValue(context.Background(), 42)
	require.NoError(t, err)
	require.Equal(t, 40.0, value)
}

func TestTransactionRepo_Delete_RequiresDetachedItems(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewTransactionRepo(db)

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(42).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	require.ErrorIs(t, r.Delete(context.Background(), 42), errs.ErrTransactionNotEmpty)

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(42).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(`DELETE FROM transactions WHERE id=\$1`).
		WithArgs(42).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	require.NoError(t, r.Delete(context.Background(), 42))
}
