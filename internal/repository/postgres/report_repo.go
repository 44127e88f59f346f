package postgres

import (
	"context"

	"github.com/garagebuddy/garagebuddy/internal/repository"
)

// ReportRepo implements ReportRepository using PostgreSQL.
type ReportRepo struct{ db *DB }

// NewReportRepo constructs a report repository.
func NewReportRepo(db *DB) *ReportRepo { return &ReportRepo{db: db} }

// SellerReport returns the sold items a seller owns within a sale, joined
// with the transaction each was sold under.
func (r *ReportRepo) SellerReport(
	ctx context.Context, saleID int, sellerEmail string,
) ([]repository.ReportRow, error) {
	const q = `
SELECT i.id, i.name, i.description, i.created_by_email, i.price, i.sold_for,
       t.created_at, t.customer_name, t.id
FROM items i
JOIN transactions t ON i.transaction_id = t.id
WHERE i.created_by_email = lower($1) AND t.sale_id = $2
ORDER BY t.created_at, i.id`
	rows, err := r.db.Pool.Query(ctx, q, sellerEmail, saleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var report []repository.ReportRow
	for rows.Next() {
		var row repository.ReportRow
		if err := rows.Scan(&row.ItemID, &row.ItemName, &row.Description, &row.OwnerEmail,
			&row.Price, &row.SoldFor, &row.SoldAt, &row.CustomerName, &row.TransactionID); err != nil {
			return nil, err
		}
		report = append(report, row)
	}
	return report, rows.Err()
}

// SellerTotal returns the summed price of a seller's sold items within a sale.
func (r *ReportRepo) SellerTotal(ctx context.Context, saleID int, sellerEmail string) (float64, error) {
	const q = `
SELECT COALESCE(SUM(i.price), 0)
FROM items i
JOIN transactions t ON i.transaction_id = t.id
WHERE i.created_by_email = lower($1) AND t.sale_id = $2`
	var total float64
	if err := r.db.Pool.QueryRow(ctx, q, sellerEmail, saleID).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// DailyStats aggregates a sale's transactions per day.
func (r *ReportRepo) DailyStats(ctx context.Context, saleID int) ([]repository.DailyStat, error) {
	const q = `
SELECT date_trunc('day', created_at) AS day,
       COUNT(*) AS transactions,
       COALESCE(SUM(num_items), 0) AS items,
       COALESCE(SUM(value), 0) AS revenue
FROM transactions
WHERE sale_id = $1
GROUP BY day
ORDER BY day`
	rows, err := r.db.Pool.Query(ctx, q, saleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []repository.DailyStat
	for rows.Next() {
		var st repository.DailyStat
		if err := rows.Scan(&st.Date, &st.Transactions, &st.Items, &st.Revenue); err != nil {
			return nil, err
		}
		stats = append(stats, st)
	}
	return stats, rows.Err()
}
