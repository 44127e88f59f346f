package repository

import (
	"context"
	"time"
)

// ReportRow is one sold item in a seller's financial report.
type ReportRow struct {
	ItemID        int
	ItemName      string
	Description   string
	OwnerEmail    string
	Price         float64
	SoldFor       float64
	SoldAt        time.Time
	CustomerName  string
	TransactionID int
}

// DailyStat aggregates a sale's activity for one day.
type DailyStat struct {
	Date         time.Time
	Transactions int
	Items        int
	Revenue      float64
}

// ReportRepository answers financial-report queries for a sale.
type ReportRepository interface {
	// SellerReport returns the sold items a seller owns within a sale.
	SellerReport(ctx context.Context, saleID int, sellerEmail string) ([]ReportRow, error)
	// SellerTotal returns the summed price of a seller's sold items within a
	// sale; zero when nothing sold.
	SellerTotal(ctx context.Context, saleID int, sellerEmail string) (float64, error)
	// DailyStats returns per-day transaction counts, item counts and revenue
	// for a sale, ordered by day.
	DailyStats(ctx context.Context, saleID int) ([]DailyStat, error)
}
