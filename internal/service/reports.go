package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/garagebuddy/garagebuddy/internal/cache"
	"github.com/garagebuddy/garagebuddy/internal/errs"
	"github.com/garagebuddy/garagebuddy/internal/model"
	"github.com/garagebuddy/garagebuddy/internal/permissions"
	"github.com/garagebuddy/garagebuddy/internal/repository"
)

// SellerReport is one seller's financial summary within a sale.
type SellerReport struct {
	SellerEmail string                 `json:"seller_email"`
	Rows        []repository.ReportRow `json:"rows"`
	Total       float64                `json:"total"`
}

// ReportService defines financial reporting operations.
type ReportService interface {
	// Seller returns one seller's sold items and total within a sale.
	Seller(ctx context.Context, actor *model.User, saleID int, sellerEmail string) (*SellerReport, error)
	// AllSellers returns a report for every seller on the sale.
	AllSellers(ctx context.Context, actor *model.User, saleID int) ([]SellerReport, error)
	// Stats returns per-day transaction counts, item counts and revenue.
	Stats(ctx context.Context, actor *model.User, saleID int) ([]repository.DailyStat, error)
}

type ReportServiceImpl struct {
	reports repository.ReportRepository
	sales   repository.SaleRepository
	stats   *cache.Cache
	log     *zap.Logger
}

// NewReportService constructs ReportService. The stats cache may be nil when
// report caching is disabled.
func NewReportService(reports repository.ReportRepository, sales repository.SaleRepository, stats *cache.Cache, log *zap.Logger) *ReportServiceImpl {
	if log == nil {
		log = zap.NewNop()
	}
	return &ReportServiceImpl{reports: reports, sales: sales, stats: stats, log: log}
}

// Seller returns a seller's report. Sellers may read their own numbers;
// anyone else needs finance access on the sale.
func (s *ReportServiceImpl) Seller(ctx context.Context, actor *model.User, saleID int, sellerEmail string) (*SellerReport, error) {
	sale, err := s.sales.GetByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	sellerEmail = model.NormalizeEmail(sellerEmail)
	if sellerEmail != model.NormalizeEmail(actor.Email) && !permissions.CanAccessFinances(sale, actor) {
		return nil, errs.ErrPermissionDenied
	}
	rows, err := s.reports.SellerReport(ctx, saleID, sellerEmail)
	if err != nil {
		return nil, err
	}
	total, err := s.reports.SellerTotal(ctx, saleID, sellerEmail)
	if err != nil {
		return nil, err
	}
	return &SellerReport{SellerEmail: sellerEmail, Rows: rows, Total: total}, nil
}

// AllSellers reports every seller on the sale.
func (s *ReportServiceImpl) AllSellers(ctx context.Context, actor *model.User, saleID int) ([]SellerReport, error) {
	sale, err := s.sales.GetByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if !permissions.CanAccessFinances(sale, actor) {
		return nil, errs.ErrPermissionDenied
	}
	emails := sale.SellerEmails()
	out := make([]SellerReport, 0, len(emails))
	for _, email := range emails {
		rows, err := s.reports.SellerReport(ctx, saleID, email)
		if err != nil {
			return nil, err
		}
		total, err := s.reports.SellerTotal(ctx, saleID, email)
		if err != nil {
			return nil, err
		}
		out = append(out, SellerReport{SellerEmail: email, Rows: rows, Total: total})
	}
	return out, nil
}

// Stats returns the sale's daily activity, served from cache when fresh.
// Checkout mutations invalidate the cached document.
func (s *ReportServiceImpl) Stats(ctx context.Context, actor *model.User, saleID int) ([]repository.DailyStat, error) {
	sale, err := s.sales.GetByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if !permissions.CanAccessFinances(sale, actor) {
		return nil, errs.ErrPermissionDenied
	}

	key := cache.StatsKey(saleID)
	if s.stats != nil {
		var cached []repository.DailyStat
		hit, err := s.stats.Get(ctx, key, &cached)
		if err != nil {
			s.log.Warn("stats cache read failed", zap.Int("sale_id", saleID), zap.Error(err))
		} else if hit {
			return cached, nil
		}
	}

	stats, err := s.reports.DailyStats(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if s.stats != nil {
		if err := s.stats.Set(ctx, key, stats); err != nil {
			s.log.Warn("stats cache write failed", zap.Int("sale_id", saleID), zap.Error(err))
		}
	}
	return stats, nil
}
