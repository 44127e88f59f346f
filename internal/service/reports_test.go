package service

import (
	"context"
	"errors"
	"testing"

	"github.com/garagebuddy/garagebuddy/internal/errs"
	"github.com/garagebuddy/garagebuddy/internal/model"
	"github.com/garagebuddy/garagebuddy/internal/repository"
)

type reportFixture struct {
	sales   *fakeSales
	reports *fakeReports
	svc     *ReportServiceImpl

	sale   *model.Sale
	keeper *model.User
	seller *model.User
	guest  *model.User
}

func newReportFixture(t *testing.T) *reportFixture {
	t.Helper()
	ctx := context.Background()
	sales := newFakeSales()
	reports := &fakeReports{
		rows: map[string][]repository.ReportRow{
			"seller@x.y": {
				{ItemID: 1, ItemName: "Lamp", OwnerEmail: "seller@x.y", Price: 12.5, SoldFor: 12.5},
				{ItemID: 2, ItemName: "Rug", OwnerEmail: "seller@x.y", Price: 30, SoldFor: 25},
			},
		},
		totals: map[string]float64{"seller@x.y": 37.5},
		daily: []repository.DailyStat{
			{Transactions: 3, Items: 5, Revenue: 80},
		},
	}

	sale, err := model.NewSale("Sale", day(2026, 5, 1), day(2026, 5, 2), "admin@x.y")
	if err != nil {
		t.Fatal(err)
	}
	sale.AddMember("books@x.y", model.RoleBookKeeper)
	sale.AddMember("seller@x.y", model.RoleSeller)
	if err := sales.Create(ctx, sale); err != nil {
		t.Fatal(err)
	}

	return &reportFixture{
		sales: sales, reports: reports,
		svc:    NewReportService(reports, sales, nil, nil),
		sale:   sale,
		keeper: &model.User{Email: "books@x.y"},
		seller: &model.User{Email: "seller@x.y"},
		guest:  &model.User{Email: "guest@x.y"},
	}
}

func TestReports_SellerAccess(t *testing.T) {
	ctx := context.Background()
	f := newReportFixture(t)

	// a seller reads their own numbers
	rep, err := f.svc.Seller(ctx, f.seller, f.sale.ID, "Seller@X.Y")
	if err != nil {
		t.Fatalf("own report: %v", err)
	}
	if len(rep.Rows) != 2 || rep.Total != 37.5 {
		t.Fatalf("report = %+v", rep)
	}

	// a book keeper reads anyone's
	if _, err := f.svc.Seller(ctx, f.keeper, f.sale.ID, "seller@x.y"); err != nil {
		t.Fatalf("keeper report: %v", err)
	}

	// a guest reads nobody's
	if _, err := f.svc.Seller(ctx, f.guest, f.sale.ID, "seller@x.y"); !errors.Is(err, errs.ErrPermissionDenied) {
		t.Fatalf("want ErrPermissionDenied, got %v", err)
	}
}

func TestReports_AllSellers(t *testing.T) {
	ctx := context.Background()
	f := newReportFixture(t)

	if _, err := f.svc.AllSellers(ctx, f.seller, f.sale.ID); !errors.Is(err, errs.ErrPermissionDenied) {
		t.Fatalf("seller all-report: want ErrPermissionDenied, got %v", err)
	}

	reps, err := f.svc.AllSellers(ctx, f.keeper, f.sale.ID)
	if err != nil {
		t.Fatalf("all sellers: %v", err)
	}
	// admin and seller rank as sellers, book keeper does not
	if len(reps) != 2 {
		t.Fatalf("reports = %+v", reps)
	}
}

func TestReports_Stats(t *testing.T) {
	ctx := context.Background()
	f := newReportFixture(t)

	if _, err := f.svc.Stats(ctx, f.guest, f.sale.ID); !errors.Is(err, errs.ErrPermissionDenied) {
		t.Fatalf("guest stats: want ErrPermissionDenied, got %v", err)
	}

	stats, err := f.svc.Stats(ctx, f.keeper, f.sale.ID)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if len(stats) != 1 || stats[0].Revenue != 80 {
		t.Fatalf("stats = %+v", stats)
	}
	if f.reports.calls != 1 {
		t.Fatalf("repo calls = %d", f.reports.calls)
	}

	// without a cache every read goes to the repository
	if _, err := f.svc.Stats(ctx, f.keeper, f.sale.ID); err != nil {
		t.Fatal(err)
	}
	if f.reports.calls != 2 {
		t.Fatalf("repo calls = %d", f.reports.calls)
	}
}
