package model

import (
	"errors"
	"testing"

	"github.com/garagebuddy/garagebuddy/internal/errs"
)

func TestNewItem_Defaults(t *testing.T) {
	t.Parallel()
	it := NewItem("Seller@X.io", "lamp", 20)
	if it.CreatedBy != "seller@x.io" {
		t.Fatalf("owner not normalized: %q", it.CreatedBy)
	}
	if it.MinPrice != it.Price {
		t.Fatalf("min price should default to marked price")
	}
	if it.Description != "No description" {
		t.Fatalf("description default = %q", it.Description)
	}
}

func TestItem_AddToSale(t *testing.T) {
	t.Parallel()
	it := NewItem("s@x.io", "lamp", 20)
	a := &Sale{ID: 1}
	b := &Sale{ID: 2}

	changed, err := it.AddToSale(a)
	if err != nil || !changed {
		t.Fatalf("attach: changed=%v err=%v", changed, err)
	}
	// Same sale again is a no-op.
	changed, err = it.AddToSale(a)
	if err != nil || changed {
		t.Fatalf("re-attach same sale: changed=%v err=%v", changed, err)
	}
	// Unpurchased items move between sales implicitly.
	changed, err = it.AddToSale(b)
	if err != nil || !changed || *it.SaleID != 2 {
		t.Fatalf("move: changed=%v err=%v sale=%v", changed, err, it.SaleID)
	}
	// Purchased items may not move.
	it.Purchased = true
	if _, err := it.AddToSale(a); !errors.Is(err, errs.ErrItemPurchased) {
		t.Fatalf("move of purchased item: got %v, want ErrItemPurchased", err)
	}
	if *it.SaleID != 2 {
		t.Fatalf("failed move mutated sale reference")
	}
}

func TestItem_AddToSale_NilPanics(t *testing.T) {
	t.Parallel()
	defer func() {
		if recover() == nil {
			t.Fatalf("nil sale should panic: it is a caller bug, not user input")
		}
	}()
	NewItem("s@x.io", "lamp", 20).AddToSale(nil)
}

func TestItem_RemoveFromSale(t *testing.T) {
	t.Parallel()
	it := NewItem("s@x.io", "lamp", 20)
	if changed, err := it.RemoveFromSale(); err != nil || changed {
		t.Fatalf("unattached remove should be a no-op: changed=%v err=%v", changed, err)
	}

	sale := &Sale{ID: 3}
	it.AddToSale(sale)
	it.Purchased = true
	if _, err := it.RemoveFromSale(); !errors.Is(err, errs.ErrItemPurchased) {
		t.Fatalf("purchased remove: got %v, want ErrItemPurchased", err)
	}
	if it.SaleID == nil || *it.SaleID != 3 {
		t.Fatalf("failed remove mutated sale reference")
	}

	it.Purchased = false
	if changed, err := it.RemoveFromSale(); err != nil || !changed || it.SaleID != nil {
		t.Fatalf("remove: changed=%v err=%v sale=%v", changed, err, it.SaleID)
	}
}

func TestItem_RemoveFromSaleID(t *testing.T) {
	t.Parallel()
	it := NewItem("s@x.io", "lamp", 20)
	it.AddToSale(&Sale{ID: 3})
	if changed, _ := it.RemoveFromSaleID(9); changed || it.SaleID == nil {
		t.Fatalf("mismatched sale id should be a no-op")
	}
	if changed, _ := it.RemoveFromSaleID(3); !changed || it.SaleID != nil {
		t.Fatalf("matching sale id should detach")
	}
}

func TestItem_PostBid(t *testing.T) {
	t.Parallel()
	it := NewItem("s@x.io", "lamp", 20)
	if err := it.PostBid("bidder@x.io", 10); err != nil {
		t.Fatalf("first bid: %v", err)
	}
	if err := it.PostBid("other@x.io", 10); !errors.Is(err, errs.ErrBidTooLow) {
		t.Fatalf("equal bid: got %v, want ErrBidTooLow", err)
	}
	if err := it.PostBid("other@x.io", 12); err != nil {
		t.Fatalf("higher bid: %v", err)
	}
	if *it.CurrentBid != 12 || *it.ReservedBy != "other@x.io" {
		t.Fatalf("bid not recorded: %v %v", *it.CurrentBid, *it.ReservedBy)
	}
	if it.Purchased {
		t.Fatalf("bidding must not mark the item purchased")
	}
}

func TestItem_PurchasedFreezesEdits(t *testing.T) {
	t.Parallel()
	it := NewItem("s@x.io", "lamp", 20)
	it.Purchased = true
	if err := it.SetPrice(25); !errors.Is(err, errs.ErrItemPurchased) {
		t.Fatalf("SetPrice: got %v", err)
	}
	if err := it.SetMinPrice(5); !errors.Is(err, errs.ErrItemPurchased) {
		t.Fatalf("SetMinPrice: got %v", err)
	}
	if err := it.SetDescription("x"); !errors.Is(err, errs.ErrItemPurchased) {
		t.Fatalf("SetDescription: got %v", err)
	}
	if it.Price != 20 || it.MinPrice != 20 || it.Description != "No description" {
		t.Fatalf("frozen item mutated")
	}
}

func TestItem_SellingPrice(t *testing.T) {
	t.Parallel()
	it := NewItem("s@x.io", "lamp", 20)
	it.MinPrice = 15

	if p, err := it.SellingPrice(nil); err != nil || p != 20 {
		t.Fatalf("default selling price = %v, %v", p, err)
	}
	low := 10.0
	if _, err := it.SellingPrice(&low); !errors.Is(err, errs.ErrBelowMinimumPrice) {
		t.Fatalf("below-floor sale: got %v, want ErrBelowMinimumPrice", err)
	}
	ok := 18.0
	if p, err := it.SellingPrice(&ok); err != nil || p != 18 {
		t.Fatalf("negotiated selling price = %v, %v", p, err)
	}
	// Exactly the floor is acceptable.
	floor := 15.0
	if p, err := it.SellingPrice(&floor); err != nil || p != 15 {
		t.Fatalf("floor selling price = %v, %v", p, err)
	}
}
