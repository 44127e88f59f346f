package model

import (
	"time"

	"github.com/garagebuddy/garagebuddy/internal/errs"
)

// Transaction records one checkout event for a sale. NumItems and Value are
// running aggregates and must always equal the count and price sum of the
// items currently pointing at this transaction.
type Transaction struct {
	ID            int
	SaleID        int
	SellerEmail   string
	CustomerName  string
	CustomerEmail *string
	NumItems      int
	Value         float64
	CreatedAt     time.Time
}

// NewTransaction creates an empty checkout for a sale, processed by seller.
func NewTransaction(sale *Sale, sellerEmail, customerName string) *Transaction {
	if sale == nil {
		panic("model: NewTransaction called with nil sale")
	}
	return &Transaction{
		SaleID:       sale.ID,
		SellerEmail:  NormalizeEmail(sellerEmail),
		CustomerName: customerName,
		CreatedAt:    time.Now(),
	}
}

// mustBePersisted guards aggregate mutations against id-less transactions;
// attaching items to an unsaved transaction is a caller bug.
func (t *Transaction) mustBePersisted() {
	if t.ID == 0 {
		panic("model: transaction mutation before persistence")
	}
}

// AddItem attaches an item, marking it purchased. An item already sold into
// another transaction is rejected; re-adding to the same transaction is a
// no-op. With updateCounts, NumItems and Value move together in the same call.
func (t *Transaction) AddItem(it *Item, updateCounts bool) (bool, error) {
	t.mustBePersisted()
	if it.TransactionID != nil && *it.TransactionID == t.ID {
		return false, nil
	}
	if it.Purchased {
		return false, errs.ErrItemPurchased
	}
	id := t.ID
	it.TransactionID = &id
	it.Purchased = true
	sf := it.Price
	it.SoldFor = &sf
	if updateCounts {
		t.NumItems++
		t.Value += it.Price
	}
	return true, nil
}

// RemoveItem detaches an item, clearing its purchased flag, transaction
// reference and sold-for amount. Items attached to a different transaction
// are left alone.
func (t *Transaction) RemoveItem(it *Item, updateCounts bool) (bool, error) {
	t.mustBePersisted()
	if it.TransactionID == nil || *it.TransactionID != t.ID {
		return false, nil
	}
	it.TransactionID = nil
	it.Purchased = false
	it.SoldFor = nil
	if updateCounts {
		t.NumItems--
		t.Value -= it.Price
	}
	return true, nil
}

// AddItems attaches a batch of items. Aggregates are recomputed from the
// attached set afterwards rather than accumulated per item, so a partially
// applicable batch cannot leave the counters drifting.
func (t *Transaction) AddItems(items []*Item, updateCounts bool) (int, error) {
	t.mustBePersisted()
	added := 0
	for _, it := range items {
		ok, err := t.AddItem(it, false)
		if err != nil {
			return added, err
		}
		if ok {
			added++
		}
	}
	if updateCounts {
		t.Recompute(items)
	}
	return added, nil
}

// RemoveAllItems detaches every item currently pointing at this transaction.
// It must run before the transaction is deleted, otherwise item rows are left
// dangling. Returns how many items were detached.
func (t *Transaction) RemoveAllItems(items []*Item, updateCounts bool) int {
	t.mustBePersisted()
	removed := 0
	for _, it := range items {
		if ok, _ := t.RemoveItem(it, false); ok {
			removed++
		}
	}
	if updateCounts {
		t.Recompute(items)
	}
	return removed
}

// Recompute rebuilds NumItems and Value from the authoritative attached set.
// This is the reconciliation path; it must converge with the incremental
// per-item updates.
func (t *Transaction) Recompute(items []*Item) {
	count := 0
	sum := 0.0
	for _, it := range items {
		if it.TransactionID != nil && *it.TransactionID == t.ID {
			count++
			sum += it.Price
		}
	}
	t.NumItems = count
	t.Value = sum
}
