package model

import (
	"time"

	"github.com/garagebuddy/garagebuddy/internal/errs"
)

// Item is a thing for sale. An item optionally belongs to one sale and, once
// sold, to exactly one transaction. A purchased item is frozen: price,
// description and minimum price cannot change until it is detached from its
// transaction.
type Item struct {
	ID            int
	SaleID        *int
	TransactionID *int
	CreatedBy     string // owner email, immutable after creation
	SoldBy        *string
	Name          string
	Description   string
	Price         float64
	MinPrice      float64
	SoldFor       *float64
	Purchased     bool
	CurrentBid    *float64
	ReservedBy    *string
	CreatedAt     time.Time
}

// NewItem creates an unattached item owned by the given seller. The minimum
// bargain price starts equal to the marked price.
func NewItem(createdBy, name string, price float64) *Item {
	return &Item{
		CreatedBy:   NormalizeEmail(createdBy),
		Name:        name,
		Description: "No description",
		Price:       price,
		MinPrice:    price,
	}
}

// AddToSale attaches the item to a sale. Re-adding to the same sale is a
// no-op. An unpurchased item in another sale moves to the given one; a
// purchased item may not move. A nil sale is a caller bug, not user input.
func (i *Item) AddToSale(s *Sale) (bool, error) {
	if s == nil {
		panic("model: AddToSale called with nil sale")
	}
	if i.SaleID != nil && *i.SaleID == s.ID {
		return false, nil
	}
	if i.Purchased {
		return false, errs.ErrItemPurchased
	}
	id := s.ID
	i.SaleID = &id
	return true, nil
}

// RemoveFromSale detaches the item from its sale. Purchased items stay put
// for audit integrity; detaching an unattached item is a no-op.
func (i *Item) RemoveFromSale() (bool, error) {
	if i.SaleID == nil {
		return false, nil
	}
	if i.Purchased {
		return false, errs.ErrItemPurchased
	}
	i.SaleID = nil
	return true, nil
}

// RemoveFromSaleID detaches the item only when it belongs to the given sale;
// otherwise it is a no-op.
func (i *Item) RemoveFromSaleID(saleID int) (bool, error) {
	if i.SaleID == nil || *i.SaleID != saleID {
		return false, nil
	}
	return i.RemoveFromSale()
}

// PostBid records a bid. Only bids strictly above the current highest bid are
// accepted. Bidding reserves the item for the bidder but does not sell it.
func (i *Item) PostBid(bidder string, amount float64) error {
	if i.Purchased {
		return errs.ErrItemPurchased
	}
	if i.CurrentBid != nil && amount <= *i.CurrentBid {
		return errs.ErrBidTooLow
	}
	bidder = NormalizeEmail(bidder)
	i.CurrentBid = &amount
	i.ReservedBy = &bidder
	return nil
}

// SetPrice updates the marked price. Frozen once purchased.
func (i *Item) SetPrice(price float64) error {
	if i.Purchased {
		return errs.ErrItemPurchased
	}
	i.Price = price
	return nil
}

// SetMinPrice updates the minimum bargain price. Frozen once purchased.
func (i *Item) SetMinPrice(minPrice float64) error {
	if i.Purchased {
		return errs.ErrItemPurchased
	}
	i.MinPrice = minPrice
	return nil
}

// SetDescription updates the description. Frozen once purchased.
func (i *Item) SetDescription(desc string) error {
	if i.Purchased {
		return errs.ErrItemPurchased
	}
	i.Description = desc
	return nil
}

// SellingPrice resolves the price an item sells for. When a negotiated amount
// is supplied it must meet the minimum price and becomes the selling price;
// otherwise the item sells at its marked price.
func (i *Item) SellingPrice(negotiated *float64) (float64, error) {
	if negotiated == nil {
		return i.Price, nil
	}
	if *negotiated < i.MinPrice {
		return 0, errs.ErrBelowMinimumPrice
	}
	return *negotiated, nil
}
