package service

import (
	"context"
	"fmt"

	"github.com/garagebuddy/garagebuddy/internal/errs"
	"github.com/garagebuddy/garagebuddy/internal/format"
	"github.com/garagebuddy/garagebuddy/internal/model"
	"github.com/garagebuddy/garagebuddy/internal/permissions"
	"github.com/garagebuddy/garagebuddy/internal/repository"
)

// ItemUpdate carries the editable item fields. Nil pointers leave the current
// value unchanged.
type ItemUpdate struct {
	Name        *string
	Description *string
	Price       *float64
	MinPrice    *float64
}

// Tag is one printable price tag.
type Tag struct {
	ItemID      int    `json:"item_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	OwnerEmail  string `json:"owner_email"`
	Price       string `json:"price"`
	SaleName    string `json:"sale_name"`
	SaleDate    string `json:"sale_date"`
}

// ItemService defines catalog operations.
type ItemService interface {
	// Create adds an item owned by the actor, optionally straight into a sale.
	Create(ctx context.Context, actor *model.User, saleID *int, name string, price float64) (*model.Item, error)
	// Get loads an item.
	Get(ctx context.Context, id int) (*model.Item, error)
	// Update edits an item's catalog fields. Purchased items are frozen.
	Update(ctx context.Context, actor *model.User, id int, upd ItemUpdate) (*model.Item, error)
	// AddToSale attaches an item to a sale, moving it if needed.
	AddToSale(ctx context.Context, actor *model.User, itemID, saleID int) error
	// RemoveFromSale detaches an unpurchased item from its sale.
	RemoveFromSale(ctx context.Context, actor *model.User, itemID int) error
	// Delete removes a never-purchased item.
	Delete(ctx context.Context, actor *model.User, id int) error
	// PostBid records a bid on an item; any signed-in user may bid.
	PostBid(ctx context.Context, actor *model.User, itemID int, amount float64) (*model.Item, error)
	// ListBySale returns a sale's items; unsold filters out purchased ones.
	ListBySale(ctx context.Context, saleID int, unsoldOnly bool) ([]model.Item, error)
	// Tags renders printable price tags for a sale's unsold items.
	Tags(ctx context.Context, actor *model.User, saleID int) ([]Tag, error)
}

type ItemServiceImpl struct {
	items repository.ItemRepository
	sales repository.SaleRepository
}

// NewItemService constructs ItemService with required dependencies.
func NewItemService(items repository.ItemRepository, sales repository.SaleRepository) *ItemServiceImpl {
	return &ItemServiceImpl{items: items, sales: sales}
}

// Create adds an item owned by the actor. With a sale id the item lands in
// that sale immediately, which requires catalog rights there.
func (s *ItemServiceImpl) Create(ctx context.Context, actor *model.User, saleID *int, name string, price float64) (*model.Item, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty item name", errs.ErrValidation)
	}
	if price < 0 {
		return nil, fmt.Errorf("%w: negative price", errs.ErrValidation)
	}
	it := model.NewItem(actor.Email, name, price)
	if saleID != nil {
		sale, err := s.sales.GetByID(ctx, *saleID)
		if err != nil {
			return nil, err
		}
		if !permissions.CanUpdateCatalog(sale, actor) {
			return nil, errs.ErrPermissionDenied
		}
		if _, err := it.AddToSale(sale); err != nil {
			return nil, err
		}
	}
	if err := s.items.Create(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

// Get loads an item.
func (s *ItemServiceImpl) Get(ctx context.Context, id int) (*model.Item, error) {
	return s.items.GetByID(ctx, id)
}

// Update edits catalog fields. Items inside a sale need catalog rights there;
// price changes additionally need pricing rights. Unattached items are
// editable by their owner only.
func (s *ItemServiceImpl) Update(ctx context.Context, actor *model.User, id int, upd ItemUpdate) (*model.Item, error) {
	it, err := s.items.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeEdit(ctx, actor, it, upd.Price != nil || upd.MinPrice != nil); err != nil {
		return nil, err
	}
	if upd.Name != nil {
		if it.Purchased {
			return nil, errs.ErrItemPurchased
		}
		it.Name = *upd.Name
	}
	if upd.Description != nil {
		if err := it.SetDescription(*upd.Description); err != nil {
			return nil, err
		}
	}
	if upd.Price != nil {
		if err := it.SetPrice(*upd.Price); err != nil {
			return nil, err
		}
	}
	if upd.MinPrice != nil {
		if err := it.SetMinPrice(*upd.MinPrice); err != nil {
			return nil, err
		}
	}
	if err := s.items.Update(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

// AddToSale attaches an item to a sale. An unpurchased item already in
// another sale moves over.
func (s *ItemServiceImpl) AddToSale(ctx context.Context, actor *model.User, itemID, saleID int) error {
	it, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return err
	}
	sale, err := s.sales.GetByID(ctx, saleID)
	if err != nil {
		return err
	}
	if !permissions.CanUpdateCatalog(sale, actor) {
		return errs.ErrPermissionDenied
	}
	moved, err := it.AddToSale(sale)
	if err != nil {
		return err
	}
	if !moved {
		return nil
	}
	return s.items.Update(ctx, it)
}

// RemoveFromSale detaches an item from its sale.
func (s *ItemServiceImpl) RemoveFromSale(ctx context.Context, actor *model.User, itemID int) error {
	it, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return err
	}
	if err := s.authorizeEdit(ctx, actor, it, false); err != nil {
		return err
	}
	removed, err := it.RemoveFromSale()
	if err != nil {
		return err
	}
	if !removed {
		return nil
	}
	return s.items.Update(ctx, it)
}

// Delete removes an item. Purchased items are part of a transaction's audit
// trail and cannot be deleted.
func (s *ItemServiceImpl) Delete(ctx context.Context, actor *model.User, id int) error {
	it, err := s.items.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if it.Purchased {
		return errs.ErrItemPurchased
	}
	if err := s.authorizeEdit(ctx, actor, it, false); err != nil {
		return err
	}
	return s.items.Delete(ctx, id)
}

// PostBid records a bid strictly above the current high bid, reserving the
// item for the bidder.
func (s *ItemServiceImpl) PostBid(ctx context.Context, actor *model.User, itemID int, amount float64) (*model.Item, error) {
	it, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if err := it.PostBid(actor.Email, amount); err != nil {
		return nil, err
	}
	if err := s.items.Update(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

// ListBySale returns a sale's items, optionally only the unsold ones.
func (s *ItemServiceImpl) ListBySale(ctx context.Context, saleID int, unsoldOnly bool) ([]model.Item, error) {
	var purchased *bool
	if unsoldOnly {
		f := false
		purchased = &f
	}
	return s.items.ListBySale(ctx, saleID, purchased)
}

// Tags renders printable price tags for the sale's unsold items.
func (s *ItemServiceImpl) Tags(ctx context.Context, actor *model.User, saleID int) ([]Tag, error) {
	sale, err := s.sales.GetByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if !permissions.CanPrintTags(sale, actor) {
		return nil, errs.ErrPermissionDenied
	}
	items, err := s.ListBySale(ctx, saleID, true)
	if err != nil {
		return nil, err
	}
	tags := make([]Tag, 0, len(items))
	for _, it := range items {
		tags = append(tags, Tag{
			ItemID:      it.ID,
			Name:        it.Name,
			Description: it.Description,
			OwnerEmail:  it.CreatedBy,
			Price:       format.Currency(it.Price),
			SaleName:    sale.Name,
			SaleDate:    format.Date(sale.StartDate),
		})
	}
	return tags, nil
}

// authorizeEdit gates item edits: the owner may always edit an unsold item;
// inside a sale, catalog rights suffice and price changes need pricing rights.
func (s *ItemServiceImpl) authorizeEdit(ctx context.Context, actor *model.User, it *model.Item, priceChange bool) error {
	if actor.SuperUser || it.CreatedBy == model.NormalizeEmail(actor.Email) {
		return nil
	}
	if it.SaleID == nil {
		return errs.ErrPermissionDenied
	}
	sale, err := s.sales.GetByID(ctx, *it.SaleID)
	if err != nil {
		return err
	}
	if priceChange {
		if !permissions.CanUpdatePrices(sale, actor) {
			return errs.ErrPermissionDenied
		}
		return nil
	}
	if !permissions.CanUpdateCatalog(sale, actor) {
		return errs.ErrPermissionDenied
	}
	return nil
}
