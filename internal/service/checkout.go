package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/garagebuddy/garagebuddy/internal/cache"
	"github.com/garagebuddy/garagebuddy/internal/errs"
	"github.com/garagebuddy/garagebuddy/internal/mail"
	"github.com/garagebuddy/garagebuddy/internal/model"
	"github.com/garagebuddy/garagebuddy/internal/permissions"
	"github.com/garagebuddy/garagebuddy/internal/repository"
)

// CheckoutConfig tunes checkout policy.
type CheckoutConfig struct {
	// AllowClosedCheckout permits attaching items after the sale is closed,
	// for settling lingering transactions from the sale's final day.
	AllowClosedCheckout bool
}

// CheckoutService defines transaction lifecycle operations.
type CheckoutService interface {
	// Create opens a transaction on a sale for a walk-in customer, optionally
	// selling an initial batch of items into it at their marked prices.
	Create(ctx context.Context, actor *model.User, saleID int, customerName string, customerEmail *string, itemIDs []int) (*model.Transaction, error)
	// Get loads a transaction.
	Get(ctx context.Context, id int) (*model.Transaction, error)
	// ListBySale returns a sale's transactions, newest first.
	ListBySale(ctx context.Context, saleID int) ([]model.Transaction, error)
	// AddItem sells an item into the transaction, optionally at a
	// negotiated price.
	AddItem(ctx context.Context, actor *model.User, txnID, itemID int, negotiated *float64) error
	// RemoveItem unsells an item from the transaction.
	RemoveItem(ctx context.Context, actor *model.User, txnID, itemID int) error
	// Delete detaches every item and removes the transaction.
	Delete(ctx context.Context, actor *model.User, txnID int) error
	// EmailReceipt sends the transaction receipt to the seller and, when the
	// customer email matches an account, to the customer.
	EmailReceipt(ctx context.Context, actor *model.User, txnID int) error
}

type CheckoutServiceImpl struct {
	txns   repository.TransactionRepository
	items  repository.ItemRepository
	sales  repository.SaleRepository
	users  repository.UserRepository
	mailer mail.Mailer
	stats  *cache.Cache
	cfg    CheckoutConfig
	log    *zap.Logger
}

// NewCheckoutService constructs CheckoutService with required dependencies.
// The stats cache may be nil when report caching is disabled.
func NewCheckoutService(
	txns repository.TransactionRepository,
	items repository.ItemRepository,
	sales repository.SaleRepository,
	users repository.UserRepository,
	mailer mail.Mailer,
	stats *cache.Cache,
	cfg CheckoutConfig,
	log *zap.Logger,
) *CheckoutServiceImpl {
	if log == nil {
		log = zap.NewNop()
	}
	return &CheckoutServiceImpl{
		txns: txns, items: items, sales: sales, users: users,
		mailer: mailer, stats: stats, cfg: cfg, log: log,
	}
}

// Create opens a transaction for a customer at the register. When initial
// item ids are given, each is sold in at its marked price and the aggregates
// are rebuilt from the attached set afterwards.
func (s *CheckoutServiceImpl) Create(ctx context.Context, actor *model.User, saleID int, customerName string, customerEmail *string, itemIDs []int) (*model.Transaction, error) {
	if customerName == "" {
		return nil, fmt.Errorf("%w: empty customer name", errs.ErrValidation)
	}
	sale, err := s.sales.GetByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if !permissions.CanCreateReceipts(sale, actor) {
		return nil, errs.ErrPermissionDenied
	}
	if err := s.checkOpen(sale); err != nil {
		return nil, err
	}
	txn := model.NewTransaction(sale, actor.Email, customerName)
	if customerEmail != nil {
		e := model.NormalizeEmail(*customerEmail)
		txn.CustomerEmail = &e
	}
	if err := s.txns.Create(ctx, txn); err != nil {
		return nil, err
	}
	for _, itemID := range itemIDs {
		if err := s.attach(ctx, txn, itemID, nil, actor.Email); err != nil {
			s.rollbackCreate(ctx, txn.ID)
			return nil, err
		}
	}
	if len(itemIDs) > 0 {
		if _, err := s.txns.RecomputeValue(ctx, txn.ID); err != nil {
			return nil, err
		}
		s.invalidateStats(ctx, txn.SaleID)
		return s.txns.GetByID(ctx, txn.ID)
	}
	return txn, nil
}

// Get loads a transaction.
func (s *CheckoutServiceImpl) Get(ctx context.Context, id int) (*model.Transaction, error) {
	return s.txns.GetByID(ctx, id)
}

// ListBySale returns a sale's transactions, newest first.
func (s *CheckoutServiceImpl) ListBySale(ctx context.Context, saleID int) ([]model.Transaction, error) {
	return s.txns.ListBySale(ctx, saleID)
}

// AddItem sells an item into the transaction. The item must belong to the
// transaction's sale, and a negotiated price must meet the item's minimum.
// The attach itself runs atomically in the repository so the transaction's
// aggregates always match its item set.
func (s *CheckoutServiceImpl) AddItem(ctx context.Context, actor *model.User, txnID, itemID int, negotiated *float64) error {
	txn, err := s.txns.GetByID(ctx, txnID)
	if err != nil {
		return err
	}
	sale, err := s.sales.GetByID(ctx, txn.SaleID)
	if err != nil {
		return err
	}
	if !permissions.CanSellItems(sale, actor) {
		return errs.ErrPermissionDenied
	}
	if err := s.checkOpen(sale); err != nil {
		return err
	}
	if err := s.attach(ctx, txn, itemID, negotiated, actor.Email); err != nil {
		return err
	}
	s.invalidateStats(ctx, txn.SaleID)
	return nil
}

// rollbackCreate unwinds a partially built initial batch: items attached so
// far are released and the fresh transaction row removed, so a failed Create
// leaves nothing sold.
func (s *CheckoutServiceImpl) rollbackCreate(ctx context.Context, txnID int) {
	if _, err := s.txns.DetachAll(ctx, txnID); err != nil {
		s.log.Warn("checkout rollback: detach items", zap.Int("transaction_id", txnID), zap.Error(err))
		return
	}
	if err := s.txns.Delete(ctx, txnID); err != nil {
		s.log.Warn("checkout rollback: delete transaction", zap.Int("transaction_id", txnID), zap.Error(err))
	}
}

// attach validates sale membership and the price floor, then delegates the
// atomic attach to the repository.
func (s *CheckoutServiceImpl) attach(ctx context.Context, txn *model.Transaction, itemID int, negotiated *float64, soldBy string) error {
	it, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return err
	}
	if it.SaleID == nil || *it.SaleID != txn.SaleID {
		return errs.ErrItemNotInSale
	}
	price, err := it.SellingPrice(negotiated)
	if err != nil {
		return err
	}
	return s.txns.AttachItem(ctx, txn.ID, itemID, price, soldBy)
}

// RemoveItem unsells an item, clearing its purchased state and restoring its
// pre-sale price metadata to editable.
func (s *CheckoutServiceImpl) RemoveItem(ctx context.Context, actor *model.User, txnID, itemID int) error {
	txn, err := s.txns.GetByID(ctx, txnID)
	if err != nil {
		return err
	}
	sale, err := s.sales.GetByID(ctx, txn.SaleID)
	if err != nil {
		return err
	}
	if !permissions.CanSellItems(sale, actor) {
		return errs.ErrPermissionDenied
	}
	if err := s.txns.DetachItem(ctx, txnID, itemID); err != nil {
		return err
	}
	s.invalidateStats(ctx, txn.SaleID)
	return nil
}

// Delete detaches all items first, then removes the transaction, so an item
// row can never point at a vanished transaction.
func (s *CheckoutServiceImpl) Delete(ctx context.Context, actor *model.User, txnID int) error {
	txn, err := s.txns.GetByID(ctx, txnID)
	if err != nil {
		return err
	}
	sale, err := s.sales.GetByID(ctx, txn.SaleID)
	if err != nil {
		return err
	}
	if !permissions.CanCreateReceipts(sale, actor) {
		return errs.ErrPermissionDenied
	}
	if _, err := s.txns.DetachAll(ctx, txnID); err != nil {
		return err
	}
	if err := s.txns.Delete(ctx, txnID); err != nil {
		return err
	}
	s.invalidateStats(ctx, txn.SaleID)
	return nil
}

// EmailReceipt sends the receipt for a completed transaction. Delivery
// happens in the background; failures are logged, not surfaced.
func (s *CheckoutServiceImpl) EmailReceipt(ctx context.Context, actor *model.User, txnID int) error {
	txn, err := s.txns.GetByID(ctx, txnID)
	if err != nil {
		return err
	}
	sale, err := s.sales.GetByID(ctx, txn.SaleID)
	if err != nil {
		return err
	}
	if !permissions.CanCreateReceipts(sale, actor) {
		return errs.ErrPermissionDenied
	}
	items, err := s.items.ListByTransaction(ctx, txnID)
	if err != nil {
		return err
	}
	seller, err := s.users.GetByEmail(ctx, txn.SellerEmail)
	if err != nil {
		return err
	}
	var customer *model.User
	if txn.CustomerEmail != nil {
		// receipt still goes out when the customer has no account
		customer, _ = s.users.GetByEmail(ctx, *txn.CustomerEmail)
	}

	to, subject, body := mail.Receipt(sale, txn, items, seller, customer)
	go func() {
		if err := s.mailer.Send(context.Background(), to, subject, body); err != nil {
			s.log.Warn("receipt email failed",
				zap.Int("transaction_id", txn.ID),
				zap.Error(err))
		}
	}()
	return nil
}

// checkOpen rejects checkout mutations on a closed sale unless policy allows
// settling after close.
func (s *CheckoutServiceImpl) checkOpen(sale *model.Sale) error {
	if sale.Closed && !s.cfg.AllowClosedCheckout {
		return errs.ErrSaleClosed
	}
	return nil
}

// invalidateStats drops the sale's cached daily statistics after a checkout
// mutation. Best effort.
func (s *CheckoutServiceImpl) invalidateStats(ctx context.Context, saleID int) {
	if s.stats == nil {
		return
	}
	if err := s.stats.Delete(ctx, cache.StatsKey(saleID)); err != nil {
		s.log.Warn("stats cache invalidation failed",
			zap.Int("sale_id", saleID),
			zap.Error(err))
	}
}
