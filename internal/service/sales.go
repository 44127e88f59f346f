package service

import (
	"context"
	"fmt"
	"time"

	"github.com/garagebuddy/garagebuddy/internal/errs"
	"github.com/garagebuddy/garagebuddy/internal/model"
	"github.com/garagebuddy/garagebuddy/internal/permissions"
	"github.com/garagebuddy/garagebuddy/internal/repository"
)

// SaleUpdate carries the editable sale fields. Nil pointers leave the current
// value unchanged; StartDate and EndDate move together.
type SaleUpdate struct {
	Name      *string
	StartDate *time.Time
	EndDate   *time.Time
}

// SaleService defines sale lifecycle and membership operations.
type SaleService interface {
	// Create opens a new sale with the actor as its administrator.
	Create(ctx context.Context, actor *model.User, name string, start, end time.Time) (*model.Sale, error)
	// Get loads a sale.
	Get(ctx context.Context, id int) (*model.Sale, error)
	// List returns all sales ordered by start date.
	List(ctx context.Context) ([]model.Sale, error)
	// Update edits a sale's name and dates. Closed sales are frozen.
	Update(ctx context.Context, actor *model.User, id int, upd SaleUpdate) (*model.Sale, error)
	// Close permanently freezes a sale.
	Close(ctx context.Context, actor *model.User, id int) error
	// AssignRole grants a role on the sale to an existing account.
	AssignRole(ctx context.Context, actor *model.User, saleID int, email string, role model.Role) error
	// Members returns member emails with their roles.
	Members(ctx context.Context, actor *model.User, saleID int) (map[string]string, error)
	// AssignableRoles returns the role names the actor may offer on the sale.
	AssignableRoles(ctx context.Context, actor *model.User, saleID int) ([]string, error)
	// Sellers returns members ranked seller or above.
	Sellers(ctx context.Context, saleID int) ([]string, error)
	// Delete removes a sale with all of its items and transactions.
	Delete(ctx context.Context, actor *model.User, id int) error
}

type SaleServiceImpl struct {
	sales repository.SaleRepository
	items repository.ItemRepository
	txns  repository.TransactionRepository
	users repository.UserRepository
}

// NewSaleService constructs SaleService with required dependencies.
func NewSaleService(sales repository.SaleRepository, items repository.ItemRepository, txns repository.TransactionRepository, users repository.UserRepository) *SaleServiceImpl {
	return &SaleServiceImpl{sales: sales, items: items, txns: txns, users: users}
}

// Create opens a sale; the creator becomes its sale administrator.
func (s *SaleServiceImpl) Create(ctx context.Context, actor *model.User, name string, start, end time.Time) (*model.Sale, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty sale name", errs.ErrValidation)
	}
	sale, err := model.NewSale(name, start, end, actor.Email)
	if err != nil {
		return nil, err
	}
	if err := s.sales.Create(ctx, sale); err != nil {
		return nil, err
	}
	return sale, nil
}

// Get loads a sale.
func (s *SaleServiceImpl) Get(ctx context.Context, id int) (*model.Sale, error) {
	return s.sales.GetByID(ctx, id)
}

// List returns all sales ordered by start date.
func (s *SaleServiceImpl) List(ctx context.Context) ([]model.Sale, error) {
	return s.sales.List(ctx)
}

// Update edits name and dates. Any authenticated user may rename or
// reschedule an open sale; closing is what locks it down.
func (s *SaleServiceImpl) Update(ctx context.Context, actor *model.User, id int, upd SaleUpdate) (*model.Sale, error) {
	sale, err := s.sales.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if upd.Name != nil {
		if err := sale.Rename(*upd.Name); err != nil {
			return nil, err
		}
	}
	if upd.StartDate != nil || upd.EndDate != nil {
		start, end := sale.StartDate, sale.EndDate
		if upd.StartDate != nil {
			start = *upd.StartDate
		}
		if upd.EndDate != nil {
			end = *upd.EndDate
		}
		if err := sale.Reschedule(start, end); err != nil {
			return nil, err
		}
	}
	if err := s.sales.Update(ctx, sale); err != nil {
		return nil, err
	}
	return sale, nil
}

// Close permanently freezes the sale's name, dates and member roles.
func (s *SaleServiceImpl) Close(ctx context.Context, actor *model.User, id int) error {
	sale, err := s.sales.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !permissions.CanCloseSale(sale, actor) {
		return errs.ErrPermissionDenied
	}
	sale.Close()
	return s.sales.Update(ctx, sale)
}

// AssignRole grants a role on the sale. The grantee must hold an account, and
// a member holds exactly one role, so granting overwrites any previous one.
func (s *SaleServiceImpl) AssignRole(ctx context.Context, actor *model.User, saleID int, email string, role model.Role) error {
	sale, err := s.sales.GetByID(ctx, saleID)
	if err != nil {
		return err
	}
	if !permissions.CanAssignRole(sale, actor) {
		return errs.ErrPermissionDenied
	}
	if sale.Closed {
		return errs.ErrSaleClosed
	}
	if _, err := s.users.GetByEmail(ctx, model.NormalizeEmail(email)); err != nil {
		return err
	}
	sale.AddMember(email, role)
	return s.sales.Update(ctx, sale)
}

// Members returns the sale's member emails mapped to role display names.
func (s *SaleServiceImpl) Members(ctx context.Context, actor *model.User, saleID int) (map[string]string, error) {
	sale, err := s.sales.GetByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if !permissions.CanAssignRole(sale, actor) {
		return nil, errs.ErrPermissionDenied
	}
	out := make(map[string]string, len(sale.Members))
	for email, rank := range sale.Members {
		out[email] = model.RoleFromRank(rank).String()
	}
	return out, nil
}

// AssignableRoles lists the roles the actor may grant. Sale Administrator is
// offered only to actors who already hold it, so nobody self-escalates.
func (s *SaleServiceImpl) AssignableRoles(ctx context.Context, actor *model.User, saleID int) ([]string, error) {
	sale, err := s.sales.GetByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	return model.AssignableRoleNames(permissions.CanAssignRole(sale, actor)), nil
}

// Sellers returns members ranked seller or above.
func (s *SaleServiceImpl) Sellers(ctx context.Context, saleID int) ([]string, error) {
	sale, err := s.sales.GetByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	return sale.SellerEmails(), nil
}

// Delete removes the sale and everything attached to it. Items go first,
// then transactions, then the sale row, so no child row is ever orphaned.
func (s *SaleServiceImpl) Delete(ctx context.Context, actor *model.User, id int) error {
	sale, err := s.sales.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !permissions.CanCloseSale(sale, actor) {
		return errs.ErrPermissionDenied
	}
	if err := s.items.DeleteBySale(ctx, id); err != nil {
		return err
	}
	if err := s.txns.DeleteBySale(ctx, id); err != nil {
		return err
	}
	return s.sales.Delete(ctx, id)
}
