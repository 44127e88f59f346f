package repository

import (
	"context"

	"github.com/garagebuddy/garagebuddy/internal/model"
)

// SaleRepository provides access to sales and their member maps.
type SaleRepository interface {
	// Create inserts a new sale and fills in its generated id.
	Create(ctx context.Context, s *model.Sale) error
	// GetByID loads a sale including its member map.
	GetByID(ctx context.Context, id int) (*model.Sale, error)
	// Update persists name, dates, closed flag and the member map.
	Update(ctx context.Context, s *model.Sale) error
	// Delete removes the sale row. Items and transactions must be deleted
	// first; the cascade is orchestrated by the service.
	Delete(ctx context.Context, id int) error
	// List returns all sales ordered by start date.
	List(ctx context.Context) ([]model.Sale, error)
}
