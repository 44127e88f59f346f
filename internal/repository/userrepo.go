// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"

	"github.com/garagebuddy/garagebuddy/internal/model"
)

// UserRepository provides CRUD access for accounts.
type UserRepository interface {
	// Create inserts a new user.
	Create(ctx context.Context, u *model.User) error
	// GetByEmail loads a user; the lookup is case-insensitive.
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// Update persists profile fields and the password digest.
	Update(ctx context.Context, u *model.User) error
	// SetSuperUser flips the system-wide super-user flag.
	SetSuperUser(ctx context.Context, email string, super bool) error
	// Delete removes the account. Cascades are caller-orchestrated.
	Delete(ctx context.Context, email string) error
	// List returns all users.
	List(ctx context.Context) ([]model.User, error)
}
