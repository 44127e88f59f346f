package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/garagebuddy/garagebuddy/internal/errs"
	"github.com/garagebuddy/garagebuddy/internal/model"
)

// UserRepo implements UserRepository using PostgreSQL.
type UserRepo struct{ db *DB }

// NewUserRepo constructs a user repository.
func NewUserRepo(db *DB) *UserRepo { return &UserRepo{db: db} }

const userColumns = `email, name, password_digest, address, city, state, postal_code, super_user, login_attempts, created_at`

// Create inserts a new user row. Emails are stored lowercased.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	const q = `
INSERT INTO users (email, name, password_digest, address, city, state, postal_code, super_user)
VALUES (lower($1), $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.Pool.Exec(ctx, q,
		u.Email, u.Name, u.PasswordDigest, u.Address, u.City, u.State, u.PostalCode, u.SuperUser)
	if isUniqueViolation(err) {
		return errs.ErrAlreadyExists
	}
	return err
}

// GetByEmail selects a user by email, case-insensitively.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	const q = `
SELECT ` + userColumns + `
FROM users WHERE email = lower($1)`
	row := r.db.Pool.QueryRow(ctx, q, email)
	var u model.User
	if err := row.Scan(&u.Email, &u.Name, &u.PasswordDigest, &u.Address, &u.City, &u.State,
		&u.PostalCode, &u.SuperUser, &u.LoginAttempts, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Update persists profile fields and the password digest.
func (r *UserRepo) Update(ctx context.Context, u *model.User) error {
	const q = `
UPDATE users
SET name=$2, password_digest=$3, address=$4, city=$5, state=$6, postal_code=$7
WHERE email = lower($1)`
	tag, err := r.db.Pool.Exec(ctx, q,
		u.Email, u.Name, u.PasswordDigest, u.Address, u.City, u.State, u.PostalCode)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// SetSuperUser flips the system-wide super-user flag.
func (r *UserRepo) SetSuperUser(ctx context.Context, email string, super bool) error {
	const q = `UPDATE users SET super_user=$2 WHERE email = lower($1)`
	tag, err := r.db.Pool.Exec(ctx, q, email, super)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// Delete removes the account row. Accounts still referenced by item or
// transaction rows are kept so sold-item records stay auditable.
func (r *UserRepo) Delete(ctx context.Context, email string) error {
	const q = `DELETE FROM users WHERE email = lower($1)`
	tag, err := r.db.Pool.Exec(ctx, q, email)
	if isForeignKeyViolation(err) {
		return errs.ErrAccountInUse
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// List returns all users ordered by email.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	const q = `
SELECT ` + userColumns + `
FROM users ORDER BY email`
	rows, err := r.db.Pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.Email, &u.Name, &u.PasswordDigest, &u.Address, &u.City, &u.State,
			&u.PostalCode, &u.SuperUser, &u.LoginAttempts, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
