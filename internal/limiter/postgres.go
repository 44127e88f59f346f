package limiter

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PG is a PostgreSQL-backed limiter over the users.login_attempts column. The
// counter lives on the user row so locks survive restarts and are visible to
// the unlock flow.
type PG struct {
	pool        pgxQuerier
	maxAttempts int
}

type pgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// NewPG constructs a PostgreSQL-backed limiter.
func NewPG(pool *pgxpool.Pool, maxAttempts int) *PG {
	return NewPGWithQuerier(pool, maxAttempts)
}

// NewPGWithQuerier constructs a PostgreSQL-backed limiter over any querier.
func NewPGWithQuerier(q pgxQuerier, maxAttempts int) *PG {
	if maxAttempts <= 0 {
		maxAttempts = MaxAttempts
	}
	return &PG{pool: q, maxAttempts: maxAttempts}
}

// Allow reports whether the account still has attempts left. Unknown accounts
// are allowed; the caller discovers the missing user during authentication.
func (l *PG) Allow(ctx context.Context, email string) (bool, error) {
	const q = `SELECT login_attempts FROM users WHERE email=$1`
	var attempts int
	err := l.pool.QueryRow(ctx, q, email).Scan(&attempts)
	switch err {
	case nil:
		return attempts < l.maxAttempts, nil
	case pgx.ErrNoRows:
		return true, nil
	default:
		return false, err
	}
}

// Failure increments the counter, capped at the ceiling, and reports whether
// the account is now locked.
func (l *PG) Failure(ctx context.Context, email string) (bool, error) {
	const q = `
UPDATE users
SET login_attempts = LEAST(login_attempts + 1, $2)
WHERE email = $1
RETURNING login_attempts`
	var attempts int
	err := l.pool.QueryRow(ctx, q, email, l.maxAttempts).Scan(&attempts)
	switch err {
	case nil:
		return attempts >= l.maxAttempts, nil
	case pgx.ErrNoRows:
		return false, nil
	default:
		return false, err
	}
}

// Success resets the counter after a successful login.
func (l *PG) Success(ctx context.Context, email string) error {
	return l.Reset(ctx, email)
}

// Reset clears the counter.
func (l *PG) Reset(ctx context.Context, email string) error {
	const q = `UPDATE users SET login_attempts = 0 WHERE email = $1`
	_, err := l.pool.Exec(ctx, q, email)
	return err
}
