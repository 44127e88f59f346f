// Package limiter bounds failed login attempts per account.
package limiter

import "context"

// MaxAttempts is the failed-attempt ceiling; reaching it locks the account
// until a super user resets the counter.
const MaxAttempts = 3

// Limiter tracks consecutive failed logins for an account.
type Limiter interface {
	// Allow reports whether login may proceed for the account.
	Allow(ctx context.Context, email string) (bool, error)
	// Failure records a failed attempt and reports whether the account is now locked.
	Failure(ctx context.Context, email string) (bool, error)
	// Success resets the counter after a successful login.
	Success(ctx context.Context, email string) error
	// Reset clears the counter; used by super users to unlock a profile.
	Reset(ctx context.Context, email string) error
}
