// Package service contains application services for accounts, sales, items,
// checkout and reporting.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	pkgcrypto "github.com/garagebuddy/garagebuddy/internal/crypto"
	"github.com/garagebuddy/garagebuddy/internal/errs"
	"github.com/garagebuddy/garagebuddy/internal/limiter"
	"github.com/garagebuddy/garagebuddy/internal/model"
	"github.com/garagebuddy/garagebuddy/internal/permissions"
	"github.com/garagebuddy/garagebuddy/internal/repository"
)

// ProfileUpdate carries the editable profile fields. Nil pointers leave the
// current value unchanged.
type ProfileUpdate struct {
	Name        *string
	Address     *string
	City        *string
	State       *string
	PostalCode  *string
	NewPassword *string
}

// AuthService defines account and authentication operations.
type AuthService interface {
	// Register creates a new account with secure password hashing.
	Register(ctx context.Context, email, name, password string) (*model.User, error)
	// Login authenticates an email/password pair under the failed-attempt
	// limit and issues an access token.
	Login(ctx context.Context, email, password string) (model.Tokens, *model.User, error)
	// Authenticate resolves a bearer token to its account.
	Authenticate(ctx context.Context, token string) (*model.User, error)
	// UpdateProfile edits the actor's own profile; changing the password
	// requires the current one.
	UpdateProfile(ctx context.Context, actor *model.User, currentPassword string, upd ProfileUpdate) error
	// SetSuperUser grants or revokes system-wide super-user status.
	SetSuperUser(ctx context.Context, actor *model.User, email string, super bool) error
	// ResetLoginAttempts unlocks an account that exhausted its logins.
	ResetLoginAttempts(ctx context.Context, actor *model.User, email string) error
	// DeleteAccount removes the actor's own account after verifying the
	// current password.
	DeleteAccount(ctx context.Context, actor *model.User, currentPassword string) error
	// GetUser loads an account by email.
	GetUser(ctx context.Context, email string) (*model.User, error)
	// Seed ensures the bootstrap super-user account exists.
	Seed(ctx context.Context, email, name, password string) error
}

type AuthServiceImpl struct {
	users     repository.UserRepository
	lim       limiter.Limiter
	signKey   []byte
	accessTTL time.Duration
}

// NewAuthService constructs AuthService with required dependencies.
func NewAuthService(users repository.UserRepository, lim limiter.Limiter, signKey []byte, accessTTL time.Duration) *AuthServiceImpl {
	return &AuthServiceImpl{users: users, lim: lim, signKey: signKey, accessTTL: accessTTL}
}

// Register creates a new account with a fresh password digest.
func (s *AuthServiceImpl) Register(ctx context.Context, email, name, password string) (*model.User, error) {
	email = model.NormalizeEmail(email)
	if email == "" || name == "" || password == "" {
		return nil, fmt.Errorf("%w: empty email, name or password", errs.ErrValidation)
	}
	digest, err := pkgcrypto.HashPassword(password)
	if err != nil {
		return nil, err
	}
	u := &model.User{
		Email:          email,
		Name:           name,
		PasswordDigest: digest,
		CreatedAt:      time.Now(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login authenticates under the per-account failed-attempt limit. After the
// third consecutive failure the account locks until a super user resets it.
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (model.Tokens, *model.User, error) {
	email = model.NormalizeEmail(email)

	allowed, err := s.lim.Allow(ctx, email)
	if err != nil {
		return model.Tokens{}, nil, err
	}
	if !allowed {
		return model.Tokens{}, nil, errs.ErrAccountLocked
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil || !pkgcrypto.VerifyPassword(password, u.PasswordDigest) {
		if locked, ferr := s.lim.Failure(ctx, email); ferr == nil && locked {
			return model.Tokens{}, nil, errs.ErrAccountLocked
		}
		// hide whether the account exists
		return model.Tokens{}, nil, errs.ErrUnauthorized
	}

	_ = s.lim.Success(ctx, email)

	access, exp, err := s.issueAccessToken(u.Email)
	if err != nil {
		return model.Tokens{}, nil, err
	}
	return model.Tokens{AccessToken: access, ExpiresAt: exp}, u, nil
}

// Authenticate parses and verifies a bearer token and loads its account.
func (s *AuthServiceImpl) Authenticate(ctx context.Context, token string) (*model.User, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errs.ErrUnauthorized
		}
		return s.signKey, nil
	})
	if err != nil || !parsed.Valid || claims.Subject == "" {
		return nil, errs.ErrUnauthorized
	}
	u, err := s.users.GetByEmail(ctx, claims.Subject)
	if err != nil {
		return nil, errs.ErrUnauthorized
	}
	return u, nil
}

// UpdateProfile edits the actor's profile. Any change requires the current
// password, matching the account-settings flow.
func (s *AuthServiceImpl) UpdateProfile(ctx context.Context, actor *model.User, currentPassword string, upd ProfileUpdate) error {
	if !pkgcrypto.VerifyPassword(currentPassword, actor.PasswordDigest) {
		return errs.ErrUnauthorized
	}
	if upd.Name != nil {
		actor.Name = *upd.Name
	}
	if upd.Address != nil {
		actor.Address = *upd.Address
	}
	if upd.City != nil {
		actor.City = *upd.City
	}
	if upd.State != nil {
		actor.State = *upd.State
	}
	if upd.PostalCode != nil {
		actor.PostalCode = *upd.PostalCode
	}
	if upd.NewPassword != nil {
		if *upd.NewPassword == "" {
			return fmt.Errorf("%w: empty new password", errs.ErrValidation)
		}
		digest, err := pkgcrypto.HashPassword(*upd.NewPassword)
		if err != nil {
			return err
		}
		actor.PasswordDigest = digest
	}
	return s.users.Update(ctx, actor)
}

// SetSuperUser flips the system-wide super-user flag on an account.
func (s *AuthServiceImpl) SetSuperUser(ctx context.Context, actor *model.User, email string, super bool) error {
	if !permissions.CanSetSuperUser(actor) {
		return errs.ErrPermissionDenied
	}
	return s.users.SetSuperUser(ctx, model.NormalizeEmail(email), super)
}

// ResetLoginAttempts clears a locked account's counter.
func (s *AuthServiceImpl) ResetLoginAttempts(ctx context.Context, actor *model.User, email string) error {
	if !permissions.CanUnlockProfile(actor) {
		return errs.ErrPermissionDenied
	}
	return s.lim.Reset(ctx, model.NormalizeEmail(email))
}

// DeleteAccount removes the actor's account. Sale memberships keyed by the
// email simply stop resolving to an account.
func (s *AuthServiceImpl) DeleteAccount(ctx context.Context, actor *model.User, currentPassword string) error {
	if !pkgcrypto.VerifyPassword(currentPassword, actor.PasswordDigest) {
		return errs.ErrUnauthorized
	}
	return s.users.Delete(ctx, actor.Email)
}

// GetUser loads an account by email.
func (s *AuthServiceImpl) GetUser(ctx context.Context, email string) (*model.User, error) {
	return s.users.GetByEmail(ctx, model.NormalizeEmail(email))
}

// Seed ensures the bootstrap super user exists; safe to run on every start.
func (s *AuthServiceImpl) Seed(ctx context.Context, email, name, password string) error {
	email = model.NormalizeEmail(email)
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, errs.ErrNotFound) {
		return err
	}
	u, err := s.Register(ctx, email, name, password)
	if err != nil {
		if errors.Is(err, errs.ErrAlreadyExists) {
			return nil
		}
		return err
	}
	return s.users.SetSuperUser(ctx, u.Email, true)
}

// issueAccessToken creates a signed HS256 JWT with the email as subject.
func (s *AuthServiceImpl) issueAccessToken(email string) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(s.accessTTL)
	claims := jwt.RegisteredClaims{
		Subject:   email,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(s.signKey)
	return signed, exp, err
}
