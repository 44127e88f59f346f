// Package model defines domain entities used by services and repositories.
package model

import (
	"strings"
	"time"
)

// MaxLoginAttempts is the number of consecutive failed logins after which an
// account locks until a super user resets the counter.
const MaxLoginAttempts = 3

// User is an account. Email is the identity and is compared case-insensitively;
// repositories store it normalized.
type User struct {
	Email          string // PK, normalized lowercase
	Name           string
	PasswordDigest string // opaque digest from the crypto package
	Address        string
	City           string
	State          string
	PostalCode     string
	SuperUser      bool
	LoginAttempts  int
	CreatedAt      time.Time
}

// NormalizeEmail lowercases and trims an email for use as a compare key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Locked reports whether the account has exhausted its login attempts.
func (u *User) Locked() bool {
	return u.LoginAttempts >= MaxLoginAttempts
}
