package model

import "time"

// Tokens is the result of a successful login.
type Tokens struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}
