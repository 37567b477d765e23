package domain

import "time"

// Identity is the claim set carried by a session token. It is never persisted.
type Identity struct {
	Address   Address
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
