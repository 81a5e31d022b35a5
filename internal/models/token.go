package models

import "time"

// IssuedToken is a signed access token together with its expiry moment.
// Tokens are self contained and never persisted.
type IssuedToken struct {
	Value     string
	ExpiresAt time.Time
}
