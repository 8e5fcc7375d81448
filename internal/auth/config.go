package auth

import "time"

// Config carries the signing and hashing settings. It is built once at startup
// and handed to NewCredentials and NewTokens.
type Config struct {
	Secret     string
	Issuer     string
	TokenTTL   time.Duration
	BcryptCost int
}

const (
	defaultTokenTTL   = 24 * time.Hour
	defaultBcryptCost = 10
)
