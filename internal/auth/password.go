package auth

import (
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

// Credentials hashes and verifies account passwords with bcrypt.
type Credentials struct {
	cost int
}

// NewCredentials creates a credential service with the configured cost.
// Out of range costs fall back to the default of 10.
func NewCredentials(cfg Config) *Credentials {
	cost := cfg.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = defaultBcryptCost
	}
	return &Credentials{cost: cost}
}

// Hash returns a salted bcrypt hash of plaintext. Two calls with the same input differ.
func (c *Credentials) Hash(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), c.cost)
	if err != nil {
		return "", errors.Wrap(err, "hashing password")
	}
	return string(hashed), nil
}

// Verify reports whether plaintext matches hashed. A malformed hash is a mismatch.
func (c *Credentials) Verify(plaintext, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plaintext)) == nil
}
