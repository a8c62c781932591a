// Package jwt implements generation and parsing of admin session tokens.
//
// Claims carry the user id, the tenant the session is scoped to and the
// user role (admin or master).
package jwt

import (
	"time"
)

// Maker describes the interface for issuing and parsing session tokens.
type Maker interface {
	// GenerateToken issues a signed token for the given user, tenant and role.
	GenerateToken(userID, tenantID int, email, role string) (string, error)
	// ParseToken validates a token and returns its claims.
	ParseToken(tokenStr string) (*CustomClaims, error)
}

// MakerImpl implements Maker using an HS256 secret key and a token TTL.
type MakerImpl struct {
	secretKey string
	tokenTTL  time.Duration
}

// NewMaker creates a MakerImpl from the secret key and token TTL.
func NewMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}
