// Package token generates opaque one-time tokens, used for account
// activation links.
package token

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// New returns a 64-character hex token backed by 32 bytes of crypto/rand.
func New() (string, error) {
	const op = "token.New"
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return hex.EncodeToString(buf), nil
}
