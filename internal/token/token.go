// Package token generates the opaque credentials used for magic links and
// session cookies.
package token

import (
	"crypto/rand"
	"fmt"
	"io"
)

const (
	// Length of every link and session key.
	Length = 32

	alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// New returns a 32-character alphanumeric token drawn uniformly from a
// 62-symbol alphabet (~190 bits), using crypto/rand. Collisions are not
// handled: at this entropy a collision means the RNG is broken, and the
// unique key constraint would surface it as an internal error.
func New() (string, error) {
	raw := make([]byte, Length)
	if _, err := io.ReadFull(rand.Reader, raw); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}

	// Rejection sampling keeps the distribution uniform: 62*4 = 248, so
	// bytes 248..255 are redrawn instead of biasing the low symbols.
	out := make([]byte, 0, Length)
	for len(out) < Length {
		for _, b := range raw {
			if b >= 248 {
				continue
			}
			out = append(out, alphabet[int(b)%len(alphabet)])
			if len(out) == Length {
				break
			}
		}
		if len(out) < Length {
			if _, err := io.ReadFull(rand.Reader, raw); err != nil {
				return "", fmt.Errorf("generate token: %w", err)
			}
		}
	}
	return string(out), nil
}
