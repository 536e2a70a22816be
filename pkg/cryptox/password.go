package cryptox

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// DefaultPasswordCost is the bcrypt work factor used when none is configured.
const DefaultPasswordCost = 12

// ErrPasswordMismatch is returned by VerifyPassword when the password does not
// match the stored hash.
var ErrPasswordMismatch = errors.New("password does not match")

// HashPassword returns a bcrypt hash of password using the given cost. A cost
// outside bcrypt's accepted range falls back to DefaultPasswordCost.
//
// bcrypt only considers the first 72 bytes of input; longer passwords are
// rejected rather than silently truncated.
func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), normalizeCost(cost))
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword compares a plaintext password against a bcrypt hash.
// It returns ErrPasswordMismatch on mismatch and a wrapped error when the hash
// itself is malformed.
func VerifyPassword(password, encodedHash string) error {
	err := bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return ErrPasswordMismatch
	default:
		return fmt.Errorf("verify password: %w", err)
	}
}

// decoyHashes caches one throwaway hash per bcrypt cost.
var decoyHashes sync.Map // map[int][]byte

func decoyHash(cost int) []byte {
	cost = normalizeCost(cost)
	if h, ok := decoyHashes.Load(cost); ok {
		return h.([]byte)
	}

	h, _ := bcrypt.GenerateFromPassword([]byte("accounts-timing-equaliser"), cost)
	actual, _ := decoyHashes.LoadOrStore(cost, h)
	return actual.([]byte)
}

// BurnPasswordCheck performs a throwaway bcrypt comparison at cost, so that
// an unknown identifier costs roughly the same as a wrong password.
func BurnPasswordCheck(password string, cost int) {
	_ = bcrypt.CompareHashAndPassword(decoyHash(cost), []byte(password))
}

func normalizeCost(cost int) int {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return DefaultPasswordCost
	}
	return cost
}
