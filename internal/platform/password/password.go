// Package password hashes and verifies account passwords with argon2id.
package password

import (
	"errors"
	"fmt"

	"github.com/alexedwards/argon2id"
)

// MinLength is the shortest accepted password, in bytes.
const MinLength = 8

// ErrTooShort is returned for passwords under MinLength.
var ErrTooShort = fmt.Errorf("password must be at least %d characters", MinLength)

// ErrEmptyHash is returned when verifying against a missing hash.
var ErrEmptyHash = errors.New("password hash is required")

// Hasher creates and checks argon2id hashes.
type Hasher struct {
	params *argon2id.Params
}

// NewHasher returns a hasher using the library's default parameters.
func NewHasher() Hasher {
	return Hasher{params: argon2id.DefaultParams}
}

// NewHasherWithParams returns a hasher with explicit cost parameters.
func NewHasherWithParams(params *argon2id.Params) Hasher {
	return Hasher{params: params}
}

// Hash returns an encoded argon2id hash for plain.
func (h Hasher) Hash(plain string) (string, error) {
	if len(plain) < MinLength {
		return "", ErrTooShort
	}
	params := h.params
	if params == nil {
		params = argon2id.DefaultParams
	}
	hash, err := argon2id.CreateHash(plain, params)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return hash, nil
}

// Verify reports whether plain matches the encoded hash.
func (h Hasher) Verify(plain, hash string) (bool, error) {
	if hash == "" {
		return false, ErrEmptyHash
	}
	ok, err := argon2id.ComparePasswordAndHash(plain, hash)
	if err != nil {
		return false, fmt.Errorf("compare password: %w", err)
	}
	return ok, nil
}
