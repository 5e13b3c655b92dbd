// Package cursor provides opaque pagination token encoding/decoding.
package cursor

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"github.com/goccy/go-json"
)

// Cursor represents the internal state of an offset pagination token.
type Cursor struct {
	// Offset is the number of rows to skip.
	Offset int `json:"off"`
	// FilterHash ensures tokens are invalidated if the filter changes.
	FilterHash string `json:"filter_hash,omitempty"`
	// OrderHash ensures tokens are invalidated if the ordering changes.
	OrderHash string `json:"order_hash,omitempty"`
}

// New builds a cursor at offset bound to filter and orderBy.
func New(offset int, filter, orderBy string) Cursor {
	return Cursor{
		Offset:     offset,
		FilterHash: HashFilter(filter),
		OrderHash:  HashFilter(orderBy),
	}
}

// Encode encodes a cursor to an opaque base64 string.
func Encode(c Cursor) (string, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("marshal cursor: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(data), nil
}

// Decode decodes an opaque base64 string to a cursor.
func Decode(token string) (Cursor, error) {
	if token == "" {
		return Cursor{}, fmt.Errorf("empty token")
	}
	data, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, fmt.Errorf("decode base64: %w", err)
	}
	var c Cursor
	if err := json.Unmarshal(data, &c); err != nil {
		return Cursor{}, fmt.Errorf("unmarshal cursor: %w", err)
	}
	if c.Offset < 0 {
		return Cursor{}, fmt.Errorf("invalid cursor offset: %d", c.Offset)
	}
	return c, nil
}

// HashFilter computes a short hash of the filter string for cursor validation.
// Returns empty string for empty filter.
func HashFilter(filter string) string {
	if filter == "" {
		return ""
	}
	h := sha256.Sum256([]byte(filter))
	return hex.EncodeToString(h[:8])
}

// Validate checks that c was issued for the same filter and ordering.
func Validate(c Cursor, filter, orderBy string) error {
	if c.FilterHash != HashFilter(filter) {
		return fmt.Errorf("filter changed since cursor was created")
	}
	if c.OrderHash != HashFilter(orderBy) {
		return fmt.Errorf("order changed since cursor was created")
	}
	return nil
}

// Resolve decodes token for filter and orderBy and returns its offset. An
// empty token starts at zero.
func Resolve(token, filter, orderBy string) (int, error) {
	if token == "" {
		return 0, nil
	}
	c, err := Decode(token)
	if err != nil {
		return 0, err
	}
	if err := Validate(c, filter, orderBy); err != nil {
		return 0, err
	}
	return c.Offset, nil
}

// Token encodes a cursor at offset, returning "" for offsets at or before
// the first page.
func Token(offset int, filter, orderBy string) (string, error) {
	if offset <= 0 {
		return "", nil
	}
	return Encode(New(offset, filter, orderBy))
}
