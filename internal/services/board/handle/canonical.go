// Package handle canonicalizes and validates board user handles.
package handle

import (
	"errors"
	"regexp"
	"strings"
)

var canonicalPattern = regexp.MustCompile(`^[a-z][a-z0-9._-]{2,31}$`)

var (
	// ErrRequired is returned for blank handles.
	ErrRequired = errors.New("handle is required")
	// ErrNotASCII is returned for handles with non-ASCII bytes.
	ErrNotASCII = errors.New("handle must be ASCII")
	// ErrFormat is returned for handles outside the accepted pattern.
	ErrFormat = errors.New("handle must start with a letter and use 3 to 32 letters, digits, '.', '_' or '-'")
)

// Canonicalize normalizes a handle to lowercase ASCII and validates policy.
func Canonicalize(input string) (string, error) {
	input = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(input), "@"))
	if input == "" {
		return "", ErrRequired
	}

	var builder strings.Builder
	builder.Grow(len(input))
	for i := 0; i < len(input); i++ {
		ch := input[i]
		if ch > 0x7f {
			return "", ErrNotASCII
		}
		if ch >= 'A' && ch <= 'Z' {
			ch = ch - 'A' + 'a'
		}
		builder.WriteByte(ch)
	}

	canonical := builder.String()
	if !canonicalPattern.MatchString(canonical) {
		return "", ErrFormat
	}
	return canonical, nil
}
