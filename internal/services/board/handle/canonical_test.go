package handle

import (
	"errors"
	"testing"
)

func TestCanonicalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{name: "lowercases", input: "  LiftQueen ", want: "liftqueen"},
		{name: "strips at sign", input: "@bench.press", want: "bench.press"},
		{name: "allows punctuation", input: "a_b-c.d", want: "a_b-c.d"},
		{name: "blank", input: "   ", wantErr: ErrRequired},
		{name: "only at sign", input: "@", wantErr: ErrRequired},
		{name: "non ascii", input: "jörg", wantErr: ErrNotASCII},
		{name: "too short", input: "ab", wantErr: ErrFormat},
		{name: "leading digit", input: "1abc", wantErr: ErrFormat},
		{name: "space inside", input: "two words", wantErr: ErrFormat},
		{name: "too long", input: "a23456789012345678901234567890123", wantErr: ErrFormat},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := Canonicalize(tc.input)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("Canonicalize(%q) error = %v, want %v", tc.input, err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Canonicalize(%q) error = %v", tc.input, err)
			}
			if got != tc.want {
				t.Fatalf("Canonicalize(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}
