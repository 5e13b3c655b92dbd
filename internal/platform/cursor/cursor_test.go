package cursor

import "testing"

func TestTokenRoundTrip(t *testing.T) {
	t.Parallel()

	token, err := Token(20, "user:abc", "created_at desc")
	if err != nil {
		t.Fatalf("Token() error = %v", err)
	}
	if token == "" {
		t.Fatal("expected token for positive offset")
	}
	offset, err := Resolve(token, "user:abc", "created_at desc")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if offset != 20 {
		t.Fatalf("offset = %d, want 20", offset)
	}
}

func TestTokenFirstPageIsEmpty(t *testing.T) {
	t.Parallel()

	token, err := Token(0, "", "likes desc")
	if err != nil {
		t.Fatalf("Token() error = %v", err)
	}
	if token != "" {
		t.Fatalf("token = %q, want empty", token)
	}
	offset, err := Resolve("", "", "likes desc")
	if err != nil || offset != 0 {
		t.Fatalf("Resolve(empty) = (%d, %v), want (0, nil)", offset, err)
	}
}

func TestResolveRejectsMismatchedOrInvalidTokens(t *testing.T) {
	t.Parallel()

	token, err := Token(10, "user:abc", "created_at desc")
	if err != nil {
		t.Fatalf("Token() error = %v", err)
	}

	tests := []struct {
		name    string
		token   string
		filter  string
		orderBy string
	}{
		{name: "filter changed", token: token, filter: "user:def", orderBy: "created_at desc"},
		{name: "order changed", token: token, filter: "user:abc", orderBy: "likes desc"},
		{name: "not base64", token: "!!!", filter: "user:abc", orderBy: "created_at desc"},
		{name: "not json", token: "bm90LWpzb24", filter: "user:abc", orderBy: "created_at desc"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if _, err := Resolve(tc.token, tc.filter, tc.orderBy); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestDecodeRejectsNegativeOffset(t *testing.T) {
	t.Parallel()

	token, err := Encode(Cursor{Offset: -1})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if _, err := Decode(token); err == nil {
		t.Fatal("expected negative offset error")
	}
}
