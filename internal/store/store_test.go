package store

import (
	"testing"
)

func TestParseHash(t *testing.T) {
	const hex = "3b18e512dba79e4c8300dd08aeb37f8e728b8dad"

	h, err := ParseHash(hex)
	if err != nil {
		t.Fatalf("ParseHash failed: %v", err)
	}
	if got := h.String(); got != hex {
		t.Errorf("String() = %s, want %s", got, hex)
	}
	if h.IsZero() {
		t.Error("parsed hash reports IsZero")
	}
}

func TestParseHashErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"short", "3b18e512"},
		{"long", "3b18e512dba79e4c8300dd08aeb37f8e728b8dad00"},
		{"non-hex", "zz18e512dba79e4c8300dd08aeb37f8e728b8dad"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseHash(tt.in); err == nil {
				t.Errorf("ParseHash(%q) succeeded, want error", tt.in)
			}
		})
	}
}

func TestHashBytes(t *testing.T) {
	// SHA-1 of the empty string.
	const want = "da39a3ee5e6b4b0d3255bfef95601890afd80709"
	if got := HashBytes(nil).String(); got != want {
		t.Errorf("HashBytes(nil) = %s, want %s", got, want)
	}
}

func TestZeroHash(t *testing.T) {
	if !ZeroHash.IsZero() {
		t.Error("ZeroHash.IsZero() = false")
	}
	if got, want := ZeroHash.String(), "0000000000000000000000000000000000000000"; got != want {
		t.Errorf("ZeroHash.String() = %s, want %s", got, want)
	}
}
