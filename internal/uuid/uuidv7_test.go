package uuid

import (
	"testing"

	googleuuid "github.com/google/uuid"
)

func TestNewIsVersion7(t *testing.T) {
	id := New()
	parsed, err := googleuuid.Parse(id)
	if err != nil {
		t.Fatalf("New() returned invalid uuid %q: %v", id, err)
	}
	if parsed.Version() != 7 {
		t.Errorf("version = %d, want 7", parsed.Version())
	}
}

func TestNewIsTimeOrdered(t *testing.T) {
	prev := New()
	for i := 0; i < 100; i++ {
		next := New()
		if next < prev {
			t.Fatalf("uuid %q sorted before previous %q", next, prev)
		}
		prev = next
	}
}

func TestParseAndIsValid(t *testing.T) {
	tests := []struct {
		in    string
		valid bool
	}{
		{"0190b1c2-7a3e-7c4d-8e5f-0123456789ab", true},
		{"0190B1C2-7A3E-7C4D-8E5F-0123456789AB", true},
		{"not-a-uuid", false},
		{"", false},
		{"42", false},
	}
	for _, tt := range tests {
		if got := IsValid(tt.in); got != tt.valid {
			t.Errorf("IsValid(%q) = %v, want %v", tt.in, got, tt.valid)
		}
	}

	normalized, err := Parse("0190B1C2-7A3E-7C4D-8E5F-0123456789AB")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if normalized != "0190b1c2-7a3e-7c4d-8e5f-0123456789ab" {
		t.Errorf("Parse did not lowercase: %q", normalized)
	}
}
