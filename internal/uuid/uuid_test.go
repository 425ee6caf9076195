// Package uuid tests for UUID generation and validation.
package uuid

import "testing"

func TestNew_producesValidV4(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := New()
		if !IsValid(id) {
			t.Fatalf("New() = %q, not a valid UUID v4", id)
		}
		if seen[id] {
			t.Fatalf("New() produced duplicate %q", id)
		}
		seen[id] = true
	}
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"valid v4", "123e4567-e89b-42d3-a456-426614174000", true},
		{"wrong version", "123e4567-e89b-12d3-a456-426614174000", false},
		{"no dashes", "123e4567e89b42d3a456426614174000", false},
		{"empty", "", false},
		{"garbage", "not-a-uuid", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValid(tt.input); got != tt.want {
				t.Errorf("IsValid(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	if err := Validate(New()); err != nil {
		t.Errorf("Validate(New()) error = %v", err)
	}
	if err := Validate("bogus"); err == nil {
		t.Error("Validate should reject malformed input")
	}
}
