package commands

import (
	"errors"
	"testing"
)

func TestParseTaskRef_Position(t *testing.T) {
	ref, err := ParseTaskRef([]string{"5"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ref.IsPosition() {
		t.Error("expected a position")
	}
	if ref.Num != 5 {
		t.Errorf("expected Num 5, got %d", ref.Num)
	}
}

func TestParseTaskRef_ID(t *testing.T) {
	ref, err := ParseTaskRef([]string{"3f2b9c1e-77aa-4d0e-9a51-0c2d6e8f4b10"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.IsPosition() {
		t.Error("expected an ID")
	}
	if ref.ID != "3f2b9c1e-77aa-4d0e-9a51-0c2d6e8f4b10" {
		t.Errorf("unexpected ID %q", ref.ID)
	}
}

func TestParseTaskRef_TrimsWhitespace(t *testing.T) {
	ref, err := ParseTaskRef([]string{"  12 "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.Num != 12 {
		t.Errorf("expected Num 12, got %d", ref.Num)
	}
}

func TestParseTaskRef_ZeroIsAPosition(t *testing.T) {
	// Range checks happen against the listing, not here.
	ref, err := ParseTaskRef([]string{"0"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ref.IsPosition() || ref.Num != 0 {
		t.Errorf("unexpected ref %+v", ref)
	}
}

func TestParseTaskRef_Errors(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{"nil", nil, "task reference required"},
		{"blank", []string{"   "}, "task reference required"},
		{"two args", []string{"a", "b"}, "invalid task reference: a b"},
		{"inner space", []string{"a b"}, "invalid task reference: a b"},
		{"overflow", []string{"99999999999999999999"}, "invalid task reference: 99999999999999999999"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTaskRef(tt.args)
			if err == nil {
				t.Fatal("expected error")
			}
			if err.Error() != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, err.Error())
			}
		})
	}
}

func TestParseTaskRef_RequiredIsSentinel(t *testing.T) {
	_, err := ParseTaskRef(nil)
	if !errors.Is(err, ErrTaskRefRequired) {
		t.Errorf("expected ErrTaskRefRequired, got %v", err)
	}
}

func TestIsAllDigits(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"", false},
		{"0", true},
		{"123", true},
		{"12a", false},
		{"-1", false},
	}
	for _, tt := range tests {
		if got := isAllDigits(tt.in); got != tt.want {
			t.Errorf("isAllDigits(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
