package domain

import (
	"errors"
	"testing"
)

func TestParseRole(t *testing.T) {
	cases := []struct {
		in   string
		want Role
	}{
		{"buyer", RoleBuyer},
		{" Seller ", RoleSeller},
	}
	for _, tc := range cases {
		got, err := ParseRole(tc.in)
		if err != nil {
			t.Fatalf("ParseRole(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseRole(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}

	if _, err := ParseRole("admin"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown role, got %v", err)
	}
	if Role("admin").Valid() || !RoleBuyer.Valid() {
		t.Fatalf("unexpected Valid results")
	}
}

func TestOrderStatusValid(t *testing.T) {
	if !OrderStatusPending.Valid() || !OrderStatusCompleted.Valid() {
		t.Fatalf("expected known statuses to be valid")
	}
	if OrderStatus("shipped").Valid() {
		t.Fatalf("expected unknown status to be invalid")
	}
}
