package domain

import (
	"errors"
	"testing"
)

func TestAuthorize(t *testing.T) {
	cases := []struct {
		name     string
		role     string
		accepted []string
		wantErr  bool
	}{
		{"admin passes every check", RoleAdmin, []string{RoleCashier}, false},
		{"admin passes empty set", RoleAdmin, nil, false},
		{"cashier allowed", RoleCashier, []string{RoleCashier, RoleEmployee}, false},
		{"employee not in set", RoleEmployee, []string{RoleCashier}, true},
		{"cashier rejected by admin-only", RoleCashier, nil, true},
		{"unknown role rejected", "guest", []string{RoleCashier}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Authorize(tc.role, tc.accepted...)
			if tc.wantErr && !errors.Is(err, ErrForbidden) {
				t.Fatalf("expected ErrForbidden, got %v", err)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidRole(t *testing.T) {
	for _, role := range []string{RoleAdmin, RoleCashier, RoleEmployee} {
		if !ValidRole(role) {
			t.Fatalf("role %q should be valid", role)
		}
	}
	if ValidRole("superuser") {
		t.Fatal("unknown role accepted")
	}
}
