package domain

import (
	"reflect"
	"testing"
	"time"
)

func TestAccount_IsLocked(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	ago := func(d time.Duration) *time.Time {
		ts := now.Add(-d)
		return &ts
	}

	cases := []struct {
		name     string
		attempts int
		last     *time.Time
		want     bool
	}{
		{"no failures", 0, nil, false},
		{"below threshold", 4, ago(time.Minute), false},
		{"at threshold inside window", 5, ago(time.Minute), true},
		{"above threshold inside window", 7, ago(14 * time.Minute), true},
		{"window elapsed", 5, ago(16 * time.Minute), false},
		{"exactly at window edge", 5, ago(15 * time.Minute), false},
		{"threshold without timestamp", 5, nil, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := &Account{FailedLoginAttempts: tc.attempts, LastLoginAttempt: tc.last}
			if got := a.IsLocked(now, 5, 15*time.Minute); got != tc.want {
				t.Fatalf("IsLocked = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestAccount_RoleSet(t *testing.T) {
	a := &Account{Role: RoleManager, Roles: []string{RoleSeller, RoleManager, "", RoleSeller}}
	want := []string{RoleManager, RoleSeller}
	if got := a.RoleSet(); !reflect.DeepEqual(got, want) {
		t.Fatalf("RoleSet = %v, want %v", got, want)
	}
}

func TestAccount_SummaryOmitsPasswordHash(t *testing.T) {
	a := &Account{ID: "1", Email: "a@x.com", PasswordHash: "hash", Role: RoleAdmin}
	s := a.Summary()
	if s.ID != "1" || s.Email != "a@x.com" {
		t.Fatalf("unexpected summary: %+v", s)
	}
	if !reflect.DeepEqual(s.Roles, []string{RoleAdmin}) {
		t.Fatalf("unexpected roles: %v", s.Roles)
	}
}

func TestSessionClaims_HasAnyRole(t *testing.T) {
	c := &SessionClaims{Roles: []string{RoleSeller}}
	if !c.HasAnyRole(RoleAdmin, RoleSeller) {
		t.Fatal("expected seller to match")
	}
	if c.HasAnyRole(RoleAdmin) {
		t.Fatal("seller must not match admin")
	}
}
