package domain

import "time"

const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleSeller  = "seller"
)

// ValidRole reports whether role is one the system knows about.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleManager, RoleSeller:
		return true
	}
	return false
}

// Account is an identity capable of authenticating.
type Account struct {
	ID                  string
	Email               string
	PasswordHash        string
	Name                string
	Role                string
	Roles               []string
	Active              bool
	FailedLoginAttempts int
	LastLoginAttempt    *time.Time
	LastLoginAt         *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
	DeletedAt           *time.Time
}

// RoleSet returns the primary role followed by the additional roles, without
// duplicates or empty entries.
func (a *Account) RoleSet() []string {
	seen := make(map[string]struct{}, len(a.Roles)+1)
	out := make([]string, 0, len(a.Roles)+1)
	for _, r := range append([]string{a.Role}, a.Roles...) {
		if r == "" {
			continue
		}
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}

// IsLocked reports whether the account is inside an active lockout window at
// now: at least maxAttempts failures and the last one less than window ago.
func (a *Account) IsLocked(now time.Time, maxAttempts int, window time.Duration) bool {
	if a.FailedLoginAttempts < maxAttempts || a.LastLoginAttempt == nil {
		return false
	}
	return now.Sub(*a.LastLoginAttempt) < window
}

// Summary returns the public view of the account.
func (a *Account) Summary() AccountSummary {
	return AccountSummary{
		ID:          a.ID,
		Email:       a.Email,
		Name:        a.Name,
		Role:        a.Role,
		Roles:       a.RoleSet(),
		Active:      a.Active,
		LastLoginAt: a.LastLoginAt,
		CreatedAt:   a.CreatedAt,
	}
}

// AccountSummary is an Account without credential material.
type AccountSummary struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	Role        string     `json:"role"`
	Roles       []string   `json:"roles"`
	Active      bool       `json:"active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// SessionClaims is the payload carried by a session token.
type SessionClaims struct {
	AccountID string
	Email     string
	Roles     []string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// HasAnyRole reports whether the claims carry at least one of roles.
func (c *SessionClaims) HasAnyRole(roles ...string) bool {
	for _, have := range c.Roles {
		for _, want := range roles {
			if have == want {
				return true
			}
		}
	}
	return false
}
