package ports

import (
	"context"
	"time"

	"github.com/autostock/dealership-api/internal/core/domain"
)

// RegisterInput carries the data needed to create an account.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Role     string
	Roles    []string
	Actor    string
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Account   domain.AccountSummary
}

// AuthService authenticates accounts and validates session tokens.
type AuthService interface {
	Authenticate(ctx context.Context, email, password string) (*LoginResult, error)
	ValidateToken(ctx context.Context, token string) (*domain.SessionClaims, error)
	Register(ctx context.Context, input RegisterInput) (*domain.AccountSummary, error)
}
