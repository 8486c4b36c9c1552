package ports

import (
	"context"
	"time"

	"github.com/autostock/dealership-api/internal/core/domain"
)

// AccountRepository defines persistence for accounts and their login counters.
type AccountRepository interface {
	// FindByEmail returns domain.ErrAccountNotFound when no live account has
	// exactly this email.
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)

	// RecordFailedLogin atomically increments the failed-login counter and
	// stamps the attempt time. When the previous attempt is older than window
	// the counter restarts at 1. It returns the counter after the update.
	RecordFailedLogin(ctx context.Context, id string, at time.Time, window time.Duration) (int, error)

	// ResetFailedLogins sets the counter to zero and stamps both the attempt
	// time and the last successful login.
	ResetFailedLogins(ctx context.Context, id string, at time.Time) error
}
