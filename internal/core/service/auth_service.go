package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/crypto/bcrypt"

	"github.com/autostock/dealership-api/internal/api/metrics"
	"github.com/autostock/dealership-api/internal/core/domain"
	"github.com/autostock/dealership-api/internal/core/ports"
)

const tracerName = "github.com/autostock/dealership-api/internal/core/service"

const (
	defaultMaxLoginAttempts = 5
	defaultLockoutWindow    = 15 * time.Minute
)

// LockoutPolicy controls when repeated failures lock an account.
type LockoutPolicy struct {
	MaxAttempts int
	Window      time.Duration
}

// AuthService implements login, token validation and account registration.
type AuthService struct {
	repo       ports.AccountRepository
	tokens     ports.TokenIssuer
	audit      ports.AuditRecorder
	policy     LockoutPolicy
	bcryptCost int
	log        zerolog.Logger
	now        func() time.Time
}

func NewAuthService(
	repo ports.AccountRepository,
	tokens ports.TokenIssuer,
	audit ports.AuditRecorder,
	policy LockoutPolicy,
	bcryptCost int,
	log zerolog.Logger,
) *AuthService {
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = defaultMaxLoginAttempts
	}
	if policy.Window <= 0 {
		policy.Window = defaultLockoutWindow
	}
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{
		repo:       repo,
		tokens:     tokens,
		audit:      audit,
		policy:     policy,
		bcryptCost: bcryptCost,
		log:        log,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Authenticate verifies email and password against the stored account,
// applies the lockout policy and issues a session token on success.
//
// The password check runs before the lockout check, so a wrong password
// during a lockout still reports ErrInvalidCredentials, while a correct one
// reports ErrAccountLocked.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "AuthService.Authenticate")
	defer span.End()

	result, err := s.authenticate(ctx, email, password)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
	}
	return result, err
}

func (s *AuthService) authenticate(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	if email == "" || password == "" {
		s.recordLogin(ctx, "", email, "invalid_credentials", "missing credentials")
		return nil, domain.ErrInvalidCredentials
	}

	account, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			s.log.Warn().Str("email", email).Msg("login failed: unknown email")
			s.recordLogin(ctx, "", email, "invalid_credentials", "unknown email")
			return nil, domain.ErrInvalidCredentials
		}
		metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("authenticate: find account: %w: %v", domain.ErrDependencyUnavailable, err)
	}

	if !account.Active {
		s.log.Warn().Str("account_id", account.ID).Msg("login failed: account inactive")
		s.recordLogin(ctx, account.ID, email, "inactive", "account inactive")
		return nil, domain.ErrAccountInactive
	}

	now := s.now()

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		attempts, err := s.repo.RecordFailedLogin(ctx, account.ID, now, s.policy.Window)
		if err != nil {
			metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
			return nil, fmt.Errorf("authenticate: record failed login: %w: %v", domain.ErrDependencyUnavailable, err)
		}
		if attempts == s.policy.MaxAttempts {
			metrics.AccountLockoutsTotal.Inc()
		}
		s.log.Warn().
			Str("account_id", account.ID).
			Int("failed_attempts", attempts).
			Msg("login failed: wrong password")
		s.recordLogin(ctx, account.ID, email, "invalid_credentials", "wrong password")
		return nil, domain.ErrInvalidCredentials
	}

	if account.IsLocked(now, s.policy.MaxAttempts, s.policy.Window) {
		s.log.Warn().
			Str("account_id", account.ID).
			Int("failed_attempts", account.FailedLoginAttempts).
			Msg("login failed: account locked")
		s.recordLogin(ctx, account.ID, email, "locked", "account locked")
		return nil, domain.ErrAccountLocked
	}

	if err := s.repo.ResetFailedLogins(ctx, account.ID, now); err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("authenticate: reset failed logins: %w: %v", domain.ErrDependencyUnavailable, err)
	}
	account.FailedLoginAttempts = 0
	account.LastLoginAttempt = &now
	account.LastLoginAt = &now

	token, claims, err := s.tokens.Issue(domain.SessionClaims{
		AccountID: account.ID,
		Email:     account.Email,
		Roles:     account.RoleSet(),
	})
	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("authenticate: issue token: %w", err)
	}

	s.log.Info().Str("account_id", account.ID).Msg("login succeeded")
	s.recordLogin(ctx, account.ID, email, "success", "")

	return &ports.LoginResult{
		Token:     token,
		ExpiresAt: claims.ExpiresAt,
		Account:   account.Summary(),
	}, nil
}

// ValidateToken verifies the signature and expiry of a session token.
func (s *AuthService) ValidateToken(ctx context.Context, token string) (*domain.SessionClaims, error) {
	_, span := otel.Tracer(tracerName).Start(ctx, "AuthService.ValidateToken")
	defer span.End()

	claims, err := s.tokens.Verify(token)
	if err != nil {
		metrics.TokenValidationsTotal.WithLabelValues("invalid").Inc()
		s.log.Debug().Err(err).Msg("token rejected")
		span.SetStatus(codes.Error, "invalid token")
		return nil, domain.ErrInvalidToken
	}
	metrics.TokenValidationsTotal.WithLabelValues("valid").Inc()
	span.SetAttributes(attribute.String("account.id", claims.AccountID))
	return claims, nil
}

// Register creates a new active account with a bcrypt password hash.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.AccountSummary, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "AuthService.Register")
	defer span.End()

	email := strings.TrimSpace(in.Email)
	if email == "" || in.Password == "" || !domain.ValidRole(in.Role) {
		return nil, fmt.Errorf("register: %w", domain.ErrInvalidInput)
	}
	for _, r := range in.Roles {
		if !domain.ValidRole(r) {
			return nil, fmt.Errorf("register: unknown role %q: %w", r, domain.ErrInvalidInput)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	now := s.now()
	created, err := s.repo.Create(ctx, &domain.Account{
		Email:        email,
		PasswordHash: string(hash),
		Name:         in.Name,
		Role:         in.Role,
		Roles:        in.Roles,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, domain.ErrAccountExists) {
			return nil, err
		}
		return nil, fmt.Errorf("register: %w: %v", domain.ErrDependencyUnavailable, err)
	}

	s.log.Info().Str("account_id", created.ID).Str("role", created.Role).Msg("account registered")
	s.audit.Record(domain.AuditEntry{
		Actor:     in.Actor,
		Action:    domain.AuditAccountRegistered,
		Entity:    domain.EntityAccount,
		EntityID:  created.ID,
		Details:   map[string]string{"email": created.Email, "role": created.Role},
		IPAddress: domain.ClientIP(ctx),
		Timestamp: now,
	})

	summary := created.Summary()
	return &summary, nil
}

func (s *AuthService) recordLogin(ctx context.Context, accountID, email, outcome, reason string) {
	metrics.LoginAttemptsTotal.WithLabelValues(outcome).Inc()

	action := domain.AuditLoginFailed
	details := map[string]string{"email": email, "outcome": outcome}
	if outcome == "success" {
		action = domain.AuditLoginSucceeded
	} else {
		details["reason"] = reason
	}
	s.audit.Record(domain.AuditEntry{
		Actor:     accountID,
		Action:    action,
		Entity:    domain.EntityAccount,
		EntityID:  accountID,
		Details:   details,
		IPAddress: domain.ClientIP(ctx),
		Timestamp: s.now(),
	})
}
