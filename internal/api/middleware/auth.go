package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/autostock/dealership-api/internal/core/domain"
)

// Context keys set by Auth.
const (
	ClaimsKey    = "claims"
	AccountIDKey = "account_id"
	EmailKey     = "email"
	RolesKey     = "roles"
)

// TokenValidator is the part of the auth service the middleware needs.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*domain.SessionClaims, error)
}

// Auth validates the bearer token and injects its claims into the context.
func Auth(tokens TokenValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, err := BearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				return err
			}

			claims, err := tokens.ValidateToken(c.Request().Context(), raw)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set(ClaimsKey, claims)
			c.Set(AccountIDKey, claims.AccountID)
			c.Set(EmailKey, claims.Email)
			c.Set(RolesKey, claims.Roles)

			return next(c)
		}
	}
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, error) {
	if header == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
	}
	return strings.TrimSpace(parts[1]), nil
}
