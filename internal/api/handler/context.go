package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/autostock/dealership-api/internal/api/middleware"
	"github.com/autostock/dealership-api/internal/core/domain"
)

// ctxClaims extracts the session claims injected by the Auth middleware.
// Missing claims mean the route was mounted without Auth, so the request is
// treated as unauthenticated.
func ctxClaims(c echo.Context) (*domain.SessionClaims, error) {
	claims, _ := c.Get(middleware.ClaimsKey).(*domain.SessionClaims)
	if claims == nil || claims.AccountID == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return claims, nil
}
