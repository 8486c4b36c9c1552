package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/autostock/dealership-api/internal/core/domain"
)

// RBAC enforces role-based access control. The request passes when the token
// carries at least one of allowedRoles.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, _ := c.Get(ClaimsKey).(*domain.SessionClaims)
			if claims == nil || !claims.HasAnyRole(allowedRoles...) {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
