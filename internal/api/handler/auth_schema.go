package handler

import (
	"time"

	"github.com/autostock/dealership-api/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token     string                `json:"token"`
	ExpiresAt time.Time             `json:"expires_at"`
	User      domain.AccountSummary `json:"user"`
}

type validateRequest struct {
	Token string `json:"token"`
}

type claimsResponse struct {
	AccountID string    `json:"account_id"`
	Email     string    `json:"email"`
	Roles     []string  `json:"roles"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

type validateResponse struct {
	Valid  bool           `json:"valid"`
	Claims claimsResponse `json:"claims"`
}

type registerRequest struct {
	Email    string   `json:"email"    validate:"required,email"`
	Password string   `json:"password" validate:"required,min=8,max=72"`
	Name     string   `json:"name"     validate:"required,max=120"`
	Role     string   `json:"role"     validate:"required,oneof=admin manager seller"`
	Roles    []string `json:"roles"    validate:"omitempty,dive,oneof=admin manager seller"`
}

func toClaimsResponse(c *domain.SessionClaims) claimsResponse {
	roles := c.Roles
	if roles == nil {
		roles = []string{}
	}
	return claimsResponse{
		AccountID: c.AccountID,
		Email:     c.Email,
		Roles:     roles,
		IssuedAt:  c.IssuedAt.UTC(),
		ExpiresAt: c.ExpiresAt.UTC(),
	}
}
