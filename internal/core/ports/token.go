package ports

import "github.com/autostock/dealership-api/internal/core/domain"

// TokenIssuer signs and verifies session tokens.
type TokenIssuer interface {
	// Issue signs claims. IssuedAt and ExpiresAt are filled in by the issuer
	// and returned.
	Issue(claims domain.SessionClaims) (string, *domain.SessionClaims, error)
	// Verify returns domain.ErrInvalidToken on any signature or expiry failure.
	Verify(token string) (*domain.SessionClaims, error)
}
