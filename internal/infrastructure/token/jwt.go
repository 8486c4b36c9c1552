package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/autostock/dealership-api/internal/core/domain"
)

const defaultTTL = 24 * time.Hour

// Claims is the JWT body of a session token.
type Claims struct {
	AccountID string   `json:"account_id"`
	Email     string   `json:"email"`
	Roles     []string `json:"roles"`
	jwt.RegisteredClaims
}

// JWTIssuer signs session tokens with HS256.
type JWTIssuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTIssuer returns an issuer for secret. A non-positive ttl falls back to
// 24 hours.
func NewJWTIssuer(secret, issuer string, ttl time.Duration) (*JWTIssuer, error) {
	if secret == "" {
		return nil, errors.New("token: empty signing secret")
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &JWTIssuer{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Issue signs the claims and returns them with IssuedAt and ExpiresAt set.
func (j *JWTIssuer) Issue(c domain.SessionClaims) (string, *domain.SessionClaims, error) {
	now := j.now().UTC().Truncate(time.Second)
	exp := now.Add(j.ttl)

	claims := Claims{
		AccountID: c.AccountID,
		Email:     c.Email,
		Roles:     c.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   c.AccountID,
			Issuer:    j.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}

	c.IssuedAt = now
	c.ExpiresAt = exp
	return signed, &c, nil
}

// Verify checks signature, algorithm, issuer and expiry. Any failure is
// reported as domain.ErrInvalidToken.
func (j *JWTIssuer) Verify(tokenString string) (*domain.SessionClaims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	}
	if j.issuer != "" {
		opts = append(opts, jwt.WithIssuer(j.issuer))
	}

	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return j.secret, nil
	}, opts...)
	if err != nil || !tkn.Valid {
		return nil, domain.ErrInvalidToken
	}
	if claims.AccountID == "" {
		return nil, domain.ErrInvalidToken
	}

	out := &domain.SessionClaims{
		AccountID: claims.AccountID,
		Email:     claims.Email,
		Roles:     claims.Roles,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}
