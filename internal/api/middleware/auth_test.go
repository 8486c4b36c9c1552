package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/autostock/dealership-api/internal/core/domain"
)

type stubValidator struct {
	token  string
	claims *domain.SessionClaims
}

func (s *stubValidator) ValidateToken(_ context.Context, token string) (*domain.SessionClaims, error) {
	if token != s.token {
		return nil, domain.ErrInvalidToken
	}
	return s.claims, nil
}

func newValidator() *stubValidator {
	return &stubValidator{
		token: "good-token",
		claims: &domain.SessionClaims{
			AccountID: "acc-1",
			Email:     "alice@dealer.com",
			Roles:     []string{domain.RoleSeller},
		},
	}
}

func runAuth(t *testing.T, header string) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Auth(newValidator())(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, called
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Auth(newValidator())(func(c echo.Context) error {
		called = true
		if c.Get(AccountIDKey) != "acc-1" {
			t.Fatalf("account_id not set")
		}
		if c.Get(EmailKey) != "alice@dealer.com" {
			t.Fatalf("email not set")
		}
		roles, _ := c.Get(RolesKey).([]string)
		if len(roles) != 1 || roles[0] != domain.RoleSeller {
			t.Fatalf("roles not set: %v", roles)
		}
		if claims, _ := c.Get(ClaimsKey).(*domain.SessionClaims); claims == nil {
			t.Fatalf("claims not set")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	tests := map[string]string{
		"missing header":  "",
		"wrong scheme":    "Token good-token",
		"empty bearer":    "Bearer ",
		"invalid token":   "Bearer not-a-token",
		"no space":        "Bearergood-token",
		"basic auth":      "Basic YWxpY2U6c2VjcmV0",
		"token different": "Bearer good-token-2",
	}

	for name, header := range tests {
		t.Run(name, func(t *testing.T) {
			rec, called := runAuth(t, header)
			if called {
				t.Fatalf("should not reach next")
			}
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
		})
	}
}

func TestAuthMiddleware_SchemeIsCaseInsensitive(t *testing.T) {
	rec, called := runAuth(t, "bearer good-token")
	if !called || rec.Code != http.StatusOK {
		t.Fatalf("expected pass-through, got %d (called=%v)", rec.Code, called)
	}
}
