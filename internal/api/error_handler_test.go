package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/autostock/dealership-api/internal/core/domain"
)

func TestHTTPErrorHandler(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid credentials"},
		{"inactive looks like bad credentials", domain.ErrAccountInactive, http.StatusUnauthorized, "invalid credentials"},
		{"locked looks like bad credentials", domain.ErrAccountLocked, http.StatusUnauthorized, "invalid credentials"},
		{"invalid token", domain.ErrInvalidToken, http.StatusUnauthorized, "invalid token"},
		{"record not found", fmt.Errorf("find: %w", domain.ErrRecordNotFound), http.StatusNotFound, "contract not found"},
		{"invalid input", fmt.Errorf("register document: file is empty: %w", domain.ErrInvalidInput), http.StatusBadRequest, "register document: file is empty: invalid input"},
		{"account exists", domain.ErrAccountExists, http.StatusConflict, "account already exists"},
		{"ledger conflict", fmt.Errorf("register document: ledger register c-1: %w", domain.ErrLedgerConflict), http.StatusConflict, "ledger already holds a different digest"},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden, "access forbidden"},
		{"dependency", fmt.Errorf("x: %w: timeout", domain.ErrDependencyUnavailable), http.StatusServiceUnavailable, "service temporarily unavailable"},
		{"echo error", echo.NewHTTPError(http.StatusTooManyRequests, "slow down"), http.StatusTooManyRequests, "slow down"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			NewHTTPErrorHandler(zerolog.Nop())(tt.err, c)

			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, rec.Code)
			}
			var body errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if body.Error != tt.wantMsg {
				t.Fatalf("expected message %q, got %q", tt.wantMsg, body.Error)
			}
		})
	}
}

func TestHTTPErrorHandler_LogsUnexpected(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/contracts", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(log)(errors.New("secret detail"), c)

	if strings.Contains(rec.Body.String(), "secret detail") {
		t.Fatal("internal error detail leaked to client")
	}
	if !strings.Contains(buf.String(), "secret detail") || !strings.Contains(buf.String(), `"method":"POST"`) {
		t.Fatalf("expected error to be logged with method, got %q", buf.String())
	}
}

func TestHTTPErrorHandler_SkipsCommittedResponse(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	_ = c.String(http.StatusOK, "done")

	NewHTTPErrorHandler(zerolog.Nop())(errors.New("late"), c)

	if rec.Code != http.StatusOK || rec.Body.String() != "done" {
		t.Fatalf("committed response was modified: %d %q", rec.Code, rec.Body.String())
	}
}
