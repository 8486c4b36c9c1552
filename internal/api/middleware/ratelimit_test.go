package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

type stubLimiter struct {
	counts map[string]int
	err    error
}

func (l *stubLimiter) Allow(_ context.Context, key string, limit int, _ time.Duration) (bool, error) {
	if l.err != nil {
		return false, l.err
	}
	l.counts[key]++
	return l.counts[key] <= limit, nil
}

func doRequest(e *echo.Echo, h echo.HandlerFunc, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	req.Header.Set(echo.HeaderXRealIP, ip)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestRateLimit_BlocksAfterLimit(t *testing.T) {
	e := echo.New()
	limiter := &stubLimiter{counts: map[string]int{}}
	h := RateLimit(limiter, 2, time.Minute, zerolog.Nop())(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	for i := 0; i < 2; i++ {
		if rec := doRequest(e, h, "10.0.0.1"); rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, rec.Code)
		}
	}

	rec := doRequest(e, h, "10.0.0.1")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") != "60" {
		t.Fatalf("expected Retry-After 60, got %q", rec.Header().Get("Retry-After"))
	}

	if rec := doRequest(e, h, "10.0.0.2"); rec.Code != http.StatusOK {
		t.Fatalf("other client: expected 200, got %d", rec.Code)
	}
}

func TestRateLimit_FailsOpen(t *testing.T) {
	e := echo.New()
	limiter := &stubLimiter{err: errors.New("redis down")}
	called := 0
	h := RateLimit(limiter, 1, time.Minute, zerolog.Nop())(func(c echo.Context) error {
		called++
		return c.NoContent(http.StatusOK)
	})

	for i := 0; i < 3; i++ {
		if rec := doRequest(e, h, "10.0.0.1"); rec.Code != http.StatusOK {
			t.Fatalf("expected 200 while limiter is down, got %d", rec.Code)
		}
	}
	if called != 3 {
		t.Fatalf("expected 3 calls, got %d", called)
	}
}
