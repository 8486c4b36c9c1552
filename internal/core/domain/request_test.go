package domain

import (
	"context"
	"testing"
)

func TestClientIP(t *testing.T) {
	if got := ClientIP(context.Background()); got != "" {
		t.Fatalf("expected empty ip, got %q", got)
	}

	ctx := WithClientIP(context.Background(), "203.0.113.7")
	if got := ClientIP(ctx); got != "203.0.113.7" {
		t.Fatalf("expected stored ip, got %q", got)
	}
}
