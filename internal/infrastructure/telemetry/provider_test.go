package telemetry

import (
	"context"
	"testing"
)

func TestSetup_NoopWhenDisabled(t *testing.T) {
	shutdown, err := Setup(context.Background(), Options{
		Enabled:     false,
		Endpoint:    "http://localhost:4318",
		ServiceName: "dealership-api",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestSetup_NoopWhenEndpointEmpty(t *testing.T) {
	shutdown, err := Setup(context.Background(), Options{Enabled: true, ServiceName: "dealership-api"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := shutdown(ctx); err != nil {
		t.Fatalf("noop shutdown should not error: %v", err)
	}
}

func TestSetup_CreatesProviderWhenEnabled(t *testing.T) {
	// Non-routable address so no export completes.
	shutdown, err := Setup(context.Background(), Options{
		Enabled:     true,
		Endpoint:    "http://192.0.2.1:4318",
		ServiceName: "dealership-api",
		Environment: "test",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}
