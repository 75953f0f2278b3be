package services

import (
	"context"
	"testing"
	"time"
)

func TestEndpointLimiter(t *testing.T) {
	t.Run("Allows Bursts Up Front", func(t *testing.T) {
		limiter := NewEndpointLimiter(RateConfig{RequestsPerSecond: 0.001, Burst: 2})
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		for i := 0; i < 2; i++ {
			if err := limiter.Wait(ctx, "/api/airports"); err != nil {
				t.Fatalf("expected burst capacity, got %v", err)
			}
		}
		if err := limiter.Wait(ctx, "/api/airports"); err == nil {
			t.Error("expected the context to expire before the next slot")
		}
	})

	t.Run("Endpoints Are Throttled Independently", func(t *testing.T) {
		limiter := NewEndpointLimiter(RateConfig{RequestsPerSecond: 0.001, Burst: 1})
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		if err := limiter.Wait(ctx, "/api/airports"); err != nil {
			t.Fatalf("expected the first call through, got %v", err)
		}
		if err := limiter.Wait(ctx, "/api/search"); err != nil {
			t.Errorf("expected a fresh budget per endpoint, got %v", err)
		}
	})

	t.Run("SetLimit Overrides The Default", func(t *testing.T) {
		limiter := NewEndpointLimiter(RateConfig{RequestsPerSecond: 0.001, Burst: 1})
		limiter.SetLimit("/api/airports", 100, 3)
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		for i := 0; i < 3; i++ {
			if err := limiter.Wait(ctx, "/api/airports"); err != nil {
				t.Fatalf("expected the raised burst, got %v", err)
			}
		}
	})

	t.Run("Raises Zero Burst", func(t *testing.T) {
		limiter := NewEndpointLimiter(DefaultRateConfig())
		limiter.SetLimit("/api/search", 0.5, 0)
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		if err := limiter.Wait(ctx, "/api/search"); err != nil {
			t.Errorf("expected one slot despite zero burst, got %v", err)
		}
	})
}
