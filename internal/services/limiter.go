// Per-endpoint request throttling for the search proxy
package services

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// RateConfig is the request budget for one endpoint.
type RateConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// DefaultRateConfig returns the budget applied to endpoints without an
// explicit limit.
func DefaultRateConfig() RateConfig {
	return RateConfig{RequestsPerSecond: 4, Burst: 4}
}

// EndpointLimiter throttles requests per endpoint path, so a burst of
// airport lookups while typing cannot starve a running search and the
// proxy stays inside its upstream quota.
type EndpointLimiter struct {
	mu       sync.RWMutex
	limiters map[string]*rate.Limiter
	defaults RateConfig
}

// NewEndpointLimiter creates a limiter that applies defaults to every
// endpoint not configured through SetLimit.
func NewEndpointLimiter(defaults RateConfig) *EndpointLimiter {
	return &EndpointLimiter{
		limiters: make(map[string]*rate.Limiter),
		defaults: defaults,
	}
}

func (e *EndpointLimiter) get(endpoint string) *rate.Limiter {
	e.mu.RLock()
	limiter, ok := e.limiters[endpoint]
	e.mu.RUnlock()

	if ok {
		return limiter
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if limiter, ok = e.limiters[endpoint]; ok {
		return limiter
	}

	limiter = rate.NewLimiter(rate.Limit(e.defaults.RequestsPerSecond), e.defaults.Burst)
	e.limiters[endpoint] = limiter
	return limiter
}

// SetLimit replaces the budget for one endpoint. Burst is raised to 1
// when lower, since a zero burst would block the endpoint entirely.
func (e *EndpointLimiter) SetLimit(endpoint string, rps float64, burst int) {
	if burst < 1 {
		burst = 1
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.limiters[endpoint] = rate.NewLimiter(rate.Limit(rps), burst)
}

// Wait blocks until the endpoint's budget allows one request or the
// context ends.
func (e *EndpointLimiter) Wait(ctx context.Context, endpoint string) error {
	return e.get(endpoint).Wait(ctx)
}
