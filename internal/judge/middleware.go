package judge

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultRateLimit is 50 requests per minute.
	DefaultRateLimit = 50.0 / 60.0
	DefaultBurst     = 5
)

type rateLimited struct {
	next    Engine
	limiter *rate.Limiter
}

// WithRateLimit throttles calls to next. A non-positive rps disables it.
func WithRateLimit(next Engine, rps float64, burst int) Engine {
	if rps <= 0 {
		return next
	}
	if burst < 1 {
		burst = 1
	}
	return &rateLimited{next: next, limiter: rate.NewLimiter(rate.Limit(rps), burst)}
}

func (r *rateLimited) Evaluate(ctx context.Context, req *Request) (map[string]string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, invocationError(req, fmt.Errorf("rate limiter error: %w", err))
	}
	return r.next.Evaluate(ctx, req)
}

type timeLimited struct {
	next    Engine
	timeout time.Duration
}

// WithTimeout bounds every call to next. A non-positive timeout disables it.
func WithTimeout(next Engine, timeout time.Duration) Engine {
	if timeout <= 0 {
		return next
	}
	return &timeLimited{next: next, timeout: timeout}
}

func (t *timeLimited) Evaluate(ctx context.Context, req *Request) (map[string]string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	fields, err := t.next.Evaluate(ctx, req)
	if err != nil && ctx.Err() != nil {
		return nil, invocationError(req, fmt.Errorf("timed out after %s: %w", t.timeout, err))
	}
	return fields, err
}
