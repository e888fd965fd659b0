// Package ratelimit paces outbound provider calls.
package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacer blocks until the next call is allowed.
type Pacer interface {
	Wait(ctx context.Context) error
}

// Gate is a fixed-interval pacer: the first call passes immediately, each
// later call waits until interval has elapsed since the previous one.
type Gate struct {
	interval time.Duration
	limiter  *rate.Limiter
}

// NewGate returns a gate that admits one call per interval.
// A non-positive interval disables pacing.
func NewGate(interval time.Duration) *Gate {
	lim := rate.NewLimiter(rate.Inf, 1)
	if interval > 0 {
		lim = rate.NewLimiter(rate.Every(interval), 1)
	}
	return &Gate{interval: interval, limiter: lim}
}

func (g *Gate) Wait(ctx context.Context) error {
	return g.limiter.Wait(ctx)
}

// Interval returns the configured spacing between calls.
func (g *Gate) Interval() time.Duration { return g.interval }

// Unlimited never blocks. Used by tests and by callers that pace elsewhere.
type Unlimited struct{}

func (Unlimited) Wait(ctx context.Context) error { return ctx.Err() }
