// Package ratelimit paces calls against an external provider's request
// quota. The orchestrator only depends on Gate, so the quota value and its
// coupling to one vendor can be swapped without touching pipeline logic.
package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Gate blocks until the next call is allowed to proceed.
type Gate interface {
	Wait(ctx context.Context) error
}

// IntervalGate enforces a minimum delay between consecutive calls.
type IntervalGate struct {
	mu    sync.Mutex
	last  time.Time
	delay time.Duration
}

func NewIntervalGate(delay time.Duration) *IntervalGate {
	return &IntervalGate{delay: delay}
}

// Wait blocks until at least the configured delay has passed since the
// previous call, or returns early when the context is cancelled.
func (g *IntervalGate) Wait(ctx context.Context) error {
	g.mu.Lock()
	now := time.Now()

	if g.last.IsZero() || now.Sub(g.last) >= g.delay {
		g.last = now
		g.mu.Unlock()
		return nil
	}

	remaining := g.delay - now.Sub(g.last)
	g.mu.Unlock()

	select {
	case <-ctx.Done():
		return fmt.Errorf("rate gate wait: %w", ctx.Err())
	case <-time.After(remaining):
	}

	g.mu.Lock()
	g.last = time.Now()
	g.mu.Unlock()

	return nil
}
