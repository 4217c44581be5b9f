// Package view holds per-page state: URL-synchronized parameters and the
// latest fetch result, guarded against out-of-order completions.
package view

import (
	"context"
	"sync"
	"sync/atomic"

	"solana-token-desk/internal/observability"
)

// Controller owns one page's parameters and fetched data. Every Refresh
// carries a monotonically increasing generation; a completion whose
// generation is no longer current is discarded, so a slow old response can
// never overwrite the state a newer request produced.
type Controller[P, R any] struct {
	fetch func(context.Context, P) (R, error)

	gen atomic.Uint64

	mu     sync.Mutex
	params P
	result R
	err    error
	loaded bool
}

// NewController builds a controller around a fetch function.
func NewController[P, R any](fetch func(context.Context, P) (R, error)) *Controller[P, R] {
	return &Controller[P, R]{fetch: fetch}
}

// Refresh sets the parameters, runs the fetch and returns its result. The
// shared snapshot is only updated when no newer Refresh started in the
// meantime. The returned value always belongs to this call's parameters,
// so pagination replaces the visible items rather than merging pages.
func (c *Controller[P, R]) Refresh(ctx context.Context, params P) (R, error) {
	gen := c.gen.Add(1)

	result, err := c.fetch(ctx, params)

	if c.gen.Load() != gen {
		// A newer request has been issued; its result wins regardless of
		// arrival order.
		observability.RecordStaleResponseDropped()
		return result, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen.Load() != gen {
		observability.RecordStaleResponseDropped()
		return result, err
	}
	c.params = params
	c.result = result
	c.err = err
	c.loaded = true
	return result, err
}

// Snapshot returns the latest committed parameters, result and error.
// loaded is false until the first Refresh commits.
func (c *Controller[P, R]) Snapshot() (params P, result R, err error, loaded bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.params, c.result, c.err, c.loaded
}
