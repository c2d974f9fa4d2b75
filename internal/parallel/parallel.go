// Package parallel runs index ranges across the threads allowed by the
// dispatch thread-count setting.
package parallel

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-accel/dispatch"
)

// Func processes the half-open index range [lo, hi). ctx carries the worker
// index, readable with dispatch.ThreadID.
type Func func(ctx context.Context, lo, hi int) error

// For splits [0, n) into contiguous ranges, one per worker, and runs fn on
// each. The worker count is dc's thread count (the default context when dc is
// nil), capped at n. The first error cancels the context passed to the
// remaining workers and is returned.
func For(ctx context.Context, dc *dispatch.Context, n int, fn Func) error {
	if n <= 0 {
		return nil
	}
	if dc == nil {
		dc = dispatch.Default()
	}
	return Run(ctx, dc.ThreadCount(), n, fn)
}

// Run is For with an explicit worker count.
func Run(ctx context.Context, workers, n int, fn Func) error {
	if n <= 0 {
		return nil
	}
	workers = max(min(workers, n), 1)
	if workers == 1 {
		return fn(dispatch.WithThreadID(ctx, 0), 0, n)
	}

	g, gctx := errgroup.WithContext(ctx)
	for w := range workers {
		lo, hi := bounds(w, workers, n)
		wctx := dispatch.WithThreadID(gctx, w)
		g.Go(func() error {
			if err := wctx.Err(); err != nil {
				return err
			}
			return fn(wctx, lo, hi)
		})
	}
	return g.Wait()
}

func bounds(w, workers, n int) (int, int) {
	return w * n / workers, (w + 1) * n / workers
}
