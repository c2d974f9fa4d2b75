package dispatch

import (
	"context"
	"sync"
)

// threadState is the clamped thread-count setting consumed by parallel code.
type threadState struct {
	once   sync.Once
	detect func() int
	procs  int
	count  int
}

func (t *threadState) init() {
	t.once.Do(func() {
		n := 1
		if t.detect != nil {
			n = t.detect()
		}
		t.procs = max(n, 1)
		t.count = t.procs
	})
}

// SetThreadCount sets how many threads parallel code may use. n <= 0 selects
// every processor; larger values are clamped to the processor count.
func (c *Context) SetThreadCount(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.threads.init()
	if n <= 0 {
		c.threads.count = c.threads.procs
		return
	}
	c.threads.count = min(n, c.threads.procs)
}

// ThreadCount returns the effective thread count, in [1, ProcessorCount()].
func (c *Context) ThreadCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.threads.init()
	return c.threads.count
}

// ProcessorCount returns the processor count detected on first use.
func (c *Context) ProcessorCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.threads.init()
	return c.threads.procs
}

type threadIDKey struct{}

// WithThreadID returns a context carrying the worker index id. Parallel
// runtimes call it for every worker they start.
func WithThreadID(ctx context.Context, id int) context.Context {
	return context.WithValue(ctx, threadIDKey{}, id)
}

// ThreadID returns the worker index carried by ctx, or 0 outside a
// parallel region.
func ThreadID(ctx context.Context) int {
	if ctx == nil {
		return 0
	}
	if id, ok := ctx.Value(threadIDKey{}).(int); ok {
		return id
	}
	return 0
}

// SetThreadCount sets the thread count of the default context.
func SetThreadCount(n int) { Default().SetThreadCount(n) }

// ThreadCount returns the thread count of the default context.
func ThreadCount() int { return Default().ThreadCount() }
