package dispatch

import (
	"log/slog"
)

// Stats reports how much one enable pass accelerated. Only slots that moved
// from generic to a plugin implementation during the pass are counted.
type Stats struct {
	Modules   int
	Functions int
}

// Enable accelerates every registered module for the detected tier.
func (c *Context) Enable() Stats {
	return c.enable(c.Capability())
}

// EnableTier accelerates every registered module as if the processor were
// classified at tier t. The hint is not checked against the hardware.
func (c *Context) EnableTier(t Tier) Stats {
	return c.enable(c.Capability().WithTier(t))
}

func (c *Context) enable(code Code) Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	var stats Stats
	failed := make(map[string]error)

	c.registry.ForEach(func(m *Module) bool {
		touched := false
		for _, s := range m.slots {
			if c.patch(s, code, failed) {
				stats.Functions++
				touched = true
			}
		}
		if touched {
			stats.Modules++
		}
		return true
	})

	c.sweep()
	c.enabled = true
	c.metrics.enablePasses.Inc()
	c.observe()
	c.logger.Info("optimized mode enabled",
		slog.String("capability", code.String()),
		slog.Int("modules", stats.Modules),
		slog.Int("functions", stats.Functions),
		slog.Int("plugins", len(c.plugins)))
	return stats
}

// patch resolves one slot and reports whether it went from generic to bound.
func (c *Context) patch(s Binding, code Code, failed map[string]error) bool {
	var admitted []LibraryRef
	for _, ref := range s.Libraries() {
		if code.Admits(ref.Tier) {
			admitted = append(admitted, ref)
		}
	}
	if len(admitted) == 0 {
		return false
	}

	prev, wasBound := s.Resolution()
	for _, ref := range admitted {
		h, ok := c.acquire(ref.Name, failed)
		if !ok {
			continue
		}
		for _, sym := range s.Symbols() {
			if wasBound && prev == (Resolution{Library: ref.Name, Symbol: sym}) {
				return false
			}
			if err := s.bind(h.lib, sym); err != nil {
				c.metrics.symbolMisses.WithLabelValues(ref.Name).Inc()
				c.logger.Debug("symbol not bound",
					slog.String("slot", s.Name()),
					slog.String("library", ref.Name),
					slog.String("symbol", sym),
					slog.Any("error", err))
				continue
			}
			h.refs++
			if wasBound {
				c.dropRef(prev.Library)
				return false
			}
			return true
		}
	}

	// Admitted libraries exist but none resolved: back to generic.
	c.unbind(s)
	return false
}

func (c *Context) dropRef(library string) {
	if h, ok := c.plugins[library]; ok && h.refs > 0 {
		h.refs--
	}
}

// Disable resets every slot to its generic implementation and releases every
// plugin library. It never fails and is safe without a prior Enable.
func (c *Context) Disable() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.registry.ForEach(func(m *Module) bool {
		for _, s := range m.slots {
			s.reset()
		}
		return true
	})
	c.releaseAll()
	c.enabled = false
	c.metrics.disablePasses.Inc()
	c.observe()
	c.logger.Info("optimized mode disabled")
}

// observe publishes the current binding state. Callers hold c.mu.
func (c *Context) observe() {
	modules, functions := 0, 0
	c.registry.ForEach(func(m *Module) bool {
		bound := 0
		for _, s := range m.slots {
			if _, ok := s.Resolution(); ok {
				bound++
			}
		}
		functions += bound
		if bound > 0 {
			modules++
		}
		return true
	})
	c.metrics.observeState(modules, functions, len(c.plugins))
}
