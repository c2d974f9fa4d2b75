package dispatch

import (
	"log/slog"

	"github.com/cwbudde/algo-accel/internal/dynlib"
)

// pluginHandle is an open plugin library shared by every slot bound into it.
type pluginHandle struct {
	name string
	lib  dynlib.Library
	refs int
}

// acquire returns the cached handle for name, loading it on first use.
// Load failures are remembered in failed for the rest of the pass.
func (c *Context) acquire(name string, failed map[string]error) (*pluginHandle, bool) {
	if h, ok := c.plugins[name]; ok {
		return h, true
	}
	if _, ok := failed[name]; ok {
		return nil, false
	}

	lib, err := dynlib.Chain{c.static, c.loader}.Open(name)
	if err != nil {
		failed[name] = err
		c.metrics.loadFailures.WithLabelValues(name).Inc()
		c.logger.Debug("plugin load failed", slog.String("library", name), slog.Any("error", err))
		return nil, false
	}

	h := &pluginHandle{name: name, lib: lib}
	c.plugins[name] = h
	c.logger.Debug("plugin loaded", slog.String("library", name))
	return h, true
}

// unbind resets s to generic and drops its reference on the library it was
// bound to.
func (c *Context) unbind(s Binding) {
	res, ok := s.Resolution()
	s.reset()
	if !ok {
		return
	}
	if h, ok := c.plugins[res.Library]; ok && h.refs > 0 {
		h.refs--
	}
}

// sweep releases every handle no slot depends on.
func (c *Context) sweep() {
	for name, h := range c.plugins {
		if h.refs > 0 {
			continue
		}
		c.release(h)
		delete(c.plugins, name)
	}
}

// releaseAll releases every handle regardless of references. Callers must
// have reset the slots first.
func (c *Context) releaseAll() {
	for name, h := range c.plugins {
		c.release(h)
		delete(c.plugins, name)
	}
}

func (c *Context) release(h *pluginHandle) {
	if err := h.lib.Close(); err != nil {
		c.logger.Warn("plugin close failed", slog.String("library", h.name), slog.Any("error", err))
		return
	}
	c.logger.Debug("plugin released", slog.String("library", h.name))
}
