package dispatch

import (
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"sync"

	"github.com/cwbudde/algo-accel/internal/cpu"
	"github.com/cwbudde/algo-accel/internal/dynlib"
	"github.com/cwbudde/algo-accel/internal/tick"
)

// PluginPathEnv lists extra plugin directories for the default context,
// separated by the OS path list separator.
const PluginPathEnv = "ALGO_ACCEL_PLUGIN_PATH"

// Loader opens plugin libraries by base name.
type Loader = dynlib.Loader

// Library is an open plugin library.
type Library = dynlib.Library

// Context is the process-wide dispatch state: the module registry, the
// capability code, the tick source, the thread-count setting and the open
// plugin handles.
//
// Enable, Disable, Register, Deregister and SetThreadCount serialize on the
// context. Capability detection and processor counting run lazily, once.
type Context struct {
	mu sync.Mutex

	registry *Registry
	static   *dynlib.Static
	loader   dynlib.Loader
	logger   *slog.Logger
	metrics  *Metrics
	features func() cpu.Features

	capOnce sync.Once
	code    cpu.Code
	ticks   tick.Source

	threads threadState

	plugins map[string]*pluginHandle
	enabled bool
}

// Option configures a Context.
type Option func(*Context)

// WithLoader replaces the file-based plugin loaders. Statically linked
// accelerators (see Context.Static) are always consulted first.
func WithLoader(l Loader) Option {
	return func(c *Context) {
		if l != nil {
			c.loader = l
		}
	}
}

// WithSearchPaths sets the directories searched by the default file loaders.
func WithSearchPaths(dirs ...string) Option {
	return func(c *Context) {
		c.loader = dynlib.Default(nil, dirs)
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(c *Context) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *Metrics) Option {
	return func(c *Context) {
		if m != nil {
			c.metrics = m
		}
	}
}

// WithFeatures overrides hardware probing.
func WithFeatures(probe func() cpu.Features) Option {
	return func(c *Context) {
		if probe != nil {
			c.features = probe
		}
	}
}

// WithProcessorCount overrides processor counting for the thread setting.
func WithProcessorCount(count func() int) Option {
	return func(c *Context) {
		if count != nil {
			c.threads.detect = count
		}
	}
}

// WithRegistry uses an existing registry instead of a fresh one.
func WithRegistry(r *Registry) Option {
	return func(c *Context) {
		if r != nil {
			c.registry = r
		}
	}
}

// New creates a context. Without options it probes the real processor,
// searches the platform library path for plugins and logs nothing.
func New(opts ...Option) *Context {
	c := &Context{
		registry: NewRegistry(),
		static:   dynlib.NewStatic(),
		loader:   dynlib.Default(nil, nil),
		logger:   slog.New(slog.DiscardHandler),
		features: cpu.DetectFeatures,
		threads:  threadState{detect: runtime.NumCPU},
		plugins:  make(map[string]*pluginHandle),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.metrics == nil {
		c.metrics = NewMetrics(nil)
	}
	return c
}

// Configure applies opts to an existing context, typically Default() at
// program start. Probing options have no effect once the capability has been
// detected.
func (c *Context) Configure(opts ...Option) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
}

var defaultContext = sync.OnceValue(func() *Context {
	var dirs []string
	if env := os.Getenv(PluginPathEnv); env != "" {
		dirs = filepath.SplitList(env)
	}
	return New(WithSearchPaths(dirs...))
})

// Default returns the process-wide context used by the package-level
// functions.
func Default() *Context { return defaultContext() }

// Registry returns the module registry.
func (c *Context) Registry() *Registry { return c.registry }

// Static returns the loader for accelerators linked into the binary. Its
// libraries take precedence over plugin files of the same name.
func (c *Context) Static() *dynlib.Static { return c.static }

// Metrics returns the metrics sink.
func (c *Context) Metrics() *Metrics { return c.metrics }

// Capability returns the memoized capability code of the processor.
func (c *Context) Capability() Code {
	c.detect()
	return c.code
}

// Features returns the probed processor features.
func (c *Context) Features() cpu.Features {
	return c.features()
}

// Ticks returns the tick source chosen for this processor.
func (c *Context) Ticks() tick.Source {
	c.detect()
	return c.ticks
}

// Now returns the current tick count.
func (c *Context) Now() int64 { return c.Ticks().Now() }

// Frequency returns ticks per microsecond.
func (c *Context) Frequency() float64 { return c.Ticks().Frequency() }

func (c *Context) detect() {
	c.capOnce.Do(func() {
		f := c.features()
		c.code = cpu.Classify(f)
		c.ticks = tick.New(f)
	})
}

// Register adds m to the context's registry.
func (c *Context) Register(m *Module) (Handle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.registry.Register(m)
}

// MustRegister is like Register but panics on error. Intended for package
// init functions.
func (c *Context) MustRegister(m *Module) Handle {
	h, err := c.Register(m)
	if err != nil {
		panic(err)
	}
	return h
}

// Deregister removes a module. Its slots return to their generic
// implementations and plugins it alone depended on are released. Unknown
// handles are ignored.
func (c *Context) Deregister(h Handle) {
	c.mu.Lock()
	defer c.mu.Unlock()

	m, ok := c.registry.Deregister(h)
	if !ok {
		return
	}
	for _, s := range m.slots {
		c.unbind(s)
	}
	c.sweep()
	c.observe()
}

// ModuleInfo reports the version of the named module and the plugin
// libraries its slots are currently bound to, in slot order without
// duplicates. plugins is empty while every slot is generic.
func (c *Context) ModuleInfo(name string) (version string, plugins []string, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	m, ok := c.registry.Lookup(name)
	if !ok {
		return "", nil, false
	}
	for _, s := range m.slots {
		if res, bound := s.Resolution(); bound && !slices.Contains(plugins, res.Library) {
			plugins = append(plugins, res.Library)
		}
	}
	return m.version, plugins, true
}

// UseOptimized reports whether optimized mode is on.
func (c *Context) UseOptimized() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enabled
}

// Register adds m to the default context.
func Register(m *Module) (Handle, error) { return Default().Register(m) }

// MustRegister adds m to the default context and panics on error.
func MustRegister(m *Module) Handle { return Default().MustRegister(m) }

// Deregister removes a module from the default context.
func Deregister(h Handle) { Default().Deregister(h) }

// EnableOptimized accelerates every registered module for the detected tier.
func EnableOptimized() Stats { return Default().Enable() }

// EnableOptimizedTier accelerates every registered module for tier t.
func EnableOptimizedTier(t Tier) Stats { return Default().EnableTier(t) }

// DisableOptimized resets every slot of the default context to generic.
func DisableOptimized() { Default().Disable() }

// ModuleInfo reports a module's version and bound plugins in the default
// context.
func ModuleInfo(name string) (version string, plugins []string, ok bool) {
	return Default().ModuleInfo(name)
}

// UseOptimized reports whether optimized mode is on in the default context.
func UseOptimized() bool { return Default().UseOptimized() }

// Capability returns the capability code of the running processor.
func Capability() Code { return Default().Capability() }

// Now returns the current tick count of the default context.
func Now() int64 { return Default().Now() }

// Frequency returns ticks per microsecond of the default context.
func Frequency() float64 { return Default().Frequency() }
