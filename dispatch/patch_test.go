package dispatch

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-accel/internal/cpu"
	"github.com/cwbudde/algo-accel/internal/dynlib"
	"github.com/cwbudde/algo-accel/internal/testutil"
)

type kernel = func(x []float64) float64

func genericKernel(x []float64) float64 { return 0 }

func constKernel(v float64) kernel {
	return func([]float64) float64 { return v }
}

// countingLoader serves static libraries and tracks open handles.
type countingLoader struct {
	*dynlib.Static
	opens  int
	closes int
}

func newCountingLoader() *countingLoader {
	return &countingLoader{Static: dynlib.NewStatic()}
}

func (l *countingLoader) Open(name string) (dynlib.Library, error) {
	lib, err := l.Static.Open(name)
	if err != nil {
		return nil, err
	}
	l.opens++
	return &countingLibrary{Library: lib, loader: l}, nil
}

func (l *countingLoader) open() int { return l.opens - l.closes }

type countingLibrary struct {
	dynlib.Library
	loader *countingLoader
}

func (c *countingLibrary) Close() error {
	c.loader.closes++
	return c.Library.Close()
}

var avx2Machine = testutil.Machine("amd64", cpu.TierAVX2)

func newTestContext(loader Loader, features cpu.Features, opts ...Option) *Context {
	opts = append([]Option{
		WithLoader(loader),
		WithFeatures(func() cpu.Features { return features }),
	}, opts...)
	return New(opts...)
}

func call(s *Slot[kernel]) float64 { return s.Get()(nil) }

func TestEnable_ScenarioTwoModules(t *testing.T) {
	loader := newCountingLoader()
	loader.Add("P", map[string]any{"Sum": constKernel(1), "Dot": constKernel(2)})
	loader.Add("Q", map[string]any{"Max": constKernel(3)})

	sum := NewSlot[kernel]("Sum", genericKernel, Libraries(Lib("P", TierSSE2)))
	dot := NewSlot[kernel]("Dot", genericKernel, Libraries(Lib("P", TierSSE2)))
	maxSlot := NewSlot[kernel]("Max", genericKernel, Libraries(Lib("Q", TierAVX512)))

	ctx := newTestContext(loader, avx2Machine)
	ctx.MustRegister(NewModule("A", "1", sum, dot))
	ctx.MustRegister(NewModule("B", "1", maxSlot))

	stats := ctx.Enable()
	assert.Equal(t, Stats{Modules: 1, Functions: 2}, stats)
	assert.Equal(t, 1.0, call(sum))
	assert.Equal(t, 2.0, call(dot))
	assert.False(t, maxSlot.Resolved())
	assert.Equal(t, 0.0, call(maxSlot))
	assert.Equal(t, 1, loader.open(), "Q must never be opened on an AVX2 machine")
	assert.True(t, ctx.UseOptimized())
}

func TestEnable_FallsThroughToInstalledLibrary(t *testing.T) {
	loader := newCountingLoader()
	loader.Add("P_generic", map[string]any{"Sum": constKernel(1)})

	sum := NewSlot[kernel]("Sum", genericKernel,
		Libraries(Lib("P_sse2", TierSSE2), Lib("P_generic", TierBaseline)))

	ctx := newTestContext(loader, avx2Machine)
	ctx.MustRegister(NewModule("A", "1", sum))

	assert.Equal(t, Stats{Modules: 1, Functions: 1}, ctx.Enable())
	res, ok := sum.Resolution()
	require.True(t, ok)
	assert.Equal(t, Resolution{Library: "P_generic", Symbol: "Sum"}, res)

	// With both installed the first-listed library wins.
	loader.Add("P_sse2", map[string]any{"Sum": constKernel(2)})
	ctx.Disable()
	assert.Equal(t, Stats{Modules: 1, Functions: 1}, ctx.Enable())
	assert.Equal(t, 2.0, call(sum))
	assert.Equal(t, 1, loader.open())
}

func TestEnable_UpgradesWithoutRecounting(t *testing.T) {
	loader := newCountingLoader()
	loader.Add("P_generic", map[string]any{"Sum": constKernel(1)})

	sum := NewSlot[kernel]("Sum", genericKernel,
		Libraries(Lib("P_sse2", TierSSE2), Lib("P_generic", TierBaseline)))
	ctx := newTestContext(loader, avx2Machine)
	ctx.MustRegister(NewModule("A", "1", sum))

	require.Equal(t, 1, ctx.Enable().Functions)

	loader.Add("P_sse2", map[string]any{"Sum": constKernel(2)})
	assert.Equal(t, Stats{}, ctx.Enable(), "resolved to resolved is not a new acceleration")
	assert.Equal(t, 2.0, call(sum))
	assert.Equal(t, 1, loader.open(), "the superseded library must be released")
}

func TestEnable_SymbolPreference(t *testing.T) {
	loader := newCountingLoader()
	loader.Add("P", map[string]any{
		"SumAVX2": constKernel(2),
		"Sum":     constKernel(1),
		"SumBad":  func(int) int { return 0 },
	})

	tests := []struct {
		name    string
		symbols []string
		want    float64
		symbol  string
	}{
		{"first listed wins", []string{"SumAVX2", "Sum"}, 2, "SumAVX2"},
		{"order is preserved", []string{"Sum", "SumAVX2"}, 1, "Sum"},
		{"missing symbol falls through", []string{"SumAVX512", "Sum"}, 1, "Sum"},
		{"bad signature falls through", []string{"SumBad", "SumAVX2"}, 2, "SumAVX2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSlot[kernel]("Sum", genericKernel,
				Symbols(tt.symbols...), Libraries(Lib("P", TierBaseline)))
			ctx := newTestContext(loader, avx2Machine)
			ctx.MustRegister(NewModule("A", "1", s))

			assert.Equal(t, 1, ctx.Enable().Functions)
			assert.Equal(t, tt.want, call(s))
			res, _ := s.Resolution()
			assert.Equal(t, tt.symbol, res.Symbol)
			ctx.Disable()
		})
	}
}

func TestEnable_Idempotent(t *testing.T) {
	loader := newCountingLoader()
	loader.Add("P", map[string]any{"Sum": constKernel(1), "Dot": constKernel(2)})

	sum := NewSlot[kernel]("Sum", genericKernel, Libraries(Lib("P", TierBaseline)))
	dot := NewSlot[kernel]("Dot", genericKernel, Libraries(Lib("P", TierBaseline)))
	ctx := newTestContext(loader, avx2Machine)
	ctx.MustRegister(NewModule("A", "1", sum, dot))

	first := ctx.Enable()
	opens := loader.opens
	second := ctx.Enable()

	assert.Equal(t, Stats{Modules: 1, Functions: 2}, first)
	assert.Equal(t, Stats{}, second)
	assert.Equal(t, opens, loader.opens, "second enable must reuse the cached handle")
	assert.Equal(t, 1, loader.open())
}

func TestEnableDisableEnable(t *testing.T) {
	loader := newCountingLoader()
	loader.Add("P", map[string]any{"Sum": constKernel(1)})
	loader.Add("R", map[string]any{"Dot": constKernel(2)})

	sum := NewSlot[kernel]("Sum", genericKernel, Libraries(Lib("P", TierBaseline)))
	dot := NewSlot[kernel]("Dot", genericKernel, Libraries(Lib("R", TierAVX2)))
	other := NewSlot[kernel]("Other", genericKernel, Libraries(Lib("missing", TierBaseline)))

	ctx := newTestContext(loader, avx2Machine)
	ctx.MustRegister(NewModule("A", "1", sum))
	ctx.MustRegister(NewModule("B", "1", dot, other))

	first := ctx.Enable()
	ctx.Disable()
	assert.Zero(t, loader.open())
	second := ctx.Enable()

	assert.Equal(t, Stats{Modules: 2, Functions: 2}, first)
	assert.Equal(t, first, second)
	assert.Equal(t, 2, loader.open())
	assert.False(t, other.Resolved())
}

func TestDisable_ResetsEverySlot(t *testing.T) {
	loader := newCountingLoader()
	loader.Add("P", map[string]any{"Sum": constKernel(1), "Dot": constKernel(2)})

	sum := NewSlot[kernel]("Sum", genericKernel, Libraries(Lib("P", TierBaseline)))
	dot := NewSlot[kernel]("Dot", genericKernel, Libraries(Lib("P", TierBaseline)))
	ctx := newTestContext(loader, avx2Machine)
	ctx.MustRegister(NewModule("A", "1", sum, dot))

	// Safe before any enable.
	ctx.Disable()
	assert.False(t, ctx.UseOptimized())

	ctx.Enable()
	ctx.Disable()
	ctx.Disable()

	for _, s := range []*Slot[kernel]{sum, dot} {
		assert.False(t, s.Resolved())
		assert.Equal(t, 0.0, call(s))
	}
	assert.Zero(t, loader.open())
	assert.False(t, ctx.UseOptimized())
}

func TestEnable_NoAccelerators(t *testing.T) {
	sum := NewSlot[kernel]("Sum", genericKernel, Libraries(Lib("P", TierBaseline)))
	plain := NewSlot[kernel]("Plain", genericKernel)

	ctx := newTestContext(newCountingLoader(), avx2Machine)
	ctx.MustRegister(NewModule("A", "1", sum, plain))

	assert.Equal(t, Stats{}, ctx.Enable())
	assert.Equal(t, 0.0, call(sum))
}

func TestEnable_UnknownTierUsesGeneric(t *testing.T) {
	loader := newCountingLoader()
	loader.Add("P", map[string]any{"Sum": constKernel(1)})

	sum := NewSlot[kernel]("Sum", genericKernel, Libraries(Lib("P", TierBaseline)))
	forced := avx2Machine
	forced.ForceGeneric = true
	ctx := newTestContext(loader, forced)
	ctx.MustRegister(NewModule("A", "1", sum))

	assert.Equal(t, TierUnknown, ctx.Capability().Tier())
	assert.Equal(t, Stats{}, ctx.Enable())
	assert.Zero(t, loader.opens)
}

func TestEnableTier_Hint(t *testing.T) {
	loader := newCountingLoader()
	loader.Add("P_avx2", map[string]any{"Sum": constKernel(2)})
	loader.Add("P_sse2", map[string]any{"Sum": constKernel(1)})

	sum := NewSlot[kernel]("Sum", genericKernel,
		Libraries(Lib("P_avx2", TierAVX2), Lib("P_sse2", TierSSE2)))
	ctx := newTestContext(loader, avx2Machine)
	ctx.MustRegister(NewModule("A", "1", sum))

	assert.Equal(t, 1, ctx.EnableTier(TierSSE2).Functions)
	assert.Equal(t, 1.0, call(sum))

	assert.Equal(t, 0, ctx.Enable().Functions)
	assert.Equal(t, 2.0, call(sum))
	assert.Equal(t, 1, loader.open())
}

func TestDeregister_ReleasesPlugins(t *testing.T) {
	loader := newCountingLoader()
	loader.Add("P", map[string]any{"Sum": constKernel(1)})
	loader.Add("R", map[string]any{"Dot": constKernel(2)})

	sum := NewSlot[kernel]("Sum", genericKernel, Libraries(Lib("P", TierBaseline)))
	dot := NewSlot[kernel]("Dot", genericKernel, Libraries(Lib("R", TierBaseline)))
	sum2 := NewSlot[kernel]("Sum", genericKernel, Libraries(Lib("P", TierBaseline)))

	ctx := newTestContext(loader, avx2Machine)
	ha := ctx.MustRegister(NewModule("A", "1", sum, dot))
	ctx.MustRegister(NewModule("B", "1", sum2))

	require.Equal(t, Stats{Modules: 2, Functions: 3}, ctx.Enable())
	require.Equal(t, 2, loader.open())

	ctx.Deregister(ha)
	assert.False(t, sum.Resolved())
	assert.False(t, dot.Resolved())
	assert.True(t, sum2.Resolved())
	assert.Equal(t, 1, loader.open(), "R lost its last dependant, P is still used by B")

	ctx.Deregister(ha)
	assert.Equal(t, 1, ctx.Registry().Len())
}

func TestEnable_ReleasesUnusedLibraries(t *testing.T) {
	loader := newCountingLoader()
	loader.Add("P", map[string]any{"Unrelated": constKernel(1)})

	sum := NewSlot[kernel]("Sum", genericKernel, Libraries(Lib("P", TierBaseline)))
	ctx := newTestContext(loader, avx2Machine)
	ctx.MustRegister(NewModule("A", "1", sum))

	assert.Equal(t, Stats{}, ctx.Enable())
	assert.Equal(t, 1, loader.opens)
	assert.Zero(t, loader.open())
}

func TestStaticLoaderTakesPrecedence(t *testing.T) {
	loader := newCountingLoader()
	loader.Add("P", map[string]any{"Sum": constKernel(1)})

	sum := NewSlot[kernel]("Sum", genericKernel, Libraries(Lib("P", TierBaseline)))
	ctx := newTestContext(loader, avx2Machine)
	ctx.Static().Add("P", map[string]any{"Sum": constKernel(7)})
	ctx.MustRegister(NewModule("A", "1", sum))

	ctx.Enable()
	assert.Equal(t, 7.0, call(sum))
	assert.Zero(t, loader.opens)
}

func TestMetrics(t *testing.T) {
	loader := newCountingLoader()
	loader.Add("P", map[string]any{"Sum": constKernel(1)})

	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	sum := NewSlot[kernel]("Sum", genericKernel, Libraries(Lib("missing", TierAVX2), Lib("P", TierBaseline)))
	ctx := newTestContext(loader, avx2Machine, WithMetrics(m))
	ctx.MustRegister(NewModule("A", "1", sum))

	ctx.Enable()
	assert.Equal(t, 1.0, promtest.ToFloat64(m.functions))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.modules))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.pluginsOpen))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.loadFailures.WithLabelValues("missing")))

	ctx.Disable()
	assert.Equal(t, 0.0, promtest.ToFloat64(m.functions))
	assert.Equal(t, 0.0, promtest.ToFloat64(m.pluginsOpen))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.disablePasses))
	assert.Same(t, m, ctx.Metrics())
}

func TestModuleInfo(t *testing.T) {
	loader := newCountingLoader()
	loader.Add("P", map[string]any{"Sum": constKernel(1), "Dot": constKernel(2)})
	loader.Add("Q", map[string]any{"Max": constKernel(3)})

	libs := Libraries(Lib("Q", TierAVX2), Lib("P", TierSSE2))
	sum := NewSlot[kernel]("Sum", genericKernel, libs)
	maxSlot := NewSlot[kernel]("Max", genericKernel, libs)
	dot := NewSlot[kernel]("Dot", genericKernel, libs)

	ctx := newTestContext(loader, avx2Machine)
	ctx.MustRegister(NewModule("A", "1.2.3", sum, maxSlot, dot))

	version, plugins, ok := ctx.ModuleInfo("A")
	require.True(t, ok)
	assert.Equal(t, "1.2.3", version)
	assert.Empty(t, plugins)

	ctx.Enable()
	_, plugins, _ = ctx.ModuleInfo("A")
	assert.Equal(t, []string{"P", "Q"}, plugins)

	ctx.Disable()
	_, plugins, _ = ctx.ModuleInfo("A")
	assert.Empty(t, plugins)

	_, _, ok = ctx.ModuleInfo("B")
	assert.False(t, ok)
}
