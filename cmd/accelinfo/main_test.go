package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-accel/dispatch"
	"github.com/cwbudde/algo-accel/internal/config"
	"github.com/cwbudde/algo-accel/internal/cpu"
	"github.com/cwbudde/algo-accel/internal/testutil"
)

type kernel = func([]float64) float64

func testContext(t *testing.T) (*dispatch.Context, *dispatch.Slot[kernel]) {
	t.Helper()
	for _, k := range []string{config.TierEnv, config.ThreadsEnv, config.PluginEnv} {
		t.Setenv(k, "")
	}

	ctx := dispatch.New(
		dispatch.WithFeatures(func() cpu.Features { return testutil.Machine("amd64", cpu.TierAVX2) }),
		dispatch.WithProcessorCount(func() int { return 4 }),
	)
	ctx.Static().Add("testlib_avx2", map[string]any{"Sum": kernel(func([]float64) float64 { return 1 })})

	s := dispatch.NewSlot[kernel]("Sum", func([]float64) float64 { return 0 },
		dispatch.Libraries(dispatch.Lib("testlib_avx2", dispatch.TierAVX2)))
	ctx.MustRegister(dispatch.NewModule("testmod", "9.9", s))
	return ctx, s
}

func run(t *testing.T, ctx *dispatch.Context, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out, ctx)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())
	return out.String()
}

func TestCPUCommand(t *testing.T) {
	ctx, _ := testContext(t)
	out := run(t, ctx, "cpu")

	assert.Contains(t, out, "amd64/avx2")
	assert.Contains(t, out, "os-clock")
	assert.Contains(t, out, "4 of 4")
}

func TestSlotsCommand(t *testing.T) {
	ctx, s := testContext(t)
	out := run(t, ctx, "slots", "--metrics")

	assert.True(t, s.Resolved())
	assert.Contains(t, out, "testlib_avx2:Sum")
	assert.Contains(t, out, "testmod 9.9 plugins: testlib_avx2")
	assert.Contains(t, out, "accelerated 1 functions in 1 modules")
	assert.Contains(t, out, "accel_functions_accelerated")
}

func TestSlotsCommandTierFlag(t *testing.T) {
	ctx, s := testContext(t)
	out := run(t, ctx, "--tier", "sse2", "slots")

	assert.False(t, s.Resolved())
	assert.Contains(t, out, "generic")
	assert.Contains(t, out, "testmod 9.9 plugins: none")
}

func TestInvalidTier(t *testing.T) {
	ctx, _ := testContext(t)
	cmd := newRootCmd(&bytes.Buffer{}, ctx)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--tier", "mmx", "cpu"})
	assert.ErrorIs(t, cmd.Execute(), config.ErrInvalid)
}
