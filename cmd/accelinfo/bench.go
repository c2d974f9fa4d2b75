package main

import (
	"context"
	"fmt"
	"math"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-accel/dsp/spectrum"
	"github.com/cwbudde/algo-accel/internal/parallel"
	"github.com/cwbudde/algo-accel/internal/tick"
	"github.com/cwbudde/algo-accel/internal/vecmath"
)

type benchCase struct {
	name string
	run  func() error
}

func (a *app) benchCmd() *cobra.Command {
	var (
		size       int
		iterations int
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Time primitives with and without optimized mode",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if size <= 0 || iterations <= 0 {
				return fmt.Errorf("size and iterations must be > 0")
			}
			return a.runBench(cmd.Context(), size, iterations)
		},
	}
	cmd.Flags().IntVar(&size, "size", 1<<16, "vector length in elements")
	cmd.Flags().IntVar(&iterations, "iterations", 200, "calls per measurement")
	return cmd
}

func (a *app) benchCases(ctx context.Context, size int) []benchCase {
	x := make([]float64, size)
	y := make([]float64, size)
	for i := range x {
		x[i] = math.Sin(float64(i) * 0.01)
		y[i] = math.Cos(float64(i) * 0.02)
	}
	dst := make([]float64, size)

	fftSize := 1 << 10
	for fftSize < size && fftSize < 1<<16 {
		fftSize <<= 1
	}
	bins := make([]complex128, fftSize)
	src := make([]complex128, fftSize)
	for i := range src {
		src[i] = complex(x[i%size], 0)
	}

	return []benchCase{
		{"vecmath.Sum", func() error { _ = vecmath.Sum(x); return nil }},
		{"vecmath.DotProduct", func() error { _ = vecmath.DotProduct(x, y); return nil }},
		{"vecmath.MulAddBlock", func() error { vecmath.MulAddBlock(dst, x, y, x); return nil }},
		{"vecmath.Magnitude", func() error { vecmath.Magnitude(dst, x, y); return nil }},
		{"vecmath.Sum (parallel)", func() error {
			return parallel.For(ctx, a.ctx, size, func(_ context.Context, lo, hi int) error {
				_ = vecmath.Sum(x[lo:hi])
				return nil
			})
		}},
		{fmt.Sprintf("spectrum.Forward (n=%d)", fftSize), func() error {
			return spectrum.Forward(bins, src)
		}},
	}
}

func (a *app) runBench(ctx context.Context, size, iterations int) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cases := a.benchCases(ctx, size)

	a.ctx.Disable()
	generic, err := a.measure(cases, iterations)
	if err != nil {
		return err
	}

	stats, err := a.cfg.Apply(a.ctx)
	if err != nil {
		return err
	}
	optimized, err := a.measure(cases, iterations)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	if err := fprintf(tw, "Primitive\tGeneric [us/call]\tOptimized [us/call]\tSpeedup\n"); err != nil {
		return err
	}
	for i, c := range cases {
		speedup := generic[i] / math.Max(optimized[i], 1e-9)
		if err := fprintf(tw, "%s\t%.3f\t%.3f\t%.2fx\n", c.name, generic[i], optimized[i], speedup); err != nil {
			return err
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	return fprintf(a.out, "\n%d functions accelerated, %d threads, tick source %s\n",
		stats.Functions, a.ctx.ThreadCount(), a.ctx.Ticks().Name())
}

// measure returns microseconds per call for each case.
func (a *app) measure(cases []benchCase, iterations int) ([]float64, error) {
	ticks := a.ctx.Ticks()
	out := make([]float64, len(cases))
	for i, c := range cases {
		if err := c.run(); err != nil {
			return nil, fmt.Errorf("%s: %w", c.name, err)
		}
		start := ticks.Now()
		for range iterations {
			if err := c.run(); err != nil {
				return nil, fmt.Errorf("%s: %w", c.name, err)
			}
		}
		out[i] = tick.Microseconds(ticks, ticks.Now()-start) / float64(iterations)
	}
	return out, nil
}
