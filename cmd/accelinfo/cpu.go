package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func (a *app) cpuCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cpu",
		Short: "Print detected processor features and the capability code",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return a.printCPU()
		},
	}
}

func (a *app) printCPU() error {
	f := a.ctx.Features()
	code := a.ctx.Capability()
	ticks := a.ctx.Ticks()

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	rows := []struct {
		key string
		val any
	}{
		{"Architecture", f.Architecture},
		{"Vendor", f.Vendor},
		{"Brand", f.Brand},
		{"Logical cores", f.LogicalCores},
		{"SSE2", f.HasSSE2},
		{"AVX", f.HasAVX},
		{"AVX2", f.HasAVX2},
		{"AVX-512", f.HasAVX512},
		{"NEON", f.HasNEON},
		{"SVE", f.HasSVE},
		{"Cycle counter", f.HasCycleCounter},
		{"Forced generic", f.ForceGeneric},
		{"Capability", code.String()},
		{"Code", fmt.Sprintf("0x%08x", uint32(code))},
		{"Tick source", ticks.Name()},
		{"Ticks/us", ticks.Frequency()},
		{"Threads", fmt.Sprintf("%d of %d", a.ctx.ThreadCount(), a.ctx.ProcessorCount())},
	}
	for _, r := range rows {
		if err := fprintf(tw, "%s\t%v\n", r.key, r.val); err != nil {
			return err
		}
	}
	return tw.Flush()
}
