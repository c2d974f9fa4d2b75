package main

import (
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-accel/dispatch"
)

func (a *app) slotsCmd() *cobra.Command {
	var showMetrics bool

	cmd := &cobra.Command{
		Use:   "slots",
		Short: "Enable optimized mode as configured and print every slot's binding",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			stats, err := a.cfg.Apply(a.ctx)
			if err != nil {
				return err
			}
			if err := a.printSlots(stats); err != nil {
				return err
			}
			if showMetrics {
				return a.printMetrics()
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&showMetrics, "metrics", false, "also print dispatcher metrics")
	return cmd
}

func (a *app) printSlots(stats dispatch.Stats) error {
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	if err := fprintf(tw, "Module\tVersion\tSlot\tBinding\tCandidates\n"); err != nil {
		return err
	}
	if err := fprintf(tw, "------\t-------\t----\t-------\t----------\n"); err != nil {
		return err
	}

	var (
		werr    error
		modules []string
	)
	a.ctx.Registry().ForEach(func(m *dispatch.Module) bool {
		modules = append(modules, m.Name())
		for _, s := range m.Slots() {
			binding := "generic"
			if res, ok := s.Resolution(); ok {
				binding = res.Library + ":" + res.Symbol
			}
			if werr = fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
				m.Name(), m.Version(), s.Name(), binding, candidates(s, a.ctx.Capability())); werr != nil {
				return false
			}
		}
		return true
	})
	if werr != nil {
		return werr
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if err := fprintf(a.out, "\n"); err != nil {
		return err
	}
	for _, name := range modules {
		version, plugins, ok := a.ctx.ModuleInfo(name)
		if !ok {
			continue
		}
		loaded := "none"
		if len(plugins) > 0 {
			loaded = strings.Join(plugins, ",")
		}
		if err := fprintf(a.out, "%s %s plugins: %s\n", name, version, loaded); err != nil {
			return err
		}
	}
	return fprintf(a.out, "\nOptimized: %v, accelerated %d functions in %d modules\n",
		a.ctx.UseOptimized(), stats.Functions, stats.Modules)
}

// candidates lists the slot's libraries the capability admits.
func candidates(s dispatch.Binding, code dispatch.Code) string {
	var names []string
	for _, ref := range s.Libraries() {
		if code.Admits(ref.Tier) {
			names = append(names, ref.Name)
		}
	}
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ",")
}

func (a *app) printMetrics() error {
	families, err := a.metrics.Gather()
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	if err := fprintf(tw, "\nMetric\tLabels\tValue\n"); err != nil {
		return err
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			var labels []string
			for _, lp := range m.GetLabel() {
				labels = append(labels, lp.GetName()+"="+lp.GetValue())
			}
			value := m.GetGauge().GetValue() + m.GetCounter().GetValue()
			if err := fprintf(tw, "%s\t%s\t%g\n", mf.GetName(), strings.Join(labels, ","), value); err != nil {
				return err
			}
		}
	}
	return tw.Flush()
}
