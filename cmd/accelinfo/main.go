// Command accelinfo reports processor capability, accelerator bindings and
// dispatch timings.
//
// Usage:
//
//	accelinfo [--config file] [--tier name] [-v] <command>
//
// Commands:
//
//	cpu     print detected features, capability code and tick source
//	slots   enable optimized mode and print every slot's binding
//	bench   time the vecmath and spectrum primitives
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-accel/dispatch"
	"github.com/cwbudde/algo-accel/internal/config"
)

type app struct {
	configPath string
	tier       string
	verbose    bool

	out     io.Writer
	cfg     config.Config
	ctx     *dispatch.Context
	metrics *prometheus.Registry
}

func main() {
	if err := newRootCmd(os.Stdout, dispatch.Default()).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer, ctx *dispatch.Context) *cobra.Command {
	a := &app{out: out, ctx: ctx}

	root := &cobra.Command{
		Use:          "accelinfo",
		Short:        "Inspect runtime accelerator dispatch",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.ErrOrStderr())
		},
	}
	root.SetOut(out)

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML config file")
	root.PersistentFlags().StringVar(&a.tier, "tier", "", "override the detected tier used for enabling (e.g. sse2, neon)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log plugin resolution at debug level")

	root.AddCommand(a.cpuCmd(), a.slotsCmd(), a.benchCmd())
	return root
}

// setup loads the configuration and wires logging and metrics into the
// dispatch context.
func (a *app) setup(stderr io.Writer) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.tier != "" {
		cfg.Tier = a.tier
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	a.cfg = cfg

	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	if a.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	a.metrics = prometheus.NewRegistry()
	opts := append(cfg.Options(),
		dispatch.WithLogger(logger),
		dispatch.WithMetrics(dispatch.NewMetrics(a.metrics)))
	a.ctx.Configure(opts...)
	a.ctx.SetThreadCount(cfg.Threads)
	return nil
}

func fprintf(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}
