package dispatch

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the dispatcher's Prometheus collectors.
type Metrics struct {
	enablePasses  prometheus.Counter
	disablePasses prometheus.Counter
	functions     prometheus.Gauge
	modules       prometheus.Gauge
	pluginsOpen   prometheus.Gauge
	loadFailures  *prometheus.CounterVec
	symbolMisses  *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		enablePasses: factory.NewCounter(prometheus.CounterOpts{
			Name: "accel_enable_passes_total",
			Help: "Total optimized-mode enable passes",
		}),
		disablePasses: factory.NewCounter(prometheus.CounterOpts{
			Name: "accel_disable_passes_total",
			Help: "Total optimized-mode disable passes",
		}),
		functions: factory.NewGauge(prometheus.GaugeOpts{
			Name: "accel_functions_accelerated",
			Help: "Slots currently bound to a plugin implementation",
		}),
		modules: factory.NewGauge(prometheus.GaugeOpts{
			Name: "accel_modules_accelerated",
			Help: "Modules with at least one bound slot",
		}),
		pluginsOpen: factory.NewGauge(prometheus.GaugeOpts{
			Name: "accel_plugins_open",
			Help: "Plugin libraries currently held open",
		}),
		loadFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "accel_plugin_load_failures_total",
			Help: "Plugin library load failures by library",
		}, []string{"library"}),
		symbolMisses: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "accel_symbol_misses_total",
			Help: "Symbols that failed to resolve or bind, by library",
		}, []string{"library"}),
	}
}

func (m *Metrics) observeState(modules, functions, plugins int) {
	m.modules.Set(float64(modules))
	m.functions.Set(float64(functions))
	m.pluginsOpen.Set(float64(plugins))
}
