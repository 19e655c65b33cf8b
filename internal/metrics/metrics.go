// Package metrics exports command execution metrics in Prometheus format.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/opencode-ai/gh-mcp/internal/event"
)

const namespace = "gh_mcp"

// Metrics holds a private registry fed by command lifecycle events.
type Metrics struct {
	registry *prometheus.Registry
	commands *prometheus.CounterVec
	duration *prometheus.HistogramVec
	inflight prometheus.Gauge

	detach []func()
}

// New creates the collectors and registers them on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "External commands run, by subcommand and outcome.",
		}, []string{"command", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "command_duration_seconds",
			Help:      "Wall-clock duration of external commands.",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"command"}),
		inflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "commands_in_flight",
			Help:      "External commands currently running.",
		}),
	}
	m.registry.MustRegister(m.commands, m.duration, m.inflight)
	return m
}

// Attach subscribes to command events on bus. Call Detach to stop.
func (m *Metrics) Attach(bus *event.Bus) {
	m.detach = append(m.detach,
		bus.Subscribe(event.CommandStarted, func(e event.Event) {
			if _, ok := e.Data.(event.CommandStartedData); ok {
				m.inflight.Inc()
			}
		}),
		bus.Subscribe(event.CommandFinished, func(e event.Event) {
			if data, ok := e.Data.(event.CommandFinishedData); ok {
				m.Observe(data)
			}
		}),
	)
}

// Detach removes every subscription added by Attach.
func (m *Metrics) Detach() {
	for _, fn := range m.detach {
		fn()
	}
	m.detach = nil
}

// Observe records one finished command.
func (m *Metrics) Observe(data event.CommandFinishedData) {
	command := subcommand(data.Args)
	outcome := data.Kind
	if outcome == "" {
		outcome = "success"
	}
	m.inflight.Dec()
	m.commands.WithLabelValues(command, outcome).Inc()
	m.duration.WithLabelValues(command).Observe(data.Duration.Seconds())
}

// subcommand keeps label cardinality bounded: only the top-level verb is used.
func subcommand(args []string) string {
	if len(args) == 0 {
		return "none"
	}
	return args[0]
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}
