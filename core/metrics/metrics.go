package metrics

import (
	"sync"
	"time"

	"tailor-preview/core/preview"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tailor_preview"

// Metrics holds the Prometheus collectors reporting preview activity.
type Metrics struct {
	registry *prometheus.Registry

	sessions       prometheus.Gauge
	initDuration   prometheus.Histogram
	renderDuration prometheus.Histogram
	jobsDrained    prometheus.Counter
	engineErrors   prometheus.Counter
}

// New creates a Metrics instance backed by its own registry.
// Go runtime and process collectors are registered alongside.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Number of live preview sessions.",
		}),
		initDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "init_duration_seconds",
			Help:      "Time spent creating engine instances.",
			Buckets:   prometheus.DefBuckets,
		}),
		renderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "render_duration_seconds",
			Help:      "Time spent executing a texture job.",
			Buckets:   prometheus.DefBuckets,
		}),
		jobsDrained: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "queue",
			Name:      "jobs_drained_total",
			Help:      "Total number of texture jobs executed.",
		}),
		engineErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "errors_total",
			Help:      "Total number of errors reported by engine instances.",
		}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.sessions,
		m.initDuration,
		m.renderDuration,
		m.jobsDrained,
		m.engineErrors,
	)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// SessionOpened increments the live session gauge.
func (m *Metrics) SessionOpened() { m.sessions.Inc() }

// SessionClosed decrements the live session gauge.
func (m *Metrics) SessionClosed() { m.sessions.Dec() }

// Hooks returns preview hooks that feed these collectors. Each preview needs
// its own hooks value, since init and render timings are tracked per session.
// next is chained after the metric updates.
func (m *Metrics) Hooks(next preview.Hooks) preview.Hooks {
	var (
		mu          sync.Mutex
		initStarts  []time.Time
		renderStart time.Time
	)
	return preview.Hooks{
		OnInitStart: func() {
			mu.Lock()
			initStarts = append(initStarts, time.Now())
			mu.Unlock()
			call(next.OnInitStart)
		},
		OnInitEnd: func() {
			mu.Lock()
			if len(initStarts) > 0 {
				m.initDuration.Observe(time.Since(initStarts[0]).Seconds())
				initStarts = initStarts[1:]
			}
			mu.Unlock()
			call(next.OnInitEnd)
		},
		OnRenderStart: func() {
			mu.Lock()
			renderStart = time.Now()
			mu.Unlock()
			call(next.OnRenderStart)
		},
		OnRenderEnd: func() {
			mu.Lock()
			m.renderDuration.Observe(time.Since(renderStart).Seconds())
			mu.Unlock()
			m.jobsDrained.Inc()
			call(next.OnRenderEnd)
		},
		OnError: func(msg string) {
			m.engineErrors.Inc()
			if next.OnError != nil {
				next.OnError(msg)
			}
		},
	}
}

// Handler returns a Fiber handler serving the registry in the exposition format.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

func call(fn func()) {
	if fn != nil {
		fn()
	}
}
