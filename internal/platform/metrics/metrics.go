// Package metrics provides observability for the framework: tick latency,
// persistence throughput, session churn, and module lifecycle counts.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector gathers Prometheus metrics for the running framework instance.
// One Collector is created per process and registered against its own
// registry so multiple instances (tests) don't collide on the global one.
type Collector struct {
	registry *prometheus.Registry

	TickCount      prometheus.Counter
	TickLatency    prometheus.Histogram
	FastTickCount  prometheus.Counter
	SlowTickCount  prometheus.Counter

	DocumentsSaved prometheus.Counter
	SaveLatency    prometheus.Histogram
	SaveErrors     prometheus.Counter

	SessionsActive prometheus.Gauge
	SessionsTotal  prometheus.Counter

	ModuleStateTransitions *prometheus.CounterVec
	RouterDispatched       *prometheus.CounterVec
	EffectDiffDetections   *prometheus.CounterVec
}

// New builds a Collector registered against a fresh registry.
func New() *Collector {
	reg := prometheus.NewRegistry()
	c := &Collector{
		registry: reg,
		TickCount: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "livinglands_tick_total",
			Help: "Total scheduler tick cycles completed.",
		}),
		TickLatency: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "livinglands_tick_latency_seconds",
			Help:    "Wall-clock duration of one tick cycle.",
			Buckets: prometheus.DefBuckets,
		}),
		FastTickCount: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "livinglands_metabolism_fast_tick_total",
			Help: "Total metabolism fast-tick cycles completed.",
		}),
		SlowTickCount: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "livinglands_metabolism_slow_tick_total",
			Help: "Total metabolism slow-tick cycles completed.",
		}),
		DocumentsSaved: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "livinglands_documents_saved_total",
			Help: "Total documents written to the persistence sink.",
		}),
		SaveLatency: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "livinglands_save_latency_seconds",
			Help:    "Latency of one document save.",
			Buckets: prometheus.DefBuckets,
		}),
		SaveErrors: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "livinglands_save_errors_total",
			Help: "Total document save failures.",
		}),
		SessionsActive: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "livinglands_sessions_active",
			Help: "Currently registered player sessions.",
		}),
		SessionsTotal: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "livinglands_sessions_registered_total",
			Help: "Total player sessions registered since startup.",
		}),
		ModuleStateTransitions: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "livinglands_module_transitions_total",
			Help: "Module lifecycle transitions by module and resulting state.",
		}, []string{"module", "state"}),
		RouterDispatched: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "livinglands_router_events_total",
			Help: "Host events dispatched by the event router, by event type.",
		}, []string{"event_type"}),
		EffectDiffDetections: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "livinglands_effect_diff_detections_total",
			Help: "Effect diff detections by classified tier.",
		}, []string{"tier"}),
	}
	return c
}

// RecordTick records one scheduler tick cycle completion.
func (c *Collector) RecordTick(latency time.Duration) {
	c.TickCount.Inc()
	c.TickLatency.Observe(latency.Seconds())
}

// RecordSave records one persistence sink write, successful or not.
func (c *Collector) RecordSave(latency time.Duration, err error) {
	c.DocumentsSaved.Inc()
	c.SaveLatency.Observe(latency.Seconds())
	if err != nil {
		c.SaveErrors.Inc()
	}
}

// Handler returns the Prometheus scrape endpoint for this collector.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
