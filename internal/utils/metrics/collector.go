// internal/utils/metrics/collector.go
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rovshanmuradov/pumpstream/internal/events"
)

const namespace = "pumpstream"

// Collector управляет набором метрик на собственном реестре.
type Collector struct {
	registry *prometheus.Registry

	lines        *prometheus.CounterVec
	delivered    *prometheus.CounterVec
	skipped      *prometheus.CounterVec
	dropped      *prometheus.CounterVec
	dispatchTime *prometheus.HistogramVec
	reconnects   *prometheus.CounterVec
	subscribed   *prometheus.GaugeVec
}

// NewCollector создает новый экземпляр коллектора метрик
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		lines: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "log_lines_total",
			Help:      "Log lines inspected by the dispatcher",
		}, []string{"program"}),
		delivered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_delivered_total",
			Help:      "Events delivered to handlers",
		}, []string{"program"}),
		skipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payloads_skipped_total",
			Help:      "Program data lines that could not be decoded",
		}, []string{"program"}),
		dropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transactions_dropped_total",
			Help:      "Transactions dropped before dispatch",
		}, []string{"program", "reason"}),
		dispatchTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dispatch_duration_seconds",
			Help:      "Time spent dispatching one transaction",
			Buckets:   prometheus.ExponentialBuckets(0.000005, 2, 14),
		}, []string{"program"}),
		reconnects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconnects_total",
			Help:      "Log subscription reconnects",
		}, []string{"program"}),
		subscribed: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "subscription_active",
			Help:      "1 while the log subscription is established",
		}, []string{"program"}),
	}
	c.initializeMetrics()
	return c
}

func (c *Collector) initializeMetrics() {
	c.registry.MustRegister(
		c.lines,
		c.delivered,
		c.skipped,
		c.dropped,
		c.dispatchTime,
		c.reconnects,
		c.subscribed,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// Registry exposes the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler returns the /metrics HTTP handler.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// ObserveDispatch records the outcome of one dispatch call.
func (c *Collector) ObserveDispatch(program string, st events.Stats) {
	c.lines.WithLabelValues(program).Add(float64(st.Lines))
	c.delivered.WithLabelValues(program).Add(float64(st.Delivered))
	c.skipped.WithLabelValues(program).Add(float64(st.Skipped))
	c.dispatchTime.WithLabelValues(program).Observe(st.Elapsed.Seconds())
}

// IncDropped counts a transaction that never reached the dispatcher.
func (c *Collector) IncDropped(program, reason string) {
	c.dropped.WithLabelValues(program, reason).Inc()
}

// IncReconnect counts a re-established subscription.
func (c *Collector) IncReconnect(program string) {
	c.reconnects.WithLabelValues(program).Inc()
}

// SetSubscribed flips the subscription gauge.
func (c *Collector) SetSubscribed(program string, up bool) {
	v := 0.0
	if up {
		v = 1
	}
	c.subscribed.WithLabelValues(program).Set(v)
}
