package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector records gateway call metrics. Callers expose the registry
// however suits their process; the SDK only writes to it.
type Collector struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewCollector creates and registers the gateway metric vectors
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shopsphere",
			Subsystem: "gateway",
			Name:      "requests_total",
			Help:      "Gateway calls by operation and outcome.",
		}, []string{"operation", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "shopsphere",
			Subsystem: "gateway",
			Name:      "request_duration_seconds",
			Help:      "Gateway call latency by operation.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	if reg != nil {
		reg.MustRegister(c.requests, c.duration)
	}
	return c
}

// Observe records one completed gateway call
func (c *Collector) Observe(operation, outcome string, elapsed time.Duration) {
	c.requests.WithLabelValues(operation, outcome).Inc()
	c.duration.WithLabelValues(operation).Observe(elapsed.Seconds())
}
