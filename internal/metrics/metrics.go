// Package metrics instruments outbound API requests with Prometheus.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder counts and times requests issued through the API client.
type Recorder struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewRecorder creates a Recorder and registers its collectors on reg.
// Registering twice on the same registry reuses the existing collectors,
// so every client built in one process feeds one set of series.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	requests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tripkit_api_requests_total",
			Help: "Total API requests by method, path and outcome",
		},
		[]string{"method", "path", "outcome"},
	)
	duration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tripkit_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	return &Recorder{
		requests: registerOrReuse(reg, requests).(*prometheus.CounterVec),
		duration: registerOrReuse(reg, duration).(*prometheus.HistogramVec),
	}
}

// registerOrReuse registers c, or hands back the collector already
// registered under the same descriptor.
func registerOrReuse(reg prometheus.Registerer, c prometheus.Collector) prometheus.Collector {
	err := reg.Register(c)
	if err == nil {
		return c
	}
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		return are.ExistingCollector
	}
	panic(err)
}

// ObserveRequest records one completed request.
func (r *Recorder) ObserveRequest(method, path, outcome string, d time.Duration) {
	r.requests.WithLabelValues(method, path, outcome).Inc()
	r.duration.WithLabelValues(method, path).Observe(d.Seconds())
}
