// Package metrics exposes authentication counters to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dtroode/hurtle-auth/internal/model"
)

const resultOK = "ok"

var _ model.AuthMetrics = (*Collector)(nil)

// Collector records authentication metrics.
type Collector struct {
	attempts        *prometheus.CounterVec
	attemptLatency  *prometheus.HistogramVec
	tokensIssued    prometheus.Counter
	tokenValidation *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hurtle_auth_attempts_total",
			Help: "Authentication attempts by method and result.",
		}, []string{"method", "result"}),
		attemptLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hurtle_auth_attempt_duration_seconds",
			Help:    "Authentication attempt latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
		tokensIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hurtle_auth_tokens_issued_total",
			Help: "Session tokens issued.",
		}),
		tokenValidation: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hurtle_auth_token_validations_total",
			Help: "Session token validations by result.",
		}, []string{"result"}),
	}

	reg.MustRegister(
		c.attempts,
		c.attemptLatency,
		c.tokensIssued,
		c.tokenValidation,
	)

	return c
}

func (c *Collector) RecordAttempt(method string, kind model.Kind, elapsed time.Duration) {
	c.attempts.WithLabelValues(method, result(kind)).Inc()
	c.attemptLatency.WithLabelValues(method).Observe(elapsed.Seconds())
}

func (c *Collector) RecordTokenIssued() {
	c.tokensIssued.Inc()
}

func (c *Collector) RecordTokenValidation(kind model.Kind) {
	c.tokenValidation.WithLabelValues(result(kind)).Inc()
}

func result(kind model.Kind) string {
	if kind == "" {
		return resultOK
	}
	return string(kind)
}

// Handler returns the Prometheus scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
