// Package metrics exposes the bridge's operability signals as Prometheus
// metrics: token fetches, auth retries, tenant-filter rejections and rejected
// mutations are the contract operators monitor.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector implements domain.BridgeMetrics on a Prometheus registry.
type Collector struct {
	tokenFetch       prometheus.Counter
	authRetry        prometheus.Counter
	tenantRejected   prometheus.Counter
	mutationRejected prometheus.Counter
	remoteStatus     *prometheus.CounterVec
	remoteLatency    prometheus.Histogram
}

// NewCollector creates a collector and registers its metrics.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		tokenFetch: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fedbridge_token_fetch_total",
			Help: "Privileged login calls that yielded a fresh admin token.",
		}),
		authRetry: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fedbridge_auth_retry_total",
			Help: "Remote calls repeated after the admin token was rejected.",
		}),
		tenantRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fedbridge_tenant_rejected_total",
			Help: "Records discarded by the tenant scope filter.",
		}),
		mutationRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fedbridge_mutation_rejected_total",
			Help: "Writes discarded by the read-only federation adapter.",
		}),
		remoteStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fedbridge_remote_status_total",
			Help: "Account API responses by HTTP status code.",
		}, []string{"status_code"}),
		remoteLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "fedbridge_remote_latency_seconds",
			Help:    "Account API call latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.tokenFetch,
		c.authRetry,
		c.tenantRejected,
		c.mutationRejected,
		c.remoteStatus,
		c.remoteLatency,
	)

	return c
}

func (c *Collector) RecordTokenFetch() {
	c.tokenFetch.Inc()
}

func (c *Collector) RecordAuthRetry() {
	c.authRetry.Inc()
}

func (c *Collector) RecordTenantRejected() {
	c.tenantRejected.Inc()
}

func (c *Collector) RecordMutationRejected() {
	c.mutationRejected.Inc()
}

func (c *Collector) RecordRemoteStatus(code int) {
	c.remoteStatus.WithLabelValues(strconv.Itoa(code)).Inc()
}

func (c *Collector) RecordRemoteLatencySeconds(seconds float64) {
	c.remoteLatency.Observe(seconds)
}

// Handler returns the HTTP handler Prometheus scrapes.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
