package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector holds the Prometheus metrics exposed on /metrics.
type Collector struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	webhooksTotal  *prometheus.CounterVec
	paymentsTotal  *prometheus.CounterVec
	blingSyncTotal *prometheus.CounterVec
}

// NewCollector registers and returns the application metrics.
func NewCollector() *Collector {
	return &Collector{
		httpRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		httpRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),
		webhooksTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_webhooks_total",
				Help: "Payment webhook deliveries by provider and result",
			},
			[]string{"provider", "result"},
		),
		paymentsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_intents_total",
				Help: "Payment intents created by provider and result",
			},
			[]string{"provider", "result"},
		),
		blingSyncTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bling_sync_total",
				Help: "Bling sales-order sync attempts by result",
			},
			[]string{"result"},
		),
	}
}

// ObserveHTTP records one handled HTTP request.
func (c *Collector) ObserveHTTP(method, endpoint string, status int, duration time.Duration) {
	c.httpRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
	c.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// ObserveWebhook records one webhook delivery.
func (c *Collector) ObserveWebhook(provider, result string) {
	c.webhooksTotal.WithLabelValues(provider, result).Inc()
}

// ObservePayment records one payment-intent creation attempt.
func (c *Collector) ObservePayment(provider, result string) {
	c.paymentsTotal.WithLabelValues(provider, result).Inc()
}

// ObserveBlingSync records one ERP sync attempt.
func (c *Collector) ObserveBlingSync(result string) {
	c.blingSyncTotal.WithLabelValues(result).Inc()
}

// Default is the collector wired by main; modules may use it directly.
var Default = NewCollector()
