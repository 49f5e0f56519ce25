package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	exchangesCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "exchanges_created_total",
			Help: "Exchanges converted and stored",
		},
		[]string{"currency_from", "currency_to"},
	)

	failures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "exchange_failures_total",
			Help: "Failed requests by classified kind and HTTP status",
		},
		[]string{"kind", "status"},
	)

	rateLookupDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rate_lookup_duration_seconds",
			Help:    "Time spent resolving a conversion rate",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 13), // 1ms .. ~4s
		},
		[]string{"source", "outcome"},
	)
)

func RecordExchangeCreated(from, to string) {
	exchangesCreated.WithLabelValues(from, to).Inc()
}

func RecordFailure(kind string, status int) {
	failures.WithLabelValues(kind, strconv.Itoa(status)).Inc()
}

func ObserveRateLookup(source, outcome string, d time.Duration) {
	rateLookupDuration.WithLabelValues(source, outcome).Observe(d.Seconds())
}

// Handler exposes the default registry.
func Handler() http.Handler { return promhttp.Handler() }
