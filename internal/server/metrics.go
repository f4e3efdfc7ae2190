package server

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "mjml"

type metrics struct {
	conversions *prometheus.CounterVec
	duration    prometheus.Histogram
	requests    *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	factory := promauto.With(reg)
	return &metrics{
		conversions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "conversions_total",
			Help:      "Conversions by outcome (ok, invalid, error).",
		}, []string{"status"}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "conversion_duration_seconds",
			Help:      "Time spent converting one document.",
			Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		}),
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route pattern and status code.",
		}, []string{"route", "code"}),
	}
}

func (m *metrics) observeConversion(err error, elapsed time.Duration) {
	m.duration.Observe(elapsed.Seconds())
	status := "ok"
	switch {
	case err == nil:
	case isMarkupError(err):
		status = "invalid"
	default:
		status = "error"
	}
	m.conversions.WithLabelValues(status).Inc()
}
