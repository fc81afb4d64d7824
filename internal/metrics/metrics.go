package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "inventory_server"

// Metrics holds the collectors exported on /metrics. It satisfies both
// inventory.MutationObserver and transform.PayloadObserver.
type Metrics struct {
	Requests   *prometheus.CounterVec
	Durations  *prometheus.HistogramVec
	Mutations  *prometheus.CounterVec
	Transforms *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests.",
			},
			[]string{"method", "route", "status"},
		),
		Durations: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds.",
				Buckets:   append(prometheus.DefBuckets, 15, 30),
			},
			[]string{"method", "route"},
		),
		Mutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "inventory_mutations_total",
				Help:      "Inventory mutations by operation and outcome.",
			},
			[]string{"op", "outcome"},
		),
		Transforms: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transform_payloads_total",
				Help:      "Transform payloads recorded, by kind.",
			},
			[]string{"kind"},
		),
	}
	reg.MustRegister(m.Requests, m.Durations, m.Mutations, m.Transforms)
	return m
}

func (m *Metrics) ObserveMutation(op, outcome string) {
	m.Mutations.WithLabelValues(op, outcome).Inc()
}

func (m *Metrics) ObservePayload(kind string) {
	m.Transforms.WithLabelValues(kind).Inc()
}
