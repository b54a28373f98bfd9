// Package metrics holds the Prometheus collectors of the backend.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Reconciliations counts reconcile calls by result (ok, conflict, error).
	Reconciliations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "arisan",
		Name:      "reconciliations_total",
		Help:      "Payment reconciliations by result.",
	}, []string{"result"})

	// PaymentWrites counts payments written by reconciliation, by kind (created, updated).
	PaymentWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "arisan",
		Name:      "payment_writes_total",
		Help:      "Payments created or updated by reconciliation.",
	}, []string{"kind"})

	// Draws counts winner draws by result (ok, exhausted, error).
	Draws = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "arisan",
		Name:      "draws_total",
		Help:      "Winner draws by result.",
	}, []string{"result"})

	// Failures counts errors reported at the RPC boundary by kind.
	Failures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "arisan",
		Name:      "failures_total",
		Help:      "Failed operations by error kind.",
	}, []string{"kind"})

	// ReconcileDuration observes reconcile latency in seconds.
	ReconcileDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "arisan",
		Name:      "reconcile_duration_seconds",
		Help:      "Time spent reconciling one group and month.",
		Buckets:   prometheus.DefBuckets,
	})
)
