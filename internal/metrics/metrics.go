// Package metrics exposes client-side Prometheus instrumentation for
// interactive query handles.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ScriptsSubmitted counts scripts submitted per public operation.
	ScriptsSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vinegraph_scripts_submitted_total",
			Help: "Total number of traversal scripts submitted to the frontend",
		},
		[]string{"op"},
	)

	// OperationErrors counts failed operations, labeled by error kind.
	OperationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vinegraph_operation_errors_total",
			Help: "Total number of failed interactive query operations",
		},
		[]string{"op", "kind"},
	)

	// SubgraphBuildSeconds measures end-to-end subgraph extraction time,
	// from create-graph submission to materialization join.
	SubgraphBuildSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "vinegraph_subgraph_build_seconds",
			Help:    "Duration of subgraph extraction calls in seconds",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
	)
)
