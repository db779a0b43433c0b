package diagnoser

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	diagnoseDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "runbook_diagnose_duration_seconds",
			Help:    "Time taken to produce one diagnosis (excluding evidence collection)",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		},
	)

	diagnoseTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "runbook_diagnose_total",
			Help: "Total number of diagnosis attempts",
		},
		[]string{"status"}, // success or error
	)

	collectTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "runbook_collect_total",
			Help: "Total number of evidence collection attempts",
		},
		[]string{"kind", "status"},
	)
)
