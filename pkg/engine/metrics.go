package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	evaluateDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "runbook_engine_evaluate_duration_seconds",
			Help:    "Time taken to evaluate a candidate rule set against one fact bundle",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
		},
	)

	evaluateTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "runbook_engine_evaluate_total",
			Help: "Total number of rule evaluations performed",
		},
	)

	matchedRules = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "runbook_engine_matched_rules",
			Help:    "Number of rules matched per evaluation",
			Buckets: []float64{0, 1, 2, 3, 5, 8, 13},
		},
	)
)
