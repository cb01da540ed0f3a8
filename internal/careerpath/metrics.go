package careerpath

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	attemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "careerpath_attempts_total",
			Help: "Generation attempts by prompt variant and outcome reason",
		},
		[]string{"variant", "outcome"},
	)

	resultsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "careerpath_results_total",
			Help: "Generation results by kind",
		},
		[]string{"kind"},
	)

	generationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "careerpath_generation_duration_seconds",
			Help:    "Time from request to result, by result kind",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80},
		},
		[]string{"kind"},
	)

	persistFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "careerpath_persist_failures_total",
			Help: "Results that could not be stored",
		},
	)
)
