package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// EvaluationRuns counts whole evaluation invocations by final status.
	EvaluationRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alerts_evaluation_runs_total",
			Help: "Total number of alert evaluation runs",
		},
		[]string{"status"}, // status: ok, failed
	)

	// EvaluationDuration observes how long one evaluation run takes.
	EvaluationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "alerts_evaluation_duration_seconds",
			Help:    "Duration of one alert evaluation run in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
	)

	// AlertOutcomes counts per-alert evaluation outcomes.
	AlertOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alerts_evaluation_outcomes_total",
			Help: "Total number of per-alert evaluation outcomes",
		},
		[]string{"outcome"},
	)
)
