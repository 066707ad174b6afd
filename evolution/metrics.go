package evolution

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// evaluations counts objective evaluations.
	// Labels: outcome (feasible, infeasible)
	evaluations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "burnrate",
		Name:      "evaluations_total",
		Help:      "Objective evaluations by outcome",
	}, []string{"outcome"})

	generationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "burnrate",
		Name:      "generation_seconds",
		Help:      "Wall time of one generation",
		Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
	})

	bestFitness = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "burnrate",
		Name:      "best_fitness",
		Help:      "Best feasible fitness of the running optimizer",
	})

	generations = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "burnrate",
		Name:      "generations_total",
		Help:      "Completed generations",
	})
)

func recordEvaluations(feasible, infeasible int) {
	evaluations.WithLabelValues("feasible").Add(float64(feasible))
	evaluations.WithLabelValues("infeasible").Add(float64(infeasible))
}
