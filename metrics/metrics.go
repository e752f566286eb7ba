package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	LookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nutrition_lookups_total",
		Help: "Nutrition lookup calls by result (ok, miss, error).",
	}, []string{"result"})

	EstimatesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "edible_estimates_total",
		Help: "Edible-amount estimates computed.",
	})

	ProductChangesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "product_changes_total",
		Help: "Current-product assignments.",
	})
)
