package bigint

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus counters for algorithm dispatch. They are registered on the
// default registry at package init and exposed by the application's metrics
// endpoint when one is configured; in library-only use they are inert.
var (
	mulDispatchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bignum_mul_dispatch_total",
			Help: "Total multiplications, partitioned by selected algorithm.",
		},
		[]string{"algorithm"},
	)

	divDispatchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bignum_div_dispatch_total",
			Help: "Total divisions, partitioned by selected algorithm.",
		},
		[]string{"algorithm"},
	)

	primalityTestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bignum_primality_tests_total",
			Help: "Total primality test phases executed, partitioned by phase.",
		},
		[]string{"phase"},
	)
)
