package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// QuotesComputed counts amortization quotes served, by outcome.
	QuotesComputed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mutuo_quotes_computed_total",
			Help: "Total number of amortization quotes computed",
		},
		[]string{"status"},
	)

	// ValidationFailures counts rejected parameter sets, by field.
	ValidationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mutuo_validation_failures_total",
			Help: "Parameter sets rejected by the input validator",
		},
		[]string{"reason"},
	)

	// CacheRequests counts quote cache lookups, by result.
	CacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mutuo_cache_requests_total",
			Help: "Quote cache lookups",
		},
		[]string{"result"},
	)

	// LedgerSyncs counts quote rows exported to the ledger, by outcome.
	LedgerSyncs = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mutuo_ledger_syncs_total",
			Help: "Quote rows synced to the ledger",
		},
		[]string{"status"},
	)
)
