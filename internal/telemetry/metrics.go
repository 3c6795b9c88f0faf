package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PaymentsProcessed counts resolved payment attempts by final status.
	PaymentsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_gateway_payments_total",
		Help: "Processed payment attempts by final status.",
	}, []string{"status"})

	// BankRequestDuration observes acquiring bank round-trip latency by
	// outcome class (authorized, declined, client_error, unavailable, fault).
	BankRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "payment_gateway_bank_request_seconds",
		Help:    "Acquiring bank request duration by outcome.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
)

// RegisterLedgerSize exposes the current ledger record count as a gauge.
func RegisterLedgerSize(count func() float64) {
	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "payment_gateway_ledger_records",
		Help: "Number of payment records held by the ledger.",
	}, count)
}
