// Package metrics holds the Prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backoffice_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "backoffice_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2, 5},
		},
		[]string{"method", "route"},
	)

	ReservationActions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backoffice_reservation_actions_total",
			Help: "Reservation state transitions by action and outcome",
		},
		[]string{"action", "outcome"},
	)

	PaymentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backoffice_payments_total",
			Help: "Payments by kind and resulting status",
		},
		[]string{"kind", "status"},
	)

	CashMovements = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backoffice_cash_movement_amount_total",
			Help: "Validated cash amounts by direction",
		},
		[]string{"direction"},
	)

	LedgerRecomputedEntries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "backoffice_ledger_recomputed_entries_total",
			Help: "Cash entries whose stored balances were rewritten",
		},
	)

	MailsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backoffice_mails_total",
			Help: "Outgoing mails by template and outcome",
		},
		[]string{"template", "outcome"},
	)
)

// Outcome labels a counter with "ok" or "error".
func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// ObserveCash adds a validated movement amount to the direction counter.
func ObserveCash(direction string, amount decimal.Decimal) {
	f, _ := amount.Float64()
	if f > 0 {
		CashMovements.WithLabelValues(direction).Add(f)
	}
}
