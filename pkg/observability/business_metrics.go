package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

var (
	settlementsGeneratedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "settlements_generated_total",
		Help: "Total number of settlements generated",
	}, []string{
		"brand_id",
		"currency",
	})

	settlementNetPayable = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "settlement_net_payable_total",
		Help: "Cumulative net payable across generated settlements (for revenue tracking)",
	}, []string{
		"brand_id",
		"currency",
	})

	paymentsAppliedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "settlement_payments_applied_total",
		Help: "Total number of payments applied to settlements",
	}, []string{
		"brand_id",
		"status", // resulting settlement status: partial, paid
		"currency",
	})

	paymentAmountTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "settlement_payment_amount_total",
		Help: "Cumulative submitted payment amount",
	}, []string{
		"brand_id",
		"currency",
	})

	paymentsRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "settlement_payments_rejected_total",
		Help: "Payments rejected before any mutation",
	}, []string{
		"reason",
	})
)

// RecordSettlementGenerated records a generated (or regenerated) settlement
func RecordSettlementGenerated(brandID, currency string, netPayable decimal.Decimal) {
	settlementsGeneratedTotal.WithLabelValues(brandID, currency).Inc()
	net, _ := netPayable.Float64()
	settlementNetPayable.WithLabelValues(brandID, currency).Add(net)
}

// RecordPaymentApplied records a successfully applied payment
func RecordPaymentApplied(brandID, status, currency string, amount decimal.Decimal) {
	paymentsAppliedTotal.WithLabelValues(brandID, status, currency).Inc()
	amt, _ := amount.Float64()
	paymentAmountTotal.WithLabelValues(brandID, currency).Add(amt)
}

// RecordPaymentRejected records a structured payment rejection
func RecordPaymentRejected(reason string) {
	paymentsRejectedTotal.WithLabelValues(reason).Inc()
}
