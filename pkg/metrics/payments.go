package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PaymentMetrics tracks payment request outcomes and settlement latency.
type PaymentMetrics struct {
	payments        *prometheus.CounterVec
	settlementDelay prometheus.Histogram
}

// NewPaymentMetrics registers the payment metrics on the provided registerer.
func NewPaymentMetrics(reg prometheus.Registerer) *PaymentMetrics {
	if reg == nil {
		return &PaymentMetrics{}
	}
	payments := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payments_total",
		Help: "Payment requests by channel and final status.",
	}, []string{"channel", "status"})
	settlementDelay := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "payment_settlement_seconds",
		Help:    "Time from payment request creation to settlement.",
		Buckets: []float64{0.5, 1, 2, 3, 5, 10, 30, 60, 300, 900},
	})
	reg.MustRegister(payments, settlementDelay)
	return &PaymentMetrics{
		payments:        payments,
		settlementDelay: settlementDelay,
	}
}

// IncPayment increments the counter for the given channel/status pair.
func (p *PaymentMetrics) IncPayment(channel, status string) {
	if p == nil || p.payments == nil {
		return
	}
	p.payments.WithLabelValues(normalizeLabel(channel), normalizeLabel(status)).Inc()
}

// ObserveSettlementDelay records how long a pending payment waited before settling.
func (p *PaymentMetrics) ObserveSettlementDelay(delay time.Duration) {
	if p == nil || p.settlementDelay == nil {
		return
	}
	p.settlementDelay.Observe(delay.Seconds())
}
