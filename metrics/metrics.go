// Package metrics holds the Prometheus counters of the order engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "shopsphere"

// Metrics is registered once at startup and shared by the services
type Metrics struct {
	OrdersCreated      *prometheus.CounterVec
	OrdersConfirmed    prometheus.Counter
	OrdersCancelled    *prometheus.CounterVec
	OrdersReaped       prometheus.Counter
	StatusTransitions  *prometheus.CounterVec
	Refunds            *prometheus.CounterVec
	SideEffectFailures *prometheus.CounterVec
	SignatureFailures  prometheus.Counter
	PricingRejections  *prometheus.CounterVec
}

// New registers the counters on reg. Pass prometheus.NewRegistry() in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		OrdersCreated: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_created_total",
			Help:      "Orders persisted, by payment method.",
		}, []string{"method"}),
		OrdersConfirmed: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_confirmed_total",
			Help:      "Online orders confirmed after a verified payment.",
		}),
		OrdersCancelled: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_cancelled_total",
			Help:      "Orders cancelled, by actor (user, admin, reaper).",
		}, []string{"actor"}),
		OrdersReaped: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_reaped_total",
			Help:      "Abandoned online orders cancelled by the reaper.",
		}),
		StatusTransitions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_status_transitions_total",
			Help:      "Admin status transitions, by target status.",
		}, []string{"to"}),
		Refunds: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "refunds_total",
			Help:      "Refund attempts, by result.",
		}, []string{"result"}),
		SideEffectFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "side_effect_failures_total",
			Help:      "Stock or coupon writes that failed and were skipped.",
		}, []string{"kind"}),
		SignatureFailures: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_signature_failures_total",
			Help:      "Payment confirmations rejected for an invalid signature.",
		}),
		PricingRejections: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pricing_rejections_total",
			Help:      "Checkout calculations rejected, by reason.",
		}, []string{"reason"}),
	}
}

// Side effect kinds
const (
	SideEffectStockDecrement = "stock_decrement"
	SideEffectStockRestore   = "stock_restore"
	SideEffectCouponUsage    = "coupon_usage"
)
