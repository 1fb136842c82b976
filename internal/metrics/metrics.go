package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	TransactionsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "transactions_created_total",
			Help: "Number of transactions created through checkout",
		},
	)

	CheckoutFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkout_failures_total",
			Help: "Number of failed checkout attempts by reason",
		},
		[]string{"reason"},
	)

	PaymentsSettled = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_settled_total",
			Help: "Number of transactions settled by final status",
		},
		[]string{"status"},
	)
)

func Register() {
	prometheus.MustRegister(TransactionsCreated, CheckoutFailures, PaymentsSettled)
}
