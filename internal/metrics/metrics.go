package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SalesRecordedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dashboard_sales_recorded_total",
			Help: "Total number of sales recorded",
		},
	)

	SalesValueRecordedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dashboard_sales_value_recorded_total",
			Help: "Sum of quantity times price over recorded sales",
		},
	)

	PaymentStatusUpdatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_payment_status_updates_total",
			Help: "Total number of payment status updates",
		},
		[]string{"status"},
	)

	AuthAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_auth_attempts_total",
			Help: "Total number of login attempts",
		},
		[]string{"result"},
	)

	RegistrationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_registrations_total",
			Help: "Total number of account registrations",
		},
		[]string{"role"},
	)
)

// PaidLabel maps a payment flag to the status label used by
// PaymentStatusUpdatesTotal.
func PaidLabel(isPaid bool) string {
	if isPaid {
		return "paid"
	}
	return "unpaid"
}
