package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes checkout counters on the default prometheus registry.
type Metrics struct {
	paymentsProcessed  *prometheus.CounterVec
	validationFailures *prometheus.CounterVec
	capturedFields     prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		paymentsProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "paygate_payments_processed_total",
			Help: "Payments processed through a gateway, by gateway id and resulting order status.",
		}, []string{"gateway", "status"}),
		validationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "paygate_checkout_validation_failures_total",
			Help: "Checkout submissions rejected by field validation, by field.",
		}, []string{"field"}),
		capturedFields: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "paygate_captured_fields_total",
			Help: "Captured payment field sets persisted to order meta.",
		}),
	}

	// Register is tolerant of duplicates so New stays safe under test re-use.
	for _, c := range []prometheus.Collector{
		m.paymentsProcessed,
		m.validationFailures,
		m.capturedFields,
	} {
		if err := prometheus.Register(c); err != nil {
			var already prometheus.AlreadyRegisteredError
			if !errors.As(err, &already) {
				return nil
			}
		}
	}

	return m
}

func (m *Metrics) RecordPayment(gateway, status string) {
	if m == nil {
		return
	}
	m.paymentsProcessed.WithLabelValues(gateway, status).Inc()
}

func (m *Metrics) RecordValidationFailure(field string) {
	if m == nil {
		return
	}
	m.validationFailures.WithLabelValues(field).Inc()
}

func (m *Metrics) RecordCapture() {
	if m == nil {
		return
	}
	m.capturedFields.Inc()
}
