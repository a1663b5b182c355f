package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/cx-tal-miterani/flight-booking-client/shared/models"
)

// Outcome label values
const (
	OutcomeSuccess         = "success"
	OutcomeValidation      = "validation"
	OutcomeUnauthenticated = "unauthenticated"
	OutcomeNotFound        = "not_found"
	OutcomeMalformed       = "malformed"
	OutcomeTransport       = "transport"
	OutcomeError           = "error"
)

// Observer records store operations as prometheus metrics
type Observer struct {
	// OperationsTotal counts finished operations by outcome
	OperationsTotal *prometheus.CounterVec
	// OperationDuration observes operation latency
	OperationDuration *prometheus.HistogramVec
	// InFlight is the number of operations currently running
	InFlight *prometheus.GaugeVec
}

// NewObserver registers the store metrics with reg
func NewObserver(reg prometheus.Registerer) *Observer {
	factory := promauto.With(reg)

	return &Observer{
		OperationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "booking_client",
				Name:      "store_operations_total",
				Help:      "The total number of finished store operations",
			},
			[]string{"store", "operation", "outcome"},
		),
		OperationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "booking_client",
				Name:      "store_operation_duration_seconds",
				Help:      "The time spent in store operations, including the REST round trip",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"store", "operation"},
		),
		InFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "booking_client",
				Name:      "store_operations_in_flight",
				Help:      "The number of store operations awaiting a response",
			},
			[]string{"store"},
		),
	}
}

func (o *Observer) Start(_ context.Context, store, _ string) {
	o.InFlight.WithLabelValues(store).Inc()
}

func (o *Observer) Success(_ context.Context, store, op string, d time.Duration) {
	o.finish(store, op, d, OutcomeSuccess)
}

func (o *Observer) Failure(_ context.Context, store, op string, d time.Duration, err error) {
	o.finish(store, op, d, Outcome(err))
}

func (o *Observer) finish(store, op string, d time.Duration, outcome string) {
	o.InFlight.WithLabelValues(store).Dec()
	o.OperationsTotal.WithLabelValues(store, op, outcome).Inc()
	o.OperationDuration.WithLabelValues(store, op).Observe(d.Seconds())
}

// Outcome maps an operation error onto its outcome label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case models.IsValidation(err):
		return OutcomeValidation
	case errors.Is(err, models.ErrUnauthenticated):
		return OutcomeUnauthenticated
	case models.IsNotFound(err):
		return OutcomeNotFound
	case models.IsMalformed(err):
		return OutcomeMalformed
	case models.IsTransport(err):
		return OutcomeTransport
	default:
		return OutcomeError
	}
}
