package metrics

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/cx-tal-miterani/flight-booking-client/shared/models"
)

func TestObserver(t *testing.T) {
	reg := prometheus.NewRegistry()
	o := NewObserver(reg)
	ctx := context.Background()

	o.Start(ctx, "catalog", "search")
	o.Start(ctx, "catalog", "search")
	assert.Equal(t, 2.0, testutil.ToFloat64(o.InFlight.WithLabelValues("catalog")))

	o.Success(ctx, "catalog", "search", 10*time.Millisecond)
	o.Failure(ctx, "catalog", "search", 5*time.Millisecond, &models.TransportError{StatusCode: 500})

	assert.Equal(t, 0.0, testutil.ToFloat64(o.InFlight.WithLabelValues("catalog")))
	assert.Equal(t, 1.0, testutil.ToFloat64(o.OperationsTotal.WithLabelValues("catalog", "search", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(o.OperationsTotal.WithLabelValues("catalog", "search", OutcomeTransport)))
	assert.Equal(t, 1, testutil.CollectAndCount(o.OperationDuration))
}

func TestNewObserver_RegistersOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewObserver(reg)

	assert.Panics(t, func() { NewObserver(reg) })
}

func TestOutcome(t *testing.T) {
	tests := []struct {
		err      error
		expected string
	}{
		{nil, OutcomeSuccess},
		{models.NewValidationError("pointsToAdd", "must be positive"), OutcomeValidation},
		{fmt.Errorf("failed to fetch bookings: %w", models.ErrUnauthenticated), OutcomeUnauthenticated},
		{&models.NotFoundError{Kind: "flight", ID: "F1"}, OutcomeNotFound},
		{&models.MalformedResponseError{Reason: "scalar"}, OutcomeMalformed},
		{&models.TransportError{StatusCode: 502}, OutcomeTransport},
		{errors.New("boom"), OutcomeError},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, Outcome(tt.err))
		})
	}
}
