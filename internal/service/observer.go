package service

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/cx-tal-miterani/flight-booking-client/internal/service"

// Observer is notified around every store operation. Implementations must not block.
type Observer interface {
	Start(ctx context.Context, store, op string)
	Success(ctx context.Context, store, op string, d time.Duration)
	Failure(ctx context.Context, store, op string, d time.Duration, err error)
}

// Observers fans out to every observer in order
type Observers []Observer

func (o Observers) Start(ctx context.Context, store, op string) {
	for _, obs := range o {
		obs.Start(ctx, store, op)
	}
}

func (o Observers) Success(ctx context.Context, store, op string, d time.Duration) {
	for _, obs := range o {
		obs.Success(ctx, store, op, d)
	}
}

func (o Observers) Failure(ctx context.Context, store, op string, d time.Duration, err error) {
	for _, obs := range o {
		obs.Failure(ctx, store, op, d, err)
	}
}

// instrument opens a span and notifies observers. The returned func closes both.
func (s settings) instrument(ctx context.Context, store, op string) (context.Context, func(error)) {
	ctx, span := s.tracer.Start(ctx, store+"."+op, trace.WithAttributes(
		attribute.String("store", store),
		attribute.String("operation", op),
	))
	start := time.Now()
	s.observer.Start(ctx, store, op)

	return ctx, func(err error) {
		d := time.Since(start)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			s.observer.Failure(ctx, store, op, d, err)
		} else {
			s.observer.Success(ctx, store, op, d)
		}
		span.End()
	}
}

func defaultTracer() trace.Tracer {
	return otel.Tracer(tracerName)
}
