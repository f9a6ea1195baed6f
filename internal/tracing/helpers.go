package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// StartPaymentSpan creates a span covering one step of the payment lifecycle,
// tagged with the order ID. Returns the new context and a function to end the
// span.
//
// Example usage:
//
//	ctx, endSpan := tracing.StartPaymentSpan(ctx, "pay", orderID)
//	defer func() { endSpan(err) }()
func StartPaymentSpan(ctx context.Context, step, orderID string) (context.Context, func(error)) {
	tracer := otel.Tracer("walletpay/payment")

	ctx, span := tracer.Start(ctx, "payment "+step,
		trace.WithAttributes(
			attribute.String("payment.step", step),
			attribute.String("payment.order_id", orderID),
		),
	)

	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}
}

// StartDBSpan creates a span for a payment journal database operation.
func StartDBSpan(ctx context.Context, table, operation string) (context.Context, func(error)) {
	tracer := otel.Tracer("walletpay/db")

	spanName := operation
	if table != "" {
		spanName = operation + " " + table
	}

	ctx, span := tracer.Start(ctx, spanName,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "postgresql"),
			attribute.String("db.operation", operation),
		),
	)
	if table != "" {
		span.SetAttributes(attribute.String("db.sql.table", table))
	}

	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}
}

// AddEvent adds an event to the current span.
func AddEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	span.AddEvent(name, trace.WithAttributes(attrs...))
}

// SetAttributes sets attributes on the current span.
func SetAttributes(ctx context.Context, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	span.SetAttributes(attrs...)
}
