package domain

import (
	"context"

	apperrors "github.com/louisbranch/riskodds/internal/platform/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/louisbranch/riskodds/internal/services/mcp/domain"

func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if ctx == nil {
		ctx = context.Background()
	}
	return otel.Tracer(tracerName).Start(ctx, name, trace.WithAttributes(attrs...))
}

// endSpan records err on the span, if any, and ends it. Rejected inputs are
// tagged apart from internal failures.
func endSpan(span trace.Span, err error) {
	if err != nil {
		code := apperrors.CodeOf(err)
		span.SetAttributes(
			attribute.String("risk.error_code", string(code)),
			attribute.Bool("risk.invalid_input", code.IsInvalidInput()),
		)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
