package hbridge

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const tracerName = "github.com/advdv/hbridge"

func newTracer(tp trace.TracerProvider) trace.Tracer {
	if tp == nil {
		tp = noop.NewTracerProvider()
	}

	return tp.Tracer(tracerName)
}

// startSpan starts the span of a bridged request. The returned func ends it with the final status.
func startSpan(ctx context.Context, tracer trace.Tracer, r *http.Request, route string) (context.Context, func(int, error)) {
	name := r.Method + " " + route
	if route == "" {
		name = r.Method + " not_found"
	}

	ctx, span := tracer.Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.String("http.request.method", r.Method),
			attribute.String("url.path", r.URL.Path),
			attribute.String("http.route", route),
		))

	return ctx, func(status int, err error) {
		defer span.End()

		span.SetAttributes(attribute.Int("http.response.status_code", status))

		if err != nil {
			span.RecordError(err)
		}

		if status >= http.StatusInternalServerError || err != nil {
			span.SetStatus(codes.Error, http.StatusText(status))
		}
	}
}
