package hbridgefx

import (
	"context"
	"net/http"

	"github.com/advdv/hbridge"
	"github.com/carlmjohnson/requests"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ctxKey is the key type for context values.
type ctxKey int

const ctxKeyRequestDep ctxKey = iota

// requestDep holds request-scoped dependencies available via context.
type requestDep struct {
	logger   *zap.Logger
	requests *requests.Builder
}

// withRequestDep injects dependencies into the request context.
func withRequestDep(d *requestDep) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), ctxKeyRequestDep, d)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func requestDepFromContext(ctx context.Context) *requestDep {
	d, ok := ctx.Value(ctxKeyRequestDep).(*requestDep)
	if !ok {
		panic("hbridgefx: requestDep not found in context; is the middleware configured?")
	}
	return d
}

// Log returns a zap logger from the context, correlated with the bridged request and its trace.
func Log(ctx context.Context) *zap.Logger {
	d := requestDepFromContext(ctx)

	fields := traceFields(ctx)
	if id := hbridge.RequestID(ctx); id != "" {
		fields = append(fields, zap.String("request_id", id))
	}

	return d.logger.With(fields...)
}

// Span returns the current trace span from the context.
func Span(ctx context.Context) trace.Span {
	return trace.SpanFromContext(ctx)
}

// traceFields extracts trace_id and span_id from the context for log correlation.
func traceFields(ctx context.Context) []zap.Field {
	span := trace.SpanFromContext(ctx)
	if !span.SpanContext().IsValid() {
		return nil
	}
	sc := span.SpanContext()
	return []zap.Field{
		zap.String("trace_id", sc.TraceID().String()),
		zap.String("span_id", sc.SpanID().String()),
	}
}
