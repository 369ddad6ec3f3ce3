package hbridge_test

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/advdv/hbridge"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()

	metrics, err := hbridge.NewMetrics(reg)
	require.NoError(t, err)

	_, err = hbridge.NewMetrics(reg)
	require.ErrorContains(t, err, "failed to register collector")

	bridge, _ := newTestBridge(t, hbridge.WithMetrics(metrics))

	var delegated int
	host := eventHost(bridge, &delegated)

	serve(t, host, http.MethodGet, "/users/1", nil)
	serve(t, host, http.MethodGet, "/users/2", nil)
	serve(t, host, http.MethodGet, "/error", nil)
	serve(t, host, http.MethodGet, "/legacy", nil)

	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(`
# HELP hbridge_requests_total Requests seen by the bridge, by outcome and response status.
# TYPE hbridge_requests_total counter
hbridge_requests_total{outcome="delegated",status="none"} 1
hbridge_requests_total{outcome="served",status="2xx"} 2
hbridge_requests_total{outcome="served",status="4xx"} 1
# HELP hbridge_requests_in_flight Bridged requests currently being served.
# TYPE hbridge_requests_in_flight gauge
hbridge_requests_in_flight 0
`), "hbridge_requests_total", "hbridge_requests_in_flight"))

	count, err := testutil.GatherAndCount(reg, "hbridge_request_duration_seconds")
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestTracing(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))

	bridge, _ := newTestBridge(t, hbridge.WithTracerProvider(tp), hbridge.WithRaise404(true))
	h := bridge.Wrap(http.NotFoundHandler())

	serve(t, h, http.MethodGet, "/users/9", nil)
	serve(t, h, http.MethodGet, "/internal", nil)
	serve(t, h, http.MethodGet, "/nothing", nil)

	spans := rec.Ended()
	require.Len(t, spans, 3)

	require.Equal(t, "GET /users/:id", spans[0].Name())
	require.Equal(t, codes.Unset, spans[0].Status().Code)

	require.Equal(t, "GET /internal", spans[1].Name())
	require.Equal(t, codes.Error, spans[1].Status().Code)

	require.Equal(t, "GET not_found", spans[2].Name())
	require.Equal(t, codes.Unset, spans[2].Status().Code)
}

func TestTracingSpanInContext(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))

	bridge := hbridge.New(hbridge.WithTracerProvider(tp))
	bridge.Get("/traced", hbridge.HandlerFunc(func(ctx context.Context) (any, error) {
		_, span := tp.Tracer("test").Start(ctx, "child")
		span.End()

		return nil, nil
	}))

	serve(t, bridge.Wrap(http.NotFoundHandler()), http.MethodGet, "/traced", nil)

	spans := rec.Ended()
	require.Len(t, spans, 2)
	require.Equal(t, "child", spans[0].Name())
	require.Equal(t, spans[1].SpanContext().SpanID(), spans[0].Parent().SpanID())
}
