package hbridgefx

import (
	"context"
	"net/http"

	"github.com/carlmjohnson/requests"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// NewHTTPTransport creates an HTTP RoundTripper instrumented with OpenTelemetry tracing.
// Outbound requests made while serving a bridged request become children of its span.
func NewHTTPTransport(tp trace.TracerProvider, prop propagation.TextMapPropagator) http.RoundTripper {
	return otelhttp.NewTransport(http.DefaultTransport,
		otelhttp.WithTracerProvider(tp),
		otelhttp.WithPropagators(prop),
	)
}

// NewHTTPClient creates an *http.Client that uses the instrumented transport.
func NewHTTPClient(t http.RoundTripper) *http.Client {
	return &http.Client{Transport: t}
}

// NewRequest returns a request builder that uses the app's instrumented transport. The builder is a
// fresh copy and may be configured freely.
//
//	var user User
//	err := hbridgefx.NewRequest(ctx).BaseURL(usersURL).Pathf("/users/%s", id).ToJSON(&user).Fetch(ctx)
func NewRequest(ctx context.Context) *requests.Builder {
	return requestDepFromContext(ctx).requests.Clone()
}

func newRequestBuilder(t http.RoundTripper) *requests.Builder {
	return requests.New().Transport(t)
}
