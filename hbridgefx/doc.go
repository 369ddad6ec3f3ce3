// Package hbridgefx wires a bridged HTTP service with fx: environment parsing, zap logging, OpenTelemetry
// tracing, prometheus metrics, the reference host with the bridge installed as its first middleware, and
// the HTTP server lifecycle.
//
// A service embeds [BaseEnvironment] in its own environment struct and registers routes in a routing
// function whose arguments are injected:
//
//	type Env struct {
//	    hbridgefx.BaseEnvironment
//	    TableName string `env:"TABLE_NAME,required"`
//	}
//
//	func main() {
//	    hbridgefx.NewApp[Env](func(b *hbridge.Adapter, h *host.App) {
//	        b.Get("/users/:id", hbridge.HandlerFunc(getUser))
//	        h.On("GET /legacy", legacy)
//	    }).Run()
//	}
//
// Inside handlers [Log] returns a logger that carries the request id and the trace and span ids, and
// [NewRequest] returns a request builder whose outbound calls continue the request's trace.
//
// Every request runs with a deadline derived from HB_REQUEST_TIMEOUT; the server timeouts follow from
// the same value, see [TimeoutConfig].
package hbridgefx
