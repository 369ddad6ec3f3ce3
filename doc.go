// Package hbridge lets a route table of its own serve requests that flow through another server's middleware
// chain, and hands everything it does not match back to that chain.
//
// # Overview
//
// The host server stays in charge of the connection. The [Adapter] is installed as one of its middleware
// and for every request decides between three outcomes:
//
//   - a route matched (or a not-found handler is configured): the adapter serves the request itself
//   - nothing matched and [WithRaise404] is set: the adapter answers with a 404
//   - otherwise: the request is delegated to the next host middleware, untouched
//
// A minimal example with a net/http chain:
//
//	bridge := hbridge.New()
//	bridge.Get("/users/:id", hbridge.HandlerFunc(func(ctx context.Context) (any, error) {
//	    return map[string]string{"id": hbridge.Param(ctx, "id")}, nil
//	}))
//
//	http.ListenAndServe(":8080", bridge.Wrap(legacyHandler))
//
// # Handlers
//
// A [Handler] returns a [Result]: either a value that is available right away ([Now]) or one that
// settles later ([Later], [Go]). [HandlerFunc] is synchronous, [AsyncFunc] runs on its own goroutine. The
// returned value becomes the response body:
//
//   - nil: whatever was written to [Res], or 204 when nothing was
//   - string: text/plain
//   - []byte: application/octet-stream
//   - io.Reader: streamed as application/octet-stream
//   - anything else: encoded as JSON
//
// Unless the handler set a status, POST requests answer with 201 and all others with 200. HEAD, 204 and
// 304 responses never carry a body.
//
// Several handlers can be registered for the same method and pattern. They run in order and the first one
// to return a value or an error ends the sequence; returning [ErrNext] hands over to the next one.
//
// # Request Context
//
// Handlers receive a context.Context that carries the bridged request. [Req], [Res], [Param], [Params],
// [Body] and [RequestID] read from it without any parameter threading. The request context is cleared
// when the adapter returns; accessors then yield zero values.
//
// # Error Handling
//
// A handler error that is or wraps an [*Error] is answered with its status code and a JSON body:
//
//	{"statusCode":400,"error":"Bad Request","message":"bad request"}
//
// Clients that only accept text/plain get the message as text. Any other error is a defect: it is
// reported once through [Logger.LogHandlerError] and answered with a generic 500. Panics are treated like
// errors, except http.ErrAbortHandler which is re-raised. Everything written before the error is discarded.
//
// # Sharing the Connection
//
// The host may write its own default response once control returns to it. To prevent that second write
// the host's response writer must be guarded with [Guard] (or use [Adapter.Wrap]). Once the adapter has
// written its response it seals the [Channel] and every later write by the host is silently dropped. The
// adapter only engages for requests whose writer is, or unwraps to, a Channel; everything else is
// delegated.
//
// # Event Based Hosts
//
// Hosts that run middleware as func(event, next) call [Adapter.Handle]. The event exposes the net/http
// pair through [Event]; transports without one (such as fasthttp) are always delegated.
//
// # Routing
//
// Patterns are matched by gorilla/mux. Next to gorilla's {name} syntax they accept :name, :name(regex),
// * for a single unnamed segment and ** for the tail of the path. Named routes can be reversed:
//
//	bridge.Get("/users/:id", getUser).Name("get-user")
//	url, err := bridge.Reverse("get-user", "123") // "/users/123"
//
// # Configuration
//
// Options are set with functional options or from a [Config] that is read from the environment
// ([ParseConfig]) or from a yaml file ([LoadConfig]). [Metrics] and an OpenTelemetry tracer provider can be
// attached to observe every bridged request.
package hbridge
