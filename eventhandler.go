package hbridge

import (
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gorilla/mux"
)

// EventHandler turns a single handler into a net/http handler. Every request runs inside its own request
// context, route parameters are taken from gorilla/mux when the request was routed by it. A handler that
// yields with [ErrNext] is answered with a 404.
func EventHandler(h Handler, opts ...Option) http.Handler {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	tracer := newTracer(o.tracing)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		done := o.metrics.begin()

		var pattern string
		if route := mux.CurrentRoute(r); route != nil {
			pattern, _ = route.GetPathTemplate()
		}

		status, err := execute(o, tracer, w, r, mux.Vars(r), pattern, []Handler{h})
		done(OutcomeServed, status)

		if errors.Is(err, http.ErrAbortHandler) {
			panic(http.ErrAbortHandler)
		}

		if err != nil {
			o.logs.LogFlushError(err)
		}
	})
}
