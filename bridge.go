package hbridge

import (
	"net/http"

	"github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel/trace"
)

// Event is a request as seen by an event based host. Node exposes the net/http request and response pair
// when the host transport has one.
type Event interface {
	Node() (w http.ResponseWriter, r *http.Request, ok bool)
}

// Next continues the host's middleware chain.
type Next func() (any, error)

type stdEvent struct {
	w http.ResponseWriter
	r *http.Request
}

func (e stdEvent) Node() (http.ResponseWriter, *http.Request, bool) { return e.w, e.r, true }

// NewEvent returns an [Event] for a plain net/http request.
func NewEvent(w http.ResponseWriter, r *http.Request) Event { return stdEvent{w, r} }

// Adapter routes requests of a host to its own handlers and hands back everything it does not serve.
type Adapter struct {
	opts   *options
	router *Router
	tracer trace.Tracer
}

// New inits an adapter with an empty route table.
func New(opts ...Option) *Adapter {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	return &Adapter{
		opts:   o,
		router: NewRouter(),
		tracer: newTracer(o.tracing),
	}
}

// Handle is the middleware entry point for event based hosts. It returns (nil, nil) when the adapter
// served the request and the result of next verbatim when it did not. The error is only set when writing
// the response failed.
func (a *Adapter) Handle(ev Event, next Next) (any, error) {
	w, r, ok := ev.Node()
	if !ok || w == nil || r == nil {
		return next()
	}

	ch, ok := ChannelOf(w)
	if !ok {
		return next()
	}

	handled, err := a.serve(ch, w, r)
	if !handled {
		return next()
	}

	return nil, err
}

// Middleware applies the adapter in a net/http handler chain, next is served for requests the adapter
// delegates. Requests must pass through [Guard] first.
func (a *Adapter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ch, ok := ChannelOf(w)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		handled, err := a.serve(ch, w, r)
		if err != nil {
			a.opts.logs.LogFlushError(err)
		}

		if !handled {
			next.ServeHTTP(w, r)
		}
	})
}

// Wrap returns next behind the adapter with the channel guard installed.
func (a *Adapter) Wrap(next http.Handler) http.Handler {
	return Guard(a.Middleware(next))
}

// serve decides between serving, answering 404 and delegating. It reports false when the request must
// go to the host.
func (a *Adapter) serve(ch *Channel, w http.ResponseWriter, r *http.Request) (bool, error) {
	done := a.opts.metrics.begin()

	route, params := a.router.match(r.Method, r.URL.Path)

	var (
		handlers []Handler
		pattern  string
		outcome  = OutcomeServed
	)

	switch {
	case route != nil:
		handlers = append(handlers, route.handlers...)
		pattern = route.pattern
	case a.opts.notFound != nil:
		handlers = []Handler{a.opts.notFound}
	case a.opts.raise404:
		outcome = OutcomeNotFound
	default:
		done(OutcomeDelegated, 0)
		return false, nil
	}

	status, err := execute(a.opts, a.tracer, w, r, params, pattern, handlers)

	ch.Seal()
	done(outcome, status)

	if errors.Is(err, http.ErrAbortHandler) {
		panic(http.ErrAbortHandler)
	}

	if err != nil {
		return true, errors.Wrap(err, "failed to write response")
	}

	return true, nil
}

// execute serves r with handlers inside a fresh request context and returns the status that was sent.
// Without handlers the request is answered with a 404.
func execute(
	o *options, tracer trace.Tracer, w http.ResponseWriter, r *http.Request,
	params map[string]string, pattern string, handlers []Handler,
) (int, error) {
	res := newResponse(w, r.Method, o.headers, o.bufLimit)
	defer res.free()

	c := newContext(r, res, params, o)
	defer c.clear()

	ctx, end := startSpan(r.Context(), tracer, r, pattern)
	ctx = c.attach(ctx)

	var err error
	if len(handlers) < 1 {
		err = respond(c.Request(), res, o.logs, nil, notFound(r))
	} else {
		_, err = process(ctx, c, handlers).Wait()
	}

	end(res.Status(), err)

	return res.Status(), err
}

// On registers handlers for an exact method match on pattern. It panics when the pattern is invalid.
func (a *Adapter) On(method, pattern string, handlers ...Handler) *Route {
	route, err := a.router.Add(method, pattern, handlers...)
	if err != nil {
		panic("hbridge: " + err.Error())
	}

	return route
}

// Get registers handlers for GET requests.
func (a *Adapter) Get(pattern string, handlers ...Handler) *Route {
	return a.On(http.MethodGet, pattern, handlers...)
}

// Post registers handlers for POST requests.
func (a *Adapter) Post(pattern string, handlers ...Handler) *Route {
	return a.On(http.MethodPost, pattern, handlers...)
}

// Put registers handlers for PUT requests.
func (a *Adapter) Put(pattern string, handlers ...Handler) *Route {
	return a.On(http.MethodPut, pattern, handlers...)
}

// Patch registers handlers for PATCH requests.
func (a *Adapter) Patch(pattern string, handlers ...Handler) *Route {
	return a.On(http.MethodPatch, pattern, handlers...)
}

// Delete registers handlers for DELETE requests.
func (a *Adapter) Delete(pattern string, handlers ...Handler) *Route {
	return a.On(http.MethodDelete, pattern, handlers...)
}

// Head registers handlers for HEAD requests.
func (a *Adapter) Head(pattern string, handlers ...Handler) *Route {
	return a.On(http.MethodHead, pattern, handlers...)
}

// Options registers handlers for OPTIONS requests.
func (a *Adapter) Options(pattern string, handlers ...Handler) *Route {
	return a.On(http.MethodOptions, pattern, handlers...)
}

// Router returns the route table.
func (a *Adapter) Router() *Router { return a.router }

// Reverse returns the url based on the route name and parameter values.
func (a *Adapter) Reverse(name string, vals ...string) (string, error) {
	return a.router.Reverse(name, vals...)
}
