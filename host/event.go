package host

import (
	"context"
	"net/http"

	"github.com/valyala/fasthttp"
)

// Event is one request travelling through the host's middleware chain. Depending on the transport it
// carries a net/http request and response pair or a fasthttp request context.
type Event struct {
	ctx    context.Context
	method string
	path   string
	header func(string) string

	w    http.ResponseWriter
	r    *http.Request
	fast *fasthttp.RequestCtx
}

func newStdEvent(w http.ResponseWriter, r *http.Request) *Event {
	return &Event{
		ctx:    r.Context(),
		method: r.Method,
		path:   r.URL.Path,
		header: r.Header.Get,
		w:      w,
		r:      r,
	}
}

func newFastEvent(fctx *fasthttp.RequestCtx) *Event {
	return &Event{
		ctx:    fctx,
		method: string(fctx.Method()),
		path:   string(fctx.Path()),
		header: func(k string) string { return string(fctx.Request.Header.Peek(k)) },
		fast:   fctx,
	}
}

// Node returns the net/http pair of the request, ok is false for transports that have none.
func (ev *Event) Node() (w http.ResponseWriter, r *http.Request, ok bool) {
	if ev.r == nil {
		return nil, nil, false
	}

	return ev.w, ev.r, true
}

// Context returns the request's context.
func (ev *Event) Context() context.Context { return ev.ctx }

// Method returns the request method.
func (ev *Event) Method() string { return ev.method }

// Path returns the request path, without the prefix of the mount it was routed through.
func (ev *Event) Path() string { return ev.path }

// Header returns a request header.
func (ev *Event) Header(key string) string { return ev.header(key) }

// FastHTTP returns the fasthttp request context, nil for net/http requests.
func (ev *Event) FastHTTP() *fasthttp.RequestCtx { return ev.fast }
