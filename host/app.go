// Package host is a small event based HTTP host. Middleware runs as func(event, next) and once the chain
// returns the host always writes the outcome to the connection, including its own 404 for requests nothing
// handled.
package host

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// HandlerFunc handles an event, its value becomes the response body.
type HandlerFunc func(ev *Event) (any, error)

// App routes events to handlers after running them through the middleware.
type App struct {
	logs        *zap.Logger
	mux         *http.ServeMux
	handlers    map[string]HandlerFunc
	middlewares struct {
		captured bool
		list     []Middleware
	}
}

// New creates an empty host, a nil logger logs nothing.
func New(logs *zap.Logger) *App {
	if logs == nil {
		logs = zap.NewNop()
	}

	return &App{
		logs:     logs.Named("host"),
		mux:      http.NewServeMux(),
		handlers: map[string]HandlerFunc{},
	}
}

// Use allows providing of middleware.
func (a *App) Use(mw ...Middleware) {
	a.ensureNoUseAfterOn()
	a.middlewares.list = append(a.middlewares.list, mw...)
}

// On registers h for a net/http pattern such as "GET /items/{id}".
func (a *App) On(pattern string, h HandlerFunc) {
	a.middlewares.captured = true

	a.mux.Handle(pattern, http.NotFoundHandler())
	a.handlers[pattern] = h
}

// ServeHTTP makes the host implement the http.Handler interface.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ev := newStdEvent(w, r)

	v, err := a.dispatch(ev)
	status, body := a.outcome(ev, v, err)

	if status >= http.StatusBadRequest {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	}

	w.WriteHeader(status)

	if _, err := w.Write(body); err != nil {
		a.logs.Debug("failed to write response", zap.Error(err))
	}
}

func (a *App) dispatch(ev *Event) (any, error) {
	return Chain(a.route, a.middlewares.list...)(ev)
}

// route is the innermost step of the chain. It reports nil when no handler matches.
func (a *App) route(ev *Event) (any, error) {
	probe := &http.Request{Method: ev.Method(), URL: &url.URL{Path: ev.Path()}, Host: "host"}

	_, pattern := a.mux.Handler(probe)

	h, ok := a.handlers[pattern]
	if !ok {
		return nil, nil
	}

	return h(ev)
}

// outcome decides what the host writes for the chain's result.
func (a *App) outcome(ev *Event, v any, err error) (int, []byte) {
	if err != nil {
		status := http.StatusInternalServerError

		var serr interface{ StatusCode() int }
		if errors.As(err, &serr) {
			status = serr.StatusCode()
		} else {
			a.logs.Error("unhandled error", zap.String("path", ev.Path()), zap.Error(err))
		}

		return status, []byte(err.Error())
	}

	switch vt := v.(type) {
	case nil:
		return http.StatusNotFound, []byte("Cannot find any route matching " + ev.Path())
	case []byte:
		return http.StatusOK, vt
	default:
		return http.StatusOK, []byte(fmt.Sprint(vt))
	}
}

// Error is an error with a status code the host responds with.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string   { return e.Message }
func (e *Error) StatusCode() int { return e.Status }

func (a *App) ensureNoUseAfterOn() {
	if a.middlewares.captured {
		panic("host: cannot call Use() after calling On")
	}
}
