package hbridge

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/cockroachdb/errors"
)

// Settled is the outcome of a deferred handler.
type Settled struct {
	Value any
	Err   error
}

// Result is what a [Handler] produces: either a value (or error) that is available right away, or a
// deferred outcome that settles later on a channel.
type Result struct {
	value any
	err   error
	later <-chan Settled
}

// Now returns a result that is settled immediately.
func Now(v any, err error) Result { return Result{value: v, err: err} }

// Later returns a result that settles when ch delivers. A channel that is closed without delivering
// settles as a nil value.
func Later(ch <-chan Settled) Result { return Result{later: ch} }

// Go runs fn on a new goroutine and returns a deferred result for it. A panic inside fn settles the result
// with an error.
func Go(ctx context.Context, fn func(ctx context.Context) (any, error)) Result {
	ch := make(chan Settled, 1)

	go func() {
		var s Settled
		defer func() { ch <- s }()
		defer func() {
			if p := recover(); p != nil {
				s = Settled{Err: panicError(p)}
			}
		}()

		s.Value, s.Err = fn(ctx)
	}()

	return Later(ch)
}

// Deferred reports whether the result settles asynchronously.
func (r Result) Deferred() bool { return r.later != nil }

// Wait blocks until the result settled and returns its value and error.
func (r Result) Wait() (any, error) {
	if r.later == nil {
		return r.value, r.err
	}

	s, ok := <-r.later
	if !ok {
		return nil, nil
	}

	return s.Value, s.Err
}

// Handler produces the response value for a bridged request.
type Handler interface {
	Handle(ctx context.Context) Result
}

// HandlerFunc is a synchronous handler.
type HandlerFunc func(ctx context.Context) (any, error)

// Handle implements [Handler].
func (f HandlerFunc) Handle(ctx context.Context) Result { return Now(f(ctx)) }

// AsyncFunc is a handler that runs on its own goroutine, its result is deferred.
type AsyncFunc func(ctx context.Context) (any, error)

// Handle implements [Handler].
func (f AsyncFunc) Handle(ctx context.Context) Result { return Go(ctx, f) }

// panicError turns a recovered panic value into an error. http.ErrAbortHandler stays matchable with
// errors.Is so it can be re-raised on the serving goroutine.
func panicError(p any) error {
	if err, ok := p.(error); ok {
		if errors.Is(err, http.ErrAbortHandler) {
			return err
		}

		return errors.Wrapf(err, "handler panicked\n%s", debug.Stack())
	}

	return errors.Newf("handler panicked: %s\n%s", fmt.Sprint(p), debug.Stack())
}
