package hbridge

import (
	"context"
	"net/http"

	"github.com/cockroachdb/errors"
)

// process runs the candidate handlers in order. The first one that produces a value or an error ends the
// sequence and its outcome is written through the context's response; a handler returning [ErrNext]
// hands over to the next candidate. The returned result settles once the response was written, its error
// is only set when writing itself failed.
func process(ctx context.Context, c *Context, handlers []Handler) Result {
	for i, h := range handlers {
		r := invoke(ctx, h)
		if r.Deferred() {
			c.Response().markSending()

			rest := handlers[i+1:]

			return Go(ctx, func(ctx context.Context) (any, error) {
				v, err := r.Wait()
				if errors.Is(err, ErrNext) {
					return process(ctx, c, rest).Wait()
				}

				return nil, finish(c, v, err)
			})
		}

		v, err := r.Wait()
		if errors.Is(err, ErrNext) {
			continue
		}

		return Now(nil, finish(c, v, err))
	}

	return Now(nil, finish(c, nil, notFound(c.Request())))
}

// invoke calls h, a synchronous panic becomes the error of an immediate result.
func invoke(ctx context.Context, h Handler) (r Result) {
	defer func() {
		if p := recover(); p != nil {
			r = Now(nil, panicError(p))
		}
	}()

	return h.Handle(ctx)
}

// finish converts the settled outcome of a handler into the response. An aborted handler writes nothing,
// the abort is passed up so it can be re-raised.
func finish(c *Context, v any, err error) error {
	if errors.Is(err, http.ErrAbortHandler) {
		return err
	}

	return respond(c.Request(), c.Response(), c.logs, v, err)
}

func notFound(req *http.Request) *Error {
	return Errorf(CodeNotFound, "Cannot find any route matching %s", req.URL.Path)
}
