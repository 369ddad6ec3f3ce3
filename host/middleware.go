package host

// Next continues the chain.
type Next func() (any, error)

// Middleware for cross-cutting concerns. It either returns a result itself or the result of next.
type Middleware func(ev *Event, next Next) (any, error)

// Chain takes the inner handler h and wraps it with middleware. The middleware provided first is called
// first and is the "outer" most wrapping, the middleware provided last will be the "inner most" wrapping
// (closest to the handler).
func Chain(h HandlerFunc, m ...Middleware) HandlerFunc {
	wrapped := h
	for i := len(m) - 1; i >= 0; i-- {
		mw, inner := m[i], wrapped
		wrapped = func(ev *Event) (any, error) {
			return mw(ev, func() (any, error) { return inner(ev) })
		}
	}

	return wrapped
}
