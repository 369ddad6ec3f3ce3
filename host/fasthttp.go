package host

import (
	"github.com/valyala/fasthttp"
)

// FastHTTPHandler serves the host over fasthttp. Events built from fasthttp requests expose no net/http
// pair, middleware that needs one must pass them on.
func (a *App) FastHTTPHandler() fasthttp.RequestHandler {
	return func(fctx *fasthttp.RequestCtx) {
		ev := newFastEvent(fctx)

		v, err := a.dispatch(ev)
		status, body := a.outcome(ev, v, err)

		if status >= fasthttp.StatusBadRequest {
			fctx.SetContentType("text/plain; charset=utf-8")
		}

		fctx.SetStatusCode(status)
		fctx.SetBody(body)
	}
}
