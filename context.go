package hbridge

import (
	"context"
	"io"
	"maps"
	"net/http"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

// ctxKey scopes the request context in context.Context values.
type ctxKey struct{}

// Context is the request-scoped state of one bridged request. It is created when the bridge engages and
// cleared when the bridge returns, after which every accessor yields a zero value.
type Context struct {
	mu     sync.RWMutex
	id     string
	req    *http.Request
	res    *Response
	params map[string]string
	limits RequestLimits
	logs   Logger
}

func newContext(req *http.Request, res *Response, params map[string]string, o *options) *Context {
	return &Context{
		id:     uuid.NewString(),
		req:    req,
		res:    res,
		params: params,
		limits: o.limits,
		logs:   o.logs,
	}
}

// attach makes c the current context for everything derived from ctx. The request held by c is re-bound
// to the returned context so that code holding only the request sees it too.
func (c *Context) attach(ctx context.Context) context.Context {
	ctx = context.WithValue(ctx, ctxKey{}, c)

	c.mu.Lock()
	c.req = c.req.WithContext(ctx)
	c.mu.Unlock()

	return ctx
}

// clear drops every reference the context holds.
func (c *Context) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.req, c.res, c.params, c.logs = nil, nil, nil, nil
}

// FromContext returns the bridge context carried by ctx, or nil outside a bridged request.
func FromContext(ctx context.Context) *Context {
	c, _ := ctx.Value(ctxKey{}).(*Context)
	return c
}

// ID is a unique identifier for the request.
func (c *Context) ID() string {
	if c == nil {
		return ""
	}

	return c.id
}

// Request returns the inbound request, nil once the request completed.
func (c *Context) Request() *http.Request {
	if c == nil {
		return nil
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.req
}

// Response returns the response wrapper, nil once the request completed.
func (c *Context) Response() *Response {
	if c == nil {
		return nil
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.res
}

// Param returns a single route parameter.
func (c *Context) Param(name string) string {
	if c == nil {
		return ""
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.params[name]
}

// Params returns a copy of all route parameters.
func (c *Context) Params() map[string]string {
	if c == nil {
		return map[string]string{}
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.params == nil {
		return map[string]string{}
	}

	return maps.Clone(c.params)
}

// Body reads the complete request body, honouring the configured size limit.
func (c *Context) Body() ([]byte, error) {
	req := c.Request()
	if req == nil {
		return nil, errors.New("hbridge: no request in context")
	}

	if req.Body == nil || req.Body == http.NoBody {
		return nil, nil
	}

	limit := c.limits.MaxBodySize
	if limit > 0 && req.ContentLength > limit {
		return nil, Errorf(CodeRequestEntityTooLarge, "request body exceeds %d bytes", limit)
	}

	var rd io.Reader = req.Body
	if limit > 0 {
		rd = io.LimitReader(req.Body, limit+1)
	}

	body, err := io.ReadAll(rd)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read request body")
	}

	if limit > 0 && int64(len(body)) > limit {
		return nil, Errorf(CodeRequestEntityTooLarge, "request body exceeds %d bytes", limit)
	}

	return body, nil
}

// Req returns the inbound request of the bridged request in ctx.
func Req(ctx context.Context) *http.Request { return FromContext(ctx).Request() }

// Res returns the response of the bridged request in ctx.
func Res(ctx context.Context) *Response { return FromContext(ctx).Response() }

// Param returns a route parameter of the bridged request in ctx.
func Param(ctx context.Context, name string) string { return FromContext(ctx).Param(name) }

// Params returns all route parameters of the bridged request in ctx.
func Params(ctx context.Context) map[string]string { return FromContext(ctx).Params() }

// RequestID returns the identifier of the bridged request in ctx.
func RequestID(ctx context.Context) string { return FromContext(ctx).ID() }

// Body reads the body of the bridged request in ctx.
func Body(ctx context.Context) ([]byte, error) {
	c := FromContext(ctx)
	if c == nil {
		return nil, errors.New("hbridge: no bridged request in context")
	}

	return c.Body()
}
