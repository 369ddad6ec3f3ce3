package hbridge

import (
	"bytes"
	"io"
	"net/http"
	"strconv"
	"sync"

	"github.com/cockroachdb/errors"
)

type responseState int32

const (
	stateUnsent responseState = iota
	stateSending
	stateSent
)

var bufPool = sync.Pool{New: func() any { return new(bytes.Buffer) }}

// Response is the bridge's own write path to the client. Handlers reach it through [Res] to set the status
// and headers or to write a body; writes are buffered so that an error can still replace the whole
// response. The first terminal write sends everything to the raw channel, after which the Response is
// inert.
type Response struct {
	mu       sync.Mutex
	raw      http.ResponseWriter
	method   string
	defaults http.Header
	header   http.Header
	status   int
	buf      *bytes.Buffer
	limit    int
	state    responseState
}

func newResponse(raw http.ResponseWriter, method string, defaults http.Header, limit int) *Response {
	res := &Response{
		raw:      raw,
		method:   method,
		defaults: defaults,
		limit:    limit,
		buf:      bufPool.Get().(*bytes.Buffer),
	}
	res.header = res.freshHeader()

	return res
}

func (res *Response) freshHeader() http.Header {
	if res.defaults == nil {
		return make(http.Header)
	}

	return res.defaults.Clone()
}

// Header returns the pending response headers. After the response was sent a detached map is returned.
func (res *Response) Header() http.Header {
	res.mu.Lock()
	defer res.mu.Unlock()

	if res.state == stateSent {
		return make(http.Header)
	}

	return res.header
}

// SetHeader sets a single response header.
func (res *Response) SetHeader(key, value string) {
	res.mu.Lock()
	defer res.mu.Unlock()

	if res.state == stateSent {
		return
	}

	res.header.Set(key, value)
}

// SetStatus sets the status code used when the handler's result is sent. Errors override it.
func (res *Response) SetStatus(code int) {
	res.mu.Lock()
	defer res.mu.Unlock()

	if res.state == stateSent {
		return
	}

	res.status = code
}

// WriteHeader implements http.ResponseWriter. Nothing is written until the response is sent.
func (res *Response) WriteHeader(code int) { res.SetStatus(code) }

// Status returns the explicit status, or the status that was sent. Zero means neither happened yet.
func (res *Response) Status() int {
	res.mu.Lock()
	defer res.mu.Unlock()

	return res.status
}

// Write buffers p as (part of) the response body.
func (res *Response) Write(p []byte) (int, error) {
	res.mu.Lock()
	defer res.mu.Unlock()

	if res.state == stateSent || res.buf == nil {
		return 0, ErrResponseSent
	}

	if res.limit >= 0 && res.buf.Len()+len(p) > res.limit {
		return 0, errors.Wrapf(ErrBufferFull, "limit of %d bytes", res.limit)
	}

	return res.buf.Write(p)
}

// Reset discards the buffered body, the status and every header except the configured defaults.
func (res *Response) Reset() {
	res.mu.Lock()
	defer res.mu.Unlock()

	if res.state == stateSent {
		return
	}

	if res.buf != nil {
		res.buf.Reset()
	}
	res.header = res.freshHeader()
	res.status = 0
}

// Sent reports whether the terminal write happened.
func (res *Response) Sent() bool {
	res.mu.Lock()
	defer res.mu.Unlock()

	return res.state == stateSent
}

func (res *Response) markSending() {
	res.mu.Lock()
	defer res.mu.Unlock()

	if res.state == stateUnsent {
		res.state = stateSending
	}
}

// buffered returns a copy of what handlers wrote so far.
func (res *Response) buffered() []byte {
	res.mu.Lock()
	defer res.mu.Unlock()

	if res.buf == nil || res.buf.Len() == 0 {
		return nil
	}

	return bytes.Clone(res.buf.Bytes())
}

// explicitStatus returns the status a handler set, zero if none.
func (res *Response) explicitStatus() int {
	res.mu.Lock()
	defer res.mu.Unlock()

	if res.state == stateSent {
		return 0
	}

	return res.status
}

// send is the terminal write. Either body or stream is used. Calling it again is a no-op.
func (res *Response) send(status int, body []byte, stream io.Reader) error {
	res.mu.Lock()
	defer res.mu.Unlock()

	if res.state == stateSent {
		return nil
	}
	res.state = stateSent
	res.status = status

	hdr := res.raw.Header()
	for k, vv := range res.header {
		hdr[k] = vv
	}

	bodyless := status == http.StatusNoContent || status == http.StatusNotModified || status < http.StatusOK
	if bodyless {
		hdr.Del("Content-Type")
		hdr.Del("Content-Length")
	} else if stream == nil {
		hdr.Set("Content-Length", strconv.Itoa(len(body)))
	}

	res.raw.WriteHeader(status)
	if bodyless || res.method == http.MethodHead {
		return nil
	}

	if stream != nil {
		if _, err := io.Copy(res.raw, stream); err != nil {
			return errors.Wrap(err, "failed to stream response body")
		}

		return nil
	}

	if _, err := res.raw.Write(body); err != nil {
		return errors.Wrap(err, "failed to write response body")
	}

	return nil
}

// free returns the buffer to the pool. The response must not be used for writing afterwards.
func (res *Response) free() {
	res.mu.Lock()
	defer res.mu.Unlock()

	if res.buf == nil {
		return
	}

	res.buf.Reset()
	bufPool.Put(res.buf)
	res.buf = nil
}
