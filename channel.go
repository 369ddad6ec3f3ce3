package hbridge

import (
	"net/http"
	"sync/atomic"
)

// Channel guards the raw response writer that the host and the bridge share. Both dispatch paths write
// through it; once the bridge has completed a response it seals the channel and every later write from
// the host becomes a silent no-op.
type Channel struct {
	w      http.ResponseWriter
	sealed atomic.Bool
}

// NewChannel wraps w, or returns the channel w already is or wraps.
func NewChannel(w http.ResponseWriter) *Channel {
	if ch, ok := ChannelOf(w); ok {
		return ch
	}

	return &Channel{w: w}
}

// Guard installs a [Channel] around the response writer of every request before it reaches h. Hosts
// must be guarded for the bridge to engage; unguarded requests are always delegated.
func Guard(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.ServeHTTP(NewChannel(w), r)
	})
}

// ChannelOf finds the channel in w by following Unwrap methods, the same way http.ResponseController does.
func ChannelOf(w http.ResponseWriter) (*Channel, bool) {
	for w != nil {
		if ch, ok := w.(*Channel); ok {
			return ch, true
		}

		u, ok := w.(interface{ Unwrap() http.ResponseWriter })
		if !ok {
			return nil, false
		}

		w = u.Unwrap()
	}

	return nil, false
}

// Seal makes the channel permanently inert. It is safe to call more than once.
func (c *Channel) Seal() { c.sealed.Store(true) }

// Sealed reports whether Seal was called.
func (c *Channel) Sealed() bool { return c.sealed.Load() }

// Header returns the live header map, or a detached one after sealing so late mutations are dropped.
func (c *Channel) Header() http.Header {
	if c.Sealed() {
		return make(http.Header)
	}

	return c.w.Header()
}

func (c *Channel) WriteHeader(code int) {
	if c.Sealed() {
		return
	}

	c.w.WriteHeader(code)
}

// Write reports success without transmitting anything once the channel is sealed.
func (c *Channel) Write(p []byte) (int, error) {
	if c.Sealed() {
		return len(p), nil
	}

	return c.w.Write(p)
}

func (c *Channel) Flush() {
	if c.Sealed() {
		return
	}

	if f, ok := c.w.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap returns the underlying writer. Code that writes to it directly bypasses the seal.
func (c *Channel) Unwrap() http.ResponseWriter { return c.w }
