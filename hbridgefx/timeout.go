package hbridgefx

import (
	"context"
	"net/http"
	"time"
)

// DefaultDeadlineBuffer is the time reserved at the end of every request for writing an error response.
const DefaultDeadlineBuffer = 500 * time.Millisecond

// TimeoutConfig holds timeout configuration for the HTTP server.
type TimeoutConfig struct {
	// RequestTimeout is the longest a single request may take.
	RequestTimeout time.Duration

	// DeadlineBuffer is subtracted from the request timeout so handlers see their deadline before the
	// server gives up on the connection. Defaults to DefaultDeadlineBuffer.
	DeadlineBuffer time.Duration
}

// effective returns the request timeout minus the buffer, or the full timeout when the buffer does not fit.
func (tc TimeoutConfig) effective() time.Duration {
	buffer := tc.DeadlineBuffer
	if buffer <= 0 {
		buffer = DefaultDeadlineBuffer
	}

	timeout := tc.RequestTimeout - buffer
	if timeout <= 0 {
		timeout = tc.RequestTimeout
	}

	return timeout
}

// ServerTimeouts returns the http.Server timeouts that match the request timeout. Header reads are capped
// at 5 seconds; writes get the full request timeout so the deadline middleware fires first.
func (tc TimeoutConfig) ServerTimeouts() (readHeaderTimeout, readTimeout, writeTimeout, idleTimeout time.Duration) {
	if tc.RequestTimeout <= 0 {
		return 10 * time.Second, 0, 0, 120 * time.Second
	}

	timeout := tc.effective()

	readHeaderTimeout = min(timeout, 5*time.Second)
	readTimeout = timeout
	writeTimeout = tc.RequestTimeout
	idleTimeout = max(timeout, 120*time.Second)

	return
}

// withRequestDeadline bounds the request context by the effective request timeout. A zero timeout
// leaves the context alone.
func withRequestDeadline(tc TimeoutConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if tc.RequestTimeout <= 0 {
			return next
		}

		timeout := tc.effective()

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestDeadline returns the context deadline for the current request.
// Returns the zero time and false if no deadline is set.
func RequestDeadline(ctx context.Context) (time.Time, bool) {
	return ctx.Deadline()
}

// RequestRemainingTime returns the duration until the request context deadline.
// Returns 0 if no deadline is set or if the deadline has passed.
func RequestRemainingTime(ctx context.Context) time.Duration {
	deadline, ok := ctx.Deadline()
	if !ok {
		return 0
	}

	return max(time.Until(deadline), 0)
}
