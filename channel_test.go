package hbridge_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/advdv/hbridge"
	"github.com/stretchr/testify/require"
)

type wrappedWriter struct{ http.ResponseWriter }

func (w wrappedWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }

func TestChannelSeal(t *testing.T) {
	rec := httptest.NewRecorder()
	ch := hbridge.NewChannel(rec)

	ch.Header().Set("X-Before", "1")
	ch.WriteHeader(http.StatusAccepted)
	_, err := ch.Write([]byte("first"))
	require.NoError(t, err)

	ch.Seal()
	ch.Seal()
	require.True(t, ch.Sealed())

	ch.Header().Set("X-After", "1")
	ch.WriteHeader(http.StatusNotFound)
	n, err := ch.Write([]byte("second"))
	require.NoError(t, err)
	require.Equal(t, 6, n)
	ch.Flush()

	require.Equal(t, http.StatusAccepted, rec.Code)
	require.Equal(t, "first", rec.Body.String())
	require.Equal(t, "1", rec.Header().Get("X-Before"))
	require.Empty(t, rec.Header().Get("X-After"))
	require.False(t, rec.Flushed)
}

func TestChannelOf(t *testing.T) {
	rec := httptest.NewRecorder()

	_, ok := hbridge.ChannelOf(rec)
	require.False(t, ok)

	ch := hbridge.NewChannel(rec)
	act, ok := hbridge.ChannelOf(wrappedWriter{wrappedWriter{ch}})
	require.True(t, ok)
	require.Same(t, ch, act)

	require.Same(t, ch, hbridge.NewChannel(wrappedWriter{ch}))
	require.Same(t, rec, ch.Unwrap())
}

func TestGuard(t *testing.T) {
	var seen *hbridge.Channel

	h := hbridge.Guard(hbridge.Guard(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		var ok bool
		seen, ok = w.(*hbridge.Channel)
		require.True(t, ok)
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.NotNil(t, seen)
	require.Same(t, rec, seen.Unwrap())
}
