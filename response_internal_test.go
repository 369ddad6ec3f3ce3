package hbridge

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func BenchmarkResponse(b *testing.B) {
	for _, dat := range [][]byte{
		make([]byte, 1024),    // 1KiB
		make([]byte, 1024*64), // 64KiB
	} {
		b.Run("buffered-"+strconv.Itoa(len(dat)), func(b *testing.B) {
			b.ReportAllocs()

			for range b.N {
				res := newResponse(httptest.NewRecorder(), http.MethodGet, nil, -1)
				_, err := res.Write(dat)
				require.NoError(b, err)
				require.NoError(b, res.send(http.StatusOK, res.buffered(), nil))
				res.free()
			}
		})
	}
}

func TestResponseSendsOnce(t *testing.T) {
	rec := httptest.NewRecorder()
	res := newResponse(rec, http.MethodGet, nil, -1)
	defer res.free()

	_, err := res.Write([]byte("hello"))
	require.NoError(t, err)
	require.False(t, res.Sent())

	require.NoError(t, res.send(http.StatusAccepted, res.buffered(), nil))
	require.True(t, res.Sent())
	require.NoError(t, res.send(http.StatusTeapot, []byte("again"), nil))

	_, err = res.Write([]byte("more"))
	require.ErrorIs(t, err, ErrResponseSent)

	res.SetStatus(http.StatusBadGateway)
	res.SetHeader("X-Late", "1")
	res.Header().Set("X-Later", "1")

	require.Equal(t, http.StatusAccepted, rec.Code)
	require.Equal(t, "hello", rec.Body.String())
	require.Equal(t, "5", rec.Header().Get("Content-Length"))
	require.Empty(t, rec.Header().Get("X-Late"))
	require.Empty(t, rec.Header().Get("X-Later"))
	require.Equal(t, http.StatusAccepted, res.Status())
}

func TestResponseBufferLimit(t *testing.T) {
	res := newResponse(httptest.NewRecorder(), http.MethodGet, nil, 3)
	defer res.free()

	_, err := res.Write([]byte("abc"))
	require.NoError(t, err)

	_, err = res.Write([]byte("d"))
	require.ErrorIs(t, err, ErrBufferFull)
	require.Equal(t, []byte("abc"), res.buffered())
}

func TestResponseBodyless(t *testing.T) {
	for _, tt := range []struct {
		name   string
		method string
		status int
		expCL  string
	}{
		{"head", http.MethodHead, http.StatusOK, "4"},
		{"no content", http.MethodGet, http.StatusNoContent, ""},
		{"not modified", http.MethodGet, http.StatusNotModified, ""},
	} {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			res := newResponse(rec, tt.method, nil, -1)
			defer res.free()

			res.SetHeader("Content-Type", "text/plain")
			require.NoError(t, res.send(tt.status, []byte("body"), nil))

			require.Equal(t, tt.status, rec.Code)
			require.Empty(t, rec.Body.String())
			require.Equal(t, tt.expCL, rec.Header().Get("Content-Length"))
		})
	}
}

func TestResponseStream(t *testing.T) {
	rec := httptest.NewRecorder()
	res := newResponse(rec, http.MethodGet, nil, -1)
	defer res.free()

	require.NoError(t, res.send(http.StatusOK, nil, strings.NewReader("streamed")))
	assert.Equal(t, "streamed", rec.Body.String())
	assert.Empty(t, rec.Header().Get("Content-Length"))
}

func TestResponseResetKeepsDefaults(t *testing.T) {
	defaults := http.Header{}
	defaults.Set("X-Frame-Options", "DENY")

	rec := httptest.NewRecorder()
	res := newResponse(rec, http.MethodGet, defaults, -1)
	defer res.free()

	res.SetHeader("X-Foo", "bar")
	res.SetStatus(http.StatusCreated)
	_, err := res.Write([]byte("partial"))
	require.NoError(t, err)

	res.Reset()
	require.Equal(t, "DENY", res.Header().Get("X-Frame-Options"))
	require.Empty(t, res.Header().Get("X-Foo"))
	require.Zero(t, res.explicitStatus())
	require.Nil(t, res.buffered())

	res.Header().Set("X-Frame-Options", "SAMEORIGIN")
	require.Equal(t, "DENY", defaults.Get("X-Frame-Options"))
}
