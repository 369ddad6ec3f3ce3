package hbridge_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/advdv/hbridge"
	"github.com/stretchr/testify/require"
)

func TestContextOutsideBridge(t *testing.T) {
	ctx := context.Background()

	require.Nil(t, hbridge.FromContext(ctx))
	require.Nil(t, hbridge.Req(ctx))
	require.Nil(t, hbridge.Res(ctx))
	require.Empty(t, hbridge.Param(ctx, "id"))
	require.Empty(t, hbridge.Params(ctx))
	require.Empty(t, hbridge.RequestID(ctx))

	_, err := hbridge.Body(ctx)
	require.Error(t, err)
}

func TestContextAccessors(t *testing.T) {
	var (
		captured context.Context
		reqID    string
	)

	bridge := hbridge.New()
	bridge.Post("/users/:id", hbridge.HandlerFunc(func(ctx context.Context) (any, error) {
		captured = ctx
		reqID = hbridge.RequestID(ctx)

		require.Equal(t, "42", hbridge.Param(ctx, "id"))
		require.Equal(t, map[string]string{"id": "42"}, hbridge.Params(ctx))
		require.Equal(t, "/users/42", hbridge.Req(ctx).URL.Path)
		require.Equal(t, reqID, hbridge.RequestID(hbridge.Req(ctx).Context()))

		params := hbridge.Params(ctx)
		params["id"] = "mutated"
		require.Equal(t, "42", hbridge.Param(ctx, "id"))

		body, err := hbridge.Body(ctx)
		require.NoError(t, err)

		hbridge.Res(ctx).SetHeader("X-Echo", string(body))

		return nil, nil
	}))

	rec := httptest.NewRecorder()
	bridge.Wrap(http.NotFoundHandler()).ServeHTTP(rec,
		httptest.NewRequest(http.MethodPost, "/users/42", strings.NewReader("hello")))

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "hello", rec.Header().Get("X-Echo"))
	require.Len(t, reqID, 36)

	// the request context is cleared once the bridge returned
	require.NotNil(t, hbridge.FromContext(captured))
	require.Equal(t, reqID, hbridge.RequestID(captured))
	require.Nil(t, hbridge.Req(captured))
	require.Nil(t, hbridge.Res(captured))
	require.Empty(t, hbridge.Param(captured, "id"))
}

func TestContextBodyLimit(t *testing.T) {
	bridge := hbridge.New(hbridge.WithRequestLimits(hbridge.RequestLimits{MaxBodySize: 4}))
	bridge.Put("/upload", hbridge.HandlerFunc(func(ctx context.Context) (any, error) {
		body, err := hbridge.Body(ctx)
		if err != nil {
			return nil, err
		}

		return string(body), nil
	}))

	srv := bridge.Wrap(http.NotFoundHandler())

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/upload", strings.NewReader("four")))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "four", rec.Body.String())

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/upload", strings.NewReader("too long")))
	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	req := httptest.NewRequest(http.MethodPut, "/upload", strings.NewReader("too long"))
	req.ContentLength = -1
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}
