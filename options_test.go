package hbridge_test

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/advdv/hbridge"
	"github.com/stretchr/testify/require"
)

func TestParseConfig(t *testing.T) {
	cfg, err := hbridge.ParseConfig()
	require.NoError(t, err)
	require.Equal(t, hbridge.DefaultConfig(), cfg)

	t.Setenv("HBRIDGE_RAISE_404", "true")
	t.Setenv("HBRIDGE_MAX_BODY_SIZE", "1024")
	t.Setenv("HBRIDGE_DEFAULT_HEADERS", "X-Frame-Options:DENY,X-Served-By:hbridge")

	cfg, err = hbridge.ParseConfig()
	require.NoError(t, err)
	require.True(t, cfg.Raise404)
	require.Equal(t, int64(1024), cfg.MaxBodySize)
	require.Equal(t, -1, cfg.BufferLimit)
	require.Equal(t, map[string]string{"X-Frame-Options": "DENY", "X-Served-By": "hbridge"}, cfg.DefaultHeaders)

	t.Setenv("HBRIDGE_BUFFER_LIMIT", "not a number")

	_, err = hbridge.ParseConfig()
	require.ErrorContains(t, err, "failed to parse environment")
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hbridge.yaml")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join([]string{
		"raise404: true",
		"bufferLimit: 2048",
		"defaultHeaders:",
		"  X-Served-By: yaml",
	}, "\n")), 0o600))

	cfg, err := hbridge.LoadConfig(path)
	require.NoError(t, err)
	require.True(t, cfg.Raise404)
	require.Equal(t, 2048, cfg.BufferLimit)
	require.Equal(t, "yaml", cfg.DefaultHeaders["X-Served-By"])

	t.Setenv("HBRIDGE_BUFFER_LIMIT", "16")

	cfg, err = hbridge.LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, 16, cfg.BufferLimit)
	require.True(t, cfg.Raise404)

	_, err = hbridge.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorContains(t, err, "failed to read config file")
}

func TestWithConfig(t *testing.T) {
	cfg := hbridge.DefaultConfig()
	cfg.Raise404 = true
	cfg.BufferLimit = 4
	cfg.DefaultHeaders = map[string]string{"x-served-by": "hbridge"}

	bridge := hbridge.New(hbridge.WithConfig(cfg))
	bridge.Get("/big", hbridge.HandlerFunc(func(ctx context.Context) (any, error) {
		if _, err := hbridge.Res(ctx).Write([]byte("too much")); err != nil {
			return nil, err
		}

		return nil, nil
	}))

	h := bridge.Wrap(http.NotFoundHandler())

	rec := serve(t, h, http.MethodGet, "/missing", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "hbridge", rec.Header().Get("X-Served-By"))

	rec = serve(t, h, http.MethodGet, "/big", nil)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}
