package hbridgefx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/advdv/hbridge"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type testEnv struct {
	level   zapcore.Level
	otelExp string
}

func (e testEnv) port() int                    { return 8080 }
func (e testEnv) serviceName() string          { return "test" }
func (e testEnv) readinessCheckPath() string   { return "/health" }
func (e testEnv) logLevel() zapcore.Level      { return e.level }
func (e testEnv) otelExporter() string         { return e.otelExp }
func (e testEnv) h2c() bool                    { return false }
func (e testEnv) requestTimeout() time.Duration { return 30 * time.Second }
func (e testEnv) bridgeConfig() hbridge.Config { return hbridge.DefaultConfig() }

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name  string
		level zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"error", zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := NewLogger(testEnv{level: tt.level})
			require.NoError(t, err)
			assert.True(t, logger.Core().Enabled(tt.level))
			assert.False(t, logger.Core().Enabled(tt.level-1))
		})
	}
}

func TestNewTracerProvider(t *testing.T) {
	t.Run("none", func(t *testing.T) {
		lc := fxtest.NewLifecycle(t)
		tp, err := NewTracerProvider(lc, testEnv{otelExp: "none"})
		require.NoError(t, err)
		assert.IsType(t, noop.TracerProvider{}, tp)
	})

	t.Run("stdout", func(t *testing.T) {
		lc := fxtest.NewLifecycle(t)
		tp, err := NewTracerProvider(lc, testEnv{otelExp: "stdout"})
		require.NoError(t, err)
		require.NotNil(t, tp)
		lc.RequireStart().RequireStop()
	})

	t.Run("unsupported", func(t *testing.T) {
		lc := fxtest.NewLifecycle(t)
		_, err := NewTracerProvider(lc, testEnv{otelExp: "xray"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported HB_OTEL_EXPORTER")
	})
}

func TestLog(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	bridge := hbridge.New()
	bridge.Get("/items/:id", hbridge.HandlerFunc(func(ctx context.Context) (any, error) {
		Log(ctx).Info("fetching item", zap.String("id", hbridge.Param(ctx, "id")))
		return nil, nil
	}))

	h := withRequestDep(&requestDep{logger: zap.New(core)})(bridge.Wrap(http.NotFoundHandler()))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items/7", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)

	entries := logs.FilterMessage("fetching item").All()
	require.Len(t, entries, 1)

	fields := entries[0].ContextMap()
	assert.Equal(t, "7", fields["id"])
	assert.NotEmpty(t, fields["request_id"])
	assert.NotContains(t, fields, "trace_id")
}

func TestLogWithoutMiddleware(t *testing.T) {
	assert.PanicsWithValue(t, "hbridgefx: requestDep not found in context; is the middleware configured?", func() {
		Log(context.Background())
	})
}
