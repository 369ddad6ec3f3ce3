package hbridgefx

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"github.com/advdv/hbridge"
	"github.com/advdv/hbridge/host"
	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

// MetricsPath is where the prometheus metrics are served.
const MetricsPath = "/metrics"

// ServerConfig holds optional configuration for the HTTP server.
type ServerConfig struct {
	HealthHandler func(http.ResponseWriter, *http.Request)
}

// ServerParams holds the dependencies for creating an HTTP server.
type ServerParams struct {
	fx.In

	Env        Environment
	Host       *host.App
	Transport  http.RoundTripper
	Logger     *zap.Logger
	Registry   *prometheus.Registry
	TracerProv trace.TracerProvider
	Propagator propagation.TextMapPropagator
}

// NewServer creates an HTTP server with all middleware and routing configured. The readiness and metrics
// endpoints are served next to the host and are not traced; every other request passes the channel guard
// so the bridge can engage.
func NewServer(params ServerParams, cfg ServerConfig) *http.Server {
	d := &requestDep{
		logger:   params.Logger,
		requests: newRequestBuilder(params.Transport),
	}

	timeouts := TimeoutConfig{RequestTimeout: params.Env.requestTimeout()}

	healthPath := params.Env.readinessCheckPath()
	healthHandler := cfg.HealthHandler
	if healthHandler == nil {
		healthHandler = defaultHealthHandler
	}

	root := http.NewServeMux()
	root.HandleFunc("GET "+healthPath, healthHandler)
	root.Handle("GET "+MetricsPath, promhttp.HandlerFor(params.Registry, promhttp.HandlerOpts{}))
	root.Handle("/", hbridge.Guard(withRequestDeadline(timeouts)(withRequestDep(d)(params.Host))))

	handler := withTracing(params.TracerProv, params.Propagator, params.Env.serviceName(),
		healthPath, MetricsPath)(root)

	if params.Env.h2c() {
		handler = h2c.NewHandler(handler, &http2.Server{})
	}

	readHeaderTimeout, readTimeout, writeTimeout, idleTimeout := timeouts.ServerTimeouts()

	return &http.Server{
		Addr:              fmt.Sprintf(":%d", params.Env.port()),
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}
}

// startServerHook registers lifecycle hooks for the HTTP server.
func startServerHook(lc fx.Lifecycle, server *http.Server, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", server.Addr)
			if err != nil {
				return errors.Wrapf(err, "failed to listen on %s", server.Addr)
			}

			logger.Info("starting server", zap.String("addr", server.Addr))
			go func() {
				if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("server error", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping server")
			return server.Shutdown(ctx)
		},
	})
}

func defaultHealthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
