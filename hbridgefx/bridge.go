package hbridgefx

import (
	"github.com/advdv/hbridge"
	"github.com/advdv/hbridge/host"
	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewRegistry creates the prometheus registry with the go runtime and process collectors.
func NewRegistry() (*prometheus.Registry, error) {
	reg := prometheus.NewRegistry()
	if err := reg.Register(collectors.NewGoCollector()); err != nil {
		return nil, errors.Wrap(err, "failed to register go collector")
	}

	if err := reg.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		return nil, errors.Wrap(err, "failed to register process collector")
	}

	return reg, nil
}

// NewMetrics registers the bridge metrics with the app's registry.
func NewMetrics(reg *prometheus.Registry) (*hbridge.Metrics, error) {
	return hbridge.NewMetrics(reg)
}

// AdapterParams holds the dependencies for creating the bridge.
type AdapterParams struct {
	fx.In

	Env        Environment
	Logger     *zap.Logger
	Metrics    *hbridge.Metrics
	TracerProv trace.TracerProvider
}

// NewAdapter creates the bridge from the environment. Options given with [WithBridgeOptions] are applied
// last.
func NewAdapter(params AdapterParams, cfg AppConfig) *hbridge.Adapter {
	opts := append([]hbridge.Option{
		hbridge.WithConfig(params.Env.bridgeConfig()),
		hbridge.WithLogger(newBridgeLogger(params.Logger)),
		hbridge.WithMetrics(params.Metrics),
		hbridge.WithTracerProvider(params.TracerProv),
	}, cfg.BridgeOptions...)

	return hbridge.New(opts...)
}

// NewHost creates the host with the bridge installed as its first middleware.
func NewHost(logger *zap.Logger, bridge *hbridge.Adapter) *host.App {
	app := host.New(logger)
	app.Use(func(ev *host.Event, next host.Next) (any, error) {
		return bridge.Handle(ev, hbridge.Next(next))
	})

	return app
}
