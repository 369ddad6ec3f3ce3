package hbridgefx

import (
	"time"

	"github.com/advdv/hbridge"
	"github.com/caarlos0/env/v11"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap/zapcore"
)

// Environment defines the interface that all environment configurations must implement.
// Embed BaseEnvironment in your struct to satisfy this interface.
type Environment interface {
	port() int
	serviceName() string
	readinessCheckPath() string
	logLevel() zapcore.Level
	otelExporter() string
	h2c() bool
	requestTimeout() time.Duration
	bridgeConfig() hbridge.Config
}

// BaseEnvironment contains the environment variables every app reads. The embedded [hbridge.Config]
// configures the bridge from the HBRIDGE_ variables.
type BaseEnvironment struct {
	Port               int           `env:"HB_PORT,required"`
	ServiceName        string        `env:"HB_SERVICE_NAME,required"`
	ReadinessCheckPath string        `env:"HB_READINESS_CHECK_PATH" envDefault:"/health"`
	LogLevel           zapcore.Level `env:"HB_LOG_LEVEL"            envDefault:"info"`
	OtelExporter       string        `env:"HB_OTEL_EXPORTER"        envDefault:"none"`
	// H2C serves HTTP/2 without TLS next to HTTP/1.1, for running behind a proxy that speaks h2c.
	H2C bool `env:"HB_H2C"`
	// RequestTimeout bounds the context of every request, and the server timeouts with it.
	RequestTimeout time.Duration `env:"HB_REQUEST_TIMEOUT" envDefault:"30s"`

	hbridge.Config
}

func (e BaseEnvironment) port() int                    { return e.Port }
func (e BaseEnvironment) serviceName() string          { return e.ServiceName }
func (e BaseEnvironment) readinessCheckPath() string   { return e.ReadinessCheckPath }
func (e BaseEnvironment) logLevel() zapcore.Level      { return e.LogLevel }
func (e BaseEnvironment) otelExporter() string         { return e.OtelExporter }
func (e BaseEnvironment) h2c() bool                    { return e.H2C }
func (e BaseEnvironment) requestTimeout() time.Duration { return e.RequestTimeout }
func (e BaseEnvironment) bridgeConfig() hbridge.Config { return e.Config }

var _ Environment = BaseEnvironment{}

// ParseEnv parses environment variables into the given Environment type.
func ParseEnv[E Environment]() func() (E, error) {
	return func() (e E, err error) {
		if err := env.Parse(&e); err != nil {
			return e, errors.Wrap(err, "failed to parse environment")
		}
		return e, nil
	}
}
