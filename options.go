package hbridge

import (
	"log"
	"net/http"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel/trace"
	"gopkg.in/yaml.v3"
)

// RequestLimits bound what a handler may consume from the request.
type RequestLimits struct {
	// MaxBodySize is the largest body [Body] reads, in bytes. Zero or less means unlimited.
	MaxBodySize int64
}

type options struct {
	raise404 bool
	notFound Handler
	limits   RequestLimits
	headers  http.Header
	bufLimit int
	logs     Logger
	metrics  *Metrics
	tracing  trace.TracerProvider
}

func defaultOptions() *options {
	return &options{
		bufLimit: -1,
		logs:     NewStdLogger(log.Default()),
	}
}

// Option configures the adapter.
type Option func(*options)

// WithRaise404 answers unmatched requests with a 404 instead of delegating them to the host.
func WithRaise404(v bool) Option {
	return func(o *options) { o.raise404 = v }
}

// WithNotFound serves unmatched requests with h. It takes precedence over [WithRaise404].
func WithNotFound(h Handler) Option {
	return func(o *options) { o.notFound = h }
}

// WithRequestLimits configures the request limits.
func WithRequestLimits(l RequestLimits) Option {
	return func(o *options) { o.limits = l }
}

// WithDefaultHeaders sets headers on every response the adapter writes. Handlers may overwrite them.
func WithDefaultHeaders(h http.Header) Option {
	return func(o *options) { o.headers = h.Clone() }
}

// WithBufferLimit limits the bytes a handler may write into the response buffer, negative means no limit.
func WithBufferLimit(n int) Option {
	return func(o *options) { o.bufLimit = n }
}

// WithLogger sets the logger, nil restores the default.
func WithLogger(l Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NewStdLogger(log.Default())
		}

		o.logs = l
	}
}

// WithMetrics records request outcomes in m.
func WithMetrics(m *Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithTracerProvider creates a span per bridged request using tp.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) { o.tracing = tp }
}

// WithConfig applies every setting of cfg.
func WithConfig(cfg Config) Option {
	return func(o *options) {
		o.raise404 = cfg.Raise404
		o.limits.MaxBodySize = cfg.MaxBodySize
		o.bufLimit = -1
		if cfg.BufferLimit > 0 {
			o.bufLimit = cfg.BufferLimit
		}

		if len(cfg.DefaultHeaders) > 0 {
			o.headers = make(http.Header, len(cfg.DefaultHeaders))
			for k, v := range cfg.DefaultHeaders {
				o.headers.Set(k, v)
			}
		}
	}
}

// Config is the declarative form of the options. It can be read from the environment and from yaml. Unlike
// [WithBufferLimit], a BufferLimit of zero means no limit.
type Config struct {
	Raise404       bool              `env:"HBRIDGE_RAISE_404"       yaml:"raise404"`
	MaxBodySize    int64             `env:"HBRIDGE_MAX_BODY_SIZE"   yaml:"maxBodySize"`
	BufferLimit    int               `env:"HBRIDGE_BUFFER_LIMIT"    yaml:"bufferLimit"`
	DefaultHeaders map[string]string `env:"HBRIDGE_DEFAULT_HEADERS" yaml:"defaultHeaders"`
}

// DefaultConfig returns the configuration that matches an adapter without options.
func DefaultConfig() Config {
	return Config{BufferLimit: -1}
}

// ParseConfig reads the configuration from the environment, unset variables keep their defaults.
func ParseConfig() (Config, error) {
	cfg := DefaultConfig()
	if err := env.Parse(&cfg); err != nil {
		return cfg, errors.Wrap(err, "failed to parse environment")
	}

	return cfg, nil
}

// LoadConfig reads the yaml file at path and then applies the environment on top of it.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "failed to read config file %q", path)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "failed to decode config file %q", path)
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, errors.Wrap(err, "failed to parse environment")
	}

	return cfg, nil
}
