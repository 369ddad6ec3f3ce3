package hbridgefxtest

import (
	"strconv"
	"testing"
	"time"
)

// Env provides a chainable builder for setting [hbridgefx.BaseEnvironment] env vars
// via t.Setenv. Create one with [SetBaseEnv].
type Env struct {
	t testing.TB
}

// SetBaseEnv sets all [hbridgefx.BaseEnvironment] env vars to sensible test defaults.
// Port is required because each test must use a unique port to avoid collisions.
//
// Defaults:
//   - HB_SERVICE_NAME: "test"
//   - HB_READINESS_CHECK_PATH: "/health"
//   - HB_LOG_LEVEL: "error"
//   - HB_OTEL_EXPORTER: "none"
//   - HB_H2C: "false"
//   - HBRIDGE_RAISE_404: "false"
//
// Use the returned [Env] to override individual values:
//
//	hbridgefxtest.SetBaseEnv(t, 18085).ServiceName("orders").Raise404(true)
func SetBaseEnv(t testing.TB, port int) *Env {
	t.Helper()
	t.Setenv("HB_PORT", strconv.Itoa(port))
	t.Setenv("HB_SERVICE_NAME", "test")
	t.Setenv("HB_READINESS_CHECK_PATH", "/health")
	t.Setenv("HB_LOG_LEVEL", "error")
	t.Setenv("HB_OTEL_EXPORTER", "none")
	t.Setenv("HB_H2C", "false")
	t.Setenv("HBRIDGE_RAISE_404", "false")
	return &Env{t: t}
}

// ServiceName overrides HB_SERVICE_NAME.
func (e *Env) ServiceName(name string) *Env {
	e.t.Helper()
	e.t.Setenv("HB_SERVICE_NAME", name)
	return e
}

// ReadinessCheckPath overrides HB_READINESS_CHECK_PATH.
func (e *Env) ReadinessCheckPath(path string) *Env {
	e.t.Helper()
	e.t.Setenv("HB_READINESS_CHECK_PATH", path)
	return e
}

// OtelExporter overrides HB_OTEL_EXPORTER.
func (e *Env) OtelExporter(exporter string) *Env {
	e.t.Helper()
	e.t.Setenv("HB_OTEL_EXPORTER", exporter)
	return e
}

// H2C overrides HB_H2C.
func (e *Env) H2C(v bool) *Env {
	e.t.Helper()
	e.t.Setenv("HB_H2C", strconv.FormatBool(v))
	return e
}

// Raise404 overrides HBRIDGE_RAISE_404.
func (e *Env) Raise404(v bool) *Env {
	e.t.Helper()
	e.t.Setenv("HBRIDGE_RAISE_404", strconv.FormatBool(v))
	return e
}

// DefaultHeaders overrides HBRIDGE_DEFAULT_HEADERS, given as "key:value,key:value".
func (e *Env) DefaultHeaders(v string) *Env {
	e.t.Helper()
	e.t.Setenv("HBRIDGE_DEFAULT_HEADERS", v)
	return e
}

// RequestTimeout overrides HB_REQUEST_TIMEOUT.
func (e *Env) RequestTimeout(d time.Duration) *Env {
	e.t.Helper()
	e.t.Setenv("HB_REQUEST_TIMEOUT", d.String())
	return e
}
