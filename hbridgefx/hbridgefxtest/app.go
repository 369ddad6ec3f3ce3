// Package hbridgefxtest provides test helpers for hbridgefx applications.
//
// It constructs the identical DI graph as [hbridgefx.NewApp] but uses
// [fxtest.App] which fails the test immediately on DI errors.
//
// Example:
//
//	hbridgefxtest.SetBaseEnv(t, 18081)
//	app := hbridgefxtest.New[TestEnv](t, routing)
//	app.RequireStart()
//	t.Cleanup(app.RequireStop)
package hbridgefxtest

import (
	"testing"

	"github.com/advdv/hbridge/hbridgefx"
	"go.uber.org/fx/fxtest"
)

// App embeds *fxtest.App for testing hbridgefx applications.
type App struct {
	*fxtest.App
}

// New creates a test app with the same DI graph as [hbridgefx.NewApp].
func New[E hbridgefx.Environment](t testing.TB, routing any, opts ...hbridgefx.Option) *App {
	return &App{App: fxtest.New(t, hbridgefx.FxOptions[E](routing, opts...)...)}
}
