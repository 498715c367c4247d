// Package app is the lojinha application runner: it builds the HTTP kernel
// and exposes the serve, migrate, seed and route:list commands.
//
//	app.New().
//	    Boot(func(ctx context.Context) (func(), error) { ... }).
//	    Routes(func(r *router.Router) { routes.RegisterAPI(r, svc) }).
//	    Seeders(seeders.RunAll).
//	    Run()
package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/lojinha/config"
	"github.com/shashiranjanraj/lojinha/pkg/metrics"
	"github.com/shashiranjanraj/lojinha/pkg/middleware"
	"github.com/shashiranjanraj/lojinha/pkg/reqid"
	"github.com/shashiranjanraj/lojinha/pkg/response"
	"github.com/shashiranjanraj/lojinha/pkg/router"
)

// BootFunc prepares application state before routes are mounted. The
// returned func releases it.
type BootFunc func(ctx context.Context) (func(), error)

type SeederFunc func(db *gorm.DB, out io.Writer) error

type Application struct {
	boot      BootFunc
	routesFns []func(*router.Router)
	seeders   []SeederFunc
	commands  []*cobra.Command
}

func New() *Application {
	return &Application{}
}

// Boot sets the function run before serve and route:list.
func (a *Application) Boot(fn BootFunc) *Application {
	a.boot = fn
	return a
}

// Routes adds a route-registration callback. Callbacks run in order.
func (a *Application) Routes(fn func(*router.Router)) *Application {
	a.routesFns = append(a.routesFns, fn)
	return a
}

func (a *Application) Seeders(fns ...SeederFunc) *Application {
	a.seeders = append(a.seeders, fns...)
	return a
}

// Command adds extra cobra sub-commands.
func (a *Application) Command(cmds ...*cobra.Command) *Application {
	a.commands = append(a.commands, cmds...)
	return a
}

// Handler builds the router with the global middleware stack, /metrics and
// every registered route. Boot must already have run.
func (a *Application) Handler() http.Handler {
	return a.router().Handler()
}

func (a *Application) router() *router.Router {
	r := router.New()

	// Outermost first: metrics sees total latency, reqid runs before
	// anything logs.
	r.Use(metrics.Middleware())
	r.Use(reqid.Middleware())
	r.Use(middleware.Recovery)
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions()))
	r.Use(middleware.RateLimit(config.RateLimit(), time.Minute))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusNotFound, "Rota não encontrada")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, "Método não permitido")
	})

	r.Get("/metrics", "metrics", metrics.Handler())

	for _, fn := range a.routesFns {
		fn(r)
	}
	return r
}

func (a *Application) runBoot(ctx context.Context) (func(), error) {
	if a.boot == nil {
		return func() {}, nil
	}
	cleanup, err := a.boot(ctx)
	if err != nil {
		return nil, fmt.Errorf("boot: %w", err)
	}
	if cleanup == nil {
		cleanup = func() {}
	}
	return cleanup, nil
}

// Run executes the command named in os.Args and exits non-zero on error.
// With no arguments it serves.
func (a *Application) Run() {
	if err := a.RootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
