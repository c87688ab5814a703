package main

import (
	"net/http"

	"github.com/diewo77/go-backoffice/internal/handlers"
	"github.com/diewo77/go-backoffice/internal/httpx"
	"github.com/diewo77/go-backoffice/internal/metrics"
	"github.com/diewo77/go-backoffice/internal/middleware"
	"github.com/diewo77/go-backoffice/internal/query"
	"github.com/diewo77/go-backoffice/internal/services"
	"github.com/diewo77/go-backoffice/internal/store"
	"github.com/diewo77/go-backoffice/internal/views"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Options carries the optional collaborators of an App.
type Options struct {
	Logger *zap.Logger
	// Publisher receives view invalidations; defaults to an in-process bus.
	Publisher views.Publisher
	// Metrics enables instrumentation and the metrics endpoint when set.
	Metrics     *metrics.Metrics
	MetricsPath string
}

// App is the main application handler that sets up all routes.
type App struct {
	mux     *http.ServeMux
	store   *store.Store
	opts    Options
	handler http.Handler
}

// NewApp creates a new application with all routes configured.
func NewApp(db *gorm.DB, opts Options) *App {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Publisher == nil {
		opts.Publisher = views.NewBus()
	}
	if opts.MetricsPath == "" {
		opts.MetricsPath = "/metrics"
	}
	app := &App{
		mux:   http.NewServeMux(),
		store: store.New(db),
		opts:  opts,
	}
	app.setupRoutes(db)
	app.handler = middleware.Chain(app.mux,
		middleware.RequestID(opts.Logger),
		middleware.AccessLog,
		middleware.Recover,
		middleware.Prefs,
		opts.Metrics.Middleware,
	)
	return app
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.handler.ServeHTTP(w, r)
}

func (a *App) setupRoutes(db *gorm.DB) {
	a.mux.HandleFunc("GET /health", a.health)
	a.mux.HandleFunc("GET /healthz", a.healthz)
	if a.opts.Metrics != nil {
		a.mux.Handle("GET "+a.opts.MetricsPath, a.opts.Metrics.Handler())
	}

	svc := services.New(a.store, a.opts.Publisher, a.opts.Metrics)
	handlers.New(query.New(db), svc).Register(a.mux)
}

func (a *App) health(w http.ResponseWriter, _ *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// healthz also checks the database.
func (a *App) healthz(w http.ResponseWriter, r *http.Request) {
	if err := a.store.Ping(r.Context()); err != nil {
		httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
