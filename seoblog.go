// Package seoblog is a single-page blog post generator built with Go, Echo
// and templ. A submitted topic is drafted into a structured post by Gemini,
// every image prompt in it is illustrated concurrently, and the assembled
// post is rendered server-side.
//
// Each browser session owns at most one generation job, held in memory only
// until it is reset or expires.
package seoblog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ove9/seoblog/views"
)

// App is the central seoblog application. It wires together the generator,
// job registry, handlers and middleware.
type App struct {
	Config    SiteConfig
	Echo      *echo.Echo
	Generator Generator

	jobs         *jobRegistry
	limiter      *RateLimiter
	customRoutes []func(*App)
	now          func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	ready  bool
}

// New creates a new App with the given configuration and generator.
func New(cfg SiteConfig, gen Generator, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Generator: gen,
		now:       time.Now,
	}
	a.Echo.HideBanner = true

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Init builds the job registry, limiter, middleware and routes. Repeated
// calls are no-ops. Call it before running Start on another goroutine.
func (a *App) Init() error {
	if a.ready {
		return nil
	}
	if a.Config.SessionSecret == "" {
		return errors.New("seoblog: SessionSecret is required")
	}
	if a.Generator == nil {
		return errors.New("seoblog: Generator is required")
	}

	a.ctx, a.cancel = context.WithCancel(context.Background())
	a.jobs = newJobRegistry(a.ctx, a.Config.JobTTL, a.Config.GenerateTimeout, a.now)
	a.limiter = NewRateLimiter(a.Config.GenerateLimit, a.Config.GenerateWindow)

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}
	a.ready = true
	return nil
}

// Start initializes the application if needed and serves HTTP until the
// server stops.
func (a *App) Start() error {
	if err := a.Init(); err != nil {
		return err
	}
	slog.Info("server_starting", "addr", a.Config.Addr)
	if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("seoblog: serve: %w", err)
	}
	return nil
}

// Shutdown stops accepting requests and cancels running jobs.
func (a *App) Shutdown(ctx context.Context) error {
	err := a.Echo.Shutdown(ctx)
	a.Close()
	return err
}

// Close releases background resources. Running jobs are cancelled.
func (a *App) Close() {
	if a.cancel != nil {
		a.cancel()
	}
	if a.limiter != nil {
		a.limiter.Stop()
	}
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.GET("/", a.handleHome)
	e.POST("/generate", a.handleGenerate)
	e.POST("/reset", a.handleReset)
	e.GET("/healthz", handleHealth)
	e.GET("/robots.txt", handleRobots)
}

func (a *App) viewConfig() views.SiteConfig {
	return views.SiteConfig{Name: a.Config.Name}
}
