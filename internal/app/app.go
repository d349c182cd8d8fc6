package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/exec"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"nuclearfleet/internal/config"
	apperrors "nuclearfleet/internal/errors"
	customMiddleware "nuclearfleet/internal/middleware"
	"nuclearfleet/internal/report"
	handlers "nuclearfleet/internal/transport/http"
	"nuclearfleet/pkg/contracts/domain"
)

const (
	// healthRetries bounds how long the browser waits for the server
	healthRetries  = 10
	healthInterval = 500 * time.Millisecond
)

// Application serves a rendered fleet chart and its data
type Application struct {
	Config  *config.Config
	Router  *chi.Mux
	Server  *http.Server
	Metrics *handlers.FleetMetrics
	Logger  *slog.Logger

	fleet       handlers.FleetSource
	openBrowser func(url string) error
	listener    net.Listener
	startErr    error
	started     atomic.Bool
	ready       chan struct{}
	readyOnce   sync.Once
}

// New wires the viewer around an already rendered document
func New(cfg *config.Config, doc *report.Document, aggs []domain.YearlyAggregate, summary domain.FleetSummary, logger *slog.Logger) *Application {
	if logger == nil {
		logger = slog.Default()
	}
	a := &Application{
		Config:      cfg,
		Metrics:     handlers.NewFleetMetrics(),
		Logger:      logger.With(slog.String("component", "viewer")),
		fleet:       handlers.NewStaticFleet(aggs, summary),
		openBrowser: OpenBrowser,
		ready:       make(chan struct{}),
	}
	a.Metrics.Observe(aggs, summary)
	a.setupRouter(doc)
	a.createServer()
	return a
}

func (a *Application) setupRouter(doc *report.Document) {
	r := chi.NewRouter()

	// RequestID → RealIP → Logger → Recoverer
	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(customMiddleware.Recoverer(a.Logger))
	r.Use(customMiddleware.SecurityHeaders)
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		apperrors.WriteError(w, apperrors.ErrNotFound)
	})

	var page []byte
	if doc != nil {
		page = doc.HTML()
	}
	r.Get("/", handlers.ServeDocument(page))

	r.Route("/api", func(r chi.Router) {
		if rl := a.Config.Server.RateLimit; rl.RPS > 0 {
			r.Use(customMiddleware.NewRateLimiter(rl.RPS, rl.Burst, a.Logger).Handler)
		}
		health := handlers.NewHealthHandler(config.AppVersion, a.fleet)
		r.Get("/health", health.HealthCheck)
		r.Get("/version", health.Version)
		r.Mount("/", handlers.NewFleetHandler(a.fleet, a.Logger).Routes())
	})

	r.Handle("/metrics", a.Metrics.Handler())

	a.Router = r
}

func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:         a.Config.Server.ListenAddr(),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
	}
}

// Ready is closed once the server is accepting connections or has failed
// to start; StartErr tells the two apart.
func (a *Application) Ready() <-chan struct{} {
	return a.ready
}

// StartErr is the listen error of Run, nil while starting or once serving
func (a *Application) StartErr() error {
	select {
	case <-a.ready:
		return a.startErr
	default:
		return nil
	}
}

func (a *Application) markReady() {
	a.readyOnce.Do(func() { close(a.ready) })
}

// URL returns the base URL of the running server. It is only meaningful
// after Ready is closed.
func (a *Application) URL() string {
	addr := a.Server.Addr
	if a.listener != nil {
		addr = a.listener.Addr().String()
	}
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://" + addr
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port)
}

// Run serves until ctx is cancelled, then shuts down gracefully. When the
// configuration asks for it, the browser is opened once /api/health answers.
func (a *Application) Run(ctx context.Context) error {
	if !a.started.CompareAndSwap(false, true) {
		return errors.New("viewer already started")
	}

	ln, err := net.Listen("tcp", a.Server.Addr)
	if err != nil {
		a.startErr = fmt.Errorf("failed to listen on %s: %w", a.Server.Addr, err)
		a.markReady()
		return a.startErr
	}
	a.listener = ln
	a.markReady()

	a.Logger.InfoContext(ctx, "Viewer started",
		slog.String("name", config.AppName),
		slog.String("version", config.AppVersion),
		slog.String("address", a.URL()))

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := a.Server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		a.Logger.Info("Shutting down viewer")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
		defer cancel()
		if err := a.Server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		a.Logger.Info("Viewer shutdown complete")
		return nil
	})

	if a.Config.Server.OpenBrowser {
		g.Go(func() error {
			a.openWhenReady(gctx)
			return nil
		})
	}

	return g.Wait()
}

// openWhenReady polls the health endpoint and then opens the browser.
// Failing to open a browser is logged, never fatal.
func (a *Application) openWhenReady(ctx context.Context) {
	url := a.URL()
	healthURL := url + "/api/health"
	client := &http.Client{Timeout: healthInterval}

	for i := 0; i < healthRetries; i++ {
		select {
		case <-ctx.Done():
			return
		default:
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, healthURL, nil)
		if err != nil {
			return
		}
		resp, err := client.Do(req)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				a.Logger.InfoContext(ctx, "Server is ready, opening browser",
					slog.String("url", url),
					slog.Int("attempts", i+1))
				if err := a.openBrowser(url); err != nil {
					a.Logger.WarnContext(ctx, "Failed to open browser, open the address manually",
						slog.String("url", url),
						slog.String("error", err.Error()))
				}
				return
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(healthInterval):
		}
	}

	a.Logger.ErrorContext(ctx, "Server did not become ready for browser opening",
		slog.String("url", url),
		slog.Int("max_retries", healthRetries))
}

// browserMethod is one way of handing a URL to the desktop
type browserMethod struct {
	name string
	cmd  string
	args []string
}

// OpenBrowser hands target (an http:// or file:// URL) to the desktop's
// browser, trying each platform method in order until one starts.
func OpenBrowser(target string) error {
	var lastErr error
	for _, method := range browserOpenMethods(runtime.GOOS, target) {
		if _, err := exec.LookPath(method.cmd); err != nil {
			lastErr = err
			continue
		}
		cmd := exec.Command(method.cmd, method.args...)
		if err := cmd.Start(); err != nil {
			lastErr = err
			slog.Debug("Browser open method failed",
				slog.String("method", method.name),
				slog.String("error", err.Error()))
			continue
		}
		// Reap the launcher without blocking the caller
		go func() { _ = cmd.Wait() }()

		slog.Info("Browser opened",
			slog.String("method", method.name),
			slog.String("url", target))
		return nil
	}
	if lastErr == nil {
		lastErr = errors.New("no browser launcher for " + runtime.GOOS)
	}
	return fmt.Errorf("failed to open browser: %w", lastErr)
}

// browserOpenMethods returns the launchers to try for goos
func browserOpenMethods(goos, target string) []browserMethod {
	switch goos {
	case "windows":
		return []browserMethod{
			{name: "rundll32", cmd: "rundll32", args: []string{"url.dll,FileProtocolHandler", target}},
			{name: "start_command", cmd: "cmd", args: []string{"/c", "start", "", target}},
			{name: "explorer", cmd: "explorer", args: []string{target}},
		}
	case "darwin":
		return []browserMethod{
			{name: "open", cmd: "open", args: []string{target}},
		}
	default:
		return []browserMethod{
			{name: "xdg-open", cmd: "xdg-open", args: []string{target}},
			{name: "sensible-browser", cmd: "sensible-browser", args: []string{target}},
			{name: "firefox", cmd: "firefox", args: []string{target}},
			{name: "chromium", cmd: "chromium", args: []string{target}},
		}
	}
}
