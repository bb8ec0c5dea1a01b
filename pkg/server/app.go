package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"driftwatch/internal/handler/ws"
	"driftwatch/internal/usecase"
	"driftwatch/pkg/config"
	xhttp "driftwatch/pkg/http"
	applogger "driftwatch/pkg/logger"
)

// App encapsulates the entire application lifecycle: the reconciler
// keeps the backend view current, the hub relays it, the HTTP server
// exposes it.
type App struct {
	cfg         *config.Config
	log         *applogger.Logger
	reconciler  *usecase.Reconciler
	hub         *ws.Hub
	httpHandler xhttp.Handler
	httpServer  *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	reconciler *usecase.Reconciler,
	hub *ws.Hub,
	httpHandler xhttp.Handler,
) *App {
	return &App{
		cfg:         cfg,
		log:         log,
		reconciler:  reconciler,
		hub:         hub,
		httpHandler: httpHandler,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.httpServer = xhttp.NewServer(a.httpHandler, a.log,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithMetricsPath(a.cfg.Metrics.Path),
	)

	go a.hub.Run(ctx)

	// Handlers are registered inside Start before the dial, so the
	// first frame already has somewhere to go.
	a.reconciler.Start(ctx)
	a.log.Info("reconciler started", applogger.String("swarm", a.cfg.Swarm.URL))

	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	if err := a.reconciler.Shutdown(); err != nil {
		a.log.Warn("stream close error", applogger.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
		return err
	}

	a.log.Info("shutdown complete")
	return nil
}
