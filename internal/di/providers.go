package di

import (
	"fmt"

	"driftwatch/internal/domain/repository"
	"driftwatch/internal/handler/api"
	"driftwatch/internal/handler/ws"
	"driftwatch/internal/service/swarm"
	"driftwatch/internal/state"
	"driftwatch/internal/usecase"
	"driftwatch/pkg/config"
	xhttp "driftwatch/pkg/http"
	"driftwatch/pkg/logger"
	"driftwatch/pkg/metrics"
	"driftwatch/pkg/server"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return log, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideStore creates the in-memory state mirror.
func ProvideStore() *state.Store {
	return state.New()
}

// ProvideRelayHub creates the dashboard relay hub.
func ProvideRelayHub(cfg *config.Config, store *state.Store, log *logger.Logger) *ws.Hub {
	return ws.NewHub(store, cfg.Dashboard.RelayBuffer, log)
}

// ProvideRelay exposes the hub under its domain interface.
func ProvideRelay(hub *ws.Hub) repository.Relay {
	return hub
}

// ProvideSwarmStream creates the backend WebSocket stream client.
func ProvideSwarmStream(cfg *config.Config, log *logger.Logger, m repository.Metrics) repository.Stream {
	return swarm.New(
		cfg.Swarm.URL,
		cfg.Swarm.ReconnectDelay,
		cfg.Swarm.PingInterval,
		cfg.Swarm.DialTimeout,
		log,
		m,
	)
}

// ProvideDispatcher creates the frame dispatcher.
func ProvideDispatcher(store *state.Store, relay repository.Relay, log *logger.Logger, m repository.Metrics) *usecase.Dispatcher {
	return usecase.NewDispatcher(store, relay, log, m)
}

// ProvideCommander creates the outbound command channel.
func ProvideCommander(stream repository.Stream, log *logger.Logger, m repository.Metrics) *usecase.Commander {
	return usecase.NewCommander(stream, log, m)
}

// ProvideReconciler creates the reconciler that owns the stream wiring.
func ProvideReconciler(stream repository.Stream, disp *usecase.Dispatcher, relay repository.Relay, log *logger.Logger) *usecase.Reconciler {
	return usecase.NewReconciler(stream, disp, relay, log)
}

// ProvideDashboardHandler creates the Echo HTTP handler.
func ProvideDashboardHandler(
	cfg *config.Config,
	log *logger.Logger,
	store *state.Store,
	reconciler *usecase.Reconciler,
	commander *usecase.Commander,
	hub *ws.Hub,
) xhttp.Handler {
	return api.NewDashboardHandler(log, store, reconciler, commander, hub, cfg.Swarm.URL, cfg.Dashboard.TargetStocksPct)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	log *logger.Logger,
	reconciler *usecase.Reconciler,
	hub *ws.Hub,
	handler xhttp.Handler,
) *server.App {
	return server.New(cfg, log, reconciler, hub, handler)
}
