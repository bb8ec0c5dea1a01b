//go:build wireinject
// +build wireinject

package di

import (
	"driftwatch/pkg/config"
	"driftwatch/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// State and relay
		ProvideStore,
		ProvideRelayHub,
		ProvideRelay,

		// Stream and use cases
		ProvideSwarmStream,
		ProvideDispatcher,
		ProvideCommander,
		ProvideReconciler,

		// HTTP surface
		ProvideDashboardHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
