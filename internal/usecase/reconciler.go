package usecase

import (
	"context"

	drepo "driftwatch/internal/domain/repository"
	"driftwatch/pkg/logger"
)

// Reconciler owns the stream lifecycle: it registers the dispatch and
// status handlers, then connects. The stream handles its own retries
// from there until Shutdown.
type Reconciler struct {
	stream drepo.Stream
	disp   *Dispatcher
	relay  drepo.Relay
	log    *logger.Logger
}

// NewReconciler creates a new Reconciler instance. relay may be nil.
func NewReconciler(stream drepo.Stream, disp *Dispatcher, relay drepo.Relay, log *logger.Logger) *Reconciler {
	return &Reconciler{stream: stream, disp: disp, relay: relay, log: log}
}

// Start wires handlers and opens the connection. Handlers must be in
// place first so no frame can slip past the dispatcher.
func (r *Reconciler) Start(ctx context.Context) {
	r.stream.OnFrame(r.disp.Dispatch)
	r.stream.OnStatus(func(up bool) {
		r.log.Info("backend connectivity changed", logger.Bool("connected", up))
		if r.relay != nil {
			r.relay.BroadcastStatus(up)
		}
	})
	r.stream.Connect(ctx)
}

// IsConnected reports backend connectivity.
func (r *Reconciler) IsConnected() bool { return r.stream.IsConnected() }

// Reconnect forces an immediate connection attempt.
func (r *Reconciler) Reconnect(ctx context.Context) { r.stream.Reconnect(ctx) }

// Shutdown closes the connection and cancels pending retries.
func (r *Reconciler) Shutdown() error { return r.stream.Disconnect() }
