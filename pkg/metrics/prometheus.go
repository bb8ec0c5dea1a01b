package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	framesTotal     *prometheus.CounterVec
	errorsTotal     *prometheus.CounterVec
	connected       prometheus.Gauge
	reconnectsTotal prometheus.Counter
	commandsTotal   *prometheus.CounterVec
	dispatchSeconds prometheus.Histogram
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		framesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "driftwatch_frames_total",
				Help: "Total number of frames received from the swarm backend",
			},
			[]string{"type"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "driftwatch_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		connected: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "driftwatch_backend_connected",
				Help: "Whether the swarm backend connection is up (1) or down (0)",
			},
		),
		reconnectsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "driftwatch_reconnects_total",
				Help: "Total number of reconnect attempts to the swarm backend",
			},
		),
		commandsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "driftwatch_commands_total",
				Help: "Total number of outbound commands by outcome",
			},
			[]string{"command", "outcome"},
		),
		dispatchSeconds: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "driftwatch_dispatch_duration_seconds",
				Help:    "Time spent applying one frame to the store",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
}

// RecordFrame counts a received frame by its type discriminant.
func (r *Recorder) RecordFrame(msgType string) {
	r.framesTotal.WithLabelValues(msgType).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordConnected reflects connectivity on the gauge.
func (r *Recorder) RecordConnected(connected bool) {
	if connected {
		r.connected.Set(1)
		return
	}
	r.connected.Set(0)
}

// RecordReconnect counts one reconnect attempt.
func (r *Recorder) RecordReconnect() {
	r.reconnectsTotal.Inc()
}

// RecordCommand counts an outbound command as sent or dropped.
func (r *Recorder) RecordCommand(command string, sent bool) {
	outcome := "sent"
	if !sent {
		outcome = "dropped"
	}
	r.commandsTotal.WithLabelValues(command, outcome).Inc()
}

// RecordDispatchSeconds records how long one frame took to apply.
func (r *Recorder) RecordDispatchSeconds(seconds float64) {
	r.dispatchSeconds.Observe(seconds)
}
