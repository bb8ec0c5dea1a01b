package usecase

import (
	"encoding/json"
	"time"

	"driftwatch/internal/domain/models"
	drepo "driftwatch/internal/domain/repository"
	"driftwatch/internal/state"
	"driftwatch/pkg/logger"
)

// Dispatcher routes raw backend frames to store mutations. It never
// fails: malformed or unknown frames are logged, counted and dropped
// with state untouched.
type Dispatcher struct {
	store   *state.Store
	relay   drepo.Relay
	log     *logger.Logger
	metrics drepo.Metrics
}

// NewDispatcher creates a new Dispatcher instance. relay may be nil.
func NewDispatcher(store *state.Store, relay drepo.Relay, log *logger.Logger, metrics drepo.Metrics) *Dispatcher {
	return &Dispatcher{store: store, relay: relay, log: log, metrics: metrics}
}

// Dispatch applies one frame. It runs on the stream's read goroutine,
// one frame at a time, so mutations land in arrival order.
func (d *Dispatcher) Dispatch(raw []byte) {
	start := time.Now()

	var env models.Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		d.metrics.RecordError("decode")
		d.log.Warn("malformed frame dropped", logger.Error(err), logger.String("payload", trimPayload(raw)))
		return
	}

	switch env.Type {
	case models.MsgPheromoneUpdate:
		var msg models.PheromoneUpdate
		if err := json.Unmarshal(raw, &msg); err != nil {
			d.drop(env.Type, raw, err)
			return
		}
		d.store.SetPheromones(msg.Pheromones)

	case models.MsgPortfolioUpdate:
		var msg models.PortfolioUpdate
		if err := json.Unmarshal(raw, &msg); err != nil {
			d.drop(env.Type, raw, err)
			return
		}
		d.store.SetPortfolio(msg.Portfolio)

	case models.MsgAgentMetrics:
		var msg models.AgentMetricsUpdate
		if err := json.Unmarshal(raw, &msg); err != nil {
			d.drop(env.Type, raw, err)
			return
		}
		d.store.SetAgents(msg.Agents)

	case models.MsgTradeHistory:
		var msg models.TradeHistoryUpdate
		if err := json.Unmarshal(raw, &msg); err != nil {
			d.drop(env.Type, raw, err)
			return
		}
		d.store.SetTrades(msg.Trades)

	case models.MsgEvent:
		var msg models.EventMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			d.drop(env.Type, raw, err)
			return
		}
		d.store.AddEvent(msg.EventType, msg.Pheromone, msg.Intensity)

	default:
		d.metrics.RecordError("unknown_type")
		d.log.Debug("unknown frame type ignored", logger.String("type", env.Type))
		return
	}

	d.metrics.RecordFrame(env.Type)
	d.metrics.RecordDispatchSeconds(time.Since(start).Seconds())

	if d.relay != nil {
		d.relay.Broadcast(raw)
	}
}

func (d *Dispatcher) drop(msgType string, raw []byte, err error) {
	d.metrics.RecordError("decode")
	d.log.Warn("frame payload decode failed",
		logger.String("type", msgType),
		logger.Error(err),
		logger.String("payload", trimPayload(raw)),
	)
}

// trimPayload keeps log lines bounded when a bad frame is large.
func trimPayload(raw []byte) string {
	const max = 256
	if len(raw) <= max {
		return string(raw)
	}
	return string(raw[:max]) + "..."
}
