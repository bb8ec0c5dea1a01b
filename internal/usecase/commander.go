package usecase

import (
	"driftwatch/internal/domain/models"
	drepo "driftwatch/internal/domain/repository"
	"driftwatch/pkg/logger"
)

// Commander sends fire-and-forget control commands upstream. A command
// while disconnected is dropped silently: no queueing, no error, no
// local state change. The backend answers commands with regular state
// frames, never with replies.
type Commander struct {
	stream  drepo.Stream
	log     *logger.Logger
	metrics drepo.Metrics
}

// NewCommander creates a new Commander instance.
func NewCommander(stream drepo.Stream, log *logger.Logger, metrics drepo.Metrics) *Commander {
	return &Commander{stream: stream, log: log, metrics: metrics}
}

// SetAllocation asks the swarm to retarget its stocks/bonds split.
func (c *Commander) SetAllocation(stocksPct, bondsPct float64) bool {
	return c.send(models.CmdSetAllocation, models.SetAllocationCommand{
		Type:      models.CmdSetAllocation,
		StocksPct: stocksPct,
		BondsPct:  bondsPct,
	})
}

// Reset asks the swarm to restore its initial portfolio and clear state.
func (c *Commander) Reset() bool {
	return c.send(models.CmdReset, models.ResetCommand{Type: models.CmdReset})
}

// RequestStatus asks the swarm to push a fresh full status.
func (c *Commander) RequestStatus() bool {
	return c.send(models.CmdGetStatus, models.StatusRequest{Type: models.CmdGetStatus})
}

func (c *Commander) send(name string, payload interface{}) bool {
	if !c.stream.IsConnected() {
		c.log.Debug("command dropped, backend disconnected", logger.String("command", name))
		c.metrics.RecordCommand(name, false)
		return false
	}
	sent := c.stream.Send(payload)
	c.metrics.RecordCommand(name, sent)
	return sent
}
