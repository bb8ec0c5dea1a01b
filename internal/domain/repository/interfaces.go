package repository

import "context"

// FrameHandler consumes one raw text frame from the backend stream.
type FrameHandler func(raw []byte)

// StatusHandler observes connectivity transitions.
type StatusHandler func(connected bool)

// Stream is a managed connection to the swarm backend. Implementations own
// their retry schedule: Connect and Reconnect log dial failures instead of
// returning them, and a lost connection is retried until Disconnect.
type Stream interface {
	OnFrame(h FrameHandler)
	OnStatus(h StatusHandler)
	Connect(ctx context.Context)
	Reconnect(ctx context.Context)
	Disconnect() error
	Send(v interface{}) bool
	IsConnected() bool
}

// Relay fans applied frames out to downstream dashboard clients.
type Relay interface {
	Broadcast(raw []byte)
	BroadcastStatus(connected bool)
}

type Metrics interface {
	RecordFrame(msgType string)
	RecordError(kind string)
	RecordConnected(connected bool)
	RecordReconnect()
	RecordCommand(command string, sent bool)
	RecordDispatchSeconds(seconds float64)
}
