package metrics

// Noop discards all measurements. Handy for tests.
type Noop struct{}

func (Noop) RecordFrame(string)            {}
func (Noop) RecordError(string)            {}
func (Noop) RecordConnected(bool)          {}
func (Noop) RecordReconnect()              {}
func (Noop) RecordCommand(string, bool)    {}
func (Noop) RecordDispatchSeconds(float64) {}
