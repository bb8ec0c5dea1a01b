package state

// ring is a fixed-capacity float window. Adds overwrite the oldest sample
// once full.
type ring struct {
	data []float64
	head int
	size int
}

func newRing(capacity int) *ring {
	return &ring{data: make([]float64, capacity)}
}

func (r *ring) add(v float64) {
	r.data[r.head] = v
	r.head = (r.head + 1) % len(r.data)
	if r.size < len(r.data) {
		r.size++
	}
}

// values returns the window oldest first.
func (r *ring) values() []float64 {
	out := make([]float64, 0, r.size)
	if r.size < len(r.data) {
		return append(out, r.data[:r.size]...)
	}
	out = append(out, r.data[r.head:]...)
	return append(out, r.data[:r.head]...)
}
