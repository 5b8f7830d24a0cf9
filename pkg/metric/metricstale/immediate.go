package metricstale

// Immediate fires its staleness callbacks synchronously inside the
// Release call that drops the reference count to zero.
type Immediate struct {
	base baseHandler
}

var _ Handler = (*Immediate)(nil)

// NewImmediate creates an Immediate staleness handler with a reference
// count of zero.
func NewImmediate() *Immediate {
	return &Immediate{}
}

// Acquire implements Handler.
func (h *Immediate) Acquire() {
	h.base.mu.Lock()
	h.base.count++
	h.base.mu.Unlock()
}

// Release implements Handler: fires callbacks in-line when the count
// reaches zero.
func (h *Immediate) Release() {
	h.base.mu.Lock()
	h.base.count--
	zero := h.base.count == 0
	h.base.mu.Unlock()
	if zero {
		h.base.fire()
	}
}

// OnStale implements Handler.
func (h *Immediate) OnStale(cb func()) {
	h.base.addCallback(cb)
}
