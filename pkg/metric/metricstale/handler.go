package metricstale

import "sync"

// Handler is a reference-counted staleness notifier: Acquire/Release
// track outstanding writer handles and pending deltas for one
// instrument, firing every registered callback exactly once when the
// count transitions from positive to zero (§4.6).
type Handler interface {
	// Acquire increments the reference count, resetting any pending or
	// already-fired staleness state.
	Acquire()
	// Release decrements the reference count.
	Release()
	// OnStale registers a callback invoked when this handler goes
	// stale. May be called any number of times before the first
	// transition to zero; all registered callbacks fire.
	OnStale(cb func())
}

// baseHandler holds the reference-counting state shared by Immediate
// and Delayed.
type baseHandler struct {
	mu        sync.Mutex
	count     int
	callbacks []func()
}

func (h *baseHandler) addCallback(cb func()) {
	if cb == nil {
		return
	}
	h.mu.Lock()
	h.callbacks = append(h.callbacks, cb)
	h.mu.Unlock()
}

func (h *baseHandler) fire() {
	h.mu.Lock()
	cbs := h.callbacks
	h.mu.Unlock()
	for _, cb := range cbs {
		cb()
	}
}
