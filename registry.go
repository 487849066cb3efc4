package menuguard

import "sync"

// hookRegistry routes events from the process-wide hook callback to the
// handler owning the thread they arrived on. Low-level hook callbacks run
// on the thread that installed the hook, so the pump thread id uniquely
// identifies the owning handle. The registry grows on Start and shrinks on
// teardown; there is no limit on concurrent entries.
type hookRegistry struct {
	mu       sync.RWMutex
	handlers map[uint32]*handler
}

var hooks = &hookRegistry{handlers: make(map[uint32]*handler)}

func (r *hookRegistry) add(tid uint32, h *handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[tid] = h
}

func (r *hookRegistry) remove(tid uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.handlers, tid)
}

// dispatch hands an event to the handler registered for tid, if any. The
// handler runs outside the lock; a handler observed here is only ever
// invoked on its own pump thread.
func (r *hookRegistry) dispatch(tid uint32, ev KeyEvent) {
	r.mu.RLock()
	h := r.handlers[tid]
	r.mu.RUnlock()
	if h != nil {
		h.handle(ev)
	}
}

func (r *hookRegistry) size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handlers)
}
