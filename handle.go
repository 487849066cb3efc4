package menuguard

import (
	"log/slog"
	"sync"
)

// Handle is one installed keyboard hook on its own dedicated pump thread.
// It is returned by Start and owns the hook for its lifetime: stopping the
// handle uninstalls the hook on the pump thread before that thread exits.
type Handle struct {
	tid  uint32
	sys  system
	log  *slog.Logger
	done chan struct{}
	stop sync.Once
}

// Stop asks the pump thread to exit. The thread uninstalls its hook and
// terminates on its own; Stop does not wait for it. Stop is idempotent and
// safe to call from any goroutine.
func (h *Handle) Stop() {
	h.stop.Do(func() {
		if err := h.sys.postQuit(h.tid); err != nil {
			h.log.Warn("failed to signal hook thread", "thread", h.tid, "error", err)
		}
	})
}

// Wait blocks until the pump thread has uninstalled its hook and exited.
func (h *Handle) Wait() {
	<-h.done
}

// Done returns a channel closed when the pump thread has exited.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Close stops the hook and waits for the pump thread to exit. It never
// returns a non-nil error; the signature exists for io.Closer call sites.
func (h *Handle) Close() error {
	h.Stop()
	h.Wait()
	return nil
}
