package menuguard

// system abstracts the OS facilities one hook session needs, so the
// lifecycle and handler logic can run against a simulated surface in tests
// and on platforms without global hooks.
//
// threadID, prepareQueue, installHook, removeHook and run are called only
// from the session's dedicated pump goroutine, in that order. postQuit and
// injectTap may be called from any goroutine.
type system interface {
	// threadID identifies the calling OS thread. Events and the quit
	// signal for this session are routed by this id.
	threadID() uint32

	// prepareQueue makes sure the calling thread has a message queue, so a
	// quit posted before the pump starts is not lost.
	prepareQueue()

	// installHook registers a low-level keyboard hook for the calling
	// thread and returns its registration token.
	installHook() (uintptr, error)

	// removeHook unregisters the hook. Called on the installing thread.
	removeHook(token uintptr) error

	// run pumps messages until a quit for this thread arrives, dispatching
	// hook callbacks as they occur.
	run()

	// postQuit delivers a quit to the thread's message queue.
	postQuit(tid uint32) error

	// injectTap submits a synthetic press/release pair of vk to the input
	// pipeline. The resulting events re-enter low-level hooks flagged as
	// injected.
	injectTap(vk VirtualKey) error
}
