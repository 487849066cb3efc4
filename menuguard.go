// Package menuguard suppresses the menu activation that Windows performs
// when an Alt or Windows key is pressed and released on its own: a lone
// Alt release moves focus to the window menu bar, and a lone Win release
// opens the Start menu. Applications that bind their own Alt/Win hotkey
// schemes use this package to keep exclusive control of those keys.
//
// Start installs a global low-level keyboard hook on a dedicated
// message-pump thread. When a watched modifier is released and the
// configured Policy agrees, a synthetic press/release of a harmless dummy
// key is injected before the release reaches the rest of the system, which
// stops Windows from treating the release as a menu trigger. The original
// event is always passed down the hook chain unmodified; nothing is ever
// swallowed.
//
// Each call to Start produces an independent Handle with its own thread
// and hook registration. Handles are stopped individually and do not
// interfere with one another.
package menuguard

import (
	"fmt"
	"log/slog"
	"runtime"
)

// Config controls the behavior of a hook started with Start.
// The zero value is ready to use: it always suppresses the menu for every
// watched modifier release by injecting the reserved no-effect key.
type Config struct {
	// DummyKey is the virtual key injected as a synthetic press/release
	// pair to defeat the menu trigger. It should be a key with no visible
	// effect. Zero means VKNone (0xFF), a code reserved by Windows that no
	// application reacts to.
	DummyKey VirtualKey

	// Policy decides, per watched release, whether to suppress. Nil means
	// SuppressAlways. The policy runs on the hook thread and must return
	// quickly; Windows silently drops hooks whose callbacks stall.
	Policy Policy

	// Logger receives diagnostics (installation, teardown, injection
	// failures). Nil means slog.Default().
	Logger *slog.Logger
}

// Start installs a low-level keyboard hook on a new dedicated thread and
// begins suppressing menu activation according to cfg.
//
// Start blocks only until the hook thread reports whether installation
// succeeded. On success the returned Handle owns the hook; releasing it
// with Stop (or Close) uninstalls the hook and ends the thread. Multiple
// concurrent Start calls are independent: each gets its own thread, hook
// registration and Handle.
//
// On platforms other than Windows, Start returns ErrNotSupported.
func Start(cfg Config) (*Handle, error) {
	sys := newSystem()
	if sys == nil {
		return nil, ErrNotSupported
	}
	return startWith(cfg, sys)
}

// startResult is the payload of the one-shot startup handshake. The hook
// thread sends exactly one value: the thread id on success, or the
// installation error.
type startResult struct {
	tid uint32
	err error
}

func startWith(cfg Config, sys system) (*Handle, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "menuguard")

	h := &Handle{sys: sys, log: logger, done: make(chan struct{})}
	handshake := make(chan startResult, 1)

	go func() {
		defer close(h.done)
		defer close(handshake)

		// The hook must be registered, pumped and unregistered on one and
		// the same OS thread.
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()

		tid := sys.threadID()
		sys.prepareQueue()

		token, err := sys.installHook()
		if err != nil {
			handshake <- startResult{err: fmt.Errorf("%w: %v", ErrHookInstall, err)}
			return
		}
		hooks.add(tid, newHandler(cfg, sys.injectTap, logger))
		handshake <- startResult{tid: tid}

		logger.Debug("keyboard hook installed", "thread", tid)
		sys.run()

		hooks.remove(tid)
		if err := sys.removeHook(token); err != nil {
			logger.Warn("failed to remove keyboard hook", "thread", tid, "error", err)
		} else {
			logger.Debug("keyboard hook removed", "thread", tid)
		}
	}()

	res, ok := <-handshake
	if !ok {
		return nil, ErrHandshakeLost
	}
	if res.err != nil {
		return nil, res.err
	}
	h.tid = res.tid
	return h, nil
}
