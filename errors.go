package menuguard

import "errors"

// Errors returned by Start. Injection and teardown problems are reported
// through the configured Logger instead; the hook callback cannot afford to
// surface them synchronously.
var (
	// ErrHookInstall indicates the OS refused to register the low-level
	// keyboard hook. Start wraps the underlying OS error. Retrying is the
	// caller's decision; nothing is retried automatically.
	ErrHookInstall = errors.New("keyboard hook installation failed")

	// ErrHandshakeLost indicates the hook thread ended before reporting
	// whether installation succeeded.
	ErrHandshakeLost = errors.New("hook thread exited before reporting readiness")

	// ErrNotSupported is returned by Start on platforms without global
	// keyboard hooks.
	ErrNotSupported = errors.New("global keyboard hooks are only available on windows")
)
