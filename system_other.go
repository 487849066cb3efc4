//go:build !windows

package menuguard

// Global keyboard hooks exist only on Windows. Start reports
// ErrNotSupported elsewhere; the Simulator remains available everywhere.
func newSystem() system { return nil }
