package menuguard

import "time"

// Context is the read-only view handed to a Policy when a watched modifier
// is released.
type Context struct {
	// Event is the release event under decision.
	Event KeyEvent

	// Press is the matching press event for the same trigger group, valid
	// only when Held is true. Press and release may be different keys of
	// the group, e.g. left Alt down followed by right Alt up.
	Press KeyEvent

	// Held reports whether a matching press was observed. It is false when
	// the hook was installed mid-hold or when another key interleaved and
	// reset the hold (a chord like Alt+Tab does not menu-trigger).
	Held bool
}

// HoldDuration returns how long the modifier was held, or zero when no
// matching press was observed.
func (c Context) HoldDuration() time.Duration {
	if !c.Held {
		return 0
	}
	return DurationSince(c.Press.Time, c.Event.Time)
}

// Policy decides whether a watched modifier release should be suppressed.
//
// Policies run synchronously on the hook thread for every watched release
// and must not block or perform slow work: Windows disables hooks whose
// callbacks do not return promptly. A policy that closes over caller state
// is invoked from the hook thread only, so single-threaded access is
// sufficient, but making it safe is the caller's job.
type Policy func(Context) bool

// SuppressAlways suppresses every watched modifier release. It is the
// default policy.
func SuppressAlways(Context) bool { return true }

// SuppressHeldLongerThan returns a policy that suppresses only releases of
// modifiers held longer than min. Quick taps keep their normal menu
// behavior. Releases with no observed press are not suppressed.
func SuppressHeldLongerThan(min time.Duration) Policy {
	return func(c Context) bool {
		return c.Held && c.HoldDuration() > min
	}
}
