package menuguard

import "time"

// DurationSince returns the elapsed time between two millisecond tick
// stamps, where later was observed after earlier. The tick counter wraps at
// 2^32 ms (about 49.7 days of uptime); unsigned subtraction keeps a small
// interval across the wrap point small instead of turning it into weeks.
func DurationSince(earlier, later uint32) time.Duration {
	return time.Duration(later-earlier) * time.Millisecond
}
