package menuguard

// VirtualKey is a Windows virtual-key code.
type VirtualKey uint16

// Virtual-key codes for the watched modifiers and the default injection
// target.
const (
	VKAlt      VirtualKey = 0x12 // VK_MENU
	VKLeftWin  VirtualKey = 0x5B // VK_LWIN
	VKRightWin VirtualKey = 0x5C // VK_RWIN
	VKLeftAlt  VirtualKey = 0xA4 // VK_LMENU
	VKRightAlt VirtualKey = 0xA5 // VK_RMENU

	// VKNone is a reserved code that no application reacts to, which makes
	// it the default dummy key for suppression.
	VKNone VirtualKey = 0xFF
)

// Keyboard message identifiers carried by low-level hook callbacks.
const (
	wmKeyDown    = 0x0100
	wmKeyUp      = 0x0101
	wmSysKeyDown = 0x0104
	wmSysKeyUp   = 0x0105
)

// llkhfInjected is the KBDLLHOOKSTRUCT flag Windows sets on events that
// were generated by SendInput rather than by hardware.
const llkhfInjected = 0x10

// KeyIdentity classifies a virtual key into the small set of modifiers this
// package watches. Everything else is KeyOther.
type KeyIdentity uint8

const (
	KeyOther KeyIdentity = iota
	KeyAlt
	KeyLeftAlt
	KeyRightAlt
	KeyLeftWin
	KeyRightWin
)

// IdentityOf returns the KeyIdentity for a virtual-key code.
func IdentityOf(vk VirtualKey) KeyIdentity {
	switch vk {
	case VKAlt:
		return KeyAlt
	case VKLeftAlt:
		return KeyLeftAlt
	case VKRightAlt:
		return KeyRightAlt
	case VKLeftWin:
		return KeyLeftWin
	case VKRightWin:
		return KeyRightWin
	}
	return KeyOther
}

// Watched reports whether the identity is one of the modifiers whose lone
// release triggers a menu.
func (k KeyIdentity) Watched() bool {
	return k != KeyOther
}

// triggerGroup is the menu a watched identity activates. Left and right
// variants share hold state within their group, as they share a menu.
type triggerGroup uint8

const (
	groupNone triggerGroup = iota
	groupAlt
	groupWin
)

func (k KeyIdentity) group() triggerGroup {
	switch k {
	case KeyAlt, KeyLeftAlt, KeyRightAlt:
		return groupAlt
	case KeyLeftWin, KeyRightWin:
		return groupWin
	}
	return groupNone
}

func (k KeyIdentity) String() string {
	switch k {
	case KeyAlt:
		return "alt"
	case KeyLeftAlt:
		return "left-alt"
	case KeyRightAlt:
		return "right-alt"
	case KeyLeftWin:
		return "left-win"
	case KeyRightWin:
		return "right-win"
	}
	return "other"
}

// Transition is the direction of a key event.
type Transition uint8

const (
	Down Transition = iota
	Up
)

func (t Transition) String() string {
	if t == Down {
		return "down"
	}
	return "up"
}

// transitionOf maps a keyboard message identifier to a Transition. It
// reports false for messages that are not keystroke messages.
func transitionOf(message uint32) (Transition, bool) {
	switch message {
	case wmKeyDown, wmSysKeyDown:
		return Down, true
	case wmKeyUp, wmSysKeyUp:
		return Up, true
	}
	return 0, false
}

// KeyEvent is one decoded keyboard event as seen by a low-level hook.
// It is created per callback invocation and never mutated.
type KeyEvent struct {
	// VK is the raw virtual-key code.
	VK VirtualKey

	// Identity is the classification of VK.
	Identity KeyIdentity

	// Transition is whether the key went down or came up.
	Transition Transition

	// Time is the event's millisecond tick stamp as reported by the OS.
	// Tick counters wrap; compare stamps with DurationSince.
	Time uint32

	// Injected is set on events generated by software rather than
	// hardware. The handler never reacts to injected events, which is what
	// keeps its own synthetic output from re-triggering it.
	Injected bool
}

// NewKeyEvent builds a KeyEvent, deriving the identity from vk.
func NewKeyEvent(vk VirtualKey, t Transition, tick uint32, injected bool) KeyEvent {
	return KeyEvent{
		VK:         vk,
		Identity:   IdentityOf(vk),
		Transition: t,
		Time:       tick,
		Injected:   injected,
	}
}
