package menuguard

import "log/slog"

// holdState remembers the press that opened the current hold of a trigger
// group.
type holdState struct {
	press KeyEvent
	held  bool
}

func (s *holdState) reset() {
	*s = holdState{}
}

// handler turns decoded key events into suppression decisions and synthetic
// injections. It is bound to a single hook and invoked only from that
// hook's pump thread, so it carries no locking.
type handler struct {
	policy Policy
	dummy  VirtualKey
	inject func(VirtualKey) error
	log    *slog.Logger

	alt holdState
	win holdState
}

func newHandler(cfg Config, inject func(VirtualKey) error, log *slog.Logger) *handler {
	h := &handler{
		policy: cfg.Policy,
		dummy:  cfg.DummyKey,
		inject: inject,
		log:    log,
	}
	if h.policy == nil {
		h.policy = SuppressAlways
	}
	if h.dummy == 0 {
		h.dummy = VKNone
	}
	return h
}

// handle processes one event. The original event always continues down the
// hook chain regardless of what happens here; suppression works by
// injecting a dummy key, not by discarding input.
func (h *handler) handle(ev KeyEvent) {
	if ev.Injected {
		return
	}

	group := ev.Identity.group()
	if group == groupNone {
		// Any other key interleaving a hold makes it a chord, and chords
		// do not trigger menus.
		h.alt.reset()
		h.win.reset()
		return
	}

	state := &h.alt
	if group == groupWin {
		state = &h.win
	}

	switch ev.Transition {
	case Down:
		if !state.held {
			state.press = ev
			state.held = true
		}
	case Up:
		ctx := Context{Event: ev, Press: state.press, Held: state.held}
		state.reset()
		if !h.policy(ctx) {
			h.log.Debug("menu trigger released, not suppressed", "key", ev.Identity)
			return
		}
		if err := h.inject(h.dummy); err != nil {
			h.log.Error("failed to suppress menu", "key", ev.Identity, "error", err)
			return
		}
		h.log.Debug("suppressed menu activation", "key", ev.Identity, "hold", ctx.HoldDuration())
	}
}
