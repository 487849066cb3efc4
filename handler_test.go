package menuguard

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// injectSpy records injected dummy keys and optionally fails.
type injectSpy struct {
	taps []VirtualKey
	err  error
}

func (s *injectSpy) inject(vk VirtualKey) error {
	if s.err != nil {
		return s.err
	}
	s.taps = append(s.taps, vk)
	return nil
}

func newTestHandler(cfg Config) (*handler, *injectSpy) {
	spy := &injectSpy{}
	return newHandler(cfg, spy.inject, discardLogger()), spy
}

func TestHandlerSuppressesEveryWatchedRelease(t *testing.T) {
	for _, vk := range []VirtualKey{VKAlt, VKLeftAlt, VKRightAlt, VKLeftWin, VKRightWin} {
		h, spy := newTestHandler(Config{})
		h.handle(NewKeyEvent(vk, Up, 100, false))
		require.Len(t, spy.taps, 1, "vk %#x", vk)
		assert.Equal(t, VKNone, spy.taps[0])
	}
}

func TestHandlerIgnoresUnwatchedKeys(t *testing.T) {
	evaluated := false
	h, spy := newTestHandler(Config{Policy: func(Context) bool {
		evaluated = true
		return true
	}})

	h.handle(NewKeyEvent(0x41, Down, 100, false))
	h.handle(NewKeyEvent(0x41, Up, 150, false))

	assert.False(t, evaluated, "policy must not run for unwatched keys")
	assert.Empty(t, spy.taps)
}

func TestHandlerIgnoresInjectedEvents(t *testing.T) {
	evaluated := false
	h, spy := newTestHandler(Config{Policy: func(Context) bool {
		evaluated = true
		return true
	}})

	h.handle(NewKeyEvent(VKLeftAlt, Down, 100, true))
	h.handle(NewKeyEvent(VKLeftAlt, Up, 150, true))

	assert.False(t, evaluated, "policy must not run for injected events")
	assert.Empty(t, spy.taps)
}

func TestHandlerCustomDummyKey(t *testing.T) {
	h, spy := newTestHandler(Config{DummyKey: 0x87}) // VK_F24
	h.handle(NewKeyEvent(VKLeftWin, Up, 100, false))
	require.Len(t, spy.taps, 1)
	assert.Equal(t, VirtualKey(0x87), spy.taps[0])
}

func TestHandlerPolicyPerTriggerGroup(t *testing.T) {
	h, spy := newTestHandler(Config{Policy: func(c Context) bool {
		return c.Event.Identity.group() == groupAlt
	}})

	h.handle(NewKeyEvent(VKLeftAlt, Up, 100, false))
	h.handle(NewKeyEvent(VKLeftWin, Up, 200, false))
	h.handle(NewKeyEvent(VKRightWin, Up, 300, false))

	assert.Len(t, spy.taps, 1, "only the Alt release is suppressed")
}

func TestHandlerHoldContext(t *testing.T) {
	var got Context
	h, _ := newTestHandler(Config{Policy: func(c Context) bool {
		got = c
		return false
	}})

	h.handle(NewKeyEvent(VKLeftAlt, Down, 1000, false))
	h.handle(NewKeyEvent(VKLeftAlt, Up, 1400, false))

	require.True(t, got.Held)
	assert.Equal(t, 400*time.Millisecond, got.HoldDuration())
	assert.Equal(t, Down, got.Press.Transition)
	assert.Equal(t, Up, got.Event.Transition)
}

func TestHandlerHoldSurvivesAutoRepeat(t *testing.T) {
	// Holding a key streams repeated Down events; the hold keeps its
	// original press time.
	var got Context
	h, _ := newTestHandler(Config{Policy: func(c Context) bool {
		got = c
		return false
	}})

	h.handle(NewKeyEvent(VKLeftWin, Down, 1000, false))
	h.handle(NewKeyEvent(VKLeftWin, Down, 1200, false))
	h.handle(NewKeyEvent(VKLeftWin, Down, 1400, false))
	h.handle(NewKeyEvent(VKLeftWin, Up, 1600, false))

	require.True(t, got.Held)
	assert.Equal(t, 600*time.Millisecond, got.HoldDuration())
}

func TestHandlerCrossVariantHold(t *testing.T) {
	// Left Alt down, right Alt up is still one Alt hold.
	var got Context
	h, _ := newTestHandler(Config{Policy: func(c Context) bool {
		got = c
		return false
	}})

	h.handle(NewKeyEvent(VKLeftAlt, Down, 1000, false))
	h.handle(NewKeyEvent(VKRightAlt, Up, 1500, false))

	require.True(t, got.Held)
	assert.Equal(t, VKLeftAlt, got.Press.VK)
	assert.Equal(t, VKRightAlt, got.Event.VK)
}

func TestHandlerChordResetsHold(t *testing.T) {
	var got Context
	h, _ := newTestHandler(Config{Policy: func(c Context) bool {
		got = c
		return true
	}})

	h.handle(NewKeyEvent(VKLeftAlt, Down, 1000, false))
	h.handle(NewKeyEvent(0x09, Down, 1100, false)) // Tab
	h.handle(NewKeyEvent(0x09, Up, 1200, false))
	h.handle(NewKeyEvent(VKLeftAlt, Up, 1300, false))

	assert.False(t, got.Held, "interleaved key breaks the hold")
	assert.Equal(t, time.Duration(0), got.HoldDuration())
}

func TestHandlerInjectionFailureIsNotFatal(t *testing.T) {
	h, spy := newTestHandler(Config{})
	spy.err = errors.New("input pipeline rejected the event")

	h.handle(NewKeyEvent(VKLeftAlt, Up, 100, false))
	assert.Empty(t, spy.taps)

	// The handler keeps working once injection recovers.
	spy.err = nil
	h.handle(NewKeyEvent(VKLeftAlt, Up, 200, false))
	assert.Len(t, spy.taps, 1)
}
