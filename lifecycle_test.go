package menuguard

import (
	"errors"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{Logger: discardLogger()}
}

func TestStartNotSupportedOffWindows(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("real hooks exist on windows")
	}
	_, err := Start(Config{})
	assert.ErrorIs(t, err, ErrNotSupported)
}

func TestStartAndSuppress(t *testing.T) {
	sim := NewSimulator()
	h, err := sim.Start(testConfig())
	require.NoError(t, err)
	defer h.Close()

	sim.Emit(VKLeftWin, Down)
	sim.Emit(VKLeftWin, Up)

	taps := sim.Injected()
	require.Len(t, taps, 1)
	assert.Equal(t, VKNone, taps[0])
}

func TestInjectedLoopbackDoesNotRetrigger(t *testing.T) {
	sim := NewSimulator()
	h, err := sim.Start(testConfig())
	require.NoError(t, err)
	defer h.Close()

	// Each suppression loops an injected press/release pair back through
	// the hook. If the handler reacted to its own output the tap count
	// would run away.
	sim.Tap(VKLeftAlt)
	assert.Len(t, sim.Injected(), 1)

	sim.Tap(VKRightWin)
	assert.Len(t, sim.Injected(), 2)
}

func TestIndependentHandles(t *testing.T) {
	sim := NewSimulator()

	h1, err := sim.Start(testConfig())
	require.NoError(t, err)
	h2, err := sim.Start(testConfig())
	require.NoError(t, err)
	assert.Equal(t, 2, sim.Hooks())

	// Both hooks see the release, so both suppress.
	sim.Emit(VKLeftAlt, Up)
	assert.Len(t, sim.Injected(), 2)

	// Stopping the first must not disturb the second.
	h1.Stop()
	h1.Wait()
	assert.Equal(t, 1, sim.Hooks())

	sim.Emit(VKLeftAlt, Up)
	assert.Len(t, sim.Injected(), 3)

	require.NoError(t, h2.Close())
	assert.Equal(t, 0, sim.Hooks())
}

func TestConcurrentStarts(t *testing.T) {
	sim := NewSimulator()
	const n = 8

	var wg sync.WaitGroup
	handles := make([]*Handle, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			handles[i], errs[i] = sim.Start(testConfig())
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		require.NotNil(t, handles[i])
	}
	assert.Equal(t, n, sim.Hooks())

	for _, h := range handles {
		h.Stop()
		h.Wait()
	}
	assert.Equal(t, 0, sim.Hooks())
}

func TestStopIsIdempotent(t *testing.T) {
	sim := NewSimulator()
	h, err := sim.Start(testConfig())
	require.NoError(t, err)

	h.Stop()
	h.Stop()
	h.Wait()
	require.NoError(t, h.Close())

	select {
	case <-h.Done():
	default:
		t.Fatal("Done must be closed after the pump thread exits")
	}
}

func TestStartInstallFailure(t *testing.T) {
	sim := NewSimulator()
	sim.SetInstallError(errors.New("no hook slots left"))

	before := hooks.size()
	_, err := sim.Start(testConfig())
	require.ErrorIs(t, err, ErrHookInstall)
	assert.Contains(t, err.Error(), "no hook slots left")

	// The failed attempt must not leak registry entries or hooks.
	assert.Equal(t, before, hooks.size())
	assert.Equal(t, 0, sim.Hooks())

	// A later attempt succeeds independently.
	sim.SetInstallError(nil)
	h, err := sim.Start(testConfig())
	require.NoError(t, err)
	require.NoError(t, h.Close())
}

func TestCustomPolicySuppressesAltNotWin(t *testing.T) {
	sim := NewSimulator()
	h, err := sim.Start(Config{
		Logger: discardLogger(),
		Policy: func(c Context) bool {
			switch c.Event.Identity {
			case KeyAlt, KeyLeftAlt, KeyRightAlt:
				return true
			}
			return false
		},
	})
	require.NoError(t, err)
	defer h.Close()

	sim.Emit(VKLeftAlt, Up)
	assert.Len(t, sim.Injected(), 1, "Alt release suppressed")

	sim.Emit(VKLeftWin, Up)
	sim.Emit(VKRightWin, Up)
	assert.Len(t, sim.Injected(), 1, "Win releases untouched")
}

func TestThresholdPolicyEndToEnd(t *testing.T) {
	sim := NewSimulator()
	h, err := sim.Start(Config{
		Logger: discardLogger(),
		Policy: SuppressHeldLongerThan(300 * time.Millisecond),
	})
	require.NoError(t, err)
	defer h.Close()

	sim.Hold(VKLeftAlt, 500*time.Millisecond)
	assert.Len(t, sim.Injected(), 1, "long hold suppressed")

	sim.Hold(VKLeftAlt, 100*time.Millisecond)
	assert.Len(t, sim.Injected(), 1, "quick tap passes through")
}

func TestInjectionFailureKeepsHookAlive(t *testing.T) {
	sim := NewSimulator()
	h, err := sim.Start(testConfig())
	require.NoError(t, err)
	defer h.Close()

	sim.SetInjectError(errors.New("send rejected"))
	sim.Emit(VKLeftAlt, Up)
	assert.Empty(t, sim.Injected())

	sim.SetInjectError(nil)
	sim.Emit(VKLeftAlt, Up)
	assert.Len(t, sim.Injected(), 1)
}

func TestStoppedHandleStopsSuppressing(t *testing.T) {
	sim := NewSimulator()
	h, err := sim.Start(testConfig())
	require.NoError(t, err)

	sim.Emit(VKLeftAlt, Up)
	require.Len(t, sim.Injected(), 1)

	require.NoError(t, h.Close())

	sim.Emit(VKLeftAlt, Up)
	assert.Len(t, sim.Injected(), 1, "no suppression after teardown")
}
