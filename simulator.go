package menuguard

import (
	"sync"
	"time"
)

// Simulator is an in-process stand-in for the OS hook surface. Hooks
// started through it receive the key events fed to Emit and friends, and
// synthetic taps injected by suppression loop back into every live hook
// flagged as injected, the way SendInput-generated events re-enter real
// low-level hooks.
//
// It exists for tests and for developing policies on platforms without
// global keyboard hooks. Events are delivered on the calling goroutine, in
// call order, which stands in for the OS's in-order delivery on the pump
// thread.
type Simulator struct {
	mu         sync.Mutex
	nextTID    uint32
	sessions   map[uint32]struct{}
	taps       []VirtualKey
	installErr error
	injectErr  error
	clock      uint32
}

// NewSimulator returns an empty simulator with no hooks attached.
func NewSimulator() *Simulator {
	return &Simulator{sessions: make(map[uint32]struct{})}
}

// Start behaves like the package-level Start but attaches the hook to the
// simulator instead of the OS. It works on every platform.
func (s *Simulator) Start(cfg Config) (*Handle, error) {
	return startWith(cfg, s.newSession())
}

// SetInstallError makes subsequent Start calls fail hook installation with
// err. Pass nil to restore normal behavior.
func (s *Simulator) SetInstallError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.installErr = err
}

// SetInjectError makes suppression injections fail with err. Pass nil to
// restore normal behavior.
func (s *Simulator) SetInjectError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.injectErr = err
}

// Injected returns the dummy keys injected so far, one entry per
// press/release pair.
func (s *Simulator) Injected() []VirtualKey {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]VirtualKey, len(s.taps))
	copy(out, s.taps)
	return out
}

// Hooks returns the number of live hooks attached to the simulator.
func (s *Simulator) Hooks() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Emit delivers one hardware key event to every live hook, advancing the
// simulated tick clock by 10ms first.
func (s *Simulator) Emit(vk VirtualKey, t Transition) {
	s.mu.Lock()
	s.clock += 10
	tick := s.clock
	s.mu.Unlock()
	s.EmitAt(vk, t, tick)
}

// EmitAt delivers one hardware key event with an explicit tick stamp and
// moves the simulated clock to it.
func (s *Simulator) EmitAt(vk VirtualKey, t Transition, tick uint32) {
	s.mu.Lock()
	s.clock = tick
	s.mu.Unlock()
	s.deliver(NewKeyEvent(vk, t, tick, false))
}

// Tap emits a quick press and release of vk.
func (s *Simulator) Tap(vk VirtualKey) {
	s.Emit(vk, Down)
	s.Emit(vk, Up)
}

// Hold emits a press of vk, advances the clock by d, then emits the
// release.
func (s *Simulator) Hold(vk VirtualKey, d time.Duration) {
	s.Emit(vk, Down)
	s.mu.Lock()
	s.clock += uint32(d / time.Millisecond)
	tick := s.clock
	s.mu.Unlock()
	s.deliver(NewKeyEvent(vk, Up, tick, false))
}

func (s *Simulator) deliver(ev KeyEvent) {
	s.mu.Lock()
	tids := make([]uint32, 0, len(s.sessions))
	for tid := range s.sessions {
		tids = append(tids, tid)
	}
	s.mu.Unlock()

	for _, tid := range tids {
		hooks.dispatch(tid, ev)
	}
}

// injectTap records the tap and loops it back to every live hook as a pair
// of injected events.
func (s *Simulator) injectTap(vk VirtualKey) error {
	s.mu.Lock()
	if err := s.injectErr; err != nil {
		s.mu.Unlock()
		return err
	}
	s.taps = append(s.taps, vk)
	tick := s.clock
	s.mu.Unlock()

	s.deliver(NewKeyEvent(vk, Down, tick, true))
	s.deliver(NewKeyEvent(vk, Up, tick, true))
	return nil
}

func (s *Simulator) newSession() *simSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextTID++
	return &simSession{
		sim:  s,
		tid:  s.nextTID,
		quit: make(chan struct{}),
	}
}

// simSession is the per-hook view of a Simulator, implementing the system
// surface one Start call consumes.
type simSession struct {
	sim  *Simulator
	tid  uint32
	quit chan struct{}
	stop sync.Once
}

func (c *simSession) threadID() uint32 { return c.tid }

func (c *simSession) prepareQueue() {}

func (c *simSession) installHook() (uintptr, error) {
	c.sim.mu.Lock()
	defer c.sim.mu.Unlock()
	if err := c.sim.installErr; err != nil {
		return 0, err
	}
	c.sim.sessions[c.tid] = struct{}{}
	return uintptr(c.tid), nil
}

func (c *simSession) removeHook(uintptr) error {
	c.sim.mu.Lock()
	defer c.sim.mu.Unlock()
	delete(c.sim.sessions, c.tid)
	return nil
}

func (c *simSession) run() {
	<-c.quit
}

func (c *simSession) postQuit(uint32) error {
	c.stop.Do(func() { close(c.quit) })
	return nil
}

func (c *simSession) injectTap(vk VirtualKey) error {
	return c.sim.injectTap(vk)
}
