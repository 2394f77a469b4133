// Package miner implements a background mantra recitation loop. Since a
// computer can't actually recite a mantra, "reciting" means appending the
// mantra to a shared in-memory buffer, unit by unit, from a dedicated
// goroutine at a configurable pace.
package miner

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Miner drives the recitation loop. It owns the cursor into the sequence and
// is the only writer to the buffer. Control calls (Start, Pause, Resume,
// Stop) are safe to invoke from any goroutine.
type Miner struct {
	cfg Config
	seq *Sequence
	buf *Buffer

	// State management. The state machine is the single authority the
	// tick loop consults; control calls never signal the loop directly
	// except to wake it from a paused wait.
	machine *StateMachine
	mu      sync.Mutex
	cond    *sync.Cond

	// Cursor into the sequence; owned by the tick loop once started.
	cursor int
	count  uint64 // completed cycles

	stopCh   chan struct{}
	done     chan struct{}
	stopOnce sync.Once
	stopping bool
	started  bool

	// Callbacks
	onStateChange func(State)
	onCycle       func(uint64)
}

// New creates a miner and its buffer from the given configuration. It fails
// with a configuration error (ErrEmptyMantra or ErrInvalidConfig, wrapped)
// when cfg is invalid; no error can occur later during ticking.
func New(cfg Config) (*Miner, error) {
	seq, err := BuildSequence(cfg)
	if err != nil {
		return nil, err
	}

	m := &Miner{
		cfg:     cfg,
		seq:     seq,
		buf:     NewBuffer(),
		machine: NewStateMachine(),
		stopCh:  make(chan struct{}),
		done:    make(chan struct{}),
	}
	m.cond = sync.NewCond(&m.mu)
	return m, nil
}

// Buffer returns the shared recitation buffer. Readable at any time.
func (m *Miner) Buffer() *Buffer {
	return m.buf
}

// Config returns the configuration used to create this miner.
func (m *Miner) Config() Config {
	return m.cfg
}

// Sequence returns the unit sequence for one cycle.
func (m *Miner) Sequence() *Sequence {
	return m.seq
}

// State returns the current state.
func (m *Miner) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.machine.Current()
}

// Count returns the number of completed recitations of the entire sadhana.
func (m *Miner) Count() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.count
}

// Progress returns the cursor position within the current cycle and the
// cycle length.
func (m *Miner) Progress() (current, total int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cursor, m.seq.Len()
}

// Done returns a channel that is closed once the miner reaches Stopped,
// whether by Stop or by natural completion.
func (m *Miner) Done() <-chan struct{} {
	return m.done
}

// OnStateChange registers a callback invoked on every state change. Must be
// set before Start.
func (m *Miner) OnStateChange(fn func(State)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onStateChange = fn
}

// OnCycle registers a callback invoked each time a full cycle completes,
// with the new completion count. Must be set before Start.
func (m *Miner) OnCycle(fn func(uint64)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onCycle = fn
}

// Start spawns the background recitation goroutine. It fails with
// ErrAlreadyStarted unless the miner is Idle; a stopped miner cannot be
// restarted.
func (m *Miner) Start() error {
	m.mu.Lock()

	if !m.machine.Current().CanStart() {
		m.mu.Unlock()
		return ErrAlreadyStarted
	}

	m.machine.Transition(StateRunning)
	m.started = true
	notify := m.onStateChange
	m.mu.Unlock()

	if notify != nil {
		notify(StateRunning)
	}

	log.Debug("miner started", "units", m.seq.Len(), "interval", m.cfg.Interval)
	go m.run()

	return nil
}

// Pause suspends ticking until Resume. The transition and the loop's tick
// are serialized on the same lock, so once Pause returns no further buffer
// mutation or cursor movement happens. Fails with ErrNotRunning unless
// Running, or ErrStopped once the miner is terminal.
func (m *Miner) Pause() error {
	m.mu.Lock()

	if m.machine.Current() == StateStopped {
		m.mu.Unlock()
		return ErrStopped
	}
	if !m.machine.Current().CanPause() {
		m.mu.Unlock()
		return ErrNotRunning
	}

	m.machine.Transition(StatePaused)
	notify := m.onStateChange
	m.mu.Unlock()

	if notify != nil {
		notify(StatePaused)
	}

	log.Debug("miner paused")
	return nil
}

// Resume continues ticking from the same cursor position. Fails with
// ErrNotPaused unless Paused, or ErrStopped once the miner is terminal.
func (m *Miner) Resume() error {
	m.mu.Lock()

	if m.machine.Current() == StateStopped {
		m.mu.Unlock()
		return ErrStopped
	}
	if !m.machine.Current().CanResume() {
		m.mu.Unlock()
		return ErrNotPaused
	}

	m.machine.Transition(StateRunning)
	m.cond.Broadcast()
	notify := m.onStateChange
	m.mu.Unlock()

	if notify != nil {
		notify(StateRunning)
	}

	log.Debug("miner resumed")
	return nil
}

// Stop signals the loop to exit and waits for it to do so. The loop observes
// the signal within one tick interval at most; Stop never blocks the full
// sleep, only an in-flight append. Stop is idempotent: calling it twice, or
// after natural completion, returns nil and leaves the buffer untouched.
//
// Exactly one party closes done: the loop's finish when the miner was
// started, otherwise the Stop call that performed the Idle→Stopped
// transition. Whether the loop was started is decided in the same critical
// section that marks the miner as stopping, so a Stop racing a Start settles
// on one owner.
func (m *Miner) Stop() error {
	m.mu.Lock()
	m.stopping = true
	m.cond.Broadcast()
	m.stopOnce.Do(func() {
		close(m.stopCh)
	})

	if m.started {
		m.mu.Unlock()
		// The loop performs the transition to Stopped and closes done.
		<-m.done
		return nil
	}

	if m.machine.Current() == StateStopped {
		// An earlier Stop owns the shutdown; wait for it.
		m.mu.Unlock()
		<-m.done
		return nil
	}

	// Never started: stop the miner directly.
	m.machine.Transition(StateStopped)
	notify := m.onStateChange
	m.mu.Unlock()

	if notify != nil {
		notify(StateStopped)
	}
	close(m.done)

	log.Debug("miner stopped before start")
	return nil
}

// run is the recitation loop. It exits when stopped or when the session
// completes its configured repeats.
func (m *Miner) run() {
	ticker := time.NewTicker(m.cfg.Interval)
	defer ticker.Stop()
	defer m.finish()

	for {
		select {
		case <-m.stopCh:
			return

		case <-ticker.C:
			waited, ok := m.awaitRunning()
			if !ok {
				return
			}
			if waited {
				// A full interval passes before the next unit;
				// drop any tick buffered while paused.
				ticker.Reset(m.cfg.Interval)
				select {
				case <-ticker.C:
				default:
				}
				continue
			}

			if !m.tick() {
				// Natural completion, not an error.
				log.Debug("recitation complete", "cycles", m.Count())
				return
			}
		}
	}
}

// awaitRunning blocks while the miner is paused, without busy-polling. It
// reports whether it had to wait and whether the loop should keep going.
func (m *Miner) awaitRunning() (waited, ok bool) {
	m.mu.Lock()
	for m.machine.Current() == StatePaused && !m.stopping {
		waited = true
		m.cond.Wait()
	}
	ok = !m.stopping
	m.mu.Unlock()
	return waited, ok
}

// tick appends the next unit, wrapping the cursor at cycle boundaries. The
// state check, cursor advance, and append happen under one lock, so a pause
// or stop that wins the lock first suppresses the emission entirely. It
// returns false once the session has completed all configured repeats.
func (m *Miner) tick() bool {
	m.mu.Lock()

	if m.machine.Current() != StateRunning {
		m.mu.Unlock()
		return true
	}

	var cycles uint64
	var notifyCycle func(uint64)

	if m.cursor == m.seq.Len() {
		m.count++
		cycles = m.count
		notifyCycle = m.onCycle

		if !m.cfg.repeatForever() && m.count >= uint64(m.cfg.Repeats) {
			m.mu.Unlock()
			if notifyCycle != nil {
				notifyCycle(cycles)
			}
			return false
		}
		m.cursor = 0
	}

	unit := m.seq.At(m.cursor)
	m.cursor++
	m.buf.Append(string(unit))
	m.mu.Unlock()

	if notifyCycle != nil {
		notifyCycle(cycles)
	}
	return true
}

// finish moves the miner to Stopped and releases waiters. The done channel
// closes only after the state callback has run, so anyone unblocked by Stop
// or Done observes the full notification sequence.
func (m *Miner) finish() {
	m.mu.Lock()
	m.machine.Transition(StateStopped)
	notify := m.onStateChange
	m.mu.Unlock()

	if notify != nil {
		notify(StateStopped)
	}
	close(m.done)
}
