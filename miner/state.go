package miner

// State represents the current state of the miner's recitation loop.
type State int

const (
	// StateIdle indicates the miner has been created but not started.
	StateIdle State = iota
	// StateRunning indicates the miner is actively reciting.
	StateRunning
	// StatePaused indicates recitation is suspended until resumed.
	StatePaused
	// StateStopped indicates the miner has finished; it cannot be restarted.
	StateStopped
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// CanStart returns true if the miner can be started from this state.
func (s State) CanStart() bool {
	return s == StateIdle
}

// CanPause returns true if recitation can be paused from this state.
func (s State) CanPause() bool {
	return s == StateRunning
}

// CanResume returns true if recitation can be resumed from this state.
func (s State) CanResume() bool {
	return s == StatePaused
}

// Active returns true while the background loop is alive.
func (s State) Active() bool {
	return s == StateRunning || s == StatePaused
}

// StateMachine manages state transitions for the miner.
type StateMachine struct {
	current     State
	transitions map[State][]State
	onEnter     map[State]func()
}

// NewStateMachine creates a new state machine with valid transitions.
// Stopped is terminal and reachable from every other state.
func NewStateMachine() *StateMachine {
	return &StateMachine{
		current: StateIdle,
		transitions: map[State][]State{
			StateIdle:    {StateRunning, StateStopped},
			StateRunning: {StatePaused, StateStopped},
			StatePaused:  {StateRunning, StateStopped},
			StateStopped: {},
		},
		onEnter: make(map[State]func()),
	}
}

// Transition attempts to transition to the specified state.
func (sm *StateMachine) Transition(to State) bool {
	valid := false
	for _, state := range sm.transitions[sm.current] {
		if state == to {
			valid = true
			break
		}
	}
	if !valid {
		return false
	}

	sm.current = to

	if enterFn, ok := sm.onEnter[to]; ok && enterFn != nil {
		enterFn()
	}
	return true
}

// Current returns the current state.
func (sm *StateMachine) Current() State {
	return sm.current
}

// OnEnter registers a callback for entering a state.
func (sm *StateMachine) OnEnter(state State, fn func()) {
	sm.onEnter[state] = fn
}
