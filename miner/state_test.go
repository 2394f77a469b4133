package miner

import "testing"

// TestStateString tests the String() method for State.
func TestStateString(t *testing.T) {
	tests := []struct {
		state    State
		expected string
	}{
		{StateIdle, "idle"},
		{StateRunning, "running"},
		{StatePaused, "paused"},
		{StateStopped, "stopped"},
		{State(999), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if result := tt.state.String(); result != tt.expected {
				t.Errorf("State.String() = %v, want %v", result, tt.expected)
			}
		})
	}
}

// TestStateCapabilities tests the capability helpers.
func TestStateCapabilities(t *testing.T) {
	tests := []struct {
		state     State
		canStart  bool
		canPause  bool
		canResume bool
		active    bool
	}{
		{StateIdle, true, false, false, false},
		{StateRunning, false, true, false, true},
		{StatePaused, false, false, true, true},
		{StateStopped, false, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			if got := tt.state.CanStart(); got != tt.canStart {
				t.Errorf("CanStart() = %v, want %v", got, tt.canStart)
			}
			if got := tt.state.CanPause(); got != tt.canPause {
				t.Errorf("CanPause() = %v, want %v", got, tt.canPause)
			}
			if got := tt.state.CanResume(); got != tt.canResume {
				t.Errorf("CanResume() = %v, want %v", got, tt.canResume)
			}
			if got := tt.state.Active(); got != tt.active {
				t.Errorf("Active() = %v, want %v", got, tt.active)
			}
		})
	}
}

// TestStateMachineTransitions tests valid and invalid transitions.
func TestStateMachineTransitions(t *testing.T) {
	tests := []struct {
		name string
		path []State
		ok   bool
	}{
		{"start", []State{StateRunning}, true},
		{"start pause resume", []State{StateRunning, StatePaused, StateRunning}, true},
		{"stop from idle", []State{StateStopped}, true},
		{"stop from running", []State{StateRunning, StateStopped}, true},
		{"stop from paused", []State{StateRunning, StatePaused, StateStopped}, true},
		{"pause from idle", []State{StatePaused}, false},
		{"restart after stop", []State{StateStopped, StateRunning}, false},
		{"idle from running", []State{StateRunning, StateIdle}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sm := NewStateMachine()
			ok := true
			for _, s := range tt.path {
				ok = sm.Transition(s)
			}
			if ok != tt.ok {
				t.Errorf("final Transition() = %v, want %v", ok, tt.ok)
			}
		})
	}
}

// TestStateMachineOnEnter tests that enter callbacks fire on transition.
func TestStateMachineOnEnter(t *testing.T) {
	sm := NewStateMachine()

	entered := []State{}
	sm.OnEnter(StateRunning, func() { entered = append(entered, StateRunning) })
	sm.OnEnter(StateStopped, func() { entered = append(entered, StateStopped) })

	sm.Transition(StateRunning)
	sm.Transition(StateStopped)

	// Terminal state: further transitions must not fire callbacks.
	sm.Transition(StateRunning)

	if len(entered) != 2 || entered[0] != StateRunning || entered[1] != StateStopped {
		t.Errorf("callbacks fired for %v, want [running stopped]", entered)
	}
	if sm.Current() != StateStopped {
		t.Errorf("Current() = %v, want stopped", sm.Current())
	}
}
