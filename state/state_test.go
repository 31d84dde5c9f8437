package state

import (
	"testing"
)

// MockState is a test double for the State interface.
// It helps us track which methods have been called.
type MockState struct {
	ID             string
	OnEnterCalled  bool
	OnExitCalled   bool
	ClickedTileIDs []int
}

func (m *MockState) OnEnter() {
	m.OnEnterCalled = true
}

func (m *MockState) OnExit() {
	m.OnExitCalled = true
}

func (m *MockState) GetID() string {
	return m.ID
}

func (m *MockState) HandleClick(tileID int) error {
	m.ClickedTileIDs = append(m.ClickedTileIDs, tileID)
	return nil
}

// reset clears the call tracking flags.
func (m *MockState) reset() {
	m.OnEnterCalled = false
	m.OnExitCalled = false
}

func TestStateMachine_InitialState(t *testing.T) {
	initialState := &MockState{ID: "initial"}
	sm := NewBaseStateMachine(initialState)

	if !initialState.OnEnterCalled {
		t.Error("Expected OnEnter to be called on the initial state")
	}

	if sm.GetCurrentState() != initialState {
		t.Error("GetCurrentState should return the initial state")
	}
}

func TestStateMachine_RegisteredTransition(t *testing.T) {
	initialState := &MockState{ID: "initial"}
	nextState := &MockState{ID: "next"}

	sm := NewBaseStateMachine(initialState)
	sm.AddTransition(initialState, nextState, nil)
	initialState.reset() // Reset after initialization

	err := sm.ChangeState(nextState)
	if err != nil {
		t.Fatalf("ChangeState should not return an error, but got: %v", err)
	}

	if !initialState.OnExitCalled {
		t.Error("Expected OnExit to be called on the old state")
	}

	if !nextState.OnEnterCalled {
		t.Error("Expected OnEnter to be called on the new state")
	}

	if sm.GetCurrentState() != nextState {
		t.Error("GetCurrentState should return the new state")
	}
}

func TestStateMachine_UnregisteredTransitionRefused(t *testing.T) {
	stateA := &MockState{ID: "A"}
	stateB := &MockState{ID: "B"}

	sm := NewBaseStateMachine(stateA)
	stateA.reset()

	err := sm.ChangeState(stateB)
	if err != ErrTransitionNotAllowed {
		t.Errorf("Expected ErrTransitionNotAllowed, but got: %v", err)
	}
	if sm.GetCurrentState() != stateA {
		t.Error("Current state should be unchanged after a refused transition")
	}
	if stateA.OnExitCalled {
		t.Error("OnExit should not be called when the transition is refused")
	}
	if stateB.OnEnterCalled {
		t.Error("OnEnter should not be called when the transition is refused")
	}
}

func TestStateMachine_ConditionBlocksTransition(t *testing.T) {
	stateA := &MockState{ID: "A"}
	stateB := &MockState{ID: "B"}
	stateC := &MockState{ID: "C"}

	sm := NewBaseStateMachine(stateA)
	sm.AddTransition(stateA, stateB, func() bool { return true })
	sm.AddTransition(stateB, stateC, func() bool { return false })

	if err := sm.ChangeState(stateB); err != nil {
		t.Fatalf("Expected transition from A to B to be allowed, but got error: %v", err)
	}

	stateB.reset()
	err := sm.ChangeState(stateC)
	if err != ErrTransitionNotAllowed {
		t.Errorf("Expected ErrTransitionNotAllowed, but got: %v", err)
	}
	if sm.GetCurrentState().GetID() != "B" {
		t.Errorf("Expected current state to remain B after a blocked transition, but got %s", sm.GetCurrentState().GetID())
	}
}

// fakeGame records clicks forwarded by the input state.
type fakeGame struct {
	clicks []int
}

func (f *fakeGame) RecordClick(tileID int) error {
	f.clicks = append(f.clicks, tileID)
	return nil
}

func TestPhaseStates_ClickDispatch(t *testing.T) {
	game := &fakeGame{}

	input := NewInputState(game)
	if err := input.HandleClick(7); err != nil {
		t.Fatalf("HandleClick returned error: %v", err)
	}
	if len(game.clicks) != 1 || game.clicks[0] != 7 {
		t.Errorf("input state should forward clicks to the game, got %v", game.clicks)
	}

	// Every other phase swallows clicks.
	for _, s := range []State{NewIdleState(), NewSequenceState(), NewCheckingState(), NewOverState()} {
		if err := s.HandleClick(7); err != nil {
			t.Errorf("phase %s should ignore clicks, got error: %v", s.GetID(), err)
		}
	}
	if len(game.clicks) != 1 {
		t.Error("non-input phases must not reach the game")
	}
}

func TestPhaseStates_IDs(t *testing.T) {
	cases := map[string]State{
		PhaseIdle:     NewIdleState(),
		PhaseSequence: NewSequenceState(),
		PhaseInput:    NewInputState(&fakeGame{}),
		PhaseChecking: NewCheckingState(),
		PhaseOver:     NewOverState(),
	}
	for want, s := range cases {
		if s.GetID() != want {
			t.Errorf("expected phase id %s, got %s", want, s.GetID())
		}
	}
}
