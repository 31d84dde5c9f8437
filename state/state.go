package state

import (
	"errors"
	"sync"
)

// StateMachine drives the round phases.
type StateMachine interface {
	ChangeState(state State) error
	GetCurrentState() State
	AddTransition(from State, to State, condition func() bool) error
}

// State is one phase of the round. Clicks are dispatched to the current
// state; phases that do not accept input simply ignore them.
type State interface {
	OnEnter()
	OnExit()
	GetID() string
	HandleClick(tileID int) error
}

// ErrTransitionNotAllowed is returned when a state transition is not allowed.
var ErrTransitionNotAllowed = errors.New("state transition not allowed")

// BaseStateMachine allows only registered transitions. The phase graph of a
// round is fixed, so anything unregistered is a programming error upstream
// and is refused rather than applied.
type BaseStateMachine struct {
	currentState State
	transitions  map[string]map[string]func() bool // fromState -> toState -> condition
	mutex        sync.RWMutex
}

func NewBaseStateMachine(initialState State) *BaseStateMachine {
	machine := &BaseStateMachine{
		currentState: initialState,
		transitions:  make(map[string]map[string]func() bool),
	}
	initialState.OnEnter()
	return machine
}

func (sm *BaseStateMachine) ChangeState(newState State) error {
	sm.mutex.Lock()
	defer sm.mutex.Unlock()

	currentID := sm.currentState.GetID()
	newID := newState.GetID()

	conditions, exists := sm.transitions[currentID]
	if !exists {
		return ErrTransitionNotAllowed
	}
	condition, exists := conditions[newID]
	if !exists {
		return ErrTransitionNotAllowed
	}
	if condition != nil && !condition() {
		return ErrTransitionNotAllowed
	}

	sm.currentState.OnExit()
	sm.currentState = newState
	sm.currentState.OnEnter()

	return nil
}

func (sm *BaseStateMachine) GetCurrentState() State {
	sm.mutex.RLock()
	defer sm.mutex.RUnlock()
	return sm.currentState
}

func (sm *BaseStateMachine) AddTransition(from State, to State, condition func() bool) error {
	sm.mutex.Lock()
	defer sm.mutex.Unlock()

	fromID := from.GetID()
	toID := to.GetID()

	if _, exists := sm.transitions[fromID]; !exists {
		sm.transitions[fromID] = make(map[string]func() bool)
	}

	sm.transitions[fromID][toID] = condition
	return nil
}

// PhaseStateBase carries the phase id and the default no-op behavior.
type PhaseStateBase struct {
	ID string
}

func (s *PhaseStateBase) GetID() string {
	return s.ID
}

func (s *PhaseStateBase) OnEnter() {
	// default implementation
}

func (s *PhaseStateBase) OnExit() {
	// default implementation
}

// HandleClick ignores the click. Only the input phase overrides this, which
// is what makes clicks outside the input phase silent no-ops.
func (s *PhaseStateBase) HandleClick(tileID int) error {
	return nil
}
