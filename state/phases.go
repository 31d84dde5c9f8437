// state/phases.go
//
// The five phases of a round:
//
//	idle -> sequence -> input -> checking -> sequence (advance)
//	                                      -> over     (terminal)
//
// Only InputState forwards clicks to the engine; every other phase inherits
// the no-op HandleClick from PhaseStateBase.
package state

const (
	PhaseIdle     = "idle"
	PhaseSequence = "sequence"
	PhaseInput    = "input"
	PhaseChecking = "checking"
	PhaseOver     = "over"
)

// IdleState is the initial phase: no round is running.
type IdleState struct {
	PhaseStateBase
}

func NewIdleState() *IdleState {
	return &IdleState{PhaseStateBase{ID: PhaseIdle}}
}

// SequenceState is the reveal phase. The engine enters it after generating a
// fresh sequence; leaving it for input is an external trigger.
type SequenceState struct {
	PhaseStateBase
}

func NewSequenceState() *SequenceState {
	return &SequenceState{PhaseStateBase{ID: PhaseSequence}}
}

// InputState accepts tile clicks and routes them to the engine.
type InputState struct {
	PhaseStateBase
	game GameContext
}

func NewInputState(game GameContext) *InputState {
	return &InputState{
		PhaseStateBase: PhaseStateBase{ID: PhaseInput},
		game:           game,
	}
}

func (s *InputState) HandleClick(tileID int) error {
	return s.game.RecordClick(tileID)
}

// CheckingState is the transient evaluation phase between a full-length
// input and the round outcome.
type CheckingState struct {
	PhaseStateBase
}

func NewCheckingState() *CheckingState {
	return &CheckingState{PhaseStateBase{ID: PhaseChecking}}
}

// OverState is terminal until an explicit restart.
type OverState struct {
	PhaseStateBase
}

func NewOverState() *OverState {
	return &OverState{PhaseStateBase{ID: PhaseOver}}
}
