// engine/engine.go
//
// Core rules for the tile memory game: a sequence of tiles is revealed, the
// player echoes it back by clicking, score and level grow with each cleared
// round, and the board itself grows once sequences no longer fit comfortably.
//
// The engine is a pure, synchronous rule core. It never talks to the network,
// never schedules anything, and never transitions from the reveal phase to
// the input phase on its own; that trigger belongs to whoever choreographs
// the reveal (the server, via BeginInput). Invalid calls are silent no-ops
// rather than errors, so a permissive UI cannot wedge the game.
package engine

import (
	"math/rand"

	"github.com/wfunc/memorygrid/grid"
	"github.com/wfunc/memorygrid/state"
)

// Phase is the current stage of the round state machine.
type Phase string

const (
	PhaseIdle     Phase = state.PhaseIdle
	PhaseSequence Phase = state.PhaseSequence
	PhaseInput    Phase = state.PhaseInput
	PhaseChecking Phase = state.PhaseChecking
	PhaseOver     Phase = state.PhaseOver
)

const (
	// MinGridSize and MinSequenceLength floor the configurable starting
	// values. A 3x3 board with 3 lit tiles is the smallest playable game.
	MinGridSize       = 3
	MinSequenceLength = 3
)

// Config holds the starting board parameters. Zero or undersized values fall
// back to the minimums.
type Config struct {
	GridSize       int
	SequenceLength int
}

func (c Config) normalized() Config {
	if c.GridSize < MinGridSize {
		c.GridSize = MinGridSize
	}
	if c.SequenceLength < MinSequenceLength {
		c.SequenceLength = MinSequenceLength
	}
	return c
}

// Engine is the round engine plus session state for one player's game.
// It is not safe for concurrent use; the owning game instance serializes
// access so the engine processes one event at a time.
type Engine struct {
	cfg Config

	grid    *grid.Grid
	machine state.StateMachine
	phases  map[Phase]state.State

	level           int
	score           int
	gridSize        int
	numTilesToLight int
	sequence        []int
	playerInput     []int
	comboEligible   bool
}

// New creates an engine in the idle phase with the configured board. No
// round is running until StartGame.
func New(cfg Config) *Engine {
	cfg = cfg.normalized()

	e := &Engine{
		cfg:             cfg,
		grid:            grid.New(cfg.GridSize),
		level:           1,
		gridSize:        cfg.GridSize,
		numTilesToLight: cfg.SequenceLength,
	}

	idle := state.NewIdleState()
	sequence := state.NewSequenceState()
	input := state.NewInputState(e)
	checking := state.NewCheckingState()
	over := state.NewOverState()

	e.phases = map[Phase]state.State{
		PhaseIdle:     idle,
		PhaseSequence: sequence,
		PhaseInput:    input,
		PhaseChecking: checking,
		PhaseOver:     over,
	}

	e.machine = state.NewBaseStateMachine(idle)
	e.machine.AddTransition(idle, sequence, nil)
	e.machine.AddTransition(sequence, input, nil)
	e.machine.AddTransition(input, checking, nil)
	e.machine.AddTransition(checking, sequence, nil)
	e.machine.AddTransition(checking, over, nil)
	// Any phase may be reset back to idle.
	for _, s := range []state.State{sequence, input, checking, over} {
		e.machine.AddTransition(s, idle, nil)
	}

	return e
}

// --- commands ---

// StartGame resets the session to its starting values, rebuilds the grid and
// begins the first round. Works from any phase, including over.
func (e *Engine) StartGame() {
	e.resetSession()
	e.startRound()
}

// ResetGame resets the session and returns to idle without starting a round.
func (e *Engine) ResetGame() {
	e.resetSession()
}

// BeginInput flips the reveal phase to the input phase. This is the external
// trigger fired once the reveal choreography has finished; in any other
// phase it is a no-op, so duplicate triggers are harmless.
func (e *Engine) BeginInput() {
	if e.Phase() != PhaseSequence {
		return
	}
	e.setPhase(PhaseInput)
}

// HandleTileClick processes one tile click. Outside the input phase the
// current state swallows the click, which makes clicks during idle, reveal,
// checking and over silent no-ops.
func (e *Engine) HandleTileClick(tileID int) {
	_ = e.machine.GetCurrentState().HandleClick(tileID)
}

// RecordClick is the input-phase click handler. It is exported only so the
// input state can reach it through state.GameContext; external callers go
// through HandleTileClick.
func (e *Engine) RecordClick(tileID int) error {
	if !e.grid.Contains(tileID) {
		return nil
	}
	if containsID(e.playerInput, tileID) {
		// Repeated clicks never double-credit.
		return nil
	}

	e.playerInput = append(e.playerInput, tileID)
	e.grid.MarkSelected(tileID)

	position := len(e.playerInput) - 1
	inOrder := position < len(e.sequence) && e.sequence[position] == tileID
	inSequence := containsID(e.sequence, tileID)

	if e.comboEligible && inOrder {
		e.score += 2
	} else {
		// Any miss of the positional match ends the combo for the round.
		// Membership in the sequence still earns base credit, even out of
		// order.
		e.comboEligible = false
		if inSequence {
			e.score++
		}
	}

	if len(e.playerInput) == len(e.sequence) {
		e.checkRound()
	}
	return nil
}

// --- observation ---

func (e *Engine) Phase() Phase {
	return Phase(e.machine.GetCurrentState().GetID())
}

func (e *Engine) Level() int {
	return e.level
}

func (e *Engine) Score() int {
	return e.score
}

func (e *Engine) GridSize() int {
	return e.gridSize
}

func (e *Engine) NumTilesToLight() int {
	return e.numTilesToLight
}

// Tiles returns a snapshot of the board.
func (e *Engine) Tiles() []grid.Tile {
	return e.grid.Tiles()
}

// Sequence returns a copy of the current secret sequence, for the reveal
// choreography. Mutating the copy has no effect on the round.
func (e *Engine) Sequence() []int {
	out := make([]int, len(e.sequence))
	copy(out, e.sequence)
	return out
}

// PlayerInput returns a copy of the tile ids clicked so far this round.
func (e *Engine) PlayerInput() []int {
	out := make([]int, len(e.playerInput))
	copy(out, e.playerInput)
	return out
}

// SetLit forwards to the grid so the reveal layer can light tiles through
// the same surface it observes them on.
func (e *Engine) SetLit(tileID int, lit bool) {
	e.grid.SetLit(tileID, lit)
}

// --- internals ---

func (e *Engine) resetSession() {
	e.level = 1
	e.score = 0
	e.gridSize = e.cfg.GridSize
	e.numTilesToLight = e.cfg.SequenceLength
	e.initializeGrid(e.gridSize)
	e.setPhase(PhaseIdle)
}

// initializeGrid rebuilds the board and clears the player input, which is
// owned here rather than by the grid.
func (e *Engine) initializeGrid(size int) {
	e.grid.Initialize(size)
	e.playerInput = e.playerInput[:0]
}

// startRound begins one reveal/input/outcome cycle on the current board.
func (e *Engine) startRound() {
	e.playerInput = e.playerInput[:0]
	e.grid.ResetRoundFlags()
	e.comboEligible = true
	e.generateSequence()
}

// generateSequence draws numTilesToLight distinct tile ids uniformly at
// random from the full id set. If the board is smaller than the requested
// length the sequence is truncated to the board size; that cannot happen
// under the growth rule but is tolerated rather than fatal. Ends in the
// sequence phase.
func (e *Engine) generateSequence() {
	ids := make([]int, e.grid.TileCount())
	for i := range ids {
		ids[i] = i
	}
	rand.Shuffle(len(ids), func(i, j int) {
		ids[i], ids[j] = ids[j], ids[i]
	})

	n := e.numTilesToLight
	if n > len(ids) {
		n = len(ids)
	}
	e.sequence = ids[:n:n]

	e.setPhase(PhaseSequence)
}

// checkRound evaluates a full-length input. Success is set equality with the
// sequence: clicking the right tiles in the wrong order still clears the
// round (at reduced score). Failure annotates the board and ends the game.
func (e *Engine) checkRound() {
	e.setPhase(PhaseChecking)

	if sameSet(e.sequence, e.playerInput) {
		e.level++
		e.numTilesToLight++
		if e.numTilesToLight*2 > e.gridSize*e.gridSize {
			e.gridSize++
		}
		e.initializeGrid(e.gridSize)
		e.startRound()
		return
	}

	e.comboEligible = false
	e.grid.MarkOutcome(e.sequence, e.playerInput)
	e.setPhase(PhaseOver)
}

func (e *Engine) setPhase(p Phase) {
	if e.Phase() == p {
		return
	}
	_ = e.machine.ChangeState(e.phases[p])
}

func containsID(ids []int, id int) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// sameSet reports whether a and b contain the same elements, ignoring order.
// Both are duplicate-free by construction.
func sameSet(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[int]bool, len(a))
	for _, v := range a {
		seen[v] = true
	}
	for _, v := range b {
		if !seen[v] {
			return false
		}
	}
	return true
}
