// game/instance.go
package game

import (
	"sync"
	"time"

	"github.com/wfunc/memorygrid/engine"
	"github.com/wfunc/memorygrid/grid"
	"github.com/wfunc/memorygrid/session"
)

// Snapshot is the observable session state pushed to the client after every
// mutating command.
type Snapshot struct {
	Phase          string      `json:"phase"`
	Level          int         `json:"level"`
	Score          int         `json:"score"`
	GridSize       int         `json:"grid_size"`
	SequenceLength int         `json:"sequence_length"`
	Tiles          []grid.Tile `json:"tiles"`
}

// Instance binds one session to one round engine. The engine itself is
// single-threaded by contract; the instance mutex serializes the websocket
// read loop and the reveal timer so the engine only ever sees one event at
// a time.
type Instance struct {
	ID        string
	Session   *session.Session
	CreatedAt time.Time

	engine      *engine.Engine
	startedAt   time.Time
	revealTimer int64
	mutex       sync.Mutex
}

// NewInstance creates an instance with an idle engine.
func NewInstance(sess *session.Session, cfg engine.Config) *Instance {
	return &Instance{
		ID:        sess.GetID(),
		Session:   sess,
		CreatedAt: time.Now(),
		engine:    engine.New(cfg),
	}
}

// StartGame starts (or restarts) the game and returns the fresh sequence for
// the reveal push.
func (i *Instance) StartGame() ([]int, Snapshot) {
	i.mutex.Lock()
	defer i.mutex.Unlock()

	i.engine.StartGame()
	i.startedAt = time.Now()
	return i.engine.Sequence(), i.snapshotLocked()
}

// Reset returns the engine to idle without starting a round.
func (i *Instance) Reset() Snapshot {
	i.mutex.Lock()
	defer i.mutex.Unlock()

	i.engine.ResetGame()
	return i.snapshotLocked()
}

// BeginInput fires the external reveal-finished trigger. Safe to call from
// both the timer and the client; the engine ignores all but the first.
func (i *Instance) BeginInput() Snapshot {
	i.mutex.Lock()
	defer i.mutex.Unlock()

	i.engine.BeginInput()
	return i.snapshotLocked()
}

// Click forwards a tile click and reports the phase it left the engine in,
// plus the new sequence when the click cleared the round.
func (i *Instance) Click(tileID int) (engine.Phase, []int, Snapshot) {
	i.mutex.Lock()
	defer i.mutex.Unlock()

	before := i.engine.Phase()
	i.engine.HandleTileClick(tileID)
	after := i.engine.Phase()

	var nextSequence []int
	if before == engine.PhaseInput && after == engine.PhaseSequence {
		nextSequence = i.engine.Sequence()
	}
	return after, nextSequence, i.snapshotLocked()
}

// Phase reports the current engine phase.
func (i *Instance) Phase() engine.Phase {
	i.mutex.Lock()
	defer i.mutex.Unlock()
	return i.engine.Phase()
}

// Snapshot returns the current observable state.
func (i *Instance) Snapshot() Snapshot {
	i.mutex.Lock()
	defer i.mutex.Unlock()
	return i.snapshotLocked()
}

// Elapsed reports how long the current game has been running.
func (i *Instance) Elapsed() time.Duration {
	i.mutex.Lock()
	defer i.mutex.Unlock()
	if i.startedAt.IsZero() {
		return 0
	}
	return time.Since(i.startedAt)
}

// SetRevealTimer remembers the pending reveal timer so a restart can cancel
// the stale trigger.
func (i *Instance) SetRevealTimer(id int64) {
	i.mutex.Lock()
	defer i.mutex.Unlock()
	i.revealTimer = id
}

func (i *Instance) RevealTimer() int64 {
	i.mutex.Lock()
	defer i.mutex.Unlock()
	return i.revealTimer
}

func (i *Instance) snapshotLocked() Snapshot {
	return Snapshot{
		Phase:          string(i.engine.Phase()),
		Level:          i.engine.Level(),
		Score:          i.engine.Score(),
		GridSize:       i.engine.GridSize(),
		SequenceLength: i.engine.NumTilesToLight(),
		Tiles:          i.engine.Tiles(),
	}
}
