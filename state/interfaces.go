// state/interfaces.go
package state

// GameContext defines the interface a phase state needs from the round
// engine. This breaks the import cycle between engine and state.
type GameContext interface {
	RecordClick(tileID int) error
}
