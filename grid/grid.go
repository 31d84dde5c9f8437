// grid/grid.go
package grid

// Tile is one cell of the board. ID is a stable index assigned at
// initialization. The three outcome flags are mutually exclusive and are only
// set when a round fails, to annotate the final board for feedback.
type Tile struct {
	ID             int  `json:"id"`
	Lit            bool `json:"lit"`
	Selected       bool `json:"selected"`
	CorrectClicked bool `json:"correct_clicked"`
	CorrectMissed  bool `json:"correct_missed"`
	WrongClicked   bool `json:"wrong_clicked"`
}

// Grid owns the tile array. All mutation goes through its methods; Tiles
// returns copies so callers can never touch the backing slice.
type Grid struct {
	size  int
	tiles []Tile
}

// New creates a grid of size*size tiles with sequential ids.
func New(size int) *Grid {
	g := &Grid{}
	g.Initialize(size)
	return g
}

// Initialize rebuilds the tile array to size*size tiles, all flags false,
// ids 0..size*size-1. Called at game start and whenever the board grows.
func (g *Grid) Initialize(size int) {
	g.size = size
	g.tiles = make([]Tile, size*size)
	for i := range g.tiles {
		g.tiles[i].ID = i
	}
}

// Size returns the side length of the board.
func (g *Grid) Size() int {
	return g.size
}

// TileCount returns the number of tiles (size squared).
func (g *Grid) TileCount() int {
	return len(g.tiles)
}

// Contains reports whether id names a tile on the current board.
func (g *Grid) Contains(id int) bool {
	return id >= 0 && id < len(g.tiles)
}

// Tiles returns a copy of the tile array.
func (g *Grid) Tiles() []Tile {
	out := make([]Tile, len(g.tiles))
	copy(out, g.tiles)
	return out
}

// ResetRoundFlags clears every per-round flag on every tile without changing
// ids. Called at the start of each round.
func (g *Grid) ResetRoundFlags() {
	for i := range g.tiles {
		id := g.tiles[i].ID
		g.tiles[i] = Tile{ID: id}
	}
}

// MarkSelected sets the selection flag for id. No-op for unknown ids or
// tiles that are already selected.
func (g *Grid) MarkSelected(id int) {
	if !g.Contains(id) {
		return
	}
	g.tiles[id].Selected = true
}

// SetLit toggles the lit flag for id. The reveal choreography drives this;
// the round engine never lights tiles itself.
func (g *Grid) SetLit(id int, lit bool) {
	if !g.Contains(id) {
		return
	}
	g.tiles[id].Lit = lit
}

// MarkOutcome annotates every tile with exactly one outcome flag: correct and
// clicked, correct but missed, or wrong and clicked. Tiles in neither set
// keep all flags false. Called only when a round fails.
func (g *Grid) MarkOutcome(sequence, clicked []int) {
	inSequence := make(map[int]bool, len(sequence))
	for _, id := range sequence {
		inSequence[id] = true
	}
	inClicked := make(map[int]bool, len(clicked))
	for _, id := range clicked {
		inClicked[id] = true
	}

	for i := range g.tiles {
		id := g.tiles[i].ID
		g.tiles[i].CorrectClicked = inSequence[id] && inClicked[id]
		g.tiles[i].CorrectMissed = inSequence[id] && !inClicked[id]
		g.tiles[i].WrongClicked = !inSequence[id] && inClicked[id]
	}
}
