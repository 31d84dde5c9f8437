package grid

import (
	"testing"
)

func TestInitialize_TileCountAndIDs(t *testing.T) {
	for _, size := range []int{3, 4, 5, 7} {
		g := New(size)

		if g.TileCount() != size*size {
			t.Errorf("size %d: expected %d tiles, got %d", size, size*size, g.TileCount())
		}

		for i, tile := range g.Tiles() {
			if tile.ID != i {
				t.Errorf("size %d: tile %d has id %d", size, i, tile.ID)
			}
			if tile.Lit || tile.Selected || tile.CorrectClicked || tile.CorrectMissed || tile.WrongClicked {
				t.Errorf("size %d: tile %d has a flag set after initialization", size, i)
			}
		}
	}
}

func TestInitialize_Rebuild(t *testing.T) {
	g := New(3)
	g.MarkSelected(2)
	g.SetLit(5, true)

	g.Initialize(4)

	if g.TileCount() != 16 {
		t.Fatalf("expected 16 tiles after growing to 4, got %d", g.TileCount())
	}
	for _, tile := range g.Tiles() {
		if tile.Selected || tile.Lit {
			t.Errorf("tile %d kept a flag across Initialize", tile.ID)
		}
	}
}

func TestResetRoundFlags_KeepsIDs(t *testing.T) {
	g := New(3)
	g.SetLit(0, true)
	g.MarkSelected(4)
	g.MarkOutcome([]int{0, 4}, []int{4, 8})

	g.ResetRoundFlags()

	for i, tile := range g.Tiles() {
		if tile.ID != i {
			t.Errorf("tile %d has id %d after reset", i, tile.ID)
		}
		if tile.Lit || tile.Selected || tile.CorrectClicked || tile.CorrectMissed || tile.WrongClicked {
			t.Errorf("tile %d still flagged after reset", i)
		}
	}
}

func TestMarkSelected(t *testing.T) {
	g := New(3)

	g.MarkSelected(3)
	if !g.Tiles()[3].Selected {
		t.Error("tile 3 should be selected")
	}

	// Repeated and out-of-range marks must be harmless.
	g.MarkSelected(3)
	g.MarkSelected(-1)
	g.MarkSelected(9)

	selected := 0
	for _, tile := range g.Tiles() {
		if tile.Selected {
			selected++
		}
	}
	if selected != 1 {
		t.Errorf("expected exactly 1 selected tile, got %d", selected)
	}
}

func TestMarkOutcome_MutuallyExclusiveFlags(t *testing.T) {
	g := New(3)
	sequence := []int{1, 4, 7}
	clicked := []int{1, 4, 5}

	g.MarkOutcome(sequence, clicked)

	for _, tile := range g.Tiles() {
		set := 0
		for _, f := range []bool{tile.CorrectClicked, tile.CorrectMissed, tile.WrongClicked} {
			if f {
				set++
			}
		}
		if set > 1 {
			t.Errorf("tile %d has %d outcome flags set", tile.ID, set)
		}
	}

	tiles := g.Tiles()
	if !tiles[1].CorrectClicked || !tiles[4].CorrectClicked {
		t.Error("tiles 1 and 4 should be marked correct and clicked")
	}
	if !tiles[7].CorrectMissed {
		t.Error("tile 7 should be marked correct but missed")
	}
	if !tiles[5].WrongClicked {
		t.Error("tile 5 should be marked wrong and clicked")
	}
	for _, id := range []int{0, 2, 3, 6, 8} {
		tile := tiles[id]
		if tile.CorrectClicked || tile.CorrectMissed || tile.WrongClicked {
			t.Errorf("untouched tile %d should have no outcome flags", id)
		}
	}
}

func TestTiles_ReturnsCopy(t *testing.T) {
	g := New(3)
	tiles := g.Tiles()
	tiles[0].Selected = true

	if g.Tiles()[0].Selected {
		t.Error("mutating the returned slice must not affect the grid")
	}
}
