// board/board.go
package board

import (
	"fmt"
	"math/rand"

	"github.com/wfunc/tunnelrats/card"
)

const (
	Rows     = 7
	Cols     = 9
	StartRow = 3
	StartCol = 0
	GoalCol  = Cols - 1
)

// GoalRows lists the rows holding the three goal tiles.
var GoalRows = [3]int{1, 3, 5}

// TileType 格子类型
type TileType string

const (
	TileEmpty   TileType = "empty"
	TileStart   TileType = "start"
	TileGoal    TileType = "goal"
	TilePath    TileType = "path"
	TileBlocked TileType = "blocked"
)

// Tile 棋盘上的一个格子
type Tile struct {
	ID         string
	Row, Col   int
	Type       TileType
	Connectors *card.Connectors
	CardKey    string
	Rotation   int
	Revealed   bool
	PlacedBy   string
	Gold       bool // only meaningful on goal tiles
}

// Board 固定 7x9 隧道棋盘
type Board struct {
	tiles [Rows][Cols]*Tile
}

// New allocates the grid, places the start tile and the three goal tiles,
// and picks one goal uniformly at random to hold the gold.
func New(rng *rand.Rand) *Board {
	b := &Board{}
	for r := 0; r < Rows; r++ {
		for c := 0; c < Cols; c++ {
			b.tiles[r][c] = &Tile{
				ID:   TileID(r, c),
				Row:  r,
				Col:  c,
				Type: TileEmpty,
			}
		}
	}

	start := b.tiles[StartRow][StartCol]
	start.Type = TileStart
	start.Revealed = true
	// 起点朝隧道方向开口，西侧封闭
	start.Connectors = &card.Connectors{North: true, East: true, South: true}

	goldRow := GoalRows[rng.Intn(len(GoalRows))]
	for _, r := range GoalRows {
		goal := b.tiles[r][GoalCol]
		goal.Type = TileGoal
		goal.Connectors = &card.Connectors{North: true, South: true, West: true}
		goal.Gold = r == goldRow
	}

	return b
}

// TileID formats the canonical row-col tile id.
func TileID(row, col int) string {
	return fmt.Sprintf("%d-%d", row, col)
}

// Tile returns the tile at (row, col), or nil when off the grid.
func (b *Board) Tile(row, col int) *Tile {
	if row < 0 || row >= Rows || col < 0 || col >= Cols {
		return nil
	}
	return b.tiles[row][col]
}

// TileByID resolves a "row-col" id, or nil when malformed or off the grid.
func (b *Board) TileByID(id string) *Tile {
	var row, col int
	if _, err := fmt.Sscanf(id, "%d-%d", &row, &col); err != nil {
		return nil
	}
	return b.Tile(row, col)
}

// Neighbor returns the tile adjacent to t in direction d, or nil at the edge.
func (b *Board) Neighbor(t *Tile, d card.Direction) *Tile {
	switch d {
	case card.North:
		return b.Tile(t.Row-1, t.Col)
	case card.East:
		return b.Tile(t.Row, t.Col+1)
	case card.South:
		return b.Tile(t.Row+1, t.Col)
	default:
		return b.Tile(t.Row, t.Col-1)
	}
}

// PlacePath mutates an empty tile into a path tile carrying the given
// (already rotated) connectors. Target validation is the caller's job.
func (b *Board) PlacePath(t *Tile, connectors *card.Connectors, cardKey string, rotation int, placerID string) {
	t.Type = TilePath
	t.Connectors = connectors
	t.CardKey = cardKey
	t.Rotation = rotation
	t.Revealed = true
	t.PlacedBy = placerID
}

// Collapse turns a path tile into a permanently blocked one. The tile stays
// occupied but drops out of connectivity and cannot take another card.
func (b *Board) Collapse(t *Tile) {
	t.Type = TileBlocked
	t.Connectors = nil
	t.CardKey = ""
	t.Rotation = 0
	t.PlacedBy = ""
}

// CollapsedCount 已塌方格子数
func (b *Board) CollapsedCount() int {
	n := 0
	for r := 0; r < Rows; r++ {
		for c := 0; c < Cols; c++ {
			if b.tiles[r][c].Type == TileBlocked {
				n++
			}
		}
	}
	return n
}

// GoldRevealed reports whether the gold goal has been reached.
func (b *Board) GoldRevealed() bool {
	for _, r := range GoalRows {
		goal := b.tiles[r][GoalCol]
		if goal.Gold && goal.Revealed {
			return true
		}
	}
	return false
}

// Goals returns the three goal tiles in row order.
func (b *Board) Goals() []*Tile {
	goals := make([]*Tile, 0, len(GoalRows))
	for _, r := range GoalRows {
		goals = append(goals, b.tiles[r][GoalCol])
	}
	return goals
}

// Start returns the start tile.
func (b *Board) Start() *Tile {
	return b.tiles[StartRow][StartCol]
}
