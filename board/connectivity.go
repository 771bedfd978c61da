// board/connectivity.go
package board

import "github.com/wfunc/tunnelrats/card"

// Traversal is the result of a breadth-first walk from the start tile.
type Traversal struct {
	Visited map[string]bool
	MaxCol  int
}

// Explore 从起点沿双向匹配的开口做广度优先遍历
//
// An edge is walkable only when it is open on both sides, and only tiles that
// carry connectors (start, path, goal) can be entered; blocked and empty
// tiles have none and terminate the walk.
func (b *Board) Explore() Traversal {
	start := b.Start()
	tr := Traversal{
		Visited: map[string]bool{start.ID: true},
		MaxCol:  start.Col,
	}

	queue := []*Tile{start}
	for len(queue) > 0 {
		tile := queue[0]
		queue = queue[1:]

		if tile.Col > tr.MaxCol {
			tr.MaxCol = tile.Col
		}

		for _, d := range card.Directions {
			if !tile.Connectors.Open(d) {
				continue
			}
			next := b.Neighbor(tile, d)
			if next == nil || next.Connectors == nil || tr.Visited[next.ID] {
				continue
			}
			if !next.Connectors.Open(d.Opposite()) {
				continue
			}
			tr.Visited[next.ID] = true
			queue = append(queue, next)
		}
	}

	return tr
}

// Progress 隧道推进度: 抵达的最远列 / (列数-1)，以起点列为下限
func (tr Traversal) Progress() float64 {
	col := tr.MaxCol
	if col < StartCol {
		col = StartCol
	}
	return float64(col) / float64(Cols-1)
}

// RevealReached marks every goal tile found in the visited set as revealed
// and reports whether the gold goal is revealed afterwards. Revealing gold
// ends the round for the miners the instant it happens.
func (b *Board) RevealReached(tr Traversal) bool {
	for _, goal := range b.Goals() {
		if tr.Visited[goal.ID] {
			goal.Revealed = true
		}
	}
	return b.GoldRevealed()
}
