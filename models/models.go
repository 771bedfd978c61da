// models/models.go
package models

import (
	"github.com/wfunc/tunnelrats/board"
	"github.com/wfunc/tunnelrats/card"
	"github.com/wfunc/tunnelrats/deck"
	"github.com/wfunc/tunnelrats/player"
	"github.com/wfunc/tunnelrats/telemetry"
)

// CardView 手牌中一张牌的客户端视图
type CardView struct {
	ID         string           `json:"id"`
	Key        string           `json:"key"`
	Category   card.Category    `json:"category"`
	Connectors *card.Connectors `json:"connectors,omitempty"` // base shape, unrotated
}

// TileView is the client view of one board tile. Goal tiles keep their
// connectors and the gold designation hidden until revealed.
type TileView struct {
	ID         string           `json:"id"`
	Row        int              `json:"row"`
	Col        int              `json:"col"`
	Type       board.TileType   `json:"type"`
	Connectors *card.Connectors `json:"connectors,omitempty"`
	CardKey    string           `json:"card_key,omitempty"`
	Rotation   int              `json:"rotation,omitempty"`
	Revealed   bool             `json:"revealed"`
	PlacedBy   string           `json:"placed_by,omitempty"`
	Gold       bool             `json:"gold,omitempty"`
}

// BoardView 整个棋盘的客户端视图
type BoardView struct {
	Rows  int        `json:"rows"`
	Cols  int        `json:"cols"`
	Tiles []TileView `json:"tiles"`
}

// PlayerView 对全房间公开的玩家信息，隐藏身份不在其中
type PlayerView struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Pose       player.Pose `json:"pose"`
	ToolBroken bool        `json:"tool_broken"`
	Suspicion  float64     `json:"suspicion"`
	Score      int         `json:"score"`
}

// HandView 私发给玩家本人的手牌
type HandView struct {
	Cards []CardView `json:"cards"`
}

// RoleView 私发给玩家本人的隐藏身份
type RoleView struct {
	Role player.Role `json:"role"`
}

// PlayerLeftView broadcast payload when a player leaves.
type PlayerLeftView struct {
	PlayerID string `json:"player_id"`
}

// BoardUpdateView broadcast payload for a single mutated tile.
type BoardUpdateView struct {
	Tile TileView `json:"tile"`
}

// TurnChangedView broadcast payload when the active player changes.
type TurnChangedView struct {
	ActivePlayer string `json:"active_player"`
	Deadline     int64  `json:"deadline"` // unix millis, 0 when nobody is active
}

// ToolUpdateView broadcast payload for a break/repair effect.
type ToolUpdateView struct {
	PlayerID string `json:"player_id"`
	Broken   bool   `json:"broken"`
}

// PoseUpdateView broadcast payload for a player pose change.
type PoseUpdateView struct {
	PlayerID string      `json:"player_id"`
	Pose     player.Pose `json:"pose"`
}

// RoundEndView broadcast payload when a round resolves.
type RoundEndView struct {
	Team    player.Role    `json:"team"`
	Winners []string       `json:"winners"`
	Awards  map[string]int `json:"awards"`
	Placer  string         `json:"placer,omitempty"` // only miner wins carry a placer
	Round   int            `json:"round"`
}

// RoomResetView broadcast payload after a restart. Hands and roles travel in
// private envelopes, never here.
type RoomResetView struct {
	Round   int          `json:"round"`
	Board   BoardView    `json:"board"`
	Players []PlayerView `json:"players"`
}

// RoomClosedView broadcast payload when a room is torn down.
type RoomClosedView struct {
	Code string `json:"code"`
}

// JoinedView is the full room state sent privately to one player, the only
// payload that carries their own hidden role.
type JoinedView struct {
	Code      string             `json:"code"`
	Round     int                `json:"round"`
	You       PlayerView         `json:"you"`
	Role      player.Role        `json:"role"`
	Hand      HandView           `json:"hand"`
	Board     BoardView          `json:"board"`
	Players   []PlayerView       `json:"players"`
	Telemetry telemetry.Snapshot `json:"telemetry"`
}

// NewTileView converts a tile, masking unrevealed goal secrets.
func NewTileView(t *board.Tile) TileView {
	view := TileView{
		ID:       t.ID,
		Row:      t.Row,
		Col:      t.Col,
		Type:     t.Type,
		Revealed: t.Revealed,
	}
	if t.Type == board.TileGoal && !t.Revealed {
		return view
	}
	view.Connectors = t.Connectors
	view.CardKey = t.CardKey
	view.Rotation = t.Rotation
	view.PlacedBy = t.PlacedBy
	if t.Type == board.TileGoal {
		view.Gold = t.Gold
	}
	return view
}

// NewBoardView converts the whole grid.
func NewBoardView(b *board.Board) BoardView {
	view := BoardView{Rows: board.Rows, Cols: board.Cols}
	view.Tiles = make([]TileView, 0, board.Rows*board.Cols)
	for r := 0; r < board.Rows; r++ {
		for c := 0; c < board.Cols; c++ {
			view.Tiles = append(view.Tiles, NewTileView(b.Tile(r, c)))
		}
	}
	return view
}

// NewPlayerView converts the public slice of a player.
func NewPlayerView(p *player.Player) PlayerView {
	return PlayerView{
		ID:         p.ID,
		Name:       p.Name,
		Pose:       p.Pose,
		ToolBroken: p.ToolBroken,
		Suspicion:  p.Suspicion,
		Score:      p.Score,
	}
}

// NewHandView converts a hand of card instances.
func NewHandView(hand []*deck.Instance) HandView {
	view := HandView{Cards: make([]CardView, 0, len(hand))}
	for _, inst := range hand {
		cv := CardView{ID: inst.ID, Key: inst.Key}
		if def, ok := inst.Definition(); ok {
			cv.Category = def.Category
			cv.Connectors = def.Connectors
		}
		view.Cards = append(view.Cards, cv)
	}
	return view
}
