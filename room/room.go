// room/room.go
package room

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/wfunc/tunnelrats/board"
	"github.com/wfunc/tunnelrats/card"
	"github.com/wfunc/tunnelrats/deck"
	"github.com/wfunc/tunnelrats/models"
	"github.com/wfunc/tunnelrats/player"
	"github.com/wfunc/tunnelrats/telemetry"
	"github.com/wfunc/tunnelrats/timer"
)

// HandSize 每名玩家的起始手牌数
const HandSize = 5

// Room 是一局游戏的唯一权威实例
//
// Every mutating action takes the room mutex for its whole read-modify-write
// sequence, including the turn-expiry callback, so no two actions can
// interleave on the same room. Rooms are fully independent of each other.
type Room struct {
	code      string
	founderID string

	board   *board.Board
	deck    *deck.Deck
	discard []*deck.Instance

	players map[string]*player.Player
	order   []string // join order, drives turn rotation

	round        int
	roundEnded   bool
	settlement   *Settlement
	activeID     string
	turnsTaken   int
	turnSeq      int64
	turnDeadline time.Time

	turnTimeout time.Duration
	timerID     int64
	clock       *timer.Scheduler // nil in tests
	sink        EventSink        // nil in tests
	rng         *rand.Rand

	snapshot telemetry.Snapshot

	mu sync.Mutex
}

func newRoom(code, founderID string, turnTimeout time.Duration, clock *timer.Scheduler, sink EventSink, rng *rand.Rand) *Room {
	r := &Room{
		code:        code,
		founderID:   founderID,
		board:       board.New(rng),
		deck:        deck.Build(rng),
		players:     make(map[string]*player.Player),
		round:       1,
		turnTimeout: turnTimeout,
		clock:       clock,
		sink:        sink,
		rng:         rng,
	}
	r.snapshot = r.project()
	return r
}

// Code 房间码
func (r *Room) Code() string {
	return r.code
}

// Founder returns the session id of the player whose first join created the
// room. The room is torn down when they leave.
func (r *Room) Founder() string {
	return r.founderID
}

// PlayerCount returns the number of connected players.
func (r *Room) PlayerCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.order)
}

// Round returns the current round number.
func (r *Room) Round() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.round
}

// Snapshot returns the latest derived telemetry projection.
func (r *Room) Snapshot() telemetry.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshot
}

// Describe builds the full room view sent to one player, including their own
// hidden role and hand.
func (r *Room) Describe(playerID string) (models.JoinedView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.players[playerID]
	if !ok {
		return models.JoinedView{}, ErrUnknownPlayer
	}

	view := models.JoinedView{
		Code:      r.code,
		Round:     r.round,
		You:       models.NewPlayerView(p),
		Role:      p.Role,
		Hand:      models.NewHandView(p.Hand),
		Board:     models.NewBoardView(r.board),
		Telemetry: r.snapshot,
	}
	for _, other := range r.playerList() {
		view.Players = append(view.Players, models.NewPlayerView(other))
	}
	return view, nil
}

// --- 玩家进出 ---

// Join adds a player to the room, assigns their hidden role against the new
// player count, deals a fresh hand of five and, when no turn is running,
// makes them the active player.
func (r *Room) Join(playerID, name string) (*ActionResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.players[playerID]; exists {
		return nil, ErrAlreadyJoined
	}
	if name == "" {
		name = fmt.Sprintf("digger-%d", len(r.order)+1)
	}

	p := &player.Player{ID: playerID, Name: name, Role: player.RoleMiner}
	r.players[playerID] = p
	r.order = append(r.order, playerID)

	res := &ActionResult{}
	wasEnded := r.roundEnded

	// 配额上升时从全体矿工(含新人)中均匀抽一人补为破坏者，
	// 否则新身份对旁观者完全可预测
	if r.saboteurCount() < player.SaboteurQuota(len(r.order)) {
		var miners []string
		for _, id := range r.order {
			if r.players[id].Role == player.RoleMiner {
				miners = append(miners, id)
			}
		}
		chosen := r.players[miners[r.rng.Intn(len(miners))]]
		chosen.Role = player.RoleSaboteur
		if chosen != p {
			res.addPrivate(chosen.ID, Event{Type: EventRole, Payload: models.RoleView{Role: chosen.Role}})
		}
	}

	// Dealing can drain the shared deck and end the round before the joiner
	// ever acts; the draw-then-check ordering is deliberate.
	for i := 0; i < HandSize; i++ {
		r.draw(p)
	}

	res.Events = append(res.Events, Event{Type: EventPlayerJoined, Payload: models.NewPlayerView(p)})
	if r.activeID == "" {
		r.setActive(playerID)
		res.Events = append(res.Events, r.turnEvent())
	}

	r.finish(res, wasEnded)
	res.addPrivate(playerID, Event{Type: EventRole, Payload: models.RoleView{Role: p.Role}})
	res.addPrivate(playerID, Event{Type: EventHand, Payload: models.NewHandView(p.Hand)})
	return res, nil
}

// Leave removes a player immediately. Their cards go to the discard pile and
// an active turn passes on without waiting for the deadline.
func (r *Room) Leave(playerID string) (*ActionResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.players[playerID]
	if !ok {
		return nil, ErrUnknownPlayer
	}

	r.discard = append(r.discard, p.Hand...)
	p.Hand = nil
	delete(r.players, playerID)
	idx := -1
	for i, id := range r.order {
		if id == playerID {
			idx = i
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}

	res := &ActionResult{}
	res.Events = append(res.Events, Event{Type: EventPlayerLeft, Payload: models.PlayerLeftView{PlayerID: playerID}})
	if r.activeID == playerID {
		// 继任者是离开者在入座顺序上的下一位；切片后该位就在 idx 处
		if len(r.order) == 0 {
			r.clearActive()
		} else {
			r.setActive(r.order[idx%len(r.order)])
		}
		res.Events = append(res.Events, r.turnEvent())
	}

	r.finish(res, r.roundEnded)
	return res, nil
}

// --- 出牌动作 ---

// PlaceCard plays a path card from the acting player's hand onto an empty
// tile. Validation order and the draw-then-check deck exhaustion rule follow
// the table rules exactly; any failure leaves the room untouched.
func (r *Room) PlaceCard(playerID, cardID, tileID string, rotation int) (*ActionResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.activeID != playerID {
		return nil, ErrNotYourTurn
	}
	p, ok := r.players[playerID]
	if !ok {
		return nil, ErrUnknownPlayer
	}
	if p.ToolBroken {
		return nil, ErrToolBroken
	}
	idx := p.HasCard(cardID)
	if idx < 0 {
		return nil, ErrCardUnavailable
	}
	def, ok := p.Hand[idx].Definition()
	if !ok || def.Category != card.CategoryPath {
		return nil, ErrWrongCardCategory
	}
	tile := r.board.TileByID(tileID)
	if tile == nil || tile.Type != board.TileEmpty {
		return nil, ErrInvalidTarget
	}

	rotated := card.Rotate(def.Connectors, rotation)
	valid, mismatch := r.attachments(tile, rotated)
	if valid == 0 || mismatch > 0 {
		return nil, ErrNoCleanConnection
	}

	// Commit.
	inst := p.TakeCard(idx)
	inst.Rotation = rotation
	r.discard = append(r.discard, inst)
	r.board.PlacePath(tile, rotated, def.Key, rotation, playerID)

	r.turnsTaken++
	p.Actions++
	p.PathsPlaced++
	p.AdjustSuspicion(-0.05)

	res := &ActionResult{}
	wasEnded := r.roundEnded

	// 先探测连通性：揭开金矿立即判矿工获胜
	if r.board.RevealReached(r.board.Explore()) && !r.roundEnded {
		r.resolve(player.RoleMiner, playerID)
	}

	r.draw(p)
	r.advanceTurn()

	res.Events = append(res.Events,
		Event{Type: EventBoardUpdate, Payload: models.BoardUpdateView{Tile: models.NewTileView(tile)}},
		r.turnEvent(),
	)
	r.finish(res, wasEnded)
	res.addPrivate(playerID, Event{Type: EventHand, Payload: models.NewHandView(p.Hand)})
	return res, nil
}

// Rockfall collapses an existing path tile. The collapse itself can never win
// the round, but the replacement draw can drain the deck and hand it to the
// saboteurs.
func (r *Room) Rockfall(playerID, cardID, tileID string) (*ActionResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.activeID != playerID {
		return nil, ErrNotYourTurn
	}
	p, ok := r.players[playerID]
	if !ok {
		return nil, ErrUnknownPlayer
	}
	idx := p.HasCard(cardID)
	if idx < 0 {
		return nil, ErrCardUnavailable
	}
	def, ok := p.Hand[idx].Definition()
	if !ok || def.Category != card.CategoryRockfall {
		return nil, ErrWrongCardCategory
	}
	tile := r.board.TileByID(tileID)
	if tile == nil || tile.Type != board.TilePath {
		return nil, ErrInvalidTarget
	}

	inst := p.TakeCard(idx)
	r.discard = append(r.discard, inst)
	r.board.Collapse(tile)

	r.turnsTaken++
	p.Actions++
	p.AdjustSuspicion(0.15)

	res := &ActionResult{}
	wasEnded := r.roundEnded

	r.draw(p)
	r.advanceTurn()

	res.Events = append(res.Events,
		Event{Type: EventBoardUpdate, Payload: models.BoardUpdateView{Tile: models.NewTileView(tile)}},
		r.turnEvent(),
	)
	r.finish(res, wasEnded)
	res.addPrivate(playerID, Event{Type: EventHand, Payload: models.NewHandView(p.Hand)})
	return res, nil
}

// ToolEffect plays a break or repair card against a target player, toggling
// their tool-broken flag.
func (r *Room) ToolEffect(actorID, targetID, cardID string) (*ActionResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.activeID != actorID {
		return nil, ErrNotYourTurn
	}
	actor, ok := r.players[actorID]
	if !ok {
		return nil, ErrUnknownPlayer
	}
	target, ok := r.players[targetID]
	if !ok {
		return nil, ErrMissingParticipant
	}
	idx := actor.HasCard(cardID)
	if idx < 0 {
		return nil, ErrCardUnavailable
	}
	def, ok := actor.Hand[idx].Definition()
	if !ok || (def.Category != card.CategoryBreak && def.Category != card.CategoryRepair) {
		return nil, ErrWrongCardCategory
	}

	inst := actor.TakeCard(idx)
	r.discard = append(r.discard, inst)

	if def.Category == card.CategoryBreak {
		target.ToolBroken = true
		actor.AdjustSuspicion(0.12)
	} else {
		target.ToolBroken = false
		actor.AdjustSuspicion(-0.04)
	}

	r.turnsTaken++
	actor.Actions++

	res := &ActionResult{}
	wasEnded := r.roundEnded

	r.draw(actor)
	r.advanceTurn()

	res.Events = append(res.Events,
		Event{Type: EventToolUpdate, Payload: models.ToolUpdateView{PlayerID: targetID, Broken: target.ToolBroken}},
		r.turnEvent(),
	)
	r.finish(res, wasEnded)
	res.addPrivate(actorID, Event{Type: EventHand, Payload: models.NewHandView(actor.Hand)})
	return res, nil
}

// UpdatePose stores a player's 3D pose. The pose is opaque presentation
// state, so no telemetry recompute happens here.
func (r *Room) UpdatePose(playerID string, pose player.Pose) (*ActionResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.players[playerID]
	if !ok {
		return nil, ErrUnknownPlayer
	}
	p.Pose = pose

	return &ActionResult{
		Events: []Event{{Type: EventPoseUpdate, Payload: models.PoseUpdateView{PlayerID: playerID, Pose: pose}}},
	}, nil
}

// Restart begins a new round: fresh board and deck, reassigned roles, reset
// transient player state. Cumulative scores survive.
func (r *Room) Restart(playerID string) (*ActionResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.players[playerID]; !ok {
		return nil, ErrUnknownPlayer
	}

	r.board = board.New(r.rng)
	r.deck = deck.Build(r.rng)
	r.discard = nil
	r.roundEnded = false
	r.settlement = nil
	r.round++
	r.turnsTaken = 0

	roles := player.ShuffleRoles(r.rng, len(r.order))
	res := &ActionResult{}
	for i, id := range r.order {
		p := r.players[id]
		p.Role = roles[i]
		p.Pose = player.Pose{}
		p.Hand = nil
		p.ToolBroken = false
		p.Suspicion = 0
		p.PathsPlaced = 0
		p.Actions = 0
		for j := 0; j < HandSize; j++ {
			r.draw(p)
		}
		res.addPrivate(id, Event{Type: EventRole, Payload: models.RoleView{Role: p.Role}})
		res.addPrivate(id, Event{Type: EventHand, Payload: models.NewHandView(p.Hand)})
	}

	if len(r.order) > 0 {
		r.setActive(r.order[0])
	} else {
		r.clearActive()
	}

	reset := models.RoomResetView{Round: r.round, Board: models.NewBoardView(r.board)}
	for _, p := range r.playerList() {
		reset.Players = append(reset.Players, models.NewPlayerView(p))
	}
	res.Events = append(res.Events,
		Event{Type: EventRoomReset, Payload: reset},
		r.turnEvent(),
	)
	r.finish(res, false)
	return res, nil
}

// --- 回合推进 ---

// expireTurn is the timer callback for an elapsed deadline. A stale sequence
// number means the turn already advanced by other means and the timer must
// not fire against the newer turn.
func (r *Room) expireTurn(seq int64) {
	r.mu.Lock()
	if seq != r.turnSeq || r.activeID == "" {
		r.mu.Unlock()
		return
	}
	r.advanceTurn()
	r.snapshot = r.project()
	events := []Event{r.turnEvent(), {Type: EventTelemetry, Payload: r.snapshot}}
	sink := r.sink
	r.mu.Unlock()

	if sink != nil {
		sink.Publish(r.code, events)
	}
}

func (r *Room) setActive(playerID string) {
	r.activeID = playerID
	r.resetTurnClock()
}

func (r *Room) clearActive() {
	r.turnSeq++
	r.activeID = ""
	r.turnDeadline = time.Time{}
	r.cancelTimer()
}

// advanceTurn picks the next connected player after the current one, wrapping
// through join order, and restarts the deadline clock.
func (r *Room) advanceTurn() {
	if len(r.order) == 0 {
		r.clearActive()
		return
	}
	idx := -1
	for i, id := range r.order {
		if id == r.activeID {
			idx = i
			break
		}
	}
	r.activeID = r.order[(idx+1)%len(r.order)]
	r.resetTurnClock()
}

func (r *Room) resetTurnClock() {
	r.turnSeq++
	r.turnDeadline = time.Now().Add(r.turnTimeout)
	r.cancelTimer()
	if r.clock != nil {
		seq := r.turnSeq
		r.timerID = r.clock.Schedule(r.turnTimeout, func() {
			r.expireTurn(seq)
		})
	}
}

func (r *Room) cancelTimer() {
	if r.clock != nil && r.timerID != 0 {
		r.clock.Cancel(r.timerID)
		r.timerID = 0
	}
}

func (r *Room) turnEvent() Event {
	payload := models.TurnChangedView{ActivePlayer: r.activeID}
	if !r.turnDeadline.IsZero() {
		payload.Deadline = r.turnDeadline.UnixMilli()
	}
	return Event{Type: EventTurnChanged, Payload: payload}
}

// --- 内部工具 ---

// draw moves the top deck card into the player's hand, then checks for
// exhaustion. The check runs after every draw, so a draw triggered by an
// unrelated action (joining, a tool redraw) can end the round for the
// saboteurs before the acting player's own result is evaluated.
func (r *Room) draw(p *player.Player) {
	if c := r.deck.Draw(); c != nil {
		p.Hand = append(p.Hand, c)
	}
	if r.deck.Remaining() == 0 && !r.roundEnded && !r.board.GoldRevealed() {
		r.resolve(player.RoleSaboteur, "")
	}
}

// finish recomputes the telemetry projection and, when this action resolved
// the round, appends the settlement broadcast exactly once.
func (r *Room) finish(res *ActionResult, wasEnded bool) {
	r.snapshot = r.project()
	if r.roundEnded && !wasEnded {
		res.RoundEnded = true
		res.Settlement = r.settlement
		res.Events = append(res.Events, Event{Type: EventRoundEnded, Payload: models.RoundEndView{
			Team:    r.settlement.Team,
			Winners: r.settlement.Winners,
			Awards:  r.settlement.Awards,
			Placer:  r.settlement.Placer,
			Round:   r.round,
		}})
	}
	res.Events = append(res.Events, Event{Type: EventTelemetry, Payload: r.snapshot})
}

func (r *Room) project() telemetry.Snapshot {
	return telemetry.Project(r.board, r.playerList(), r.deck.Remaining(), r.turnsTaken, r.round, r.activeID, r.turnDeadline)
}

func (r *Room) playerList() []*player.Player {
	list := make([]*player.Player, 0, len(r.order))
	for _, id := range r.order {
		list = append(list, r.players[id])
	}
	return list
}

func (r *Room) saboteurCount() int {
	n := 0
	for _, p := range r.players {
		if p.Role == player.RoleSaboteur {
			n++
		}
	}
	return n
}

// attachments checks edge consistency for a candidate placement. Per
// direction: both facing connectors open is a valid attachment; an open
// connector meeting a closed neighbor connector, a collapsed tile or the
// board edge is a mismatch, as is a closed connector facing an open one.
// Empty neighbors are neutral so the tunnel can keep growing.
func (r *Room) attachments(t *board.Tile, conns *card.Connectors) (valid, mismatch int) {
	for _, d := range card.Directions {
		open := conns.Open(d)
		neighbor := r.board.Neighbor(t, d)

		if neighbor == nil {
			if open {
				mismatch++
			}
			continue
		}
		if neighbor.Connectors != nil {
			theirs := neighbor.Connectors.Open(d.Opposite())
			switch {
			case open && theirs:
				valid++
			case open != theirs:
				mismatch++
			}
			continue
		}
		if open && neighbor.Type == board.TileBlocked {
			mismatch++
		}
	}
	return valid, mismatch
}
