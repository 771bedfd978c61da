package room

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/wfunc/tunnelrats/board"
	"github.com/wfunc/tunnelrats/card"
	"github.com/wfunc/tunnelrats/deck"
	"github.com/wfunc/tunnelrats/player"
)

var testCardSeq int

// newTestRoom builds a room with a seeded randomness source, no timer clock
// and the given players joined in order. The first id is the founder.
func newTestRoom(t *testing.T, seed int64, ids ...string) *Room {
	t.Helper()
	founder := "p1"
	if len(ids) > 0 {
		founder = ids[0]
	}
	r := newRoom("cavern", founder, time.Minute, nil, nil, rand.New(rand.NewSource(seed)))
	for i, id := range ids {
		if _, err := r.Join(id, fmt.Sprintf("player%d", i+1)); err != nil {
			t.Fatalf("Setup join failed for %s: %v", id, err)
		}
	}
	return r
}

// giveCard plants a crafted card instance into a player's hand and returns
// its instance id.
func giveCard(r *Room, playerID, key string) string {
	testCardSeq++
	inst := &deck.Instance{ID: fmt.Sprintf("crafted-%d", testCardSeq), Key: key}
	p := r.players[playerID]
	p.Hand = append(p.Hand, inst)
	return inst.ID
}

// forceRoles pins the hidden roles so settlement assertions do not depend on
// the seed. The last id is made the lone saboteur.
func forceRoles(r *Room, ids ...string) {
	for i, id := range ids {
		if i == len(ids)-1 {
			r.players[id].Role = player.RoleSaboteur
		} else {
			r.players[id].Role = player.RoleMiner
		}
	}
}

// forceGold pins the gold goal to a known row.
func forceGold(r *Room, row int) {
	for _, goal := range r.board.Goals() {
		goal.Gold = goal.Row == row
	}
}

// pave lays a straight east-west corridor directly onto the board.
func pave(r *Room, row, fromCol, toCol int) {
	for col := fromCol; col <= toCol; col++ {
		conns := card.Connectors{East: true, West: true}
		r.board.PlacePath(r.board.Tile(row, col), &conns, "path_ew", 0, "p1")
	}
}

func hasEvent(events []Event, typ EventType) bool {
	for _, ev := range events {
		if ev.Type == typ {
			return true
		}
	}
	return false
}

func TestJoin_FirstPlayerBecomesActive(t *testing.T) {
	r := newTestRoom(t, 1, "p1")

	if r.activeID != "p1" {
		t.Errorf("First joiner should become active, got %q", r.activeID)
	}
	if got := len(r.players["p1"].Hand); got != HandSize {
		t.Errorf("Expected a hand of %d, got %d", HandSize, got)
	}
	if got := r.deck.Remaining(); got != card.DeckSize-HandSize {
		t.Errorf("Expected %d cards left in the deck, got %d", card.DeckSize-HandSize, got)
	}
	if r.turnDeadline.IsZero() {
		t.Error("Joining as the first player should start the turn clock")
	}

	snap := r.Snapshot()
	if snap.ActivePlayer != "p1" || snap.DeckRemaining != card.DeckSize-HandSize {
		t.Errorf("Telemetry snapshot out of sync: %+v", snap)
	}
}

func TestJoin_RoleQuota(t *testing.T) {
	r := newTestRoom(t, 2, "p1", "p2", "p3")

	saboteurs := 0
	for _, p := range r.players {
		if p.Role == player.RoleSaboteur {
			saboteurs++
		}
	}
	if saboteurs != 1 {
		t.Errorf("Three players should include exactly 1 saboteur, got %d", saboteurs)
	}
}

func TestJoin_SaboteurSlotDrawnFromAllMiners(t *testing.T) {
	joinerPicked := 0
	for seed := int64(0); seed < 20; seed++ {
		r := newTestRoom(t, seed, "p1", "p2", "p3")
		saboteurs := 0
		for _, p := range r.players {
			if p.Role == player.RoleSaboteur {
				saboteurs++
			}
		}
		if saboteurs != 1 {
			t.Fatalf("seed %d: expected exactly 1 saboteur, got %d", seed, saboteurs)
		}
		if r.players["p3"].Role == player.RoleSaboteur {
			joinerPicked++
		}
	}
	if joinerPicked == 20 {
		t.Error("The quota-crossing joiner must not deterministically become the saboteur")
	}
}

func TestJoin_FlippedPlayerGetsRoleUpdate(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		r := newTestRoom(t, seed, "p1", "p2")
		res, err := r.Join("p3", "third")
		if err != nil {
			t.Fatalf("Join failed: %v", err)
		}

		for _, id := range []string{"p1", "p2"} {
			if r.players[id].Role != player.RoleSaboteur {
				continue
			}
			// 被换身份的老玩家必须私下收到新身份
			got := false
			for _, ev := range res.Private[id] {
				if ev.Type == EventRole {
					got = true
				}
			}
			if !got {
				t.Fatalf("seed %d: flipped player %s received no role update", seed, id)
			}
		}
	}
}

func TestJoin_Duplicate(t *testing.T) {
	r := newTestRoom(t, 3, "p1")

	if _, err := r.Join("p1", "again"); err != ErrAlreadyJoined {
		t.Errorf("Expected ErrAlreadyJoined, got %v", err)
	}
}

func TestPlaceCard_NotYourTurn(t *testing.T) {
	r := newTestRoom(t, 4, "p1", "p2")
	cardID := giveCard(r, "p2", "path_ew")

	_, err := r.PlaceCard("p2", cardID, board.TileID(3, 1), 0)
	if err != ErrNotYourTurn {
		t.Fatalf("Expected ErrNotYourTurn, got %v", err)
	}
	if r.board.Tile(3, 1).Type != board.TileEmpty {
		t.Error("A rejected action must not mutate the board")
	}
	if r.turnsTaken != 0 {
		t.Error("A rejected action must not count as a turn")
	}
}

func TestPlaceCard_ToolBroken(t *testing.T) {
	r := newTestRoom(t, 5, "p1")
	r.players["p1"].ToolBroken = true
	cardID := giveCard(r, "p1", "path_ew")

	if _, err := r.PlaceCard("p1", cardID, board.TileID(3, 1), 0); err != ErrToolBroken {
		t.Errorf("Expected ErrToolBroken, got %v", err)
	}
}

func TestPlaceCard_CardUnavailable(t *testing.T) {
	r := newTestRoom(t, 6, "p1")

	if _, err := r.PlaceCard("p1", "no-such-card", board.TileID(3, 1), 0); err != ErrCardUnavailable {
		t.Errorf("Expected ErrCardUnavailable, got %v", err)
	}
}

func TestPlaceCard_WrongCategory(t *testing.T) {
	r := newTestRoom(t, 7, "p1")
	cardID := giveCard(r, "p1", "rockfall")

	if _, err := r.PlaceCard("p1", cardID, board.TileID(3, 1), 0); err != ErrWrongCardCategory {
		t.Errorf("Expected ErrWrongCardCategory, got %v", err)
	}
}

func TestPlaceCard_InvalidTargets(t *testing.T) {
	r := newTestRoom(t, 8, "p1")
	cardID := giveCard(r, "p1", "path_ew")

	targets := []string{
		board.TileID(board.StartRow, board.StartCol), // start
		board.TileID(1, board.GoalCol),               // goal
		"out-of-grid",
	}
	for _, target := range targets {
		if _, err := r.PlaceCard("p1", cardID, target, 0); err != ErrInvalidTarget {
			t.Errorf("Target %q: expected ErrInvalidTarget, got %v", target, err)
		}
	}
}

func TestPlaceCard_MismatchRejectedWithoutMutation(t *testing.T) {
	r := newTestRoom(t, 9, "p1")
	// 南北走向的牌贴在起点东侧：起点的东开口对上封闭的西壁
	cardID := giveCard(r, "p1", "path_ns")
	handBefore := len(r.players["p1"].Hand)
	deckBefore := r.deck.Remaining()

	_, err := r.PlaceCard("p1", cardID, board.TileID(3, 1), 0)
	if err != ErrNoCleanConnection {
		t.Fatalf("Expected ErrNoCleanConnection, got %v", err)
	}
	if r.board.Tile(3, 1).Type != board.TileEmpty {
		t.Error("Board must be unchanged after a rejected placement")
	}
	if len(r.players["p1"].Hand) != handBefore || r.deck.Remaining() != deckBefore {
		t.Error("Hand and deck must be unchanged after a rejected placement")
	}
}

func TestPlaceCard_DetachedCardRejected(t *testing.T) {
	r := newTestRoom(t, 10, "p1")
	cardID := giveCard(r, "p1", "path_ew")

	// 不与任何既有隧道相邻
	if _, err := r.PlaceCard("p1", cardID, board.TileID(0, 4), 0); err != ErrNoCleanConnection {
		t.Errorf("A card touching no tunnel should be rejected, got %v", err)
	}
}

func TestPlaceCard_Success(t *testing.T) {
	r := newTestRoom(t, 11, "p1", "p2")
	cardID := giveCard(r, "p1", "path_ew")
	handBefore := len(r.players["p1"].Hand)

	res, err := r.PlaceCard("p1", cardID, board.TileID(3, 1), 0)
	if err != nil {
		t.Fatalf("Placement should succeed: %v", err)
	}

	tile := r.board.Tile(3, 1)
	if tile.Type != board.TilePath || tile.PlacedBy != "p1" || tile.CardKey != "path_ew" {
		t.Errorf("Tile not committed correctly: %+v", tile)
	}
	if len(r.players["p1"].Hand) != handBefore {
		t.Errorf("Hand should be refilled to %d after playing, got %d", handBefore, len(r.players["p1"].Hand))
	}
	if r.players["p1"].HasCard(cardID) != -1 {
		t.Error("The played card must leave the hand")
	}
	if len(r.discard) != 1 || r.discard[0].ID != cardID {
		t.Error("The played card must land in the discard pile")
	}
	if r.activeID != "p2" {
		t.Errorf("Turn should advance to p2, got %q", r.activeID)
	}
	if r.turnsTaken != 1 {
		t.Errorf("Expected 1 turn taken, got %d", r.turnsTaken)
	}
	if res.RoundEnded {
		t.Error("A plain placement should not end the round")
	}
	if !hasEvent(res.Events, EventBoardUpdate) || !hasEvent(res.Events, EventTurnChanged) || !hasEvent(res.Events, EventTelemetry) {
		t.Error("Placement should emit board, turn and telemetry events")
	}
	if len(res.Private["p1"]) == 0 {
		t.Error("The placer should get a private hand update")
	}
}

func TestPlaceCard_WinningPlacementDealsMinerRewards(t *testing.T) {
	r := newTestRoom(t, 12, "p1", "p2", "p3")
	forceRoles(r, "p1", "p2", "p3") // p3 saboteur
	forceGold(r, 3)
	pave(r, 3, 1, board.GoalCol-2)
	cardID := giveCard(r, "p1", "path_ew")

	scoresBefore := map[string]int{}
	for id, p := range r.players {
		scoresBefore[id] = p.Score
	}

	res, err := r.PlaceCard("p1", cardID, board.TileID(3, board.GoalCol-1), 0)
	if err != nil {
		t.Fatalf("Winning placement failed: %v", err)
	}

	if !res.RoundEnded {
		t.Fatal("Revealing the gold goal must end the round")
	}
	s := res.Settlement
	if s == nil || s.Team != player.RoleMiner || s.Placer != "p1" {
		t.Fatalf("Expected a miner settlement credited to p1, got %+v", s)
	}
	if !r.board.Tile(3, board.GoalCol).Revealed {
		t.Error("The gold goal should be revealed")
	}

	// 三个奖励值轮流发给两名矿工，破坏者一无所获
	if _, ok := s.Awards["p3"]; ok {
		t.Error("The saboteur must not receive miner rewards")
	}
	total := 0
	for _, id := range []string{"p1", "p2"} {
		award := s.Awards[id]
		if award < 1 {
			t.Errorf("Miner %s should receive at least 1 gold, got %d", id, award)
		}
		if gained := r.players[id].Score - scoresBefore[id]; gained != award {
			t.Errorf("Miner %s score delta %d does not match award %d", id, gained, award)
		}
		total += award
	}
	if total < 3 || total > 9 {
		t.Errorf("Three rewards in [1,3] should total within [3,9], got %d", total)
	}
	if !hasEvent(res.Events, EventRoundEnded) {
		t.Error("A winning placement should broadcast the round end")
	}

	// 结算只发生一次
	r.resolve(player.RoleMiner, "p2")
	for id, p := range r.players {
		if p.Score != scoresBefore[id]+s.Awards[id] {
			t.Errorf("Second resolution must be a no-op, %s score drifted", id)
		}
	}
}

func TestDeckExhaustion_SaboteurWin(t *testing.T) {
	r := newTestRoom(t, 13, "p1", "p2", "p3")
	forceRoles(r, "p1", "p2", "p3") // p3 saboteur
	for r.deck.Remaining() > 1 {
		r.deck.Draw()
	}
	cardID := giveCard(r, "p1", "path_ew")

	res, err := r.PlaceCard("p1", cardID, board.TileID(3, 1), 0)
	if err != nil {
		t.Fatalf("Placement failed: %v", err)
	}

	if !res.RoundEnded {
		t.Fatal("Drawing the last card without gold revealed must end the round")
	}
	s := res.Settlement
	if s == nil || s.Team != player.RoleSaboteur {
		t.Fatalf("Expected a saboteur settlement, got %+v", s)
	}
	if s.Placer != "" {
		t.Error("A saboteur win carries no placer")
	}
	if r.players["p3"].Score != 4 {
		t.Errorf("A lone saboteur should score exactly 4, got %d", r.players["p3"].Score)
	}
	if r.players["p1"].Score != 0 || r.players["p2"].Score != 0 {
		t.Error("Miners must not score on a saboteur win")
	}
}

func TestRoundEnded_GatesRewardsNotActions(t *testing.T) {
	r := newTestRoom(t, 14, "p1", "p2", "p3")
	forceRoles(r, "p1", "p2", "p3")
	for r.deck.Remaining() > 1 {
		r.deck.Draw()
	}
	first := giveCard(r, "p1", "path_ew")
	if _, err := r.PlaceCard("p1", first, board.TileID(3, 1), 0); err != nil {
		t.Fatalf("Setup placement failed: %v", err)
	}
	scoreAfterWin := r.players["p3"].Score

	// 回合已结束，但只要满足回合/牌类规则仍可继续出牌
	second := giveCard(r, "p2", "path_ew")
	res, err := r.PlaceCard("p2", second, board.TileID(3, 2), 0)
	if err != nil {
		t.Fatalf("A rule-abiding placement after round end should still succeed: %v", err)
	}
	if res.RoundEnded {
		t.Error("A later action must not report the round as freshly ended")
	}
	if r.players["p3"].Score != scoreAfterWin {
		t.Error("Rewards must be computed exactly once per round")
	}
}

func TestRockfall(t *testing.T) {
	r := newTestRoom(t, 15, "p1", "p2")
	first := giveCard(r, "p1", "path_ew")
	if _, err := r.PlaceCard("p1", first, board.TileID(3, 1), 0); err != nil {
		t.Fatalf("Setup placement failed: %v", err)
	}

	rockID := giveCard(r, "p2", "rockfall")
	res, err := r.Rockfall("p2", rockID, board.TileID(3, 1))
	if err != nil {
		t.Fatalf("Rockfall failed: %v", err)
	}

	if r.board.Tile(3, 1).Type != board.TileBlocked {
		t.Error("Rockfall should collapse the path tile")
	}
	if got := r.players["p2"].Suspicion; got < 0.149 || got > 0.151 {
		t.Errorf("Rockfall should raise suspicion by 0.15, got %f", got)
	}
	if snap := r.Snapshot(); snap.Collapsed != 1 {
		t.Errorf("Telemetry should count 1 collapsed tile, got %d", snap.Collapsed)
	}
	if res.RoundEnded {
		t.Error("Rockfall itself can never end the round")
	}
	if r.activeID != "p1" {
		t.Errorf("Turn should wrap back to p1, got %q", r.activeID)
	}
}

func TestRockfall_RequiresPathTile(t *testing.T) {
	r := newTestRoom(t, 16, "p1")
	rockID := giveCard(r, "p1", "rockfall")

	if _, err := r.Rockfall("p1", rockID, board.TileID(3, 1)); err != ErrInvalidTarget {
		t.Errorf("Rockfall on an empty tile should be ErrInvalidTarget, got %v", err)
	}
	if _, err := r.Rockfall("p1", rockID, board.TileID(board.StartRow, board.StartCol)); err != ErrInvalidTarget {
		t.Errorf("Rockfall on the start tile should be ErrInvalidTarget, got %v", err)
	}
}

func TestToolEffect_BreakAndRepair(t *testing.T) {
	r := newTestRoom(t, 17, "p1", "p2")

	breakID := giveCard(r, "p1", "tool_break")
	res, err := r.ToolEffect("p1", "p2", breakID)
	if err != nil {
		t.Fatalf("Break failed: %v", err)
	}
	if !r.players["p2"].ToolBroken {
		t.Fatal("Break should set the target's tool-broken flag")
	}
	if got := r.players["p1"].Suspicion; got < 0.119 || got > 0.121 {
		t.Errorf("Break should raise actor suspicion by 0.12, got %f", got)
	}
	if !hasEvent(res.Events, EventToolUpdate) {
		t.Error("Tool effects should broadcast a tool update")
	}

	// p2 现在是行动方，但工具已坏，不能铺路
	pathID := giveCard(r, "p2", "path_ew")
	if _, err := r.PlaceCard("p2", pathID, board.TileID(3, 1), 0); err != ErrToolBroken {
		t.Errorf("A broken tool must block placement, got %v", err)
	}

	repairID := giveCard(r, "p2", "tool_repair")
	if _, err := r.ToolEffect("p2", "p2", repairID); err != nil {
		t.Fatalf("Repair failed: %v", err)
	}
	if r.players["p2"].ToolBroken {
		t.Error("Repair should clear the tool-broken flag")
	}
}

func TestToolEffect_MissingTarget(t *testing.T) {
	r := newTestRoom(t, 18, "p1")
	breakID := giveCard(r, "p1", "tool_break")

	if _, err := r.ToolEffect("p1", "ghost", breakID); err != ErrMissingParticipant {
		t.Errorf("Expected ErrMissingParticipant, got %v", err)
	}
}

func TestTurnTimeout_AdvancesWithoutMutation(t *testing.T) {
	r := newTestRoom(t, 19, "p1", "p2")
	deckBefore := r.deck.Remaining()
	handBefore := len(r.players["p1"].Hand)
	deadlineBefore := r.turnDeadline

	r.expireTurn(r.turnSeq)

	if r.activeID != "p2" {
		t.Fatalf("Timeout should advance the turn to p2, got %q", r.activeID)
	}
	if r.deck.Remaining() != deckBefore || len(r.players["p1"].Hand) != handBefore {
		t.Error("A timed-out turn must not touch deck or hands")
	}
	if r.turnDeadline.Before(deadlineBefore) {
		t.Error("Timeout should reset the deadline, not rewind it")
	}
}

func TestTurnTimeout_StaleTimerIgnored(t *testing.T) {
	r := newTestRoom(t, 20, "p1", "p2")

	stale := r.turnSeq - 1
	r.expireTurn(stale)

	if r.activeID != "p1" {
		t.Errorf("A stale timer must never advance the turn, active is %q", r.activeID)
	}
}

func TestLeave_ActivePlayerAdvancesTurn(t *testing.T) {
	r := newTestRoom(t, 21, "p1", "p2", "p3")
	handSize := len(r.players["p1"].Hand)

	res, err := r.Leave("p1")
	if err != nil {
		t.Fatalf("Leave failed: %v", err)
	}
	if r.activeID != "p2" {
		t.Errorf("Turn should pass to p2 after the active player leaves, got %q", r.activeID)
	}
	if len(r.discard) != handSize {
		t.Errorf("The leaver's hand should move to the discard pile, got %d cards", len(r.discard))
	}
	if !hasEvent(res.Events, EventPlayerLeft) || !hasEvent(res.Events, EventTurnChanged) {
		t.Error("Leave should broadcast the departure and turn change")
	}
}

func TestLeave_MidOrderActiveLeaverPassesToSuccessor(t *testing.T) {
	r := newTestRoom(t, 24, "p1", "p2", "p3")
	r.expireTurn(r.turnSeq) // p1 -> p2

	if _, err := r.Leave("p2"); err != nil {
		t.Fatalf("Leave failed: %v", err)
	}
	if r.activeID != "p3" {
		t.Errorf("Turn should pass to the leaver's successor p3, got %q", r.activeID)
	}
}

func TestLeave_LastInOrderActiveLeaverWraps(t *testing.T) {
	r := newTestRoom(t, 25, "p1", "p2", "p3")
	r.expireTurn(r.turnSeq) // p1 -> p2
	r.expireTurn(r.turnSeq) // p2 -> p3

	if _, err := r.Leave("p3"); err != nil {
		t.Fatalf("Leave failed: %v", err)
	}
	if r.activeID != "p1" {
		t.Errorf("Turn should wrap to p1 after the last-seated player left, got %q", r.activeID)
	}
}

func TestRestart_NewRoundPreservesScores(t *testing.T) {
	r := newTestRoom(t, 22, "p1", "p2", "p3")
	forceGold(r, 3)
	pave(r, 3, 1, board.GoalCol-2)
	winID := giveCard(r, "p1", "path_ew")
	if _, err := r.PlaceCard("p1", winID, board.TileID(3, board.GoalCol-1), 0); err != nil {
		t.Fatalf("Winning placement failed: %v", err)
	}
	scores := map[string]int{}
	for id, p := range r.players {
		scores[id] = p.Score
	}

	res, err := r.Restart("p2")
	if err != nil {
		t.Fatalf("Restart failed: %v", err)
	}

	if r.round != 2 || r.roundEnded {
		t.Errorf("Restart should open round 2, got round=%d ended=%v", r.round, r.roundEnded)
	}
	if len(r.discard) != 0 {
		t.Error("Restart should clear the discard pile")
	}
	for id, p := range r.players {
		if p.Score != scores[id] {
			t.Errorf("Cumulative score of %s must survive restart", id)
		}
		if len(p.Hand) != HandSize || p.ToolBroken || p.Suspicion != 0 {
			t.Errorf("Transient state of %s should be reset: %+v", id, p)
		}
	}
	if r.activeID != "p1" {
		t.Errorf("Restart should hand the turn to the first connected player, got %q", r.activeID)
	}
	for _, goal := range r.board.Goals() {
		if goal.Revealed {
			t.Error("The fresh board must have hidden goals again")
		}
	}
	if !hasEvent(res.Events, EventRoomReset) {
		t.Error("Restart should broadcast a room reset")
	}
	if len(res.Private["p1"]) == 0 {
		t.Error("Restart should privately re-deal roles and hands")
	}
}

func TestManager_CreateOnFirstJoin(t *testing.T) {
	m := NewManager(time.Minute, nil, nil)
	m.SetRandFactory(func() *rand.Rand { return rand.New(rand.NewSource(1)) })

	r, _, err := m.Join("cavern", "p1", "one")
	if err != nil {
		t.Fatalf("Join failed: %v", err)
	}
	if r.Founder() != "p1" {
		t.Errorf("First joiner should be the founder, got %q", r.Founder())
	}
	if _, ok := m.Get("cavern"); !ok {
		t.Fatal("Room should exist after first join")
	}
	if m.Count() != 1 {
		t.Errorf("Expected 1 room, got %d", m.Count())
	}
}

func TestManager_DestroyWhenEmpty(t *testing.T) {
	m := NewManager(time.Minute, nil, nil)
	m.Join("cavern", "p1", "one")
	m.Join("cavern", "p2", "two")

	if _, destroyed, err := m.Leave("cavern", "p2"); err != nil || destroyed {
		t.Fatalf("Room with players left should survive, destroyed=%v err=%v", destroyed, err)
	}

	_, destroyed, err := m.Leave("cavern", "p1")
	if err != nil {
		t.Fatalf("Leave failed: %v", err)
	}
	if !destroyed {
		t.Error("Room should be destroyed when the last player leaves")
	}
	if _, ok := m.Get("cavern"); ok {
		t.Error("Destroyed room should be gone from the registry")
	}
}

func TestManager_DestroyWhenFounderLeaves(t *testing.T) {
	m := NewManager(time.Minute, nil, nil)
	m.Join("cavern", "p1", "founder")
	m.Join("cavern", "p2", "guest")

	_, destroyed, err := m.Leave("cavern", "p1")
	if err != nil {
		t.Fatalf("Leave failed: %v", err)
	}
	if !destroyed {
		t.Error("Room should be destroyed when its founder leaves")
	}
}

func TestManager_UnknownRoom(t *testing.T) {
	m := NewManager(time.Minute, nil, nil)

	if _, _, err := m.Leave("nowhere", "p1"); err != ErrRoomNotFound {
		t.Errorf("Expected ErrRoomNotFound, got %v", err)
	}
}

func TestJoin_DrawCanEndRoundBeforeJoinerActs(t *testing.T) {
	r := newTestRoom(t, 23, "p1", "p2")
	for r.deck.Remaining() > 2 {
		r.deck.Draw()
	}

	res, err := r.Join("p3", "late")
	if err != nil {
		t.Fatalf("Join failed: %v", err)
	}
	if !res.RoundEnded {
		t.Fatal("Dealing the joiner's hand drained the deck and must end the round")
	}
	if res.Settlement == nil || res.Settlement.Team != player.RoleSaboteur {
		t.Errorf("Expected a saboteur settlement, got %+v", res.Settlement)
	}
}
