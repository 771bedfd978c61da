package network

// Client intent envelope types.
const (
	TypeJoin       = "join"
	TypePlaceCard  = "place_card"
	TypeRockfall   = "rockfall"
	TypeToolEffect = "tool_effect"
	TypeRestart    = "restart"
	TypePose       = "pose"
)

// Server envelope types not covered by broadcast events.
const (
	TypeJoined     = "joined"
	TypeError      = "error"
	TypeRoomClosed = "room_closed"
)

// JoinRequest 加入房间
type JoinRequest struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// PlaceCardRequest 打出通道牌
type PlaceCardRequest struct {
	CardID   string `json:"card_id"`
	TileID   string `json:"tile_id"`
	Rotation int    `json:"rotation"`
}

// RockfallRequest 打出塌方牌
type RockfallRequest struct {
	CardID string `json:"card_id"`
	TileID string `json:"tile_id"`
}

// ToolEffectRequest 打出破坏/修理牌
type ToolEffectRequest struct {
	CardID   string `json:"card_id"`
	TargetID string `json:"target_id"`
}

// ErrorReply is sent to the acting player only; action failures are never
// broadcast room-wide.
type ErrorReply struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
