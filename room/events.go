// room/events.go
package room

// EventType names a broadcast event. Values double as wire envelope types.
type EventType string

const (
	EventPlayerJoined EventType = "player_joined"
	EventPlayerLeft   EventType = "player_left"
	EventBoardUpdate  EventType = "board_update"
	EventTurnChanged  EventType = "turn_changed"
	EventToolUpdate   EventType = "tool_update"
	EventPoseUpdate   EventType = "pose_update"
	EventRoundEnded   EventType = "round_ended"
	EventRoomReset    EventType = "room_reset"
	EventTelemetry    EventType = "telemetry"
	EventHand         EventType = "hand"
	EventRole         EventType = "role"
)

// Event is one broadcast the transport owes the room after an action.
type Event struct {
	Type    EventType
	Payload interface{}
}

// ActionResult is the successful outcome of a room action: the events to
// broadcast room-wide, private events owed to individual players, and the
// round outcome if this action resolved it.
type ActionResult struct {
	Events     []Event
	Private    map[string][]Event // playerID -> events for that player only
	RoundEnded bool
	Settlement *Settlement
}

func (res *ActionResult) addPrivate(playerID string, ev Event) {
	if res.Private == nil {
		res.Private = make(map[string][]Event)
	}
	res.Private[playerID] = append(res.Private[playerID], ev)
}

// EventSink receives events produced outside a direct action call, i.e. by
// the turn-expiry timer.
type EventSink interface {
	Publish(roomCode string, events []Event)
}
