// room/errors.go
package room

import "errors"

// Action error taxonomy. All of these are recoverable and local: a failed
// validation returns one of them and leaves the room state untouched. The
// transport surfaces them to the acting player only, never room-wide.
var (
	ErrNotYourTurn        = errors.New("not your turn")
	ErrUnknownPlayer      = errors.New("unknown player")
	ErrToolBroken         = errors.New("tool broken")
	ErrCardUnavailable    = errors.New("card not in hand")
	ErrWrongCardCategory  = errors.New("wrong card category")
	ErrInvalidTarget      = errors.New("invalid target tile")
	ErrNoCleanConnection  = errors.New("no clean connection")
	ErrMissingParticipant = errors.New("missing participant")

	ErrRoomNotFound  = errors.New("room not found")
	ErrAlreadyJoined = errors.New("already joined")
)

// ErrorCode maps an action error to its stable wire code.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrNotYourTurn):
		return "not_your_turn"
	case errors.Is(err, ErrUnknownPlayer):
		return "unknown_player"
	case errors.Is(err, ErrToolBroken):
		return "tool_broken"
	case errors.Is(err, ErrCardUnavailable):
		return "card_unavailable"
	case errors.Is(err, ErrWrongCardCategory):
		return "wrong_card_category"
	case errors.Is(err, ErrInvalidTarget):
		return "invalid_target"
	case errors.Is(err, ErrNoCleanConnection):
		return "no_clean_connection"
	case errors.Is(err, ErrMissingParticipant):
		return "missing_participant"
	case errors.Is(err, ErrRoomNotFound):
		return "room_not_found"
	case errors.Is(err, ErrAlreadyJoined):
		return "already_joined"
	default:
		return "internal"
	}
}
