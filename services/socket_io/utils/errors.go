package socketio_utils

import (
	"errors"

	"github.com/zishang520/socket.io/v2/socket"

	games_service "Maru/services/games"
	rooms_service "Maru/services/rooms"
)

// messageFor translates service errors into the stable client-facing
// messages the frontends key their UI on.
func messageFor(err error) string {
	switch {
	case errors.Is(err, rooms_service.ErrRoomNotFound):
		return "Room not found"
	case errors.Is(err, rooms_service.ErrPlayerNotFound):
		return "Player not found in room"
	case errors.Is(err, rooms_service.ErrDuplicateRoomName):
		return "A room with that name already exists"
	case errors.Is(err, rooms_service.ErrRoomFull):
		return "Room is full"
	case errors.Is(err, rooms_service.ErrUnauthorized):
		return "You are not allowed to do that"
	case errors.Is(err, rooms_service.ErrGameInProgress):
		return "Game already in progress"
	case errors.Is(err, games_service.ErrNotHost):
		return "Only the host can do that"
	case errors.Is(err, games_service.ErrInvalidPhase):
		return "Action not allowed in the current phase"
	case errors.Is(err, games_service.ErrAlreadyLocked):
		return "Action already submitted this round"
	case errors.Is(err, games_service.ErrWordTaken):
		return "Word already claimed"
	case errors.Is(err, games_service.ErrPlaceFull):
		return "That place is full"
	case errors.Is(err, games_service.ErrOnCooldown):
		return "Ability is on cooldown"
	case errors.Is(err, games_service.ErrDictionary):
		return "Dictionary lookup failed, try again"
	case errors.Is(err, games_service.ErrUnknownAction):
		return "Unknown action"
	case errors.Is(err, games_service.ErrValidation), errors.Is(err, rooms_service.ErrValidation):
		return err.Error()
	default:
		return "Internal error"
	}
}

// ReplyServiceErr maps a service error and rejects the request with it.
func ReplyServiceErr(ack socket.Ack, client *socket.Socket, err error) {
	ReplyErr(ack, client, messageFor(err))
}
