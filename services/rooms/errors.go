package rooms

import "errors"

// Registry failure reasons. Handlers map these onto the ack payload sent
// back to the acting client.
var (
	ErrRoomNotFound      = errors.New("room not found")
	ErrPlayerNotFound    = errors.New("player not found in room")
	ErrDuplicateRoomName = errors.New("a room with that name already exists")
	ErrRoomFull          = errors.New("room is full")
	ErrUnauthorized      = errors.New("identity is not allowed to perform this action")
	ErrGameInProgress    = errors.New("game already in progress")
	ErrValidation        = errors.New("invalid request")
)
