package handlers

import (
	"log"

	"github.com/zishang520/socket.io/v2/socket"

	games_service "Maru/services/games"
	socketio_utils "Maru/services/socket_io/utils"
)

// gameAction builds a handler that routes one socket event to one engine
// action. Validation, locking, broadcasting and the countdown directives
// all live in the game service; the handler only moves the payload and
// the ack.
func gameAction(gameService *games_service.Service, client *socket.Socket,
	sessionID, username, action string) func(args ...interface{}) {
	return func(args ...interface{}) {
		ack, rest := socketio_utils.ExtractAck(args)
		payload := socketio_utils.Payload(rest)
		roomID, _ := payload["room_id"].(string)

		ackFields, err := gameService.Apply(roomID, sessionID, action, payload)
		if err != nil {
			log.Printf("[GAME] %s rejected for %s in room %s: %v", action, username, roomID, err)
			socketio_utils.ReplyServiceErr(ack, client, err)
			return
		}
		socketio_utils.ReplyOK(ack, ackFields)
	}
}

// gameState builds the read-only state snapshot handler shared by every
// game type. The projection is already scoped to the caller (public +
// own private view, host view only for the host).
func gameState(gameService *games_service.Service, client *socket.Socket,
	sessionID string) func(args ...interface{}) {
	return func(args ...interface{}) {
		ack, rest := socketio_utils.ExtractAck(args)
		payload := socketio_utils.Payload(rest)
		roomID, _ := payload["room_id"].(string)

		ackFields, err := gameService.GetState(roomID, sessionID)
		if err != nil {
			socketio_utils.ReplyServiceErr(ack, client, err)
			return
		}
		deadline := gameService.Deadline(roomID)
		if !deadline.IsZero() {
			ackFields["round_deadline"] = deadline.UnixMilli()
		}
		socketio_utils.ReplyOK(ack, ackFields)
	}
}
