package handlers

import (
	"log"

	"github.com/zishang520/socket.io/v2/socket"

	rooms_service "Maru/services/rooms"
	socketio_types "Maru/services/socket_io/types"
)

// Function that handles a socket disconnecting. Only the volatile
// connection state is torn down: the room membership and game state are
// left intact so the player can reconnect and resume. Leaving a room is
// always an explicit leave-room request, never a side effect of a
// network drop.
func HandleDisconnecting(registry *rooms_service.Registry, sio *socketio_types.SocketServer,
	client *socket.Socket, sessionID, username string) func(args ...interface{}) {
	return func(args ...interface{}) {
		reason := ""
		if len(args) > 0 {
			reason, _ = args[0].(string)
		}
		log.Printf("[DISCONNECT] User %s disconnecting (socket %s, reason: %s)", username, client.Id(), reason)

		for _, roomID := range registry.RoomsOf(sessionID) {
			registry.Unbind(roomID, sessionID)
		}
		sio.RemoveConnection(sessionID, client)
	}
}
