package handlers

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"

	games_service "Maru/services/games"
	rooms_service "Maru/services/rooms"
	socketio_types "Maru/services/socket_io/types"
	socketio_utils "Maru/services/socket_io/utils"
)

// broadcastRoomList pushes the lobby view to everybody connected. Sent
// after every change that affects what the lobby screen shows.
func broadcastRoomList(registry *rooms_service.Registry, sio *socketio_types.SocketServer) {
	sio.BroadcastAll("room-list", gin.H{"rooms": registry.List()})
}

// Function to handle room creation. The creator becomes the host and the
// first member, the game data is initialised immediately and the client
// is joined to the socket.io room so it receives every broadcast from
// the start.
func HandleCreateRoom(registry *rooms_service.Registry, gameService *games_service.Service,
	sio *socketio_types.SocketServer, client *socket.Socket, sessionID, username string) func(args ...interface{}) {
	return func(args ...interface{}) {
		ack, rest := socketio_utils.ExtractAck(args)
		payload := socketio_utils.Payload(rest)

		roomName, _ := payload["room_name"].(string)
		gameType, _ := payload["game_type"].(string)
		maxPlayers := 0
		if n, ok := payload["max_players"].(float64); ok {
			maxPlayers = int(n)
		}

		log.Printf("[ROOM] create-room requested - User: %s, Name: %q, Type: %s", username, roomName, gameType)

		room, err := registry.CreateRoom(roomName, sessionID, username, gameType, maxPlayers)
		if err != nil {
			log.Printf("[ROOM-ERROR] create-room rejected for %s: %v", username, err)
			socketio_utils.ReplyServiceErr(ack, client, err)
			return
		}

		registry.Bind(room.ID, sessionID, string(client.Id()))
		client.Join(socket.Room(room.ID))
		gameService.InitGame(room)

		log.Printf("[ROOM-SUCCESS] Room %q (%s) created by %s", room.Name, room.ID, username)
		broadcastRoomList(registry, sio)

		socketio_utils.ReplyOK(ack, gin.H{
			"room_id":     room.ID,
			"room_name":   room.Name,
			"game_type":   string(room.GameType),
			"max_players": room.MaxPlayers,
			"host":        room.HostName,
		})
	}
}

// Function to handle joining a room. A returning member (same session id)
// resumes silently: the socket is rebound, no membership change happens
// and nobody is notified. A fresh join announces the new roster to the
// whole room.
func HandleJoinRoom(registry *rooms_service.Registry, sio *socketio_types.SocketServer,
	client *socket.Socket, sessionID, username string) func(args ...interface{}) {
	return func(args ...interface{}) {
		ack, rest := socketio_utils.ExtractAck(args)
		payload := socketio_utils.Payload(rest)
		roomID, _ := payload["room_id"].(string)

		log.Printf("[JOIN] join-room requested - User: %s, Room: %s, Socket ID: %s", username, roomID, client.Id())

		room, freshJoin, err := registry.Join(roomID, sessionID, username)
		if err != nil {
			log.Printf("[JOIN-ERROR] %s could not join room %s: %v", username, roomID, err)
			socketio_utils.ReplyServiceErr(ack, client, err)
			return
		}

		registry.Bind(room.ID, sessionID, string(client.Id()))
		client.Join(socket.Room(room.ID))

		room.Lock()
		players := room.PlayerNames()
		host := room.HostName
		gameType := string(room.GameType)
		status := string(room.Status)
		room.Unlock()

		if freshJoin {
			log.Printf("[JOIN-SUCCESS] %s joined room %s (%d players)", username, room.ID, len(players))
			sio.ToRoom(room.ID, "room-updated", gin.H{
				"room_id": room.ID,
				"players": players,
				"host":    host,
			})
			broadcastRoomList(registry, sio)
		} else {
			log.Printf("[JOIN-RESUME] %s resumed session in room %s", username, room.ID)
		}

		socketio_utils.ReplyOK(ack, gin.H{
			"room_id":   room.ID,
			"room_name": room.Name,
			"game_type": gameType,
			"status":    status,
			"players":   players,
			"host":      host,
			"resumed":   !freshJoin,
		})
	}
}

// Function to handle leaving a room. The host leaving (or the last
// member leaving) closes the room for everyone; the closing notice is
// broadcast before teardown so every member still receives it.
func HandleLeaveRoom(registry *rooms_service.Registry, gameService *games_service.Service,
	sio *socketio_types.SocketServer, client *socket.Socket, sessionID, username string) func(args ...interface{}) {
	return func(args ...interface{}) {
		ack, rest := socketio_utils.ExtractAck(args)
		payload := socketio_utils.Payload(rest)
		roomID, _ := payload["room_id"].(string)

		log.Printf("[LEAVE] leave-room requested - User: %s, Room: %s", username, roomID)

		room, closed, err := registry.Leave(roomID, sessionID)
		if err != nil {
			socketio_utils.ReplyServiceErr(ack, client, err)
			return
		}

		if closed {
			// socket.io room membership outlives the registry entry, so
			// everyone still in it gets the notice.
			log.Printf("[LEAVE] Room %s closed (host or last player left)", room.ID)
			sio.ToRoom(room.ID, "room-closed", gin.H{
				"room_id": room.ID,
				"message": "The host has left, the room is closed",
			})
			gameService.OnRoomClosed(room.ID)
		} else {
			room.Lock()
			players := room.PlayerNames()
			host := room.HostName
			room.Unlock()
			sio.ToRoom(room.ID, "room-updated", gin.H{
				"room_id": room.ID,
				"players": players,
				"host":    host,
			})
		}

		client.Leave(socket.Room(roomID))
		broadcastRoomList(registry, sio)
		socketio_utils.ReplyOK(ack, gin.H{"room_id": roomID, "closed": closed})
	}
}

// Function to handle check-room: a lightweight existence/visibility probe
// the client uses before navigating to a room screen.
func HandleCheckRoom(registry *rooms_service.Registry, client *socket.Socket,
	sessionID string) func(args ...interface{}) {
	return func(args ...interface{}) {
		ack, rest := socketio_utils.ExtractAck(args)
		payload := socketio_utils.Payload(rest)
		roomID, _ := payload["room_id"].(string)

		room, err := registry.Get(roomID)
		if err != nil {
			socketio_utils.ReplyServiceErr(ack, client, err)
			return
		}

		room.Lock()
		defer room.Unlock()
		socketio_utils.ReplyOK(ack, gin.H{
			"room_id":      room.ID,
			"room_name":    room.Name,
			"game_type":    string(room.GameType),
			"status":       string(room.Status),
			"player_count": len(room.Players),
			"max_players":  room.MaxPlayers,
			"is_member":    room.IsMember(sessionID),
		})
	}
}

// Function to handle check-room-host: tells the caller whether they are
// the host, used by clients to show or hide host-only controls.
func HandleCheckRoomHost(registry *rooms_service.Registry, client *socket.Socket,
	sessionID string) func(args ...interface{}) {
	return func(args ...interface{}) {
		ack, rest := socketio_utils.ExtractAck(args)
		payload := socketio_utils.Payload(rest)
		roomID, _ := payload["room_id"].(string)

		room, err := registry.Get(roomID)
		if err != nil {
			socketio_utils.ReplyServiceErr(ack, client, err)
			return
		}

		room.Lock()
		isHost := room.IsHost(sessionID)
		host := room.HostName
		room.Unlock()
		socketio_utils.ReplyOK(ack, gin.H{"room_id": room.ID, "is_host": isHost, "host": host})
	}
}

// Function to handle get-room-list, the lobby screen's pull counterpart
// of the room-list broadcast.
func HandleGetRoomList(registry *rooms_service.Registry, client *socket.Socket) func(args ...interface{}) {
	return func(args ...interface{}) {
		ack, _ := socketio_utils.ExtractAck(args)
		socketio_utils.ReplyOK(ack, gin.H{"rooms": registry.List()})
	}
}
