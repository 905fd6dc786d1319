package socketio_types

import (
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
)

// SocketServer is a struct that contains the socket.io server and a map of
// socket connections. It is used to handle socket.io connections and is
// the broadcast dispatcher: room-wide pushes go through socket.io rooms,
// private pushes through the per-session connection map.
type SocketServer struct {
	Sio_server *socket.Server
	// Map to track sessionID -> socket connection. Rebound on reconnect.
	UserConnections map[string]*socket.Socket
	mutex           sync.RWMutex
}

func NewSocketServer() *SocketServer {
	return &SocketServer{
		UserConnections: make(map[string]*socket.Socket),
	}
}

// Add methods to manage connections
func (s *SocketServer) AddConnection(sessionID string, client *socket.Socket) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.UserConnections[sessionID] = client
}

// RemoveConnection drops the binding only when it still points at the
// given socket; a reconnect may already have rebound the session to a
// newer connection.
func (s *SocketServer) RemoveConnection(sessionID string, client *socket.Socket) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if current, exists := s.UserConnections[sessionID]; exists && (client == nil || current == client) {
		delete(s.UserConnections, sessionID)
	}
}

func (s *SocketServer) GetConnection(sessionID string) (*socket.Socket, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	client, exists := s.UserConnections[sessionID]
	return client, exists
}

// ToRoom emits an identical payload to every connection joined to the
// socket.io room for roomID.
func (s *SocketServer) ToRoom(roomID, event string, payload gin.H) {
	s.Sio_server.To(socket.Room(roomID)).Emit(event, payload)
}

// ToPlayer emits to exactly the one connection currently bound to the
// session id, so private state is never leaked to other members.
func (s *SocketServer) ToPlayer(sessionID, event string, payload gin.H) bool {
	client, exists := s.GetConnection(sessionID)
	if !exists {
		return false
	}
	client.Emit(event, payload)
	return true
}

// BroadcastAll pushes to every connected client (the lobby room list).
func (s *SocketServer) BroadcastAll(event string, payload gin.H) {
	s.Sio_server.Emit(event, payload)
}
