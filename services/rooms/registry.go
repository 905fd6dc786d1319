package rooms

import (
	game_constants "Maru/constants/game"
	models "Maru/models/rooms"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

/*
 * 'Registry' owns the in-memory table of active rooms. It is created once
 * in main and passed down explicitly; there is no package-level singleton.
 * The registry lock guards the maps (and the room-name uniqueness
 * check-then-insert section); each room's own lock guards its membership
 * and game data.
 */
type Registry struct {
	mu     sync.RWMutex
	rooms  map[string]*models.Room // roomID -> room
	byName map[string]string       // roomName -> roomID

	// Session ids allowed to create rooms. Empty means creation is open
	// to any authenticated identity.
	allowlist map[string]bool
}

func NewRegistry(allowlist []string) *Registry {
	reg := &Registry{
		rooms:     make(map[string]*models.Room),
		byName:    make(map[string]string),
		allowlist: make(map[string]bool),
	}
	for _, id := range allowlist {
		if id = strings.TrimSpace(id); id != "" {
			reg.allowlist[id] = true
		}
	}
	return reg
}

// RoomSummary is the public lobby projection of a room.
type RoomSummary struct {
	RoomID      string `json:"room_id"`
	RoomName    string `json:"room_name"`
	GameType    string `json:"game_type"`
	HostName    string `json:"host_name"`
	PlayerCount int    `json:"player_count"`
	MaxPlayers  int    `json:"max_players"`
	Status      string `json:"status"`
}

// CreateRoom validates the request, enforces the creator allowlist and
// the room-name uniqueness invariant, and inserts the new room with the
// host as its only member. The duplicate-name check and the insert happen
// under one lock section so concurrent creations cannot race.
func (reg *Registry) CreateRoom(roomName, hostID, hostName, gameType string, maxPlayers int) (*models.Room, error) {
	if strings.TrimSpace(roomName) == "" || strings.TrimSpace(hostName) == "" {
		return nil, fmt.Errorf("%w: room name and user name are required", ErrValidation)
	}
	if !models.ValidGameType(gameType) {
		return nil, fmt.Errorf("%w: unknown game type %q", ErrValidation, gameType)
	}
	if maxPlayers < game_constants.MIN_PLAYERS_PER_ROOM || maxPlayers > game_constants.MAX_PLAYERS_PER_ROOM {
		return nil, fmt.Errorf("%w: max players must be between %d and %d",
			ErrValidation, game_constants.MIN_PLAYERS_PER_ROOM, game_constants.MAX_PLAYERS_PER_ROOM)
	}
	if len(reg.allowlist) > 0 && !reg.allowlist[hostID] {
		return nil, ErrUnauthorized
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()

	if _, taken := reg.byName[roomName]; taken {
		return nil, ErrDuplicateRoomName
	}

	room := &models.Room{
		ID:         uuid.NewString(),
		Name:       roomName,
		GameType:   models.GameType(gameType),
		HostID:     hostID,
		HostName:   hostName,
		MaxPlayers: maxPlayers,
		Status:     models.StatusWaiting,
		CreatedAt:  time.Now(),
		Players: []*models.Player{{
			SessionID: hostID,
			Name:      hostName,
			JoinedAt:  time.Now(),
		}},
	}

	reg.rooms[room.ID] = room
	reg.byName[roomName] = room.ID

	log.Printf("[ROOM] Created room %s (%q, %s) by %s", room.ID, roomName, gameType, hostName)
	return room, nil
}

// Get returns the room for an id.
func (reg *Registry) Get(roomID string) (*models.Room, error) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	room, ok := reg.rooms[roomID]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

// Join appends the identity to the room, or treats the call as a resume
// when the identity is already a member (reconnects land here too).
// Returns the room and whether this was a fresh join.
func (reg *Registry) Join(roomID, sessionID, displayName string) (*models.Room, bool, error) {
	room, err := reg.Get(roomID)
	if err != nil {
		return nil, false, err
	}

	room.Lock()
	defer room.Unlock()

	if _, ok := room.Player(sessionID); ok {
		// Resume, not a new join. Membership and game state are untouched.
		return room, false, nil
	}
	if room.Status != models.StatusWaiting {
		return nil, false, ErrGameInProgress
	}
	if len(room.Players) >= room.MaxPlayers {
		return nil, false, ErrRoomFull
	}

	room.Players = append(room.Players, &models.Player{
		SessionID: sessionID,
		Name:      displayName,
		JoinedAt:  time.Now(),
	})
	log.Printf("[ROOM] %s joined room %s (%d/%d)", displayName, roomID, len(room.Players), room.MaxPlayers)
	return room, true, nil
}

// Leave removes the identity from the room. If the host leaves, or the
// room becomes empty, the room is closed and removed from the registry;
// the caller is responsible for notifying remaining members before they
// are detached.
func (reg *Registry) Leave(roomID, sessionID string) (room *models.Room, closed bool, err error) {
	room, err = reg.Get(roomID)
	if err != nil {
		return nil, false, err
	}

	room.Lock()
	defer room.Unlock()

	if _, ok := room.Player(sessionID); !ok {
		return nil, false, ErrPlayerNotFound
	}

	for i, p := range room.Players {
		if p.SessionID == sessionID {
			room.Players = append(room.Players[:i], room.Players[i+1:]...)
			break
		}
	}

	if room.IsHost(sessionID) || len(room.Players) == 0 {
		reg.remove(room)
		log.Printf("[ROOM] Room %s closed (host left or empty)", roomID)
		return room, true, nil
	}

	log.Printf("[ROOM] %s left room %s (%d remaining)", sessionID, roomID, len(room.Players))
	return room, false, nil
}

func (reg *Registry) remove(room *models.Room) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	delete(reg.rooms, room.ID)
	if id, ok := reg.byName[room.Name]; ok && id == room.ID {
		delete(reg.byName, room.Name)
	}
}

// IsMember is the page-entry membership check. It fails closed: a missing
// room or unknown identity both report "not a member".
func (reg *Registry) IsMember(roomID, sessionID string) bool {
	room, err := reg.Get(roomID)
	if err != nil {
		return false
	}
	room.Lock()
	defer room.Unlock()
	return room.IsMember(sessionID)
}

// List returns the lobby projection of every active room, sorted by
// room name.
func (reg *Registry) List() []RoomSummary {
	reg.mu.RLock()
	rooms := make([]*models.Room, 0, len(reg.rooms))
	for _, room := range reg.rooms {
		rooms = append(rooms, room)
	}
	reg.mu.RUnlock()

	summaries := make([]RoomSummary, 0, len(rooms))
	for _, room := range rooms {
		room.Lock()
		summaries = append(summaries, RoomSummary{
			RoomID:      room.ID,
			RoomName:    room.Name,
			GameType:    string(room.GameType),
			HostName:    room.HostName,
			PlayerCount: len(room.Players),
			MaxPlayers:  room.MaxPlayers,
			Status:      string(room.Status),
		})
		room.Unlock()
	}
	// Stable order for the lobby view; room ids are random, names are
	// unique, so sort by name.
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].RoomName < summaries[j].RoomName
	})
	return summaries
}

// Bind idempotently rebinds the volatile connection handle for a member
// (or the host). Used both at initial join and on every reconnect;
// calling it redundantly only updates the socket id.
func (reg *Registry) Bind(roomID, sessionID, socketID string) error {
	room, err := reg.Get(roomID)
	if err != nil {
		return err
	}
	room.Lock()
	defer room.Unlock()

	player, ok := room.Player(sessionID)
	if !ok {
		return ErrPlayerNotFound
	}
	player.SocketID = socketID
	return nil
}

// Unbind clears the connection handle on disconnect. Game state is not
// touched; a reconnect resumes exactly where the player left off.
func (reg *Registry) Unbind(roomID, sessionID string) {
	room, err := reg.Get(roomID)
	if err != nil {
		return
	}
	room.Lock()
	defer room.Unlock()
	if player, ok := room.Player(sessionID); ok {
		player.SocketID = ""
	}
}

// RoomsOf returns the ids of rooms the identity belongs to (at most one
// in this design, but disconnect handling sweeps defensively).
func (reg *Registry) RoomsOf(sessionID string) []string {
	reg.mu.RLock()
	rooms := make([]*models.Room, 0, len(reg.rooms))
	for _, room := range reg.rooms {
		rooms = append(rooms, room)
	}
	reg.mu.RUnlock()

	var ids []string
	for _, room := range rooms {
		room.Lock()
		if room.IsMember(sessionID) {
			ids = append(ids, room.ID)
		}
		room.Unlock()
	}
	return ids
}
