package rooms

import (
	"sync"
	"time"
)

type GameType string

const (
	GameTypeHorse   GameType = "horse"
	GameTypeJamo    GameType = "jamo"
	GameTypeAnimal  GameType = "animal"
	GameTypeMystery GameType = "mystery"
)

// ValidGameType reports whether t names a playable game. The "shuffle"
// type that older clients may still send has no server-side logic and is
// rejected here.
func ValidGameType(t string) bool {
	switch GameType(t) {
	case GameTypeHorse, GameTypeJamo, GameTypeAnimal, GameTypeMystery:
		return true
	}
	return false
}

type RoomStatus string

const (
	StatusWaiting    RoomStatus = "waiting"
	StatusInProgress RoomStatus = "in_progress"
	StatusEnded      RoomStatus = "ended"
)

// Player is the per-room record of a participant. It is keyed by the
// stable SessionID; SocketID is the volatile connection handle and is
// rebound on every reconnect. Game-specific per-player state lives inside
// the room's GameData, also keyed by SessionID, so nothing is lost when
// the connection changes.
type Player struct {
	SessionID string    `json:"session_id"`
	Name      string    `json:"name"`
	SocketID  string    `json:"-"`
	JoinedAt  time.Time `json:"joined_at"`
}

/*
 * 'Room' is a named, capacity-bounded container for one instance of one
 * game. All game mutations for a room happen under its mutex; the
 * registry only touches Players/Status under the same lock.
 */
type Room struct {
	ID         string
	Name       string
	GameType   GameType
	HostID     string
	HostName   string
	MaxPlayers int
	Status     RoomStatus
	CreatedAt  time.Time

	// Insertion order == join order.
	Players []*Player

	// Engine-owned state, one shape per game type.
	GameData interface{}

	mu sync.Mutex
}

func (r *Room) Lock()   { r.mu.Lock() }
func (r *Room) Unlock() { r.mu.Unlock() }

// Player returns the member record for a session id, if present.
// Callers must hold the room lock.
func (r *Room) Player(sessionID string) (*Player, bool) {
	for _, p := range r.Players {
		if p.SessionID == sessionID {
			return p, true
		}
	}
	return nil, false
}

func (r *Room) IsHost(sessionID string) bool {
	return r.HostID == sessionID
}

// IsMember reports whether the identity belongs to the room. The host
// always counts as a member.
func (r *Room) IsMember(sessionID string) bool {
	if r.IsHost(sessionID) {
		return true
	}
	_, ok := r.Player(sessionID)
	return ok
}

// PlayerNames returns display names in join order. Callers must hold the
// room lock.
func (r *Room) PlayerNames() []string {
	names := make([]string, 0, len(r.Players))
	for _, p := range r.Players {
		names = append(names, p.Name)
	}
	return names
}
