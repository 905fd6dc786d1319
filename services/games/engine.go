package games

import (
	models "Maru/models/rooms"
	"time"

	"github.com/gin-gonic/gin"
)

// Trigger identifies what asked for a phase transition.
type Trigger string

const (
	TriggerTimeout Trigger = "timeout"
	TriggerHost    Trigger = "host"
)

// Projection is the per-caller view of a room's game state. Public goes
// to everyone, Private only to the requesting identity, Host only to the
// room host. Nil slices are simply omitted.
type Projection struct {
	Public  gin.H
	Private gin.H
	Host    gin.H
}

// Broadcast is one ordered server push produced by an action. An empty
// To targets the whole room; otherwise it names the one session id that
// should receive the payload.
type Broadcast struct {
	Event   string
	Payload gin.H
	To      string
}

// Result carries everything a successful mutation produced: the ack
// fields for the acting client, the ordered broadcasts, and timer/game
// lifecycle directives for the coordinator.
type Result struct {
	Ack        gin.H
	Broadcasts []Broadcast

	// StartTimer > 0 asks the coordinator to (re)start the room
	// countdown with that duration; CancelTimer stops a pending one.
	StartTimer  time.Duration
	CancelTimer bool

	// Set when the game reached its terminal phase.
	GameEnded   bool
	Winners     []string
	FinalScores map[string]int
}

// Engine is the per-game-type authority over a room's GameData. One
// concrete state machine exists per game type, selected at room creation;
// every method is called with the room lock held.
type Engine interface {
	Name() models.GameType

	// Init creates fresh game data for the room, wiping all per-player
	// ephemeral state. Called at room creation and on "new game".
	Init(room *models.Room)

	// Round returns the current round number, used to discard stale
	// timeout triggers.
	Round(room *models.Room) int

	// GetState projects the current state for the requesting identity.
	GetState(room *models.Room, sessionID string) Projection

	// Apply validates and applies one player/host action atomically:
	// either the full effect lands and is described by the Result, or an
	// error is returned and nothing changed.
	Apply(room *models.Room, sessionID, action string, payload map[string]interface{}) (*Result, error)

	// AdvancePhase resolves the just-finished phase and transitions the
	// state machine, on a host trigger or a timer expiry.
	AdvancePhase(room *models.Room, trigger Trigger) (*Result, error)
}
