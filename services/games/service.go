package games

import (
	models "Maru/models/rooms"
	"Maru/services/rooms"
	"Maru/services/timer"
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// Dispatcher is the outbound half of the realtime layer: room-wide and
// single-connection pushes. Implemented by the socket server.
type Dispatcher interface {
	ToRoom(roomID, event string, payload gin.H)
	ToPlayer(sessionID, event string, payload gin.H) bool
}

// Recorder persists finished games (and is allowed to fail without
// affecting the room).
type Recorder interface {
	RecordGameEnd(roomName, gameType string, winners []string, finalScores map[string]int)
}

/*
 * 'Service' coordinates the per-game engines with the room registry, the
 * round timers and the broadcast dispatcher. All engine calls happen
 * under the target room's lock, so no two actions on the same room can
 * interleave mid-mutation; actions on different rooms proceed freely.
 */
type Service struct {
	registry *rooms.Registry
	timers   *timer.Manager
	sio      Dispatcher
	recorder Recorder
	engines  map[models.GameType]Engine
}

func NewService(registry *rooms.Registry, timers *timer.Manager, sio Dispatcher, recorder Recorder) *Service {
	return &Service{
		registry: registry,
		timers:   timers,
		sio:      sio,
		recorder: recorder,
		engines:  make(map[models.GameType]Engine),
	}
}

// Register installs the concrete state machine for one game type.
func (s *Service) Register(engine Engine) {
	s.engines[engine.Name()] = engine
}

func (s *Service) Engine(gameType models.GameType) (Engine, bool) {
	eng, ok := s.engines[gameType]
	return eng, ok
}

// InitGame creates fresh game data for a newly created room.
func (s *Service) InitGame(room *models.Room) {
	eng, ok := s.engines[room.GameType]
	if !ok {
		log.Printf("[GAME-ERROR] No engine registered for game type %s", room.GameType)
		return
	}
	room.Lock()
	eng.Init(room)
	room.Unlock()
}

// GetState returns the caller-scoped projection as ack fields.
func (s *Service) GetState(roomID, sessionID string) (gin.H, error) {
	room, err := s.registry.Get(roomID)
	if err != nil {
		return nil, err
	}
	eng, ok := s.engines[room.GameType]
	if !ok {
		return nil, rooms.ErrRoomNotFound
	}

	room.Lock()
	defer room.Unlock()

	if !room.IsMember(sessionID) {
		return nil, rooms.ErrPlayerNotFound
	}

	proj := eng.GetState(room, sessionID)
	ack := gin.H{"game_state": proj.Public}
	if proj.Private != nil {
		ack["private_state"] = proj.Private
	}
	if proj.Host != nil && room.IsHost(sessionID) {
		ack["host_state"] = proj.Host
	}
	return ack, nil
}

// Apply runs one player/host action through the room's engine. On
// success the engine's broadcasts are emitted in order (while the room
// lock is still held, so pushes for one room never interleave) and the
// ack fields are returned; on failure nothing is mutated or emitted.
func (s *Service) Apply(roomID, sessionID, action string, payload map[string]interface{}) (gin.H, error) {
	room, err := s.registry.Get(roomID)
	if err != nil {
		return nil, err
	}
	eng, ok := s.engines[room.GameType]
	if !ok {
		return nil, rooms.ErrRoomNotFound
	}

	room.Lock()
	if !room.IsMember(sessionID) {
		room.Unlock()
		return nil, rooms.ErrPlayerNotFound
	}

	res, err := eng.Apply(room, sessionID, action, payload)
	if err != nil {
		room.Unlock()
		return nil, err
	}

	s.emit(room.ID, res)
	round := eng.Round(room)
	room.Unlock()

	s.applyDirectives(room, res, round)
	return res.Ack, nil
}

// HandleTimeout is the timer expiry entry point. A transition is only
// applied when the room still exists and its round matches the one the
// countdown was started for; anything else is a stale timeout and is
// logged and abandoned, never retried.
func (s *Service) HandleTimeout(roomID string, expectedRound int) {
	room, err := s.registry.Get(roomID)
	if err != nil {
		log.Printf("[TIMER-WARN] Room %s disappeared before its timeout fired, abandoning", roomID)
		return
	}
	eng, ok := s.engines[room.GameType]
	if !ok {
		return
	}

	room.Lock()
	if eng.Round(room) != expectedRound {
		log.Printf("[TIMER-WARN] Stale timeout for room %s - current round %d, expected %d. Ignoring.",
			roomID, eng.Round(room), expectedRound)
		room.Unlock()
		return
	}

	res, err := eng.AdvancePhase(room, TriggerTimeout)
	if err != nil {
		log.Printf("[TIMER-WARN] Timeout transition rejected for room %s: %v", roomID, err)
		room.Unlock()
		return
	}

	s.emit(room.ID, res)
	round := eng.Round(room)
	room.Unlock()

	s.applyDirectives(room, res, round)
}

// OnRoomClosed stops any countdown still pending for a closed room.
func (s *Service) OnRoomClosed(roomID string) {
	s.timers.Cancel(roomID)
}

func (s *Service) emit(roomID string, res *Result) {
	for _, b := range res.Broadcasts {
		if b.To == "" {
			s.sio.ToRoom(roomID, b.Event, b.Payload)
		} else {
			s.sio.ToPlayer(b.To, b.Event, b.Payload)
		}
	}
}

func (s *Service) applyDirectives(room *models.Room, res *Result, round int) {
	if res.CancelTimer {
		s.timers.Cancel(room.ID)
	}
	if res.StartTimer > 0 {
		roomID := room.ID
		s.timers.Start(roomID, res.StartTimer,
			func(remaining int) {
				s.sio.ToRoom(roomID, "round-tick", gin.H{"room_id": roomID, "remaining": remaining})
			},
			func() { s.HandleTimeout(roomID, round) })
	}
	if res.GameEnded && s.recorder != nil {
		s.recorder.RecordGameEnd(room.Name, string(room.GameType), res.Winners, res.FinalScores)
	}
}

// WithRoom runs fn under the room lock. Used by handlers that need a
// multi-step flow (an external lookup between validation and commit).
func (s *Service) WithRoom(roomID string, fn func(room *models.Room, eng Engine) error) error {
	room, err := s.registry.Get(roomID)
	if err != nil {
		return err
	}
	eng, ok := s.engines[room.GameType]
	if !ok {
		return rooms.ErrRoomNotFound
	}
	room.Lock()
	defer room.Unlock()
	return fn(room, eng)
}

// Deadline exposes the room's pending countdown deadline for snapshots.
func (s *Service) Deadline(roomID string) time.Time {
	return s.timers.Deadline(roomID)
}
