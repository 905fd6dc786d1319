package animal

import (
	game_constants "Maru/constants/game"
	models "Maru/models/rooms"
	"Maru/services/games"
	"log"
	"math/rand"
	"sort"

	"github.com/gin-gonic/gin"
)

type Phase string

const (
	PhaseReady   Phase = "ready"
	PhaseRunning Phase = "running"
	PhaseResolve Phase = "resolve"
	PhaseResult  Phase = "result"
	PhaseEnded   Phase = "ended"
)

const (
	RoleHunter = "hunter"
	RoleAnimal = "animal"

	AbilityPeek   = "peek"
	AbilityShield = "shield"
)

var placeNames = []string{"forest", "cave", "river", "meadow"}

type Place struct {
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
}

type PlayerState struct {
	Name       string
	Role       string
	Alive      bool
	Place      string
	MoveLocked bool
	Shielded   bool
	Score      int
	// ability -> round it was last used, for cooldown checks
	AbilityUsed map[string]int
}

type State struct {
	Phase     Phase
	Round     int
	MaxRounds int
	Places    []Place
	HunterID  string
	Players   map[string]*PlayerState
}

type Engine struct{}

func New() *Engine { return &Engine{} }

func (e *Engine) Name() models.GameType { return models.GameTypeAnimal }

func (e *Engine) Init(room *models.Room) {
	room.Status = models.StatusWaiting
	room.GameData = &State{
		Phase:     PhaseReady,
		MaxRounds: game_constants.ANIMAL_MAX_ROUNDS,
		Players:   make(map[string]*PlayerState),
	}
}

func (e *Engine) Round(room *models.Room) int {
	if st := stateOf(room); st != nil {
		return st.Round
	}
	return 0
}

func stateOf(room *models.Room) *State {
	st, _ := room.GameData.(*State)
	return st
}

func (st *State) place(name string) *Place {
	for i := range st.Places {
		if st.Places[i].Name == name {
			return &st.Places[i]
		}
	}
	return nil
}

func (st *State) occupants(place string) []*PlayerState {
	var out []*PlayerState
	for _, ps := range st.Players {
		if ps.Alive && ps.Role == RoleAnimal && ps.Place == place {
			out = append(out, ps)
		}
	}
	return out
}

func (e *Engine) GetState(room *models.Room, sessionID string) games.Projection {
	st := stateOf(room)
	if st == nil {
		return games.Projection{Public: gin.H{"phase": string(PhaseReady)}}
	}

	alive := []string{}
	for _, ps := range st.Players {
		if ps.Alive {
			alive = append(alive, ps.Name)
		}
	}
	sort.Strings(alive)

	proj := games.Projection{
		Public: gin.H{
			"phase":      string(st.Phase),
			"round":      st.Round,
			"max_rounds": st.MaxRounds,
			"places":     st.Places,
			"alive":      alive,
			"players":    room.PlayerNames(),
		},
	}

	if ps, ok := st.Players[sessionID]; ok {
		proj.Private = gin.H{
			"role":        ps.Role,
			"alive":       ps.Alive,
			"place":       ps.Place,
			"move_locked": ps.MoveLocked,
			"score":       ps.Score,
			"cooldowns":   ps.AbilityUsed,
		}
	}

	occupancy := make(gin.H, len(st.Places))
	for _, p := range st.Places {
		names := []string{}
		for _, o := range st.occupants(p.Name) {
			names = append(names, o.Name)
		}
		sort.Strings(names)
		occupancy[p.Name] = names
	}
	proj.Host = gin.H{"occupancy": occupancy}
	return proj
}

func (e *Engine) Apply(room *models.Room, sessionID, action string, payload map[string]interface{}) (*games.Result, error) {
	st := stateOf(room)
	if st == nil {
		return nil, games.ErrInvalidPhase
	}

	switch action {
	case "start":
		return e.startGame(room, st, sessionID)
	case "move":
		return e.move(st, sessionID, payload)
	case "ability":
		return e.ability(st, sessionID, payload)
	case "force-end":
		if !room.IsHost(sessionID) {
			return nil, games.ErrNotHost
		}
		return e.AdvancePhase(room, games.TriggerHost)
	case "new-game":
		if !room.IsHost(sessionID) {
			return nil, games.ErrNotHost
		}
		e.Init(room)
		return &games.Result{
			Ack:         gin.H{"success": true},
			Broadcasts:  []games.Broadcast{{Event: "animal_new_game", Payload: gin.H{"room_id": room.ID}}},
			CancelTimer: true,
		}, nil
	}
	return nil, games.ErrUnknownAction
}

func (e *Engine) startGame(room *models.Room, st *State, sessionID string) (*games.Result, error) {
	if !room.IsHost(sessionID) {
		return nil, games.ErrNotHost
	}
	if st.Phase != PhaseReady {
		return nil, games.ErrInvalidPhase
	}
	if len(room.Players) < game_constants.MIN_PLAYERS_PER_ROOM+1 {
		return nil, games.Validationf("need at least %d players", game_constants.MIN_PLAYERS_PER_ROOM+1)
	}

	// One hunter, the rest are animals. Place capacities scale with the
	// herd so there is never room for everyone in one spot.
	hunterIdx := rand.Intn(len(room.Players))
	capacity := (len(room.Players)-1+2) / 3
	if capacity < 1 {
		capacity = 1
	}
	st.Places = st.Places[:0]
	for _, name := range placeNames {
		st.Places = append(st.Places, Place{Name: name, Capacity: capacity})
	}

	st.Players = make(map[string]*PlayerState, len(room.Players))
	for i, p := range room.Players {
		role := RoleAnimal
		if i == hunterIdx {
			role = RoleHunter
			st.HunterID = p.SessionID
		}
		st.Players[p.SessionID] = &PlayerState{
			Name:        p.Name,
			Role:        role,
			Alive:       true,
			AbilityUsed: make(map[string]int),
		}
	}

	room.Status = models.StatusInProgress
	st.Round = 1
	st.Phase = PhaseRunning

	res := &games.Result{
		Ack: gin.H{"success": true, "round": st.Round},
		Broadcasts: []games.Broadcast{{
			Event: "round-started",
			Payload: gin.H{
				"room_id":         room.ID,
				"round":           st.Round,
				"places":          st.Places,
				"timeout_seconds": int(game_constants.ANIMAL_ROUND_TIMEOUT.Seconds()),
			},
		}},
		StartTimer: game_constants.ANIMAL_ROUND_TIMEOUT,
	}
	for sid, ps := range st.Players {
		res.Broadcasts = append(res.Broadcasts, games.Broadcast{
			Event:   "animal_role_assigned",
			Payload: gin.H{"role": ps.Role},
			To:      sid,
		})
	}
	log.Printf("[ANIMAL] Game started in room %s (%d players)", room.ID, len(room.Players))
	return res, nil
}

// move picks a place for this round. Animals fight over limited
// capacity (first come, first served); the hunter's pick is the hunting
// ground and ignores capacity. One move per round per player.
func (e *Engine) move(st *State, sessionID string, payload map[string]interface{}) (*games.Result, error) {
	if st.Phase != PhaseRunning {
		return nil, games.ErrInvalidPhase
	}
	ps, ok := st.Players[sessionID]
	if !ok || !ps.Alive {
		return nil, games.Validationf("you are not part of the current round")
	}
	if ps.MoveLocked {
		return nil, games.ErrAlreadyLocked
	}

	placeName, ok := games.PayloadString(payload, "place")
	if !ok {
		return nil, games.Validationf("place is required")
	}
	place := st.place(placeName)
	if place == nil {
		return nil, games.Validationf("unknown place %q", placeName)
	}
	if ps.Role == RoleAnimal && len(st.occupants(placeName)) >= place.Capacity {
		return nil, games.ErrPlaceFull
	}

	ps.Place = placeName
	ps.MoveLocked = true

	moved := 0
	for _, other := range st.Players {
		if other.Alive && other.MoveLocked {
			moved++
		}
	}
	return &games.Result{
		Ack: gin.H{"success": true, "place": placeName},
		Broadcasts: []games.Broadcast{{
			Event:   "animal_move_update",
			Payload: gin.H{"moved": moved},
		}},
	}, nil
}

func (e *Engine) ability(st *State, sessionID string, payload map[string]interface{}) (*games.Result, error) {
	if st.Phase != PhaseRunning {
		return nil, games.ErrInvalidPhase
	}
	ps, ok := st.Players[sessionID]
	if !ok || !ps.Alive || ps.Role != RoleAnimal {
		return nil, games.Validationf("only living animals have abilities")
	}

	ability, ok := games.PayloadString(payload, "ability")
	if !ok {
		return nil, games.Validationf("ability is required")
	}

	var cooldown int
	switch ability {
	case AbilityPeek:
		cooldown = game_constants.ANIMAL_PEEK_COOLDOWN
	case AbilityShield:
		cooldown = game_constants.ANIMAL_SHIELD_COOLDOWN
	default:
		return nil, games.Validationf("unknown ability %q", ability)
	}
	if last, used := ps.AbilityUsed[ability]; used && st.Round-last < cooldown {
		return nil, games.ErrOnCooldown
	}

	res := &games.Result{Ack: gin.H{"success": true, "ability": ability}}
	switch ability {
	case AbilityPeek:
		placeName, ok := games.PayloadString(payload, "place")
		if !ok || st.place(placeName) == nil {
			return nil, games.Validationf("peek needs a valid place")
		}
		// Count only; identities stay hidden.
		res.Ack["occupants"] = len(st.occupants(placeName))
	case AbilityShield:
		ps.Shielded = true
	}

	ps.AbilityUsed[ability] = st.Round
	return res, nil
}

func (e *Engine) AdvancePhase(room *models.Room, trigger games.Trigger) (*games.Result, error) {
	st := stateOf(room)
	if st == nil || st.Phase != PhaseRunning {
		return nil, games.ErrInvalidPhase
	}
	st.Phase = PhaseResolve
	res := resolveRound(room, st)
	log.Printf("[ANIMAL] Round resolved in room %s (trigger=%s, phase=%s)", room.ID, trigger, st.Phase)
	return res, nil
}

// resolveRound culls the hunting ground and scores the survivors.
// Animals that never picked a place are exposed and culled as well;
// a shield saves its holder for the round it was raised.
func resolveRound(room *models.Room, st *State) *games.Result {
	hunter := st.Players[st.HunterID]
	hunted := ""
	if hunter != nil {
		hunted = hunter.Place
	}

	var culled []string
	survivors := 0
	for _, ps := range st.Players {
		if !ps.Alive || ps.Role != RoleAnimal {
			continue
		}
		exposed := ps.Place == "" || (hunted != "" && ps.Place == hunted)
		if exposed && !ps.Shielded {
			ps.Alive = false
			culled = append(culled, ps.Name)
			if hunter != nil {
				hunter.Score += 2
			}
			continue
		}
		ps.Score += game_constants.ANIMAL_SURVIVE_POINTS
		survivors++
	}
	sort.Strings(culled)

	roundResult := gin.H{
		"room_id":   room.ID,
		"round":     st.Round,
		"hunted":    hunted,
		"culled":    culled,
		"survivors": survivors,
	}

	if st.Round >= st.MaxRounds || survivors == 0 {
		return endGame(room, st, roundResult)
	}

	st.Phase = PhaseResult
	st.Round++
	for _, ps := range st.Players {
		ps.Place = ""
		ps.MoveLocked = false
		ps.Shielded = false
	}
	st.Phase = PhaseRunning
	roundResult["next_round"] = st.Round

	return &games.Result{
		Ack: gin.H{"success": true, "round": st.Round},
		Broadcasts: []games.Broadcast{
			{Event: "round-result", Payload: roundResult},
			{Event: "round-started", Payload: gin.H{
				"room_id":         room.ID,
				"round":           st.Round,
				"timeout_seconds": int(game_constants.ANIMAL_ROUND_TIMEOUT.Seconds()),
			}},
		},
		CancelTimer: true,
		StartTimer:  game_constants.ANIMAL_ROUND_TIMEOUT,
	}
}

func endGame(room *models.Room, st *State, roundResult gin.H) *games.Result {
	st.Phase = PhaseEnded
	room.Status = models.StatusEnded

	finalScores := make(map[string]int, len(st.Players))
	best := 0
	for _, ps := range st.Players {
		finalScores[ps.Name] = ps.Score
		if ps.Score > best {
			best = ps.Score
		}
	}
	var winners []string
	for _, ps := range st.Players {
		if ps.Score == best && best > 0 {
			winners = append(winners, ps.Name)
		}
	}
	sort.Strings(winners)

	return &games.Result{
		Ack: gin.H{"success": true, "ended": true},
		Broadcasts: []games.Broadcast{
			{Event: "round-result", Payload: roundResult},
			{Event: "game-ended", Payload: gin.H{
				"room_id": room.ID,
				"winners": winners,
				"scores":  finalScores,
			}},
		},
		CancelTimer: true,
		GameEnded:   true,
		Winners:     winners,
		FinalScores: finalScores,
	}
}
