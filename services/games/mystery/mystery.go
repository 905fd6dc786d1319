package mystery

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
	PhaseWaiting Phase = "waiting"
	PhaseDiscuss Phase = "discuss"
	PhaseReveal  Phase = "reveal"
)

const (
	RoleMurderer = "murderer"
	RoleCitizen  = "citizen"
)

type PlayerState struct {
	Name       string
	Role       string
	Vote       string // display name of the accused
	VoteLocked bool
}

type State struct {
	Phase      Phase
	Round      int
	MurdererID string
	Players    map[string]*PlayerState
}

type Engine struct{}

func New() *Engine { return &Engine{} }

func (e *Engine) Name() models.GameType { return models.GameTypeMystery }

func (e *Engine) Init(room *models.Room) {
	room.Status = models.StatusWaiting
	room.GameData = &State{
		Phase:   PhaseWaiting,
		Players: make(map[string]*PlayerState),
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

func (e *Engine) GetState(room *models.Room, sessionID string) games.Projection {
	st := stateOf(room)
	if st == nil {
		return games.Projection{Public: gin.H{"phase": string(PhaseWaiting)}}
	}

	voted := 0
	for _, ps := range st.Players {
		if ps.VoteLocked {
			voted++
		}
	}

	proj := games.Projection{
		Public: gin.H{
			"phase":   string(st.Phase),
			"round":   st.Round,
			"voted":   voted,
			"players": room.PlayerNames(),
		},
	}
	if ps, ok := st.Players[sessionID]; ok {
		proj.Private = gin.H{
			"role":        ps.Role,
			"vote":        ps.Vote,
			"vote_locked": ps.VoteLocked,
		}
	}
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
	case "vote":
		return e.vote(st, sessionID, payload)
	case "force-reveal":
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
			Broadcasts:  []games.Broadcast{{Event: "mystery_new_game", Payload: gin.H{"room_id": room.ID}}},
			CancelTimer: true,
		}, nil
	}
	return nil, games.ErrUnknownAction
}

func (e *Engine) startGame(room *models.Room, st *State, sessionID string) (*games.Result, error) {
	if !room.IsHost(sessionID) {
		return nil, games.ErrNotHost
	}
	if st.Phase == PhaseDiscuss {
		return nil, games.ErrInvalidPhase
	}
	if len(room.Players) < game_constants.MIN_PLAYERS_PER_ROOM+1 {
		return nil, games.Validationf("need at least %d players", game_constants.MIN_PLAYERS_PER_ROOM+1)
	}

	murdererIdx := rand.Intn(len(room.Players))
	st.Players = make(map[string]*PlayerState, len(room.Players))
	for i, p := range room.Players {
		role := RoleCitizen
		if i == murdererIdx {
			role = RoleMurderer
			st.MurdererID = p.SessionID
		}
		st.Players[p.SessionID] = &PlayerState{Name: p.Name, Role: role}
	}

	room.Status = models.StatusInProgress
	st.Round++
	st.Phase = PhaseDiscuss

	res := &games.Result{
		Ack: gin.H{"success": true, "round": st.Round},
		Broadcasts: []games.Broadcast{{
			Event: "round-started",
			Payload: gin.H{
				"room_id":         room.ID,
				"round":           st.Round,
				"timeout_seconds": int(game_constants.MYSTERY_ROUND_TIMEOUT.Seconds()),
			},
		}},
		StartTimer: game_constants.MYSTERY_ROUND_TIMEOUT,
	}
	// Roles are secret: each player learns only their own.
	for sid, ps := range st.Players {
		res.Broadcasts = append(res.Broadcasts, games.Broadcast{
			Event:   "mystery_role_assigned",
			Payload: gin.H{"role": ps.Role},
			To:      sid,
		})
	}
	log.Printf("[MYSTERY] Game started in room %s", room.ID)
	return res, nil
}

func (e *Engine) vote(st *State, sessionID string, payload map[string]interface{}) (*games.Result, error) {
	if st.Phase != PhaseDiscuss {
		return nil, games.ErrInvalidPhase
	}
	ps, ok := st.Players[sessionID]
	if !ok {
		return nil, games.Validationf("you are not part of the current game")
	}
	if ps.VoteLocked {
		return nil, games.ErrAlreadyLocked
	}

	target, ok := games.PayloadString(payload, "target")
	if !ok {
		return nil, games.Validationf("target is required")
	}
	known := false
	for _, other := range st.Players {
		if other.Name == target {
			known = true
			break
		}
	}
	if !known {
		return nil, games.Validationf("unknown player %q", target)
	}

	ps.Vote = target
	ps.VoteLocked = true

	voted := 0
	for _, other := range st.Players {
		if other.VoteLocked {
			voted++
		}
	}
	return &games.Result{
		Ack: gin.H{"success": true, "target": target},
		Broadcasts: []games.Broadcast{{
			Event:   "mystery_vote_update",
			Payload: gin.H{"voted": voted, "total": len(st.Players)},
		}},
	}, nil
}

// AdvancePhase tallies the accusations. The citizens win exactly when
// the murderer is among the most accused.
func (e *Engine) AdvancePhase(room *models.Room, trigger games.Trigger) (*games.Result, error) {
	st := stateOf(room)
	if st == nil || st.Phase != PhaseDiscuss {
		return nil, games.ErrInvalidPhase
	}

	st.Phase = PhaseReveal
	room.Status = models.StatusEnded

	votes := make(map[string]int)
	for _, ps := range st.Players {
		if ps.Vote != "" {
			votes[ps.Vote]++
		}
	}
	max := 0
	for _, c := range votes {
		if c > max {
			max = c
		}
	}

	murderer := st.Players[st.MurdererID]
	citizensWin := murderer != nil && max > 0 && votes[murderer.Name] == max

	var winners []string
	finalScores := make(map[string]int, len(st.Players))
	for _, ps := range st.Players {
		score := 0
		if citizensWin && ps.Role == RoleCitizen {
			score = 1
			winners = append(winners, ps.Name)
		}
		if !citizensWin && ps.Role == RoleMurderer {
			score = 1
			winners = append(winners, ps.Name)
		}
		finalScores[ps.Name] = score
	}
	sort.Strings(winners)

	murdererName := ""
	if murderer != nil {
		murdererName = murderer.Name
	}

	log.Printf("[MYSTERY] Reveal in room %s (trigger=%s, citizens_win=%v)", room.ID, trigger, citizensWin)
	return &games.Result{
		Ack: gin.H{"success": true, "ended": true},
		Broadcasts: []games.Broadcast{{
			Event: "game-ended",
			Payload: gin.H{
				"room_id":      room.ID,
				"murderer":     murdererName,
				"votes":        votes,
				"citizens_win": citizensWin,
				"winners":      winners,
			},
		}},
		CancelTimer: true,
		GameEnded:   true,
		Winners:     winners,
		FinalScores: finalScores,
	}, nil
}
