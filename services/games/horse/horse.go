package horse

import (
	game_constants "Maru/constants/game"
	models "Maru/models/rooms"
	"Maru/services/games"
	"log"
	"math/rand"

	"github.com/gin-gonic/gin"
)

type Phase string

const (
	PhaseWaiting  Phase = "waiting"
	PhaseRunning  Phase = "round_running"
	PhaseResolved Phase = "round_resolved"
	PhaseEnded    Phase = "game_ended"
)

// PlayerState is the horse-game extension attached to each
// player-in-room record. Created at role assignment, reset on new game.
type PlayerState struct {
	Name        string
	Horse       string
	Solo        bool
	Chips       int
	BetLocked   bool
	VoteLocked  bool
	Bets        map[string]int
	Vote        string
	VoteHistory []string
	Memo        []string
}

type State struct {
	Phase      Phase
	Round      int
	FinishLine int
	Horses     []string
	Positions  map[string]int
	Players    map[string]*PlayerState // sessionID -> state
}

type Engine struct{}

func New() *Engine { return &Engine{} }

func (e *Engine) Name() models.GameType { return models.GameTypeHorse }

func (e *Engine) Init(room *models.Room) {
	room.Status = models.StatusWaiting
	room.GameData = &State{
		Phase:      PhaseWaiting,
		Round:      0,
		FinishLine: game_constants.HORSE_FINISH_LINE,
		Positions:  make(map[string]int),
		Players:    make(map[string]*PlayerState),
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

// assignHorses pairs up the room members onto horses. Two players share
// each horse; with an odd member count the leftover player rides alone
// and becomes the solo player, who is paid on the alternate schedule.
func assignHorses(room *models.Room, st *State) {
	order := make([]*models.Player, len(room.Players))
	copy(order, room.Players)
	rand.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

	horseCount := (len(order) + 1) / 2
	st.Horses = st.Horses[:0]
	st.Positions = make(map[string]int)
	for i := 0; i < horseCount; i++ {
		name := string(rune('A' + i))
		st.Horses = append(st.Horses, name)
		st.Positions[name] = 0
	}

	st.Players = make(map[string]*PlayerState)
	for i, p := range order {
		horse := st.Horses[i/2]
		st.Players[p.SessionID] = &PlayerState{
			Name:  p.Name,
			Horse: horse,
			Solo:  len(order)%2 == 1 && i == len(order)-1,
			Chips: game_constants.HORSE_STARTING_CHIPS,
			Bets:  make(map[string]int),
		}
	}
}

func (e *Engine) GetState(room *models.Room, sessionID string) games.Projection {
	st := stateOf(room)
	if st == nil {
		return games.Projection{Public: gin.H{"phase": string(PhaseWaiting)}}
	}

	betsLocked, votesLocked := 0, 0
	hostView := make([]gin.H, 0, len(st.Players))
	for _, ps := range st.Players {
		if ps.BetLocked {
			betsLocked++
		}
		if ps.VoteLocked {
			votesLocked++
		}
		hostView = append(hostView, gin.H{
			"name":        ps.Name,
			"bet_locked":  ps.BetLocked,
			"vote_locked": ps.VoteLocked,
		})
	}

	proj := games.Projection{
		Public: gin.H{
			"phase":        string(st.Phase),
			"round":        st.Round,
			"finish_line":  st.FinishLine,
			"horses":       st.Horses,
			"positions":    st.Positions,
			"bets_locked":  betsLocked,
			"votes_locked": votesLocked,
			"players":      room.PlayerNames(),
		},
		Host: gin.H{"players": hostView},
	}

	if ps, ok := st.Players[sessionID]; ok {
		proj.Private = gin.H{
			"horse":        ps.Horse,
			"solo":         ps.Solo,
			"chips":        ps.Chips,
			"bet_locked":   ps.BetLocked,
			"vote_locked":  ps.VoteLocked,
			"bets":         ps.Bets,
			"vote":         ps.Vote,
			"vote_history": ps.VoteHistory,
			"memo":         ps.Memo,
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
	case "start-round":
		return e.startGame(room, st, sessionID)
	case "bet":
		return e.bet(st, sessionID, payload)
	case "vote":
		return e.vote(st, sessionID, payload)
	case "memo":
		return e.memo(st, sessionID, payload)
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
			Broadcasts:  []games.Broadcast{{Event: "horse-new-game", Payload: gin.H{"room_id": room.ID}}},
			CancelTimer: true,
		}, nil
	}
	return nil, games.ErrUnknownAction
}

func (e *Engine) startGame(room *models.Room, st *State, sessionID string) (*games.Result, error) {
	if !room.IsHost(sessionID) {
		return nil, games.ErrNotHost
	}
	if st.Phase != PhaseWaiting {
		return nil, games.ErrInvalidPhase
	}
	if len(room.Players) < game_constants.MIN_PLAYERS_PER_ROOM {
		return nil, games.Validationf("need at least %d players", game_constants.MIN_PLAYERS_PER_ROOM)
	}

	assignHorses(room, st)
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
				"horses":          st.Horses,
				"timeout_seconds": int(game_constants.HORSE_ROUND_TIMEOUT.Seconds()),
			},
		}},
		StartTimer: game_constants.HORSE_ROUND_TIMEOUT,
	}
	// Everyone learns their horse privately; pairings stay secret.
	for sid, ps := range st.Players {
		res.Broadcasts = append(res.Broadcasts, games.Broadcast{
			Event:   "horse-assigned",
			Payload: gin.H{"horse": ps.Horse, "solo": ps.Solo, "chips": ps.Chips},
			To:      sid,
		})
	}
	log.Printf("[HORSE] Game started in room %s with %d horses", room.ID, len(st.Horses))
	return res, nil
}

// bet accepts a player's bet-set for the running round. The lock flag is
// set in the same critical section as the accepted bet, so a duplicated
// or retried request finds BetLocked already true and is rejected rather
// than double-applied.
func (e *Engine) bet(st *State, sessionID string, payload map[string]interface{}) (*games.Result, error) {
	if st.Phase != PhaseRunning {
		return nil, games.ErrInvalidPhase
	}
	ps, ok := st.Players[sessionID]
	if !ok {
		return nil, games.Validationf("you are not part of the current game")
	}
	if ps.BetLocked {
		return nil, games.ErrAlreadyLocked
	}

	bets, ok := games.PayloadIntMap(payload, "bets")
	if !ok || len(bets) == 0 {
		return nil, games.Validationf("bet-set is required")
	}
	total := 0
	for horse, amount := range bets {
		if _, known := st.Positions[horse]; !known {
			return nil, games.Validationf("unknown horse %q", horse)
		}
		if amount <= 0 {
			return nil, games.Validationf("bet amounts must be positive")
		}
		total += amount
	}
	if total > ps.Chips {
		return nil, games.Validationf("bet of %d exceeds remaining chips (%d)", total, ps.Chips)
	}

	ps.Bets = bets
	ps.Chips -= total
	ps.BetLocked = true

	return &games.Result{
		Ack: gin.H{"success": true, "chips": ps.Chips},
		Broadcasts: []games.Broadcast{{
			Event:   "horse-lock-update",
			Payload: gin.H{"bets_locked": countLocked(st, func(p *PlayerState) bool { return p.BetLocked })},
		}},
	}, nil
}

func (e *Engine) vote(st *State, sessionID string, payload map[string]interface{}) (*games.Result, error) {
	if st.Phase != PhaseRunning {
		return nil, games.ErrInvalidPhase
	}
	ps, ok := st.Players[sessionID]
	if !ok {
		return nil, games.Validationf("you are not part of the current game")
	}
	if ps.VoteLocked {
		return nil, games.ErrAlreadyLocked
	}

	horse, ok := games.PayloadString(payload, "horse")
	if !ok {
		return nil, games.Validationf("horse is required")
	}
	if _, known := st.Positions[horse]; !known {
		return nil, games.Validationf("unknown horse %q", horse)
	}

	ps.Vote = horse
	ps.VoteHistory = append(ps.VoteHistory, horse)
	ps.VoteLocked = true

	return &games.Result{
		Ack: gin.H{"success": true, "vote": horse},
		Broadcasts: []games.Broadcast{{
			Event:   "horse-lock-update",
			Payload: gin.H{"votes_locked": countLocked(st, func(p *PlayerState) bool { return p.VoteLocked })},
		}},
	}, nil
}

// memo replaces the player's private note sheet. Allowed in any phase;
// never broadcast.
func (e *Engine) memo(st *State, sessionID string, payload map[string]interface{}) (*games.Result, error) {
	ps, ok := st.Players[sessionID]
	if !ok {
		return nil, games.Validationf("you are not part of the current game")
	}
	memo, ok := games.PayloadStringSlice(payload, "memo")
	if !ok {
		return nil, games.Validationf("memo must be a list of strings")
	}
	ps.Memo = memo
	return &games.Result{Ack: gin.H{"success": true}}, nil
}

func countLocked(st *State, locked func(*PlayerState) bool) int {
	n := 0
	for _, ps := range st.Players {
		if locked(ps) {
			n++
		}
	}
	return n
}

func (e *Engine) AdvancePhase(room *models.Room, trigger games.Trigger) (*games.Result, error) {
	st := stateOf(room)
	if st == nil || st.Phase != PhaseRunning {
		return nil, games.ErrInvalidPhase
	}
	res := resolveRound(room, st)
	log.Printf("[HORSE] Round resolved in room %s (trigger=%s, phase=%s)", room.ID, trigger, st.Phase)
	return res, nil
}
