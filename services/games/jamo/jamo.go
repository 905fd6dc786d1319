package jamo

import (
	game_constants "Maru/constants/game"
	models "Maru/models/rooms"
	"Maru/services/dictionary"
	"Maru/services/games"
	"log"
	"math/rand"
	"sort"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

type Phase string

const (
	PhaseWaiting Phase = "waiting"
	PhaseDiscuss Phase = "discuss"
	PhaseResult  Phase = "result"
	PhaseEnded   Phase = "ended"
)

// The fixed multiset dealt onto the board every round: the 14 basic
// consonants and 10 basic vowels, 24 jamo for 24 cells.
var boardJamo = []rune("ㄱㄴㄷㄹㅁㅂㅅㅇㅈㅊㅋㅌㅍㅎㅏㅑㅓㅕㅗㅛㅜㅠㅡㅣ")

type PlayerState struct {
	Name           string
	Cells          []int // board numbers this player can see
	Score          int   // this round
	TotalScore     int   // across rounds
	SuccessCount   int
	FirstSuccessAt time.Time // earliest accepted word this round, for ties
}

type claim struct {
	Player string // display name
	Score  int
}

type State struct {
	Phase   Phase
	Round   int
	Board   map[int]rune     // cell number (1-based) -> jamo
	Used    map[string]claim // composed word -> first claim
	Players map[string]*PlayerState
}

type Engine struct{}

func New() *Engine { return &Engine{} }

func (e *Engine) Name() models.GameType { return models.GameTypeJamo }

func (e *Engine) Init(room *models.Room) {
	room.Status = models.StatusWaiting
	room.GameData = &State{
		Phase:   PhaseWaiting,
		Board:   make(map[int]rune),
		Used:    make(map[string]claim),
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

// dealBoard shuffles the jamo multiset onto cells 1..24 and partitions
// the cell numbers round-robin among the players in join order, so each
// player sees only their own subset. Round-scoped state (cells, round
// score, tie-break timestamp) is rebuilt from scratch; the cumulative
// totals survive every re-deal and are only wiped by Init.
func dealBoard(room *models.Room, st *State) {
	letters := make([]rune, len(boardJamo))
	copy(letters, boardJamo)
	rand.Shuffle(len(letters), func(i, j int) { letters[i], letters[j] = letters[j], letters[i] })

	st.Board = make(map[int]rune, game_constants.JAMO_BOARD_SIZE)
	for i, r := range letters {
		st.Board[i+1] = r
	}

	prev := st.Players
	st.Players = make(map[string]*PlayerState, len(room.Players))
	for i, p := range room.Players {
		ps := &PlayerState{Name: p.Name}
		if old, ok := prev[p.SessionID]; ok {
			ps.TotalScore = old.TotalScore
			ps.SuccessCount = old.SuccessCount
		}
		for cell := i + 1; cell <= game_constants.JAMO_BOARD_SIZE; cell += len(room.Players) {
			ps.Cells = append(ps.Cells, cell)
		}
		st.Players[p.SessionID] = ps
	}
}

func (e *Engine) GetState(room *models.Room, sessionID string) games.Projection {
	st := stateOf(room)
	if st == nil {
		return games.Projection{Public: gin.H{"phase": string(PhaseWaiting)}}
	}

	scores := make(gin.H, len(st.Players))
	totals := make(gin.H, len(st.Players))
	successes := make(gin.H, len(st.Players))
	for _, ps := range st.Players {
		scores[ps.Name] = ps.Score
		totals[ps.Name] = ps.TotalScore
		successes[ps.Name] = ps.SuccessCount
	}

	proj := games.Projection{
		Public: gin.H{
			"phase":        string(st.Phase),
			"round":        st.Round,
			"scores":       scores,
			"total_scores": totals,
			"successes":    successes,
			"players":      room.PlayerNames(),
		},
	}
	if st.Phase == PhaseResult || st.Phase == PhaseEnded {
		proj.Public["words"] = usedWords(st)
	}

	if ps, ok := st.Players[sessionID]; ok {
		visible := make(gin.H, len(ps.Cells))
		for _, cell := range ps.Cells {
			visible[intKey(cell)] = string(st.Board[cell])
		}
		proj.Private = gin.H{
			"cells":       ps.Cells,
			"letters":     visible,
			"score":       ps.Score,
			"total_score": ps.TotalScore,
		}
	}

	fullBoard := make(gin.H, len(st.Board))
	for cell, r := range st.Board {
		fullBoard[intKey(cell)] = string(r)
	}
	proj.Host = gin.H{"board": fullBoard}
	return proj
}

func (e *Engine) Apply(room *models.Room, sessionID, action string, payload map[string]interface{}) (*games.Result, error) {
	st := stateOf(room)
	if st == nil {
		return nil, games.ErrInvalidPhase
	}

	switch action {
	case "start_round":
		return e.startRound(room, st, sessionID)
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
			Broadcasts:  []games.Broadcast{{Event: "jamo_new_game", Payload: gin.H{"room_id": room.ID}}},
			CancelTimer: true,
		}, nil
	}
	return nil, games.ErrUnknownAction
}

func (e *Engine) startRound(room *models.Room, st *State, sessionID string) (*games.Result, error) {
	if !room.IsHost(sessionID) {
		return nil, games.ErrNotHost
	}
	if st.Phase == PhaseDiscuss || st.Phase == PhaseEnded {
		return nil, games.ErrInvalidPhase
	}
	if len(room.Players) < game_constants.MIN_PLAYERS_PER_ROOM {
		return nil, games.Validationf("need at least %d players", game_constants.MIN_PLAYERS_PER_ROOM)
	}

	dealBoard(room, st)
	room.Status = models.StatusInProgress
	st.Round++
	st.Phase = PhaseDiscuss
	st.Used = make(map[string]claim)

	res := &games.Result{
		Ack: gin.H{"success": true, "round": st.Round},
		Broadcasts: []games.Broadcast{{
			Event: "round-started",
			Payload: gin.H{
				"room_id":         room.ID,
				"round":           st.Round,
				"timeout_seconds": int(game_constants.JAMO_ROUND_TIMEOUT.Seconds()),
			},
		}},
		StartTimer: game_constants.JAMO_ROUND_TIMEOUT,
	}
	// Each player privately receives their visible slice of the board.
	for sid, ps := range st.Players {
		visible := make(gin.H, len(ps.Cells))
		for _, cell := range ps.Cells {
			visible[intKey(cell)] = string(st.Board[cell])
		}
		res.Broadcasts = append(res.Broadcasts, games.Broadcast{
			Event:   "jamo_cells_assigned",
			Payload: gin.H{"round": st.Round, "cells": ps.Cells, "letters": visible},
			To:      sid,
		})
	}
	log.Printf("[JAMO] Round %d started in room %s", st.Round, room.ID)
	return res, nil
}

// PrepareSubmission validates everything that can be checked without the
// dictionary and returns the composed word plus the round it was read
// from. The caller performs the external lookup without holding the room
// lock, then calls CommitSubmission, which re-validates.
func (e *Engine) PrepareSubmission(room *models.Room, sessionID string, numbers []int) (word string, round int, err error) {
	st := stateOf(room)
	if st == nil || st.Phase != PhaseDiscuss {
		return "", 0, games.ErrInvalidPhase
	}
	if _, ok := st.Players[sessionID]; !ok {
		return "", 0, games.Validationf("you are not part of the current round")
	}
	if len(numbers) == 0 {
		return "", 0, games.Validationf("cell numbers are required")
	}

	seen := make(map[int]bool, len(numbers))
	jamoSeq := make([]rune, 0, len(numbers))
	for _, n := range numbers {
		r, ok := st.Board[n]
		if !ok {
			return "", 0, games.Validationf("cell %d is not on the board", n)
		}
		if seen[n] {
			return "", 0, games.Validationf("cell %d used twice", n)
		}
		seen[n] = true
		jamoSeq = append(jamoSeq, r)
	}

	word, err = composeWord(jamoSeq)
	if err != nil {
		return "", 0, err
	}
	if _, taken := st.Used[word]; taken {
		return "", 0, games.ErrWordTaken
	}
	return word, st.Round, nil
}

// CommitSubmission applies an accepted word. Because the dictionary
// lookup ran outside the lock, every precondition is re-checked here:
// the round may have ended, or another player may have claimed the word
// while the lookup was in flight. First submitter wins.
func (e *Engine) CommitSubmission(room *models.Room, sessionID, word string, round int, numbers []int) (int, error) {
	st := stateOf(room)
	if st == nil || st.Phase != PhaseDiscuss || st.Round != round {
		return 0, games.ErrInvalidPhase
	}
	ps, ok := st.Players[sessionID]
	if !ok {
		return 0, games.Validationf("you are not part of the current round")
	}
	if _, taken := st.Used[word]; taken {
		return 0, games.ErrWordTaken
	}

	score := 0
	for _, n := range numbers {
		score += n
	}

	st.Used[word] = claim{Player: ps.Name, Score: score}
	ps.Score += score
	ps.TotalScore += score
	ps.SuccessCount++
	if ps.FirstSuccessAt.IsZero() {
		ps.FirstSuccessAt = time.Now()
	}

	log.Printf("[JAMO] %s claimed %q for %d points in room %s", ps.Name, word, score, room.ID)
	return score, nil
}

func (e *Engine) AdvancePhase(room *models.Room, trigger games.Trigger) (*games.Result, error) {
	st := stateOf(room)
	if st == nil || st.Phase != PhaseDiscuss {
		return nil, games.ErrInvalidPhase
	}

	winner, winnerScore := roundWinner(st)
	scores := make(map[string]int, len(st.Players))
	for _, ps := range st.Players {
		scores[ps.Name] = ps.Score
	}

	log.Printf("[JAMO] Round %d ended in room %s (trigger=%s, winner=%s)", st.Round, room.ID, trigger, winner)
	res := &games.Result{
		Ack: gin.H{"success": true},
		Broadcasts: []games.Broadcast{{
			Event: "round-ended",
			Payload: gin.H{
				"room_id":      room.ID,
				"round":        st.Round,
				"winner":       winner,
				"winner_score": winnerScore,
				"scores":       scores,
				"words":        usedWords(st),
			},
		}},
		CancelTimer: true,
	}

	if st.Round < game_constants.JAMO_MAX_ROUNDS {
		st.Phase = PhaseResult
		return res, nil
	}

	// Last round: the game is decided on cumulative score.
	st.Phase = PhaseEnded
	room.Status = models.StatusEnded

	totals := make(map[string]int, len(st.Players))
	for _, ps := range st.Players {
		totals[ps.Name] = ps.TotalScore
	}
	winners, topScore := gameWinners(st)

	res.Broadcasts = append(res.Broadcasts, games.Broadcast{
		Event: "game-ended",
		Payload: gin.H{
			"room_id":      room.ID,
			"winners":      winners,
			"top_score":    topScore,
			"final_scores": totals,
		},
	})
	res.GameEnded = true
	res.Winners = winners
	res.FinalScores = totals
	log.Printf("[JAMO] Game ended in room %s (winners=%v)", room.ID, winners)
	return res, nil
}

// gameWinners returns every player tied on the highest cumulative score.
// Nobody wins a game in which no word was ever accepted.
func gameWinners(st *State) ([]string, int) {
	top := 0
	for _, ps := range st.Players {
		if ps.TotalScore > top {
			top = ps.TotalScore
		}
	}
	if top == 0 {
		return nil, 0
	}
	var winners []string
	for _, ps := range st.Players {
		if ps.TotalScore == top {
			winners = append(winners, ps.Name)
		}
	}
	sort.Strings(winners)
	return winners, top
}

// roundWinner picks the highest round score; ties go to the earliest
// successful submission.
func roundWinner(st *State) (string, int) {
	var best *PlayerState
	for _, ps := range st.Players {
		if ps.Score == 0 {
			continue
		}
		if best == nil || ps.Score > best.Score ||
			(ps.Score == best.Score && ps.FirstSuccessAt.Before(best.FirstSuccessAt)) {
			best = ps
		}
	}
	if best == nil {
		return "", 0
	}
	return best.Name, best.Score
}

// composeWord turns the referenced jamo into syllable blocks and applies
// the minimum length rule before any external lookup is attempted.
func composeWord(seq []rune) (string, error) {
	word, err := dictionary.Compose(seq)
	if err != nil {
		return "", games.Validationf("those letters do not form syllables")
	}
	if dictionary.SyllableCount(word) < game_constants.JAMO_MIN_SYLLABLES {
		return "", games.Validationf("word must have at least %d syllables", game_constants.JAMO_MIN_SYLLABLES)
	}
	return word, nil
}

func intKey(n int) string { return strconv.Itoa(n) }

func usedWords(st *State) []gin.H {
	words := make([]gin.H, 0, len(st.Used))
	for word, c := range st.Used {
		words = append(words, gin.H{"word": word, "player": c.Player, "score": c.Score})
	}
	sort.Slice(words, func(i, j int) bool { return words[i]["word"].(string) < words[j]["word"].(string) })
	return words
}
