package horse

import (
	game_constants "Maru/constants/game"
	models "Maru/models/rooms"
	"Maru/services/games"
	"sort"

	"github.com/gin-gonic/gin"
)

// resolveRound computes the end-of-round effects exactly once: bet tally
// and horse advancement, vote bonuses, then the finish-line check. When
// no horse has reached the line the race loops straight into the next
// running window with fresh locks.
func resolveRound(room *models.Room, st *State) *games.Result {
	totals := make(map[string]int, len(st.Horses))
	voteCounts := make(map[string]int, len(st.Horses))
	for _, h := range st.Horses {
		totals[h] = 0
	}
	for _, ps := range st.Players {
		for h, amount := range ps.Bets {
			totals[h] += amount
		}
		if ps.Vote != "" {
			voteCounts[ps.Vote]++
		}
	}

	advances := advancement(st.Horses, totals)
	for h, step := range advances {
		st.Positions[h] += step
	}

	topVoted := topVotedHorses(voteCounts)
	bonuses := make(map[string]int, len(st.Players))
	for _, ps := range st.Players {
		if ps.Vote == "" || !contains(topVoted, ps.Vote) {
			continue
		}
		bonus := game_constants.HORSE_VOTE_BONUS
		if ps.Solo {
			bonus = game_constants.HORSE_SOLO_VOTE_BONUS
		}
		ps.Chips += bonus
		bonuses[ps.Name] = bonus
	}

	roundResult := gin.H{
		"room_id":     room.ID,
		"round":       st.Round,
		"bet_totals":  totals,
		"advances":    advances,
		"vote_counts": voteCounts,
		"top_voted":   topVoted,
		"bonuses":     bonuses,
		"positions":   st.Positions,
	}

	if reached := reachedHorses(st); len(reached) > 0 {
		return endRace(room, st, roundResult)
	}

	// Loop: next round, fresh per-round state.
	st.Phase = PhaseResolved
	nextRound(st)
	roundResult["next_round"] = st.Round

	return &games.Result{
		Ack: gin.H{"success": true, "round": st.Round},
		Broadcasts: []games.Broadcast{
			{Event: "round-result", Payload: roundResult},
			{Event: "round-started", Payload: gin.H{
				"room_id":         room.ID,
				"round":           st.Round,
				"timeout_seconds": int(game_constants.HORSE_ROUND_TIMEOUT.Seconds()),
			}},
		},
		CancelTimer: true,
		StartTimer:  game_constants.HORSE_ROUND_TIMEOUT,
	}
}

// advancement maps each horse to its step this round: the top bet tier
// advances +2, the second tier +1, everyone else stays. Tied horses
// share a tier; horses nobody bet on never advance.
func advancement(horses []string, totals map[string]int) map[string]int {
	values := make([]int, 0, len(horses))
	seen := make(map[int]bool)
	for _, h := range horses {
		v := totals[h]
		if v > 0 && !seen[v] {
			seen[v] = true
			values = append(values, v)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(values)))

	steps := make(map[string]int, len(horses))
	for _, h := range horses {
		v := totals[h]
		switch {
		case len(values) > 0 && v == values[0]:
			steps[h] = game_constants.HORSE_TOP_ADVANCE
		case len(values) > 1 && v == values[1]:
			steps[h] = game_constants.HORSE_SECOND_ADVANCE
		default:
			steps[h] = 0
		}
	}
	return steps
}

// topVotedHorses returns every horse sharing the highest vote count. On
// a tie all tied horses count as top-voted for the bonus check.
func topVotedHorses(voteCounts map[string]int) []string {
	max := 0
	for _, c := range voteCounts {
		if c > max {
			max = c
		}
	}
	if max == 0 {
		return nil
	}
	var top []string
	for h, c := range voteCounts {
		if c == max {
			top = append(top, h)
		}
	}
	sort.Strings(top)
	return top
}

func reachedHorses(st *State) []string {
	var reached []string
	for _, h := range st.Horses {
		if st.Positions[h] >= st.FinishLine {
			reached = append(reached, h)
		}
	}
	return reached
}

// endRace ranks the field once a horse has reached the line. Reaching
// the line is losing: reached horses go to the bottom of the ranking,
// and among the horses still short of it the one closest to the line is
// first. Horses at the same position share a rank group.
func endRace(room *models.Room, st *State, roundResult gin.H) *games.Result {
	type group struct {
		Position int      `json:"position"`
		Horses   []string `json:"horses"`
		Players  []string `json:"players"`
		Reached  bool     `json:"reached"`
	}

	byPos := make(map[int][]string)
	var shortPos, reachedPos []int
	for _, h := range st.Horses {
		pos := st.Positions[h]
		if len(byPos[pos]) == 0 {
			if pos >= st.FinishLine {
				reachedPos = append(reachedPos, pos)
			} else {
				shortPos = append(shortPos, pos)
			}
		}
		byPos[pos] = append(byPos[pos], h)
	}
	// Closest to the line first among survivors; among the reached,
	// farther past the line means more thoroughly last.
	sort.Sort(sort.Reverse(sort.IntSlice(shortPos)))
	sort.Ints(reachedPos)

	ridersOf := func(horses []string) []string {
		var names []string
		for _, ps := range st.Players {
			if contains(horses, ps.Horse) {
				names = append(names, ps.Name)
			}
		}
		sort.Strings(names)
		return names
	}

	var ranking []group
	for _, pos := range shortPos {
		ranking = append(ranking, group{Position: pos, Horses: byPos[pos], Players: ridersOf(byPos[pos])})
	}
	for _, pos := range reachedPos {
		ranking = append(ranking, group{Position: pos, Horses: byPos[pos], Players: ridersOf(byPos[pos]), Reached: true})
	}

	st.Phase = PhaseEnded
	room.Status = models.StatusEnded

	var winners []string
	if len(ranking) > 0 {
		winners = ranking[0].Players
	}
	finalScores := make(map[string]int, len(st.Players))
	for _, ps := range st.Players {
		finalScores[ps.Name] = ps.Chips
	}

	return &games.Result{
		Ack: gin.H{"success": true, "ended": true},
		Broadcasts: []games.Broadcast{
			{Event: "round-result", Payload: roundResult},
			{Event: "game-ended", Payload: gin.H{
				"room_id": room.ID,
				"ranking": ranking,
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

func nextRound(st *State) {
	st.Round++
	st.Phase = PhaseRunning
	for _, ps := range st.Players {
		ps.BetLocked = false
		ps.VoteLocked = false
		ps.Bets = make(map[string]int)
		ps.Vote = ""
	}
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
