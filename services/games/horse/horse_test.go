package horse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	game_constants "Maru/constants/game"
	models "Maru/models/rooms"
	"Maru/services/games"
)

func testRoom(playerCount int) *models.Room {
	room := &models.Room{
		ID:         "room-1",
		Name:       "test room",
		GameType:   models.GameTypeHorse,
		HostID:     "p0",
		HostName:   "player0",
		MaxPlayers: 12,
		Status:     models.StatusWaiting,
		CreatedAt:  time.Now(),
	}
	for i := 0; i < playerCount; i++ {
		room.Players = append(room.Players, &models.Player{
			SessionID: sid(i),
			Name:      name(i),
			JoinedAt:  time.Now(),
		})
	}
	return room
}

func sid(i int) string  { return string(rune('p')) + string(rune('0'+i)) }
func name(i int) string { return "player" + string(rune('0'+i)) }

// riggedState replaces the random assignment with a fixed layout: two
// horses A and B, players p0/p1 on A, p2/p3 on B, p4 solo on C when
// present.
func riggedState(room *models.Room, e *Engine) *State {
	e.Init(room)
	st := stateOf(room)
	st.Phase = PhaseRunning
	st.Round = 1
	room.Status = models.StatusInProgress

	horseCount := (len(room.Players) + 1) / 2
	for i := 0; i < horseCount; i++ {
		h := string(rune('A' + i))
		st.Horses = append(st.Horses, h)
		st.Positions[h] = 0
	}
	for i, p := range room.Players {
		st.Players[p.SessionID] = &PlayerState{
			Name:  p.Name,
			Horse: st.Horses[i/2],
			Solo:  len(room.Players)%2 == 1 && i == len(room.Players)-1,
			Chips: game_constants.HORSE_STARTING_CHIPS,
			Bets:  make(map[string]int),
		}
	}
	return st
}

func TestStartGameAssignsHorses(t *testing.T) {
	e := New()
	room := testRoom(5)
	e.Init(room)

	res, err := e.Apply(room, "p0", "start-round", nil)
	require.NoError(t, err)

	st := stateOf(room)
	assert.Equal(t, PhaseRunning, st.Phase)
	assert.Equal(t, 1, st.Round)
	assert.Len(t, st.Horses, 3) // 5 players -> 2 pairs + 1 solo
	assert.Equal(t, models.StatusInProgress, room.Status)
	assert.Equal(t, game_constants.HORSE_ROUND_TIMEOUT, res.StartTimer)

	solos := 0
	for _, ps := range st.Players {
		assert.Contains(t, st.Horses, ps.Horse)
		assert.Equal(t, game_constants.HORSE_STARTING_CHIPS, ps.Chips)
		if ps.Solo {
			solos++
		}
	}
	assert.Equal(t, 1, solos)

	// One private assignment per player on top of the round-started push
	privates := 0
	for _, b := range res.Broadcasts {
		if b.Event == "horse-assigned" {
			assert.NotEmpty(t, b.To)
			privates++
		}
	}
	assert.Equal(t, 5, privates)
}

func TestStartGameRequiresHost(t *testing.T) {
	e := New()
	room := testRoom(4)
	e.Init(room)

	_, err := e.Apply(room, "p1", "start-round", nil)
	assert.ErrorIs(t, err, games.ErrNotHost)
}

func TestBetValidatesAndLocks(t *testing.T) {
	e := New()
	room := testRoom(4)
	riggedState(room, e)

	payload := map[string]interface{}{
		"bets": map[string]interface{}{"A": float64(3), "B": float64(2)},
	}
	res, err := e.Apply(room, "p1", "bet", payload)
	require.NoError(t, err)
	assert.Equal(t, game_constants.HORSE_STARTING_CHIPS-5, res.Ack["chips"])

	st := stateOf(room)
	ps := st.Players["p1"]
	assert.True(t, ps.BetLocked)
	assert.Equal(t, map[string]int{"A": 3, "B": 2}, ps.Bets)
}

func TestBetIsAtMostOnce(t *testing.T) {
	e := New()
	room := testRoom(4)
	riggedState(room, e)

	payload := map[string]interface{}{
		"bets": map[string]interface{}{"A": float64(3)},
	}
	_, err := e.Apply(room, "p1", "bet", payload)
	require.NoError(t, err)

	// The retried duplicate must not change chips or bets
	_, err = e.Apply(room, "p1", "bet", payload)
	assert.ErrorIs(t, err, games.ErrAlreadyLocked)

	ps := stateOf(room).Players["p1"]
	assert.Equal(t, game_constants.HORSE_STARTING_CHIPS-3, ps.Chips)
	assert.Equal(t, map[string]int{"A": 3}, ps.Bets)
}

func TestBetRejectsBadSets(t *testing.T) {
	e := New()
	room := testRoom(4)
	riggedState(room, e)

	cases := []map[string]interface{}{
		{"bets": map[string]interface{}{"Z": float64(3)}},  // unknown horse
		{"bets": map[string]interface{}{"A": float64(0)}},  // non-positive
		{"bets": map[string]interface{}{"A": float64(-2)}}, // negative
		{"bets": map[string]interface{}{"A": float64(99)}}, // over budget
		{},
	}
	for _, payload := range cases {
		_, err := e.Apply(room, "p1", "bet", payload)
		assert.ErrorIs(t, err, games.ErrValidation)

		ps := stateOf(room).Players["p1"]
		assert.False(t, ps.BetLocked)
		assert.Equal(t, game_constants.HORSE_STARTING_CHIPS, ps.Chips)
	}
}

func TestVoteOncePerRound(t *testing.T) {
	e := New()
	room := testRoom(4)
	riggedState(room, e)

	_, err := e.Apply(room, "p2", "vote", map[string]interface{}{"horse": "A"})
	require.NoError(t, err)

	_, err = e.Apply(room, "p2", "vote", map[string]interface{}{"horse": "B"})
	assert.ErrorIs(t, err, games.ErrAlreadyLocked)

	ps := stateOf(room).Players["p2"]
	assert.Equal(t, "A", ps.Vote)
	assert.Equal(t, []string{"A"}, ps.VoteHistory)
}

func TestMemoAllowedAnyPhaseAndPrivate(t *testing.T) {
	e := New()
	room := testRoom(4)
	st := riggedState(room, e)
	st.Phase = PhaseResolved

	res, err := e.Apply(room, "p3", "memo", map[string]interface{}{
		"memo": []interface{}{"A is alice?", "B bet big"},
	})
	require.NoError(t, err)
	assert.Empty(t, res.Broadcasts)
	assert.Equal(t, []string{"A is alice?", "B bet big"}, st.Players["p3"].Memo)
}

func TestGetStateScopesViews(t *testing.T) {
	e := New()
	room := testRoom(4)
	riggedState(room, e)

	proj := e.GetState(room, "p1")
	assert.NotNil(t, proj.Public)
	assert.NotNil(t, proj.Private)
	assert.NotNil(t, proj.Host)

	// Public view never includes a player's horse
	_, hasHorse := proj.Public["horse"]
	assert.False(t, hasHorse)
	assert.Equal(t, "A", proj.Private["horse"])

	stranger := e.GetState(room, "ghost")
	assert.Nil(t, stranger.Private)
}
