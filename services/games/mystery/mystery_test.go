package mystery

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	models "Maru/models/rooms"
	"Maru/services/games"
)

func testRoom(playerCount int) *models.Room {
	room := &models.Room{
		ID:         "room-1",
		Name:       "test room",
		GameType:   models.GameTypeMystery,
		HostID:     "p0",
		HostName:   "player0",
		MaxPlayers: 12,
		Status:     models.StatusWaiting,
		CreatedAt:  time.Now(),
	}
	for i := 0; i < playerCount; i++ {
		room.Players = append(room.Players, &models.Player{
			SessionID: "p" + string(rune('0'+i)),
			Name:      "player" + string(rune('0'+i)),
			JoinedAt:  time.Now(),
		})
	}
	return room
}

// riggedState makes p0 the murderer.
func riggedState(room *models.Room, e *Engine) *State {
	e.Init(room)
	st := stateOf(room)
	st.Phase = PhaseDiscuss
	st.Round = 1
	room.Status = models.StatusInProgress

	for i, p := range room.Players {
		role := RoleCitizen
		if i == 0 {
			role = RoleMurderer
			st.MurdererID = p.SessionID
		}
		st.Players[p.SessionID] = &PlayerState{Name: p.Name, Role: role}
	}
	return st
}

func TestStartGameAssignsOneMurderer(t *testing.T) {
	e := New()
	room := testRoom(4)
	e.Init(room)

	res, err := e.Apply(room, "p0", "start", nil)
	require.NoError(t, err)

	st := stateOf(room)
	assert.Equal(t, PhaseDiscuss, st.Phase)

	murderers := 0
	for _, ps := range st.Players {
		if ps.Role == RoleMurderer {
			murderers++
		}
	}
	assert.Equal(t, 1, murderers)

	for _, b := range res.Broadcasts {
		if b.Event == "mystery_role_assigned" {
			assert.NotEmpty(t, b.To)
		}
	}
}

func TestVoteOnceByDisplayName(t *testing.T) {
	e := New()
	room := testRoom(3)
	riggedState(room, e)

	_, err := e.Apply(room, "p1", "vote", map[string]interface{}{"target": "player0"})
	require.NoError(t, err)

	// Vote is final
	_, err = e.Apply(room, "p1", "vote", map[string]interface{}{"target": "player2"})
	assert.ErrorIs(t, err, games.ErrAlreadyLocked)

	// Target must exist
	_, err = e.Apply(room, "p2", "vote", map[string]interface{}{"target": "nobody"})
	assert.ErrorIs(t, err, games.ErrValidation)

	ps := stateOf(room).Players["p1"]
	assert.Equal(t, "player0", ps.Vote)
}

func TestRevealCitizensWinWhenMurdererTopVoted(t *testing.T) {
	e := New()
	room := testRoom(4)
	st := riggedState(room, e)

	st.Players["p1"].Vote = "player0"
	st.Players["p2"].Vote = "player0"
	st.Players["p3"].Vote = "player1"

	res, err := e.AdvancePhase(room, games.TriggerTimeout)
	require.NoError(t, err)

	assert.Equal(t, PhaseReveal, st.Phase)
	assert.True(t, res.GameEnded)
	assert.ElementsMatch(t, []string{"player1", "player2", "player3"}, res.Winners)
	assert.Equal(t, 0, res.FinalScores["player0"])
	assert.Equal(t, 1, res.FinalScores["player1"])
}

func TestRevealMurdererWinsOtherwise(t *testing.T) {
	e := New()
	room := testRoom(4)
	st := riggedState(room, e)

	// The mob turns on an innocent
	st.Players["p1"].Vote = "player2"
	st.Players["p3"].Vote = "player2"
	st.Players["p2"].Vote = "player0"

	res, err := e.AdvancePhase(room, games.TriggerTimeout)
	require.NoError(t, err)
	assert.Equal(t, []string{"player0"}, res.Winners)
}

func TestRevealTieIncludesMurderer(t *testing.T) {
	e := New()
	room := testRoom(4)
	st := riggedState(room, e)

	// player0 (murderer) and player2 tie at the top: the murderer is
	// among the most accused, citizens win.
	st.Players["p1"].Vote = "player0"
	st.Players["p2"].Vote = "player2"

	res, err := e.AdvancePhase(room, games.TriggerTimeout)
	require.NoError(t, err)
	assert.NotContains(t, res.Winners, "player0")
}

func TestRevealNoVotesMurdererWins(t *testing.T) {
	e := New()
	room := testRoom(3)
	riggedState(room, e)

	res, err := e.AdvancePhase(room, games.TriggerHost)
	require.NoError(t, err)
	assert.Equal(t, []string{"player0"}, res.Winners)
}
