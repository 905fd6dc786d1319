package animal

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
		GameType:   models.GameTypeAnimal,
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

// riggedState makes p0 the hunter and everyone else an animal.
func riggedState(room *models.Room, e *Engine) *State {
	e.Init(room)
	st := stateOf(room)
	st.Phase = PhaseRunning
	st.Round = 1
	room.Status = models.StatusInProgress

	st.Places = []Place{
		{Name: "forest", Capacity: 1},
		{Name: "cave", Capacity: 1},
		{Name: "river", Capacity: 1},
		{Name: "meadow", Capacity: 1},
	}
	for i, p := range room.Players {
		role := RoleAnimal
		if i == 0 {
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
	return st
}

func TestStartGameAssignsOneHunter(t *testing.T) {
	e := New()
	room := testRoom(4)
	e.Init(room)

	res, err := e.Apply(room, "p0", "start", nil)
	require.NoError(t, err)

	st := stateOf(room)
	assert.Equal(t, PhaseRunning, st.Phase)
	assert.Len(t, st.Places, 4)

	hunters := 0
	for _, ps := range st.Players {
		if ps.Role == RoleHunter {
			hunters++
		}
	}
	assert.Equal(t, 1, hunters)
	assert.NotEmpty(t, st.HunterID)
	assert.Equal(t, game_constants.ANIMAL_ROUND_TIMEOUT, res.StartTimer)

	// Roles go out privately
	for _, b := range res.Broadcasts {
		if b.Event == "animal_role_assigned" {
			assert.NotEmpty(t, b.To)
		}
	}
}

func TestStartGameNeedsThreePlayers(t *testing.T) {
	e := New()
	room := testRoom(2)
	e.Init(room)

	_, err := e.Apply(room, "p0", "start", nil)
	assert.ErrorIs(t, err, games.ErrValidation)
}

func TestMoveCapacityAndLock(t *testing.T) {
	e := New()
	room := testRoom(4)
	riggedState(room, e)

	_, err := e.Apply(room, "p1", "move", map[string]interface{}{"place": "forest"})
	require.NoError(t, err)

	// Forest is full for other animals
	_, err = e.Apply(room, "p2", "move", map[string]interface{}{"place": "forest"})
	assert.ErrorIs(t, err, games.ErrPlaceFull)

	// One move per round
	_, err = e.Apply(room, "p1", "move", map[string]interface{}{"place": "cave"})
	assert.ErrorIs(t, err, games.ErrAlreadyLocked)

	// The hunter ignores capacity
	_, err = e.Apply(room, "p0", "move", map[string]interface{}{"place": "forest"})
	assert.NoError(t, err)
}

func TestAbilityCooldowns(t *testing.T) {
	e := New()
	room := testRoom(4)
	st := riggedState(room, e)

	res, err := e.Apply(room, "p1", "ability", map[string]interface{}{
		"ability": "peek", "place": "cave",
	})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Ack["occupants"])

	// Same round: still cooling down
	_, err = e.Apply(room, "p1", "ability", map[string]interface{}{
		"ability": "peek", "place": "cave",
	})
	assert.ErrorIs(t, err, games.ErrOnCooldown)

	// After the cooldown has elapsed it works again
	st.Round += game_constants.ANIMAL_PEEK_COOLDOWN
	_, err = e.Apply(room, "p1", "ability", map[string]interface{}{
		"ability": "peek", "place": "cave",
	})
	assert.NoError(t, err)

	// The hunter has no abilities
	_, err = e.Apply(room, "p0", "ability", map[string]interface{}{"ability": "shield"})
	assert.ErrorIs(t, err, games.ErrValidation)
}

func TestResolveCullsHuntedAndUnmoved(t *testing.T) {
	e := New()
	room := testRoom(4)
	st := riggedState(room, e)

	// Hunter picks the forest; p1 hides there, p2 hides in the cave,
	// p3 never moves.
	st.Players["p0"].Place = "forest"
	st.Players["p1"].Place = "forest"
	st.Players["p2"].Place = "cave"

	_, err := e.AdvancePhase(room, games.TriggerTimeout)
	require.NoError(t, err)

	assert.False(t, st.Players["p1"].Alive)
	assert.False(t, st.Players["p3"].Alive) // exposed by not moving
	assert.True(t, st.Players["p2"].Alive)
	assert.Equal(t, 4, st.Players["p0"].Score) // two kills
	assert.Equal(t, game_constants.ANIMAL_SURVIVE_POINTS, st.Players["p2"].Score)

	// Round 2 with fresh per-round state
	assert.Equal(t, 2, st.Round)
	assert.Equal(t, PhaseRunning, st.Phase)
	assert.False(t, st.Players["p2"].MoveLocked)
	assert.Equal(t, "", st.Players["p2"].Place)
}

func TestShieldSavesForOneRound(t *testing.T) {
	e := New()
	room := testRoom(4)
	st := riggedState(room, e)

	st.Players["p0"].Place = "forest"
	st.Players["p1"].Place = "forest"
	st.Players["p1"].Shielded = true
	st.Players["p2"].Place = "cave"
	st.Players["p3"].Place = "meadow"

	_, err := e.AdvancePhase(room, games.TriggerTimeout)
	require.NoError(t, err)

	assert.True(t, st.Players["p1"].Alive)
	assert.False(t, st.Players["p1"].Shielded) // spent
}

func TestGameEndsWhenNoSurvivors(t *testing.T) {
	e := New()
	room := testRoom(3)
	st := riggedState(room, e)

	// Both animals walk into the hunting ground
	st.Players["p0"].Place = "river"
	st.Players["p1"].Place = "river"
	st.Players["p2"].Place = "river"

	res, err := e.AdvancePhase(room, games.TriggerHost)
	require.NoError(t, err)

	assert.True(t, res.GameEnded)
	assert.Equal(t, PhaseEnded, st.Phase)
	assert.Equal(t, models.StatusEnded, room.Status)
	assert.Equal(t, []string{"player0"}, res.Winners) // hunter took every point
}

func TestGameEndsAtMaxRounds(t *testing.T) {
	e := New()
	room := testRoom(3)
	st := riggedState(room, e)
	st.Round = st.MaxRounds

	st.Players["p1"].Place = "cave"
	st.Players["p2"].Place = "meadow"

	res, err := e.AdvancePhase(room, games.TriggerTimeout)
	require.NoError(t, err)
	assert.True(t, res.GameEnded)
	assert.ElementsMatch(t, []string{"player1", "player2"}, res.Winners)
}
