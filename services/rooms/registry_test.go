package rooms

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateRoomAndGet(t *testing.T) {
	reg := NewRegistry(nil)

	room, err := reg.CreateRoom("Friday night", "host-1", "alice", "horse", 6)
	assert.NoError(t, err)
	assert.Equal(t, "Friday night", room.Name)
	assert.Equal(t, "host-1", room.HostID)
	assert.Len(t, room.Players, 1)

	got, err := reg.Get(room.ID)
	assert.NoError(t, err)
	assert.Equal(t, room.ID, got.ID)
}

func TestCreateRoomValidation(t *testing.T) {
	reg := NewRegistry(nil)

	_, err := reg.CreateRoom("", "host-1", "alice", "horse", 6)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = reg.CreateRoom("room", "host-1", "alice", "poker", 6)
	assert.ErrorIs(t, err, ErrValidation)

	// shuffle is a known type but has no engine, creation must fail
	_, err = reg.CreateRoom("room", "host-1", "alice", "shuffle", 6)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = reg.CreateRoom("room", "host-1", "alice", "horse", 1)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = reg.CreateRoom("room", "host-1", "alice", "horse", 99)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateRoomDuplicateName(t *testing.T) {
	reg := NewRegistry(nil)

	_, err := reg.CreateRoom("same name", "host-1", "alice", "horse", 6)
	assert.NoError(t, err)

	_, err = reg.CreateRoom("same name", "host-2", "bob", "jamo", 6)
	assert.ErrorIs(t, err, ErrDuplicateRoomName)

	// The host leaving closes the room and frees the name
	room, _ := reg.Get(reg.List()[0].RoomID)
	_, closed, err := reg.Leave(room.ID, "host-1")
	assert.NoError(t, err)
	assert.True(t, closed)
	_, err = reg.CreateRoom("same name", "host-2", "bob", "jamo", 6)
	assert.NoError(t, err)
}

func TestCreateRoomAllowlist(t *testing.T) {
	reg := NewRegistry([]string{"vip-1", " vip-2 "})

	_, err := reg.CreateRoom("room a", "vip-1", "alice", "horse", 6)
	assert.NoError(t, err)

	_, err = reg.CreateRoom("room b", "vip-2", "bob", "horse", 6)
	assert.NoError(t, err)

	_, err = reg.CreateRoom("room c", "pleb-1", "carol", "horse", 6)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestJoinAndResume(t *testing.T) {
	reg := NewRegistry(nil)
	room, _ := reg.CreateRoom("room", "host-1", "alice", "horse", 2)

	_, fresh, err := reg.Join(room.ID, "p-2", "bob")
	assert.NoError(t, err)
	assert.True(t, fresh)

	// Same identity again is a resume, not a join
	_, fresh, err = reg.Join(room.ID, "p-2", "bob")
	assert.NoError(t, err)
	assert.False(t, fresh)

	// Room is at capacity for anyone else
	_, _, err = reg.Join(room.ID, "p-3", "carol")
	assert.ErrorIs(t, err, ErrRoomFull)

	// The host can still "join" (resume) a full room
	_, fresh, err = reg.Join(room.ID, "host-1", "alice")
	assert.NoError(t, err)
	assert.False(t, fresh)
}

func TestJoinUnknownRoom(t *testing.T) {
	reg := NewRegistry(nil)
	_, _, err := reg.Join("nope", "p-1", "alice")
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestLeaveMemberKeepsRoomOpen(t *testing.T) {
	reg := NewRegistry(nil)
	room, _ := reg.CreateRoom("room", "host-1", "alice", "horse", 4)
	reg.Join(room.ID, "p-2", "bob")

	_, closed, err := reg.Leave(room.ID, "p-2")
	assert.NoError(t, err)
	assert.False(t, closed)

	_, err = reg.Get(room.ID)
	assert.NoError(t, err)
}

func TestLeaveHostClosesRoom(t *testing.T) {
	reg := NewRegistry(nil)
	room, _ := reg.CreateRoom("room", "host-1", "alice", "horse", 4)
	reg.Join(room.ID, "p-2", "bob")

	_, closed, err := reg.Leave(room.ID, "host-1")
	assert.NoError(t, err)
	assert.True(t, closed)

	_, err = reg.Get(room.ID)
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestIsMemberFailsClosed(t *testing.T) {
	reg := NewRegistry(nil)
	room, _ := reg.CreateRoom("room", "host-1", "alice", "horse", 4)

	assert.True(t, reg.IsMember(room.ID, "host-1"))
	assert.False(t, reg.IsMember(room.ID, "stranger"))
	assert.False(t, reg.IsMember("missing-room", "host-1"))
}

func TestBindIsIdempotent(t *testing.T) {
	reg := NewRegistry(nil)
	room, _ := reg.CreateRoom("room", "host-1", "alice", "horse", 4)

	assert.NoError(t, reg.Bind(room.ID, "host-1", "sock-1"))
	assert.NoError(t, reg.Bind(room.ID, "host-1", "sock-2"))

	player, ok := room.Player("host-1")
	assert.True(t, ok)
	assert.Equal(t, "sock-2", player.SocketID)

	reg.Unbind(room.ID, "host-1")
	player, _ = room.Player("host-1")
	assert.Equal(t, "", player.SocketID)

	assert.ErrorIs(t, reg.Bind(room.ID, "stranger", "sock-3"), ErrPlayerNotFound)
}

func TestListSortedByName(t *testing.T) {
	reg := NewRegistry(nil)
	reg.CreateRoom("zebra", "h1", "alice", "horse", 4)
	reg.CreateRoom("apple", "h2", "bob", "jamo", 4)

	list := reg.List()
	assert.Len(t, list, 2)
	assert.Equal(t, "apple", list[0].RoomName)
	assert.Equal(t, "zebra", list[1].RoomName)
	assert.Equal(t, 1, list[0].PlayerCount)
}

func TestRoomsOf(t *testing.T) {
	reg := NewRegistry(nil)
	room, _ := reg.CreateRoom("room", "host-1", "alice", "horse", 4)
	reg.Join(room.ID, "p-2", "bob")

	assert.Equal(t, []string{room.ID}, reg.RoomsOf("p-2"))
	assert.Empty(t, reg.RoomsOf("stranger"))
}
