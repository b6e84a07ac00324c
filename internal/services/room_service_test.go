package services

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campuschat/internal/models"
)

func TestCreateRoomDuplicateName(t *testing.T) {
	rooms := NewRoomService(newFakeStore())

	_, err := rooms.CreateRoom("General", models.RoomTypeGroup, "", nil)
	require.NoError(t, err)

	_, err = rooms.CreateRoom("General", models.RoomTypeGroup, "", nil)
	assert.ErrorIs(t, err, ErrNameTaken)
}

func TestCreateRoomDefaultsVisibility(t *testing.T) {
	rooms := NewRoomService(newFakeStore())

	room, err := rooms.CreateRoom("Staff", models.RoomTypeGroup, "", nil)
	require.NoError(t, err)
	assert.Equal(t, models.VisibilityAll, room.Visibility)

	scoped, err := rooms.CreateRoom("Mentors", models.RoomTypeGroup, models.VisibilityMentor, nil)
	require.NoError(t, err)
	assert.Equal(t, models.VisibilityMentor, scoped.Visibility)
}

func TestResolveDMIsIdempotent(t *testing.T) {
	store := newFakeStore()
	rooms := NewRoomService(store)

	first, err := rooms.ResolveDM("u1", "u2")
	require.NoError(t, err)
	assert.Equal(t, models.RoomTypePrivate, first.Type)

	again, err := rooms.ResolveDM("u1", "u2")
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	members, err := store.RoomMembers(first.ID)
	require.NoError(t, err)
	assert.Len(t, members, 2)
}

func TestResolveDMOrderInsensitive(t *testing.T) {
	rooms := NewRoomService(newFakeStore())

	a, err := rooms.ResolveDM("u1", "u2")
	require.NoError(t, err)

	b, err := rooms.ResolveDM("u2", "u1")
	require.NoError(t, err)

	assert.Equal(t, a.ID, b.ID)
}

func TestResolveDMConcurrent(t *testing.T) {
	store := newFakeStore()
	rooms := NewRoomService(store)

	const n = 16
	ids := make([]uint, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// Half the callers swap the pair order.
			var room *models.Room
			var err error
			if i%2 == 0 {
				room, err = rooms.ResolveDM("u1", "u2")
			} else {
				room, err = rooms.ResolveDM("u2", "u1")
			}
			require.NoError(t, err)
			ids[i] = room.ID
		}(i)
	}
	wg.Wait()

	for i := 1; i < n; i++ {
		assert.Equal(t, ids[0], ids[i])
	}

	all, err := store.ListRooms()
	require.NoError(t, err)
	require.Len(t, all, 1, "exactly one room despite %d concurrent resolves", n)

	members, err := store.RoomMembers(ids[0])
	require.NoError(t, err)
	assert.Len(t, members, 2)
}

func TestUpdateMembers(t *testing.T) {
	store := newFakeStore()
	rooms := NewRoomService(store)

	room, err := rooms.CreateRoom("General", models.RoomTypeGroup, "", nil)
	require.NoError(t, err)

	require.NoError(t, rooms.UpdateMembers(room.ID, []string{"alice", "bob"}, nil))
	require.NoError(t, rooms.UpdateMembers(room.ID, []string{"alice"}, nil), "re-adding is a no-op")

	members, err := rooms.Members(room.ID)
	require.NoError(t, err)
	assert.Len(t, members, 2)

	require.NoError(t, rooms.UpdateMembers(room.ID, nil, []string{"bob"}))
	members, err = rooms.Members(room.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "alice", members[0].UserID)
}

func TestUpdateMembersUnknownRoom(t *testing.T) {
	rooms := NewRoomService(newFakeStore())
	assert.ErrorIs(t, rooms.UpdateMembers(404, []string{"alice"}, nil), ErrRoomNotFound)
}
