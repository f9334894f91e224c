package registry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pokerledger/server/actor"
	"github.com/pokerledger/server/engine"
	"github.com/pokerledger/server/store"
)

func newRoom(t *testing.T, id string) *engine.Room {
	t.Helper()
	room := engine.NewRoom(id, "owner", engine.RoomConfig{
		SBAmount:     10,
		InitialChips: 1000,
		RebuyMinimum: 100,
	})
	room, _, err := engine.AddPlayer(room, "owner", "device-1", "Owner", "", 1000)
	require.NoError(t, err)
	return engine.SeatOwner(room, "owner")
}

func TestRegistryOpenLookupClose(t *testing.T) {
	st := store.NewMemory()
	reg := New(st, actor.NoopBus{})

	a, err := reg.Open(newRoom(t, "room-1"))
	require.NoError(t, err)
	require.NotNil(t, a)

	found, ok := reg.Lookup("room-1")
	require.True(t, ok)
	require.Same(t, a, found)

	reg.Close("room-1")
	_, ok = reg.Lookup("room-1")
	require.False(t, ok)
}

func TestRegistryRejectsDuplicateOpen(t *testing.T) {
	st := store.NewMemory()
	reg := New(st, actor.NoopBus{})
	_, err := reg.Open(newRoom(t, "room-1"))
	require.NoError(t, err)
	_, err = reg.Open(newRoom(t, "room-1"))
	require.Error(t, err)
}

func TestRegistryRestoreFromStore(t *testing.T) {
	st := store.NewMemory()
	room := newRoom(t, "room-1")
	blob, err := engine.MarshalRoom(room)
	require.NoError(t, err)
	require.NoError(t, st.Save(context.Background(), "room-1", blob))

	reg := New(st, actor.NoopBus{})
	a, err := reg.Restore(context.Background(), "room-1")
	require.NoError(t, err)

	res := a.Send(actor.Command{Kind: actor.KindHeartbeat})
	require.NoError(t, res.Err)
	require.Equal(t, "room-1", res.Room.ID)
}

func TestReaperClosesRoomsPastIdleTTL(t *testing.T) {
	st := store.NewMemory()
	reg := New(st, actor.NoopBus{})
	room := newRoom(t, "room-1")
	room.IdleSince = time.Now().Add(-time.Hour).Unix()
	_, err := reg.Open(room)
	require.NoError(t, err)

	r := NewReaper(reg, 50*time.Millisecond, 10*time.Millisecond)
	r.Start()
	defer r.Stop()

	require.Eventually(t, func() bool {
		_, ok := reg.Lookup("room-1")
		return !ok
	}, time.Second, 10*time.Millisecond)
}
