// file: resource/store_test.go
package resource

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_RegisterAndLookup(t *testing.T) {
	store := NewStore("ops@example.com")
	slice := New("fetchTickets", noop)
	require.NoError(t, store.Register(slice))

	got, ok := Lookup[string, []string](store, "fetchTickets")
	require.True(t, ok)
	assert.Same(t, slice, got)

	_, ok = Lookup[string, int](store, "fetchTickets")
	assert.False(t, ok, "wrong type parameters must not match")

	_, ok = Lookup[string, []string](store, "missing")
	assert.False(t, ok)
}

func TestStore_DuplicateName(t *testing.T) {
	store := NewStore("ops")
	require.NoError(t, store.Register(New("fetchTickets", noop)))
	err := store.Register(New("fetchTickets", noop))
	assert.True(t, errors.Is(err, ErrDuplicateResource))
}

func TestStore_SnapshotsInRegistrationOrder(t *testing.T) {
	store := NewStore("ops")
	require.NoError(t, store.Register(New("b", noop)))
	require.NoError(t, store.Register(New("a", noop)))

	snaps := store.Snapshots()
	require.Len(t, snaps, 2)
	assert.Equal(t, "b", snaps[0].Name)
	assert.Equal(t, "a", snaps[1].Name)
}

func TestStore_SubscribeReceivesOwner(t *testing.T) {
	store := NewStore("ops@example.com")
	slice := New("fetchTickets", noop)
	require.NoError(t, store.Register(slice))

	var owners []string
	store.Subscribe(func(owner string, snap Snapshot) {
		owners = append(owners, owner+"/"+snap.Name)
	})
	slice.Dispatch(context.Background(), "")

	assert.Equal(t, []string{"ops@example.com/fetchTickets", "ops@example.com/fetchTickets"}, owners)
}

func TestStoreProvider_SameStorePerOwner(t *testing.T) {
	inits := 0
	p := NewStoreProvider(func(s *Store) error {
		inits++
		return s.Register(New("fetchTickets", noop))
	})

	a := p.GetStore("alice")
	assert.Same(t, a, p.GetStore("alice"))
	assert.NotSame(t, a, p.GetStore("bob"))
	assert.Equal(t, 2, inits)
	assert.True(t, a.Has("fetchTickets"))
}

func TestRunner_UntypedDispatch(t *testing.T) {
	store := NewStore("ops")
	require.NoError(t, store.Register(New("echo", func(_ context.Context, in string) Result[string] {
		return Succeeded(in + "!")
	})))

	r, ok := store.Get("echo")
	require.True(t, ok)
	runner, ok := r.(Runner)
	require.True(t, ok)

	snap, err := runner.Run(context.Background(), "hi")
	require.NoError(t, err)
	assert.True(t, snap.Success)
	assert.Equal(t, "hi!", snap.Data)

	_, err = runner.Run(context.Background(), 42)
	assert.True(t, errors.Is(err, ErrInputType))
}
