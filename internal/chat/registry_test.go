package chat

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelRegistry_GetOrCreate(t *testing.T) {
	registry := NewChannelRegistry()

	ch, created := registry.GetOrCreate("lobby", true)
	require.True(t, created)
	assert.Equal(t, "lobby", ch.Name())
	assert.True(t, ch.IsConnected())
	assert.NotEmpty(t, ch.ID())

	again, created := registry.GetOrCreate("lobby", false)
	require.False(t, created)
	assert.Same(t, ch, again)
	assert.True(t, again.IsConnected(), "existing flag is kept")
	assert.Equal(t, 1, registry.Len())
}

func TestChannelRegistry_Connected(t *testing.T) {
	registry := NewChannelRegistry()
	assert.Equal(t, 0, registry.Connected())

	registry.GetOrCreate("joined", true)
	implicit, _ := registry.GetOrCreate("implicit", false)
	assert.Equal(t, 1, registry.Connected())

	implicit.Connect()
	assert.Equal(t, 2, registry.Connected())
	assert.Equal(t, 2, registry.Len())
}

func TestChannelRegistry_GetMissing(t *testing.T) {
	registry := NewChannelRegistry()

	ch, ok := registry.Get("nowhere")
	assert.False(t, ok)
	assert.Nil(t, ch)
}

func TestChannelRegistry_InsertDuplicate(t *testing.T) {
	registry := NewChannelRegistry()

	require.NoError(t, registry.Insert(NewChannel("dup", false)))
	err := registry.Insert(NewChannel("dup", true))
	require.ErrorIs(t, err, ErrChannelExists)

	ch, ok := registry.Get("dup")
	require.True(t, ok)
	assert.False(t, ch.IsConnected(), "first insert wins")
}

func TestChannelRegistry_ConcurrentGetOrCreate(t *testing.T) {
	registry := NewChannelRegistry()

	const workers = 64
	results := make([]*Channel, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ch, _ := registry.GetOrCreate("samechan", i%2 == 0)
			ch.AddMember(NewUser(fmt.Sprintf("user%d", i), "#FFFFFF"))
			results[i] = ch
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, registry.Len())
	for _, ch := range results {
		assert.Same(t, results[0], ch)
	}
	assert.Equal(t, workers, results[0].Len())
}

func TestChannel_AddMemberIdempotent(t *testing.T) {
	ch := NewChannel("room", false)
	user := NewUser("alice", "#FF0000")

	assert.True(t, ch.IsEmpty())
	assert.True(t, ch.AddMember(user))
	assert.False(t, ch.AddMember(user))
	assert.False(t, ch.AddMember(nil))

	assert.Equal(t, 1, ch.Len())
	assert.True(t, ch.HasMember(user))
	assert.Equal(t, []*User{user}, ch.Members())
}

func TestChannel_Connect(t *testing.T) {
	ch := NewChannel("room", false)

	assert.True(t, ch.Connect())
	assert.False(t, ch.Connect())
	assert.True(t, ch.IsConnected())
}

func TestChannel_MembersIsSnapshot(t *testing.T) {
	ch := NewChannel("room", true)
	ch.AddMember(NewUser("alice", "#FF0000"))

	members := ch.Members()
	members[0] = nil

	assert.NotNil(t, ch.Members()[0])
}

func TestUserRegistry_GetOrCreate(t *testing.T) {
	registry := NewUserRegistry()
	calls := 0
	create := func(username string) *User {
		calls++
		return NewUser(username, "#00FF00")
	}

	u, created := registry.GetOrCreate("bob", create)
	require.True(t, created)
	assert.Equal(t, "bob", u.Username())
	assert.Equal(t, "#00FF00", u.Color())

	again, created := registry.GetOrCreate("bob", create)
	require.False(t, created)
	assert.Same(t, u, again)
	assert.Equal(t, 1, calls)
}

func TestUserRegistry_InsertReplacesCollidingUsername(t *testing.T) {
	registry := NewUserRegistry()
	registry.Insert(NewUser("carol", "#0000FF"))

	// The newest user takes the lookup slot.
	replacement := NewUser("carol", "#123456")
	registry.Insert(replacement)

	got, ok := registry.Get("carol")
	require.True(t, ok)
	assert.Same(t, replacement, got)
	assert.Equal(t, 2, registry.Len())
}

func TestUserRegistry_Random(t *testing.T) {
	registry := NewUserRegistry()

	_, ok := registry.Random(nil)
	assert.False(t, ok)

	candidates := []*User{
		NewUser("a", "#000001"),
		NewUser("b", "#000002"),
		NewUser("c", "#000003"),
	}
	seen := make(map[string]bool)
	for i := 0; i < 300; i++ {
		u, ok := registry.Random(candidates)
		require.True(t, ok)
		assert.Contains(t, candidates, u)
		seen[u.ID()] = true
	}
	assert.Len(t, seen, len(candidates))
}

func TestUserRegistry_ConcurrentGetOrCreate(t *testing.T) {
	registry := NewUserRegistry()

	var wg sync.WaitGroup
	results := make([]*User, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = registry.GetOrCreate("shared", func(username string) *User {
				return NewUser(username, "#ABCDEF")
			})
		}(i)
	}
	wg.Wait()

	for _, u := range results {
		assert.Same(t, results[0], u)
	}
	assert.Equal(t, 1, registry.Len())
}
