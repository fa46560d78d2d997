package chat

import (
	"fmt"
	"sync"

	"github.com/samber/lo"
)

// ChannelRegistry maps channel names to channels. A name maps to at most one
// Channel for the lifetime of the registry.
type ChannelRegistry struct {
	mu       sync.RWMutex
	channels map[string]*Channel
}

// NewChannelRegistry creates an empty registry.
func NewChannelRegistry() *ChannelRegistry {
	return &ChannelRegistry{
		channels: make(map[string]*Channel),
	}
}

// Get returns the channel registered under name.
func (r *ChannelRegistry) Get(name string) (*Channel, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ch, ok := r.channels[name]
	return ch, ok
}

// Insert registers ch. It fails if the name is already taken.
func (r *ChannelRegistry) Insert(ch *Channel) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.channels[ch.Name()]; ok {
		return fmt.Errorf("%w: %s", ErrChannelExists, ch.Name())
	}
	r.channels[ch.Name()] = ch
	return nil
}

// GetOrCreate returns the channel registered under name, creating it with the
// given connected flag on a miss. The boolean reports whether it was created.
func (r *ChannelRegistry) GetOrCreate(name string, connected bool) (*Channel, bool) {
	if ch, ok := r.Get(name); ok {
		return ch, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Another connection may have created it between the two locks.
	if ch, ok := r.channels[name]; ok {
		return ch, false
	}
	ch := NewChannel(name, connected)
	r.channels[name] = ch
	return ch, true
}

// Len returns the number of registered channels.
func (r *ChannelRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.channels)
}

// Connected returns the number of channels some session has joined.
func (r *ChannelRegistry) Connected() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, ch := range r.channels {
		if ch.IsConnected() {
			n++
		}
	}
	return n
}

// UserRegistry maps usernames to users. Synthesized users may collide with
// an existing username; the most recent insert then wins the lookup slot.
type UserRegistry struct {
	mu    sync.RWMutex
	users map[string]*User
	count int
}

// NewUserRegistry creates an empty registry.
func NewUserRegistry() *UserRegistry {
	return &UserRegistry{
		users: make(map[string]*User),
	}
}

// Get returns the user registered under username.
func (r *UserRegistry) Get(username string) (*User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[username]
	return u, ok
}

// Insert registers user, replacing any previous holder of the username.
func (r *UserRegistry) Insert(user *User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.Username()] = user
	r.count++
}

// GetOrCreate returns the user registered under username, calling create to
// build one on a miss. create runs under the registry lock and must not call
// back into the registry.
func (r *UserRegistry) GetOrCreate(username string, create func(username string) *User) (*User, bool) {
	if u, ok := r.Get(username); ok {
		return u, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if u, ok := r.users[username]; ok {
		return u, false
	}
	u := create(username)
	r.users[username] = u
	r.count++
	return u, true
}

// Random picks a user uniformly from candidates. It returns false when
// candidates is empty.
func (r *UserRegistry) Random(candidates []*User) (*User, bool) {
	if len(candidates) == 0 {
		return nil, false
	}
	return lo.Sample(candidates), true
}

// Len returns the number of users ever inserted, including those whose
// username slot was later taken over.
func (r *UserRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.count
}
