package chat

import (
	"sync"

	"github.com/google/uuid"
)

// Channel is a named chat room. Channels created by an explicit JOIN are
// connected; channels created implicitly by chat synthesis are not until a
// later JOIN connects them.
type Channel struct {
	mu        sync.RWMutex
	id        string
	name      string
	connected bool
	members   []*User
	index     map[string]struct{}
}

// NewChannel creates a channel with a fresh id.
func NewChannel(name string, connected bool) *Channel {
	return &Channel{
		id:        uuid.NewString(),
		name:      name,
		connected: connected,
		index:     make(map[string]struct{}),
	}
}

// ID returns the opaque channel id.
func (c *Channel) ID() string { return c.id }

// Name returns the channel name without the leading '#'.
func (c *Channel) Name() string { return c.name }

// IsConnected reports whether a client has joined the channel explicitly.
func (c *Channel) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// Connect marks the channel as connected. It reports whether the flag changed.
func (c *Channel) Connect() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.connected {
		return false
	}
	c.connected = true
	return true
}

// AddMember adds user to the member set. Adding an existing member is a
// no-op and returns false.
func (c *Channel) AddMember(user *User) bool {
	if user == nil {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.index[user.ID()]; ok {
		return false
	}
	c.index[user.ID()] = struct{}{}
	c.members = append(c.members, user)
	return true
}

// HasMember reports whether user is in the channel.
func (c *Channel) HasMember(user *User) bool {
	if user == nil {
		return false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.index[user.ID()]
	return ok
}

// Members returns a snapshot of the member set in join order.
func (c *Channel) Members() []*User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]*User(nil), c.members...)
}

// IsEmpty reports whether the channel has no members.
func (c *Channel) IsEmpty() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.members) == 0
}

// Len returns the number of members.
func (c *Channel) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.members)
}
