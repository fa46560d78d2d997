package chat

import "errors"

// ErrChannelExists is returned when inserting a channel whose name is taken.
var ErrChannelExists = errors.New("chat: channel already exists")
