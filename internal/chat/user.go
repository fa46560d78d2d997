package chat

import "github.com/google/uuid"

// User is a chat participant, either backing a real session or synthesized
// to simulate chat activity.
type User struct {
	id       string
	username string
	color    string
}

// NewUser creates a User with a fresh id. The color is fixed for the
// lifetime of the entity.
func NewUser(username, color string) *User {
	return &User{
		id:       uuid.NewString(),
		username: username,
		color:    color,
	}
}

// ID returns the opaque user id.
func (u *User) ID() string { return u.id }

// Username returns the handle the user was created with.
func (u *User) Username() string { return u.username }

// Color returns the display color.
func (u *User) Color() string { return u.color }
