// Package identity generates plausible fake chatter identities.
package identity

import (
	"strings"
	"sync"

	"github.com/brianvoe/gofakeit/v7"
)

// Generator produces random chatter handles and display colors.
type Generator interface {
	Username() string
	Color() string
}

// Faker is a Generator backed by gofakeit. It is safe for concurrent use.
type Faker struct {
	mu    sync.Mutex
	faker *gofakeit.Faker
}

// NewFaker creates a Faker. A zero seed picks a random one.
func NewFaker(seed uint64) *Faker {
	return &Faker{faker: gofakeit.New(seed)}
}

// Username returns a random handle such as "Smith1234".
func (f *Faker) Username() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.faker.Username()
}

// Color returns a random upper-case hex color such as "#1E90FF".
func (f *Faker) Color() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return strings.ToUpper(f.faker.HexColor())
}

// Static always returns the same identity.
type Static struct {
	Name string
	Hex  string
}

func (s Static) Username() string { return s.Name }

func (s Static) Color() string { return s.Hex }
