package identity

import (
	"regexp"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

var hexColor = regexp.MustCompile(`^#[0-9A-F]{6}$`)

func TestFaker_SeededIsDeterministic(t *testing.T) {
	a := NewFaker(42)
	b := NewFaker(42)

	for i := 0; i < 5; i++ {
		assert.Equal(t, a.Username(), b.Username())
		assert.Equal(t, a.Color(), b.Color())
	}
}

func TestFaker_Values(t *testing.T) {
	f := NewFaker(7)

	assert.NotEmpty(t, f.Username())
	assert.Regexp(t, hexColor, f.Color())
}

func TestFaker_ConcurrentUse(t *testing.T) {
	f := NewFaker(0)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_ = f.Username()
				_ = f.Color()
			}
		}()
	}
	wg.Wait()
}

func TestStatic(t *testing.T) {
	var g Generator = Static{Name: "mock.user", Hex: "#FF4500"}

	assert.Equal(t, "mock.user", g.Username())
	assert.Equal(t, "#FF4500", g.Color())
}
