package server

import (
	"log/slog"
	"sync"
	"time"
)

// liveness supervises one connection. Every PingInterval it arms a
// PongTimeout watchdog and sends PING; a PONG disarms the watchdog. At most
// one watchdog is armed at a time: arming always stops the previous one
// first, and a watchdog that fires after being replaced is ignored.
type liveness struct {
	cfg    LivenessConfig
	log    *slog.Logger
	ping   func() bool
	expire func()

	mu         sync.Mutex
	armed      *time.Timer
	generation uint64
	stopped    bool

	done     chan struct{}
	stopOnce sync.Once
}

func newLiveness(cfg LivenessConfig, log *slog.Logger, ping func() bool, expire func()) *liveness {
	return &liveness{
		cfg:    cfg,
		log:    log,
		ping:   ping,
		expire: expire,
		done:   make(chan struct{}),
	}
}

// run ticks until stop is called or a PING can no longer be delivered.
func (l *liveness) run() {
	ticker := time.NewTicker(l.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-l.done:
			return
		case <-ticker.C:
			if !l.probe() {
				return
			}
		}
	}
}

func (l *liveness) probe() bool {
	if !l.arm() {
		return false
	}
	l.log.Info("Pinging client")
	return l.ping()
}

func (l *liveness) arm() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.stopped {
		return false
	}

	l.disarmLocked()
	generation := l.generation
	l.armed = time.AfterFunc(l.cfg.PongTimeout, func() {
		l.fire(generation)
	})
	return true
}

func (l *liveness) fire(generation uint64) {
	l.mu.Lock()
	if l.stopped || l.armed == nil || generation != l.generation {
		l.mu.Unlock()
		return
	}
	l.armed = nil
	l.mu.Unlock()

	l.log.Error("Client didn't PONG in time - terminating connection")
	l.expire()
}

// acknowledge handles a PONG from the client.
func (l *liveness) acknowledge() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.disarmLocked()
}

// disarmLocked stops the armed watchdog and invalidates any callback
// already in flight.
func (l *liveness) disarmLocked() {
	if l.armed != nil {
		l.armed.Stop()
		l.armed = nil
	}
	l.generation++
}

func (l *liveness) isArmed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.armed != nil
}

// stop ends the ticker loop and disarms the watchdog. It is idempotent.
func (l *liveness) stop() {
	l.stopOnce.Do(func() {
		close(l.done)
	})

	l.mu.Lock()
	defer l.mu.Unlock()
	l.stopped = true
	l.disarmLocked()
}
