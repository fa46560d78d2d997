package protocol

import (
	"slices"

	"github.com/google/uuid"
)

// Field names a Session field a command may write.
type Field int

const (
	FieldCapabilities Field = iota + 1
	FieldUsername
	FieldToken
)

func (f Field) String() string {
	switch f {
	case FieldCapabilities:
		return "capabilities"
	case FieldUsername:
		return "username"
	case FieldToken:
		return "token"
	}
	return "unknown"
}

// Write is an instruction to set one Session field. Capabilities uses
// Values, the other fields use Value.
type Write struct {
	Field  Field
	Value  string
	Values []string
}

// Session is the handshake state of one connection. It is owned by the
// connection's read loop and is not safe for concurrent use.
type Session struct {
	id           string
	username     string
	token        string
	capabilities []string
	acknowledged bool
}

// NewSession creates an unacknowledged session with a fresh id.
func NewSession() *Session {
	return &Session{id: uuid.NewString()}
}

func (s *Session) ID() string { return s.id }

// Username returns the NICK value, or "" before NICK.
func (s *Session) Username() string { return s.username }

// Token returns the PASS value, or "" before PASS.
func (s *Session) Token() string { return s.token }

// Capabilities returns the requested capabilities, or nil before CAP REQ.
func (s *Session) Capabilities() []string { return slices.Clone(s.capabilities) }

// IsAcknowledged reports whether the welcome sequence was sent.
func (s *Session) IsAcknowledged() bool { return s.acknowledged }

// Apply performs w.
func (s *Session) Apply(w Write) {
	switch w.Field {
	case FieldCapabilities:
		s.capabilities = slices.Clone(w.Values)
		if s.capabilities == nil {
			s.capabilities = []string{}
		}
	case FieldUsername:
		s.username = w.Value
	case FieldToken:
		s.token = w.Value
	}
}

// Ready reports whether capabilities, token and username are all known.
func (s *Session) Ready() bool {
	return s.capabilities != nil && s.token != "" && s.username != ""
}

// Acknowledge fires the handshake transition. The first call on a Ready
// session returns the frames to send, in order, and marks the session
// acknowledged; every other call returns false.
func (s *Session) Acknowledge() ([]string, bool) {
	if s.IsAcknowledged() || !s.Ready() {
		return nil, false
	}
	s.acknowledged = true
	return []string{
		capabilityAck(s.capabilities),
		welcomeBlock(s.username),
		PingLine,
	}, true
}
