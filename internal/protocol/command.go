package protocol

import (
	"errors"
	"regexp"
	"strings"
)

// ErrMalformedMessage is returned when a PRIVMSG line does not have the
// "PRIVMSG #channel :text" shape.
var ErrMalformedMessage = errors.New("protocol: malformed PRIVMSG")

const (
	capReqPrefix  = "CAP REQ :"
	joinPrefix    = "JOIN "
	nickPrefix    = "NICK "
	passPrefix    = "PASS "
	pingPrefix    = "PING"
	pongPrefix    = "PONG"
	privmsgPrefix = "PRIVMSG"
)

var privmsgPattern = regexp.MustCompile(`^PRIVMSG #(\w+) :(\S*)(.*)$`)

// Command is a parsed client line. The concrete types are CapReq, Join,
// Nick, Pass, Ping, Pong, PrivMsg and Unknown.
type Command interface {
	Verb() string
	isCommand()
}

// CapReq requests protocol capabilities.
type CapReq struct {
	Capabilities []string
}

// Join joins a channel. Channel has no leading '#'.
type Join struct {
	Channel string
}

// Nick sets the session username.
type Nick struct {
	Name string
}

// Pass sets the session token.
type Pass struct {
	Token string
}

// Ping asks the server for a PONG.
type Ping struct{}

// Pong answers a server PING.
type Pong struct{}

// PrivMsg posts a chat message. Body is the full text after the colon;
// Trigger is its first token.
type PrivMsg struct {
	Channel string
	Trigger string
	Body    string
}

// Unknown is any line no other variant recognized.
type Unknown struct {
	Name string
	Line string
}

func (CapReq) Verb() string  { return "CAP" }
func (Join) Verb() string    { return "JOIN" }
func (Nick) Verb() string    { return "NICK" }
func (Pass) Verb() string    { return "PASS" }
func (Ping) Verb() string    { return "PING" }
func (Pong) Verb() string    { return "PONG" }
func (PrivMsg) Verb() string { return "PRIVMSG" }
func (u Unknown) Verb() string {
	return u.Name
}

func (CapReq) isCommand()  {}
func (Join) isCommand()    {}
func (Nick) isCommand()    {}
func (Pass) isCommand()    {}
func (Ping) isCommand()    {}
func (Pong) isCommand()    {}
func (PrivMsg) isCommand() {}
func (Unknown) isCommand() {}

// Parse recognizes line. Prefixes are matched case-sensitively in a fixed
// order and the first match wins.
func Parse(line string) Command {
	switch {
	case strings.HasPrefix(line, capReqPrefix):
		return CapReq{Capabilities: strings.Split(strings.TrimPrefix(line, capReqPrefix), " ")}
	case strings.HasPrefix(line, joinPrefix):
		name := strings.TrimSpace(strings.TrimPrefix(line, joinPrefix))
		return Join{Channel: strings.TrimPrefix(name, "#")}
	case strings.HasPrefix(line, nickPrefix):
		return Nick{Name: strings.TrimPrefix(line, nickPrefix)}
	case strings.HasPrefix(line, passPrefix):
		return Pass{Token: strings.TrimPrefix(line, passPrefix)}
	case strings.HasPrefix(line, pingPrefix):
		return Ping{}
	case strings.HasPrefix(line, pongPrefix):
		return Pong{}
	case strings.HasPrefix(line, privmsgPrefix):
		msg, err := ParsePrivMsg(line)
		if err != nil {
			return unknown(line)
		}
		return msg
	}
	return unknown(line)
}

// ParsePrivMsg parses a "PRIVMSG #channel :text" line.
func ParsePrivMsg(line string) (PrivMsg, error) {
	m := privmsgPattern.FindStringSubmatch(line)
	if m == nil {
		return PrivMsg{}, ErrMalformedMessage
	}
	return PrivMsg{
		Channel: m[1],
		Trigger: m[2],
		Body:    m[2] + m[3],
	}, nil
}

// IsControl reports whether line is a handshake or keepalive command
// (CAP REQ, PASS, NICK, PING or PONG). Control lines are never throttled.
func IsControl(line string) bool {
	for _, prefix := range []string{capReqPrefix, nickPrefix, passPrefix, pingPrefix, pongPrefix} {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}

// unknown names the command by the first word before any colon.
func unknown(line string) Unknown {
	head, _, _ := strings.Cut(line, ":")
	name := ""
	if fields := strings.Fields(head); len(fields) > 0 {
		name = fields[0]
	}
	return Unknown{Name: name, Line: line}
}
