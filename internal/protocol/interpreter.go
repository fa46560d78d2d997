package protocol

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Tyrowin/mock-tmi/internal/chat"
	"github.com/Tyrowin/mock-tmi/internal/identity"
)

// Family classifies a Result for dispatch by the connection loop.
type Family string

const (
	FamilyCapabilities Family = "capabilities"
	FamilyChannels     Family = "channels"
	FamilyUsername     Family = "username"
	FamilyToken        Family = "token"
	FamilyPing         Family = "ping"
	FamilyPong         Family = "pong"
	FamilyMessage      Family = "message"
	FamilyUnknown      Family = "unknown"
)

// newSpeakerThreshold is the draw at or above which a chat message is
// attributed to a freshly synthesized user even if the channel has members.
const newSpeakerThreshold = 0.75

// Result is the outcome of interpreting one line.
type Result struct {
	Command  string
	Family   Family
	Response string
	Write    *Write
}

// HasResponse reports whether the result carries a reply to send.
func (r Result) HasResponse() bool { return r.Response != "" }

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(i *Interpreter) { i.now = now }
}

// WithIDSource replaces the message id generator.
func WithIDSource(newID func() string) Option {
	return func(i *Interpreter) { i.newID = newID }
}

// WithDraw replaces the uniform [0,1) draw used to pick a speaker.
func WithDraw(draw func() float64) Option {
	return func(i *Interpreter) { i.draw = draw }
}

// Interpreter turns client lines into replies and session writes. It is
// shared by all connections; per-connection state lives in Session.
type Interpreter struct {
	channels *chat.ChannelRegistry
	users    *chat.UserRegistry
	identity identity.Generator
	now      func() time.Time
	newID    func() string
	draw     func() float64
}

// NewInterpreter creates an Interpreter over the shared registries.
func NewInterpreter(channels *chat.ChannelRegistry, users *chat.UserRegistry, gen identity.Generator, opts ...Option) *Interpreter {
	i := &Interpreter{
		channels: channels,
		users:    users,
		identity: gen,
		now:      time.Now,
		newID:    uuid.NewString,
		draw:     rand.Float64,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Interpret parses line and effects it. It never fails: lines that cannot be
// handled produce the unknown-command reply.
func (i *Interpreter) Interpret(line string, session *Session) Result {
	switch cmd := Parse(line).(type) {
	case CapReq:
		return Result{
			Command: cmd.Verb(),
			Family:  FamilyCapabilities,
			Write:   &Write{Field: FieldCapabilities, Values: cmd.Capabilities},
		}
	case Join:
		return i.join(cmd, session)
	case Nick:
		return Result{
			Command: cmd.Verb(),
			Family:  FamilyUsername,
			Write:   &Write{Field: FieldUsername, Value: cmd.Name},
		}
	case Pass:
		return Result{
			Command: cmd.Verb(),
			Family:  FamilyToken,
			Write:   &Write{Field: FieldToken, Value: cmd.Token},
		}
	case Ping:
		return Result{Command: cmd.Verb(), Family: FamilyPing, Response: PongLine}
	case Pong:
		return Result{Command: cmd.Verb(), Family: FamilyPong}
	case PrivMsg:
		return i.message(cmd)
	default:
		return Result{
			Command:  cmd.Verb(),
			Family:   FamilyUnknown,
			Response: unknownCommand(session.Username(), cmd.Verb()),
		}
	}
}

func (i *Interpreter) join(cmd Join, session *Session) Result {
	channel, created := i.channels.GetOrCreate(cmd.Channel, true)
	if !created {
		channel.Connect()
	}

	user, _ := i.users.GetOrCreate(session.Username(), i.newUser)
	channel.AddMember(user)

	return Result{
		Command:  cmd.Verb(),
		Family:   FamilyChannels,
		Response: joinBlock(session.Username(), channel.Name(), channel.ID()),
	}
}

func (i *Interpreter) message(cmd PrivMsg) Result {
	channel, _ := i.channels.GetOrCreate(cmd.Channel, false)
	speaker := i.speaker(channel)
	tags := i.messageTags(cmd, channel, speaker)

	return Result{
		Command:  cmd.Verb(),
		Family:   FamilyMessage,
		Response: tags.String() + " " + cmd.Body,
	}
}

// speaker picks who says a synthesized message: a new ephemeral user when the
// channel is empty or the draw says so, otherwise a random member.
func (i *Interpreter) speaker(channel *chat.Channel) *chat.User {
	if !channel.IsEmpty() && i.draw() < newSpeakerThreshold {
		if user, ok := i.users.Random(channel.Members()); ok {
			return user
		}
	}

	user := chat.NewUser(i.ephemeralUsername(channel), i.identity.Color())
	i.users.Insert(user)
	channel.AddMember(user)
	return user
}

func (i *Interpreter) ephemeralUsername(channel *chat.Channel) string {
	name := strings.ReplaceAll(i.identity.Username(), ".", "")
	if name == "" {
		name = fmt.Sprintf("justinfan%d", channel.Len()+1)
	}
	return name
}

func (i *Interpreter) newUser(username string) *chat.User {
	return chat.NewUser(username, i.identity.Color())
}
