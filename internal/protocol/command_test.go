package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var parseTestTable = []struct {
	line string
	want Command
}{
	{"CAP REQ :twitch.tv/tags twitch.tv/commands", CapReq{Capabilities: []string{"twitch.tv/tags", "twitch.tv/commands"}}},
	{"CAP REQ :", CapReq{Capabilities: []string{""}}},
	{"JOIN #lobby", Join{Channel: "lobby"}},
	{"JOIN lobby  ", Join{Channel: "lobby"}},
	{"NICK justinfan123", Nick{Name: "justinfan123"}},
	{"NICK  spaced ", Nick{Name: " spaced "}},
	{"PASS oauth:abc", Pass{Token: "oauth:abc"}},
	{"PING", Ping{}},
	{"PING :tmi.twitch.tv", Ping{}},
	{"PONG :tmi.twitch.tv", Pong{}},
	{"PRIVMSG #chan :subscription months=6", PrivMsg{Channel: "chan", Trigger: "subscription", Body: "subscription months=6"}},
	{"PRIVMSG #chan :hi", PrivMsg{Channel: "chan", Trigger: "hi", Body: "hi"}},
	{"PRIVMSG #chan :", PrivMsg{Channel: "chan", Trigger: "", Body: ""}},
	{"PRIVMSG chan :no hash", Unknown{Name: "PRIVMSG", Line: "PRIVMSG chan :no hash"}},
	{"PRIVMSG #chan no colon", Unknown{Name: "PRIVMSG", Line: "PRIVMSG #chan no colon"}},
	{"PRIVMSG", Unknown{Name: "PRIVMSG", Line: "PRIVMSG"}},
	{"FOOBAR hello", Unknown{Name: "FOOBAR", Line: "FOOBAR hello"}},
	{"  PART #chan :bye", Unknown{Name: "PART", Line: "  PART #chan :bye"}},
	{":prefix only", Unknown{Name: "", Line: ":prefix only"}},
	{"join #lower", Unknown{Name: "join", Line: "join #lower"}},
	{"", Unknown{Name: "", Line: ""}},
}

func TestParse(t *testing.T) {
	for _, row := range parseTestTable {
		t.Run(row.line, func(t *testing.T) {
			assert.Equal(t, row.want, Parse(row.line))
		})
	}
}

func TestParse_JoinRequiresSpace(t *testing.T) {
	// "JOIN" without the trailing space is not a join.
	assert.Equal(t, Unknown{Name: "JOIN", Line: "JOIN"}, Parse("JOIN"))
}

func TestParsePrivMsg_Malformed(t *testing.T) {
	_, err := ParsePrivMsg("PRIVMSG #bad-name :hello")
	require.ErrorIs(t, err, ErrMalformedMessage)
}

func TestCommandVerbs(t *testing.T) {
	assert.Equal(t, "CAP", CapReq{}.Verb())
	assert.Equal(t, "JOIN", Join{}.Verb())
	assert.Equal(t, "NICK", Nick{}.Verb())
	assert.Equal(t, "PASS", Pass{}.Verb())
	assert.Equal(t, "PING", Ping{}.Verb())
	assert.Equal(t, "PONG", Pong{}.Verb())
	assert.Equal(t, "PRIVMSG", PrivMsg{}.Verb())
	assert.Equal(t, "WHO", Unknown{Name: "WHO"}.Verb())
}

func TestIsControl(t *testing.T) {
	for _, line := range []string{"CAP REQ :a", "PASS oauth:x", "NICK n", "PING", "PONG :tmi.twitch.tv"} {
		assert.True(t, IsControl(line), line)
	}
	for _, line := range []string{"PRIVMSG #c :hi", "JOIN #c", "FOOBAR", "", "CAP LS"} {
		assert.False(t, IsControl(line), line)
	}
}
