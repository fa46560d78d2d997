package protocol

import (
	"fmt"
	"strings"
)

// Host is the server name used in every reply prefix.
const Host = "tmi.twitch.tv"

const (
	PingLine = "PING"
	PongLine = "PONG"
)

// crlf joins the lines of a multi-line reply block.
const crlf = "\r\n"

func joinBlock(username, channel, channelID string) string {
	return strings.Join([]string{
		fmt.Sprintf(":%[1]s!%[1]s@%[1]s.%[2]s JOIN #%[3]s", username, Host, channel),
		fmt.Sprintf(":%[1]s.%[2]s 353 %[1]s = #%[3]s :%[1]s", username, Host, channel),
		fmt.Sprintf(":%[1]s.%[2]s 366 %[1]s #%[3]s :End of /NAMES list", username, Host, channel),
		fmt.Sprintf("@emote-only=0;followers-only=-1;r9k=0;rituals=0;room-id=%s;slow=0;subs-only=0 :%s ROOMSTATE #%s", channelID, Host, channel),
	}, crlf)
}

func unknownCommand(username, command string) string {
	return fmt.Sprintf(":%s 421 %s %s :Unknown command", Host, username, command)
}

func capabilityAck(capabilities []string) string {
	return fmt.Sprintf(":%s CAP * ACK :%s", Host, strings.Join(capabilities, " "))
}

func welcomeBlock(username string) string {
	return strings.Join([]string{
		fmt.Sprintf(":%s 001 %s :Welcome, GLHF!", Host, username),
		fmt.Sprintf(":%s 002 %s :Your host is %s", Host, username, Host),
		fmt.Sprintf(":%s 003 %s :This server is rather new", Host, username),
		fmt.Sprintf(":%s 004 %s :-", Host, username),
		fmt.Sprintf(":%s 375 %s :-", Host, username),
		fmt.Sprintf(":%s 372 %s :You are in a maze of twisty passages, all alike.", Host, username),
		fmt.Sprintf(":%s 376 %s :>", Host, username),
	}, crlf)
}
