package protocol

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Tyrowin/mock-tmi/internal/chat"
)

const (
	defaultBitsCount   = 100
	defaultGiftCount   = 5
	defaultMonths      = 3
	defaultViewerCount = 10
)

// overrideKeyPattern is the IRCv3 tag key alphabet. Tokens with any other
// key are plain chat text.
var overrideKeyPattern = regexp.MustCompile(`^[A-Za-z0-9-]+$`)

// Override is a key=value pair found in a chat message body.
type Override struct {
	Key   string
	Value string
}

// ParseOverrides extracts tag overrides from a message body. Tokens are
// separated by single spaces and may be "key=value", "--key=value" or a bare
// "--flag", which yields "true". Keys outside [A-Za-z0-9-] are ignored.
func ParseOverrides(body string) []Override {
	var overrides []Override
	for _, token := range strings.Split(body, " ") {
		dashed := strings.HasPrefix(token, "-")
		key, value, found := strings.Cut(strings.TrimLeft(token, "-"), "=")
		switch {
		case !overrideKeyPattern.MatchString(key):
		case found:
			overrides = append(overrides, Override{Key: key, Value: value})
		case dashed:
			overrides = append(overrides, Override{Key: key, Value: "true"})
		}
	}
	return overrides
}

// EndMonth returns the zero-based month of t advanced by months, wrapped
// into 0..11, and its English name. Unlike a plain month+months sum the
// index never exceeds 11, so months=14 in November yields 0 (January), not 24.
func EndMonth(t time.Time, months int) (int, string) {
	index := ((int(t.Month())-1+months)%12 + 12) % 12
	return index, time.Month(index + 1).String()
}

func (i *Interpreter) messageTags(cmd PrivMsg, channel *chat.Channel, speaker *chat.User) *Tags {
	now := i.now().UTC()

	tags := NewTags()
	tags.Set("bitscount", strconv.Itoa(defaultBitsCount))
	tags.Set("channel", channel.Name())
	tags.Set("channelid", channel.ID())
	tags.Set("color", speaker.Color())
	tags.Set("giftcount", strconv.Itoa(defaultGiftCount))
	tags.Set("host", Host)
	tags.Set("message", cmd.Body)
	tags.Set("messageid", i.newID())
	tags.Set("months", strconv.Itoa(defaultMonths))
	tags.Set("timestamp", strconv.FormatInt(now.UnixMilli(), 10))
	tags.Set("userid", speaker.ID())
	tags.Set("username", speaker.Username())
	tags.Set("viewercount", strconv.Itoa(defaultViewerCount))

	for _, o := range ParseOverrides(cmd.Body) {
		tags.Set(o.Key, o.Value)
	}

	stamp := now
	if raw, _ := tags.Get("timestamp"); raw != "" {
		if ms, err := strconv.ParseInt(raw, 10, 64); err == nil {
			stamp = time.UnixMilli(ms).UTC()
		}
	}
	months := defaultMonths
	if raw, _ := tags.Get("months"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			months = n
		}
	}

	index, name := EndMonth(stamp, months)
	tags.Set("endmonth", strconv.Itoa(index))
	tags.Set("endmonthname", name)

	if !tags.Has("totalgiftcount") {
		giftCount, _ := tags.Get("giftcount")
		tags.Set("totalgiftcount", giftCount)
	}
	return tags
}
