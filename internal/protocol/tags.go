package protocol

import "strings"

var escapeTagValue = strings.NewReplacer("\\", "\\\\", ";", "\\:", " ", "\\s", "\r", "\\r", "\n", "\\n")

// Tags is an insertion-ordered IRCv3 tag set. Overwriting a key keeps its
// original position.
type Tags struct {
	keys   []string
	values map[string]string
}

// NewTags creates an empty tag set.
func NewTags() *Tags {
	return &Tags{values: make(map[string]string)}
}

// Set assigns value to key.
func (t *Tags) Set(key, value string) {
	if _, ok := t.values[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.values[key] = value
}

// Get returns the value of key.
func (t *Tags) Get(key string) (string, bool) {
	v, ok := t.values[key]
	return v, ok
}

// Has reports whether key is set.
func (t *Tags) Has(key string) bool {
	_, ok := t.values[key]
	return ok
}

// Keys returns the keys in insertion order.
func (t *Tags) Keys() []string {
	return append([]string(nil), t.keys...)
}

// Len returns the number of tags.
func (t *Tags) Len() int { return len(t.keys) }

// String serializes the set as "@k=v;k=v" with escaped values.
func (t *Tags) String() string {
	var b strings.Builder
	b.WriteByte('@')
	for i, key := range t.keys {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(escapeTagValue.Replace(t.values[key]))
	}
	return b.String()
}
