package labels

import (
	"strings"
)

// Separator joins labels in the platform's tag string.
const Separator = ", "

// LabelSet is the flat, case-insensitive collection of labels stored on an order.
// It keeps first-seen order so that "first status wins" is deterministic, drops
// duplicate flags, and lets the last keyed label win for a repeated key.
type LabelSet struct {
	items []string
}

// Parse splits a raw comma-separated tag string.
func Parse(raw string) LabelSet {
	return New(strings.Split(raw, ",")...)
}

// New builds a set from individual labels. Blank labels are ignored.
func New(labels ...string) LabelSet {
	var (
		items  []string
		byFold = map[string]int{}
	)
	for _, l := range labels {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		id := identity(l)
		if i, ok := byFold[id]; ok {
			items[i] = l
			continue
		}
		byFold[id] = len(items)
		items = append(items, l)
	}
	return LabelSet{items: items}
}

// identity is the dedupe key: the lowercased key for keyed labels, the lowercased
// label for flags.
func identity(label string) string {
	if key, _, ok := splitKeyed(label); ok {
		return key + ":"
	}
	return strings.ToLower(label)
}

// splitKeyed splits "key:value" on the first colon. The key is lowercased, the value
// keeps its casing.
func splitKeyed(label string) (key, value string, ok bool) {
	k, v, found := strings.Cut(label, ":")
	k = strings.TrimSpace(k)
	if !found || k == "" {
		return "", "", false
	}
	return strings.ToLower(k), strings.TrimSpace(v), true
}

func (s LabelSet) Len() int {
	return len(s.items)
}

// Strings returns the labels in set order.
func (s LabelSet) Strings() []string {
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}

// String renders the set as a platform tag string.
func (s LabelSet) String() string {
	return strings.Join(s.items, Separator)
}

// Contains reports a case-insensitive match on a whole label.
func (s LabelSet) Contains(label string) bool {
	want := strings.ToLower(strings.TrimSpace(label))
	for _, l := range s.items {
		if strings.ToLower(l) == want {
			return true
		}
	}
	return false
}

// Value returns the value of a keyed label.
func (s LabelSet) Value(key string) (string, bool) {
	key = strings.ToLower(strings.TrimSpace(key))
	for _, l := range s.items {
		if k, v, ok := splitKeyed(l); ok && k == key {
			return v, true
		}
	}
	return "", false
}

// Equal compares two sets ignoring order and case of flags and keys.
func (s LabelSet) Equal(o LabelSet) bool {
	if s.Len() != o.Len() {
		return false
	}
	for _, l := range s.items {
		if !o.contains(l) {
			return false
		}
	}
	return true
}

func (s LabelSet) contains(label string) bool {
	if key, value, ok := splitKeyed(label); ok {
		v, found := s.Value(key)
		return found && v == value
	}
	return s.Contains(label)
}
