package order

import (
	"maps"
	"slices"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
)

// State is the decoded view of an order's label set. It is the only form of order
// state the rest of the service works with; label strings never leave the codec and
// the order store adapter.
//
// State has value semantics: every With/Without method returns a modified copy and
// leaves the receiver untouched, so a State can be shared between goroutines.
type State struct {
	status        Status
	trackingToken string
	dates         map[DateMarker]kernel.Date
	flags         map[string]struct{}
	attributes    map[string]string
}

// NewState returns an empty state in the given status.
func NewState(status Status) State {
	return State{
		status:     status,
		dates:      map[DateMarker]kernel.Date{},
		flags:      map[string]struct{}{},
		attributes: map[string]string{},
	}
}

func (s State) Status() Status {
	if s.status == Unknown {
		return Pending
	}
	return s.status
}

func (s State) TrackingToken() string {
	return s.trackingToken
}

func (s State) HasTrackingToken() bool {
	return s.trackingToken != ""
}

// Date returns the stamp of marker m, if present.
func (s State) Date(m DateMarker) (kernel.Date, bool) {
	d, ok := s.dates[m]
	return d, ok
}

// Dates returns a copy of all date stamps.
func (s State) Dates() map[DateMarker]kernel.Date {
	return maps.Clone(s.dates)
}

// StatusSince returns the stamp recorded when the order entered its current status.
func (s State) StatusSince() (kernel.Date, bool) {
	m, ok := s.Status().SinceMarker()
	if !ok {
		return kernel.Date{}, false
	}
	return s.Date(m)
}

func (s State) HasFlag(flag string) bool {
	_, ok := s.flags[strings.ToLower(flag)]
	return ok
}

// Flags returns the flag labels in lexical order.
func (s State) Flags() []string {
	return slices.Sorted(maps.Keys(s.flags))
}

// Attribute returns a keyed label that is neither a date marker nor the tracking
// token. Keys are case-insensitive; values keep their original casing.
func (s State) Attribute(key string) (string, bool) {
	v, ok := s.attributes[strings.ToLower(key)]
	return v, ok
}

// Attributes returns a copy of all other keyed labels.
func (s State) Attributes() map[string]string {
	return maps.Clone(s.attributes)
}

// NotifiedStatus returns the status recorded by the last status-change notification.
func (s State) NotifiedStatus() string {
	v, _ := s.Attribute(KeyNotified)
	return v
}

func (s State) WithStatus(status Status) State {
	c := s.clone()
	c.status = status
	return c
}

func (s State) WithTrackingToken(token string) State {
	c := s.clone()
	c.trackingToken = strings.TrimSpace(token)
	return c
}

func (s State) WithDate(m DateMarker, d kernel.Date) State {
	c := s.clone()
	c.dates[m] = d
	return c
}

func (s State) WithoutDate(m DateMarker) State {
	c := s.clone()
	delete(c.dates, m)
	return c
}

func (s State) WithFlag(flag string) State {
	c := s.clone()
	c.flags[strings.ToLower(flag)] = struct{}{}
	return c
}

func (s State) WithoutFlag(flag string) State {
	c := s.clone()
	delete(c.flags, strings.ToLower(flag))
	return c
}

func (s State) WithAttribute(key, value string) State {
	c := s.clone()
	c.attributes[strings.ToLower(key)] = value
	return c
}

// Pruned drops every date marker that does not belong to the current status's
// stage chain.
func (s State) Pruned() State {
	keep := s.Status().Markers()
	c := s.clone()
	for m := range c.dates {
		if !slices.Contains(keep, m) {
			delete(c.dates, m)
		}
	}
	return c
}

// Equal reports whether both states would encode to the same label set.
func (s State) Equal(o State) bool {
	return s.Status() == o.Status() &&
		s.trackingToken == o.trackingToken &&
		maps.Equal(s.dates, o.dates) &&
		maps.Equal(s.flags, o.flags) &&
		maps.Equal(s.attributes, o.attributes)
}

func (s State) clone() State {
	c := State{
		status:        s.status,
		trackingToken: s.trackingToken,
		dates:         maps.Clone(s.dates),
		flags:         maps.Clone(s.flags),
		attributes:    maps.Clone(s.attributes),
	}
	if c.dates == nil {
		c.dates = map[DateMarker]kernel.Date{}
	}
	if c.flags == nil {
		c.flags = map[string]struct{}{}
	}
	if c.attributes == nil {
		c.attributes = map[string]string{}
	}
	return c
}
