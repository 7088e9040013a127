package parcel

import (
	"strings"

	"fulfillment/internal/core/domain/model/order"
)

// Tab is one of the carrier's independent result partitions. Every tab must be
// polled and the results unioned to see all parcels.
type Tab string

const (
	TabActive    Tab = "active"
	TabDelivered Tab = "delivered"
	TabReturns   Tab = "returns"
)

// Tabs returns every tab in polling order. Later tabs hold later lifecycle stages.
func Tabs() []Tab {
	return []Tab{TabActive, TabDelivered, TabReturns}
}

// Parcel is a carrier record for one shipment. It is fetched per reconciliation
// cycle and never persisted.
type Parcel struct {
	TrackingToken string
	Status        order.CarrierStatus
	CustomerName  string
	Phone         string
}

// Collection is the union of all tabs of one fetch, de-duplicated by tracking token.
// When a token shows up in several tabs the record seen last wins.
type Collection struct {
	byToken   map[string]int
	parcels   []Parcel
	untracked int
}

func NewCollection() *Collection {
	return &Collection{byToken: map[string]int{}}
}

// Add inserts or replaces a parcel.
func (c *Collection) Add(p Parcel) {
	p.TrackingToken = strings.TrimSpace(p.TrackingToken)
	if p.TrackingToken == "" {
		c.untracked++
		c.parcels = append(c.parcels, p)
		return
	}
	if i, ok := c.byToken[p.TrackingToken]; ok {
		c.parcels[i] = p
		return
	}
	c.byToken[p.TrackingToken] = len(c.parcels)
	c.parcels = append(c.parcels, p)
}

// ByToken returns the parcel with exactly this tracking token.
func (c *Collection) ByToken(token string) (Parcel, bool) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Parcel{}, false
	}
	i, ok := c.byToken[token]
	if !ok {
		return Parcel{}, false
	}
	return c.parcels[i], true
}

// All returns the parcels in insertion order.
func (c *Collection) All() []Parcel {
	out := make([]Parcel, len(c.parcels))
	copy(out, c.parcels)
	return out
}

func (c *Collection) Len() int {
	return len(c.parcels)
}

// Untracked counts parcels without a tracking token.
func (c *Collection) Untracked() int {
	return c.untracked
}
