package order

import "strings"

// CarrierStatus is the free-text parcel status reported by the carrier feed.
// Comparisons are case-insensitive and ignore surrounding whitespace.
type CarrierStatus string

var (
	deliveredStatuses = []string{"delivered", "confirm delivered"}

	// A blank status is treated as not yet picked up.
	pendingPickupStatuses = []string{"", "pending pickup", "pending", "new", "created", "awaiting pickup"}

	merchantReceivedReturnStatuses = []string{
		"merchant received return",
		"confirmed received by merchant",
		"returned to merchant",
	}
)

func (c CarrierStatus) normalized() string {
	return strings.ToLower(strings.Join(strings.Fields(string(c)), " "))
}

func (c CarrierStatus) oneOf(set []string) bool {
	n := c.normalized()
	for _, s := range set {
		if n == s {
			return true
		}
	}
	return false
}

// IsDelivered reports Delivered or Confirm Delivered.
func (c CarrierStatus) IsDelivered() bool {
	return c.oneOf(deliveredStatuses)
}

// IsPendingPickup reports whether the parcel still waits at the merchant.
func (c CarrierStatus) IsPendingPickup() bool {
	return c.oneOf(pendingPickupStatuses)
}

// IsMerchantReceivedReturn reports a return confirmed as received back by the shop.
func (c CarrierStatus) IsMerchantReceivedReturn() bool {
	return c.oneOf(merchantReceivedReturnStatuses)
}

func (c CarrierStatus) String() string {
	return strings.TrimSpace(string(c))
}
