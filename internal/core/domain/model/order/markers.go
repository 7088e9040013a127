package order

// DateMarker is the key of a write-once date stamp label (order_ready_date:2025-01-01).
type DateMarker string

const (
	MarkerOrderReady DateMarker = "order_ready_date"
	MarkerOnHold     DateMarker = "moved_to_on_hold"
	MarkerShipping   DateMarker = "shipping_date"
	MarkerFulfilled  DateMarker = "fulfilled_at"
	MarkerCancelled  DateMarker = "cancelled_date"
)

// DateMarkers returns every marker in lifecycle order.
func DateMarkers() []DateMarker {
	return []DateMarker{MarkerOrderReady, MarkerOnHold, MarkerShipping, MarkerFulfilled, MarkerCancelled}
}

// DateMarkerFromKey maps a lowercased keyed-label key to its marker.
func DateMarkerFromKey(key string) (DateMarker, bool) {
	for _, m := range DateMarkers() {
		if string(m) == key {
			return m, true
		}
	}
	return "", false
}

// Flag labels with a meaning to the fulfillment core. Any other flag is carried
// through untouched.
const (
	FlagPriority         = "priority"
	FlagPaid             = "paid"
	FlagDeleted          = "deleted"
	FlagNoReplyCancelled = "no_reply_cancelled"
)

// Keyed-label keys with a meaning to the fulfillment core.
const (
	KeyTrackingToken = "shipping_barcode"
	KeyNotified      = "notified"
)
