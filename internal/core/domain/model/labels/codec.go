package labels

import (
	"maps"
	"slices"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
)

// Decode converts a label set into the typed order state.
//
// The first status flag found wins. Any further status flags are ignored and reported
// through the returned warning, which callers log; it never prevents decoding.
// Date markers with a malformed value are treated as absent, and markers that do
// not belong to the decoded status's stage chain are dropped.
func Decode(set LabelSet) (order.State, *errs.InvalidLabelStateError) {
	var (
		status  = order.Pending
		ignored []string
	)
	state := order.NewState(order.Pending)

	for _, label := range set.items {
		if key, value, ok := splitKeyed(label); ok {
			state = decodeKeyed(state, key, value)
			continue
		}

		flag := strings.ToLower(label)
		if s, ok := order.StatusFromLabel(flag); ok {
			if status == order.Pending {
				status = s
			} else if s != status {
				ignored = append(ignored, flag)
			}
			continue
		}
		state = state.WithFlag(flag)
	}

	state = state.WithStatus(status).Pruned()

	if len(ignored) > 0 {
		return state, errs.NewInvalidLabelStateError(status.String(), ignored...)
	}
	return state, nil
}

func decodeKeyed(state order.State, key, value string) order.State {
	if m, ok := order.DateMarkerFromKey(key); ok {
		d, err := kernel.ParseDate(value)
		if err != nil {
			return state
		}
		return state.WithDate(m, d)
	}
	if key == order.KeyTrackingToken {
		if value == "" {
			return state
		}
		return state.WithTrackingToken(value)
	}
	return state.WithAttribute(key, value)
}

// Encode converts an order state back into labels: status flag (none for pending),
// date markers of the current and earlier stages, tracking token, other flags and
// other keyed labels.
func Encode(state order.State) LabelSet {
	state = state.Pruned()
	items := make([]string, 0, 8)

	if l := state.Status().Label(); l != "" {
		items = append(items, l)
	}

	for _, m := range order.DateMarkers() {
		if d, ok := state.Date(m); ok {
			items = append(items, string(m)+":"+d.String())
		}
	}

	if state.HasTrackingToken() {
		items = append(items, order.KeyTrackingToken+":"+state.TrackingToken())
	}

	for _, f := range state.Flags() {
		if _, isStatus := order.StatusFromLabel(f); isStatus {
			continue
		}
		items = append(items, f)
	}

	attrs := state.Attributes()
	for _, k := range slices.Sorted(maps.Keys(attrs)) {
		if isReservedKey(k) {
			continue
		}
		items = append(items, k+":"+attrs[k])
	}

	return New(items...)
}

// Tags encodes a state straight to the platform's tag string.
func Tags(state order.State) string {
	return Encode(state).String()
}

func isReservedKey(key string) bool {
	if _, ok := order.DateMarkerFromKey(key); ok {
		return true
	}
	return key == order.KeyTrackingToken
}
