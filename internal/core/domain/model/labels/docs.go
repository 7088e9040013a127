// Package labels is the codec between an order's flat tag list and order.State.
//
// Labels are either flags ("shipped", "priority") or keyed labels
// ("shipping_barcode:AB123"). Comparison is case-insensitive; keyed values keep their
// original casing. This package and the order store adapter are the only places that
// handle raw label strings.
package labels
