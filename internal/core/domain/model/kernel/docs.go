// Package kernel provides the primitives shared by the fulfillment domain model.
//
// The package includes:
//   - Date: a calendar day without time of day, the unit of every label date stamp
//   - Calendar: the source of "today" in the shop's time zone, replaceable in tests
//   - NormalizePhone: reduces customer and WhatsApp phone numbers to a comparable form
//   - UUID: identifiers for records the service owns (status-change log, job runs)
//
// Elapsed days between two dates are always computed on local midnights and rounded,
// so a stamp written late in the evening and read early next morning counts as one day.
package kernel
