// Package ports defines the contracts between the fulfillment core and the outside
// world: the commerce platform that owns orders, the carrier feed, the messaging
// channel, the pending-confirmation store and the notification sinks.
package ports
