// Package notify implements the notification sink as an asynchronous fan-out.
//
// The Dispatcher satisfies ports.Notifier: state machine callers enqueue a status
// change and return immediately. A background worker hands each change to the
// configured sinks (structured log, Prometheus counter, status-change log).
// Delivery is best effort; sink failures are logged and never reach the caller.
package notify
