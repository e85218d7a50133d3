// Package notifications delivers library events via pluggable notifiers.
//
// The default implementation publishes to ntfy using the topic configured in
// config.toml and gracefully degrades to a no-op when notifications are
// disabled. Per-event toggles let users subscribe to caption completions,
// processed-media arrivals, and errors independently.
//
// Extend this package if you need alternative transports; callers depend only
// on the Service interface.
package notifications
