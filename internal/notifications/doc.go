// Package notifications delivers operator alerts via pluggable notifiers.
//
// The default implementation publishes to ntfy using the topic configured in
// config.toml and degrades to a no-op when notifications are disabled. Events
// cover the failures an operator must act on (publishes that were dropped,
// internal invariant faults) plus daemon lifecycle and a test ping.
package notifications
