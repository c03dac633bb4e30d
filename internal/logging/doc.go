// Package logging assembles structured slog loggers and formatting helpers used
// across reelpost services.
//
// It owns the configurable console/JSON handlers and centralizes level and
// output plumbing. Components receive a logger tagged with their name via
// NewComponentLogger so the console handler can render a stable prefix, and
// tests can use NewNop when output is irrelevant.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits the same field names (release_key, flush_id, alert).
package logging
