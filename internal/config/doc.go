// Package config loads, normalizes, and validates reelpost configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// TELEGRAM_BOT_TOKEN and TMDB_API_KEY. The Config type centralizes every knob
// the daemon and CLI need: the source and destination channels, the
// accumulation delay, lookup collaborators, and the fallback poster.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, positive durations, and clear validation errors.
package config
