// Package daemon coordinates the long-running reelpost process.
//
// It wires configuration, the file store, the ingest watcher, and the
// announcement pipeline into a single lifecycle with flock-based locking to
// prevent multiple instances. Stopping the daemon ends polling first and then
// drains open coalescing windows so queued uploads are still announced.
//
// Keep orchestration logic here: classification, coalescing, and publishing
// live in their own packages while the daemon focuses on startup, shutdown,
// and wiring.
package daemon
