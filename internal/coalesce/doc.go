// Package coalesce batches uploads that belong to the same release so each
// burst produces a single downstream flush.
//
// The first descriptor for a key opens a fixed window; later descriptors for
// that key are appended without extending it. When the window closes the
// batch is removed and the key released in one critical section, then the
// batch is handed to the flush callback. Arrivals after that point open a
// fresh window.
package coalesce
