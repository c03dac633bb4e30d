// Package filestore persists uploaded file records in SQLite.
//
// Records are deduplicated by the transport's unique file id, so a file that
// is forwarded twice is saved once and announced once. Per-key counts feed
// the "Total Files" line of announcements, and the long-poll offset is kept
// here so a restart resumes after the last processed update.
package filestore
