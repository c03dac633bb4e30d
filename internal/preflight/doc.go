// Package preflight provides readiness checks for the directories and
// external services reelpost depends on.
//
// The run command logs failed checks before the daemon starts, and
// "reelpost status --check" prints every result. Each service check is gated
// by its config: a source that is not configured is skipped.
package preflight
