// Package logs reads the daemon log file for the CLI.
//
// Last returns the newest lines with bounded memory, and Follow polls for
// appended lines until its context ends, restarting from the top when the
// file is truncated or replaced.
package logs
