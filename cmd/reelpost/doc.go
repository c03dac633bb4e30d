// Package main hosts the reelpost CLI entrypoint and command graph.
//
// The Cobra command tree runs the announcement daemon in the foreground and
// exposes offline tools for checking how an upload would be classified,
// looked up and posted. Configuration resolution and logger setup live here
// so subcommands stay small; behaviour belongs in the internal packages.
package main
