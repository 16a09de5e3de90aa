// Package main hosts the reelcap CLI entrypoint and command graph.
//
// The Cobra command tree renders captioned videos, previews caption plans
// without rendering, lists run history, checks readiness and serves the
// plan API. Configuration resolution and logger setup live in the shared
// command context so subcommands only describe their flags and output.
package main
