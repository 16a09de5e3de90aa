// Package runstore persists caption generation runs in SQLite.
//
// Each run records its input files, the lifecycle status it reached, the
// counts produced by the caption engine, and the final error when it stopped
// early. The CLI and the HTTP API read from the same database so rendering
// history survives restarts.
package runstore
