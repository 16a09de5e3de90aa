// Package preflight provides readiness checks for the binaries, fonts and
// directories a generation run depends on.
//
// These checks run in two contexts:
//   - The workflow calls RunAll before composing and refuses to start a run
//     that is bound to fail halfway through an ffmpeg encode.
//   - The CLI "reelcap doctor" command prints every result.
package preflight
