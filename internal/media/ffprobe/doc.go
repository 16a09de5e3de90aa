// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// Inspect runs ffprobe and decodes its streams and format sections. Helpers
// on Result answer the questions the compositor asks of its inputs: frame
// size, frame rate and duration.
package ffprobe
