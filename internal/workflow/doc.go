// Package workflow runs a caption generation end to end.
//
// A Generator resolves the run's inputs, checks readiness, and records the
// run in the run store. It then plans every caption overlay with a fresh
// overlay.Engine and hands the rendered decorations to the ffmpeg
// compositor. A file lock on the output path keeps concurrent runs from
// writing the same video.
//
// Runs move through pending, planning and rendering before ending as
// completed, failed or invalid. Bad input (missing files, malformed
// transcripts, unusable configuration) ends a run as invalid.
package workflow
