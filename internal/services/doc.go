// Package services defines shared utilities consumed by the generation
// workflow, the HTTP API, and the external tool integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, stage names, and correlation
//     identifiers for logging.
//   - Structured error markers plus the Wrap helper that translate failures
//     into consistent run statuses (failed vs invalid).
//
// Use these helpers when wiring new pipeline stages so operational behaviour
// (error classification, observability) stays uniform.
package services
