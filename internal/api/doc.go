// Package api serves caption plans and run history over HTTP.
//
// The router is built with chi. POST /v1/plan runs the caption engine in
// plan-only mode: it wraps, chunks and schedules a transcript for a frame
// and returns the timed layout as JSON without rendering bitmaps. GET
// /v1/runs lists recorded generation runs. Every request gets a request id
// that is echoed in X-Request-ID and attached to log lines.
package api
