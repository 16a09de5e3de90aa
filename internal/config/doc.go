// Package config loads, normalizes, and validates reelcap configuration data.
//
// It supplies repository defaults (which match the caption look the tool has
// always shipped with), expands user paths including tilde shortcuts, and reads
// TOML files. The Config type centralizes every knob the CLI, the HTTP API and
// the generation workflow need.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
