// Package transcript holds the timed word model the caption engine consumes
// and reads transcript JSON documents into it.
//
// Two document shapes are accepted: WhisperX style output where each segment
// carries its own words, and OpenAI verbose_json output where words are listed
// once at the top level. Word text is trimmed and NFC normalized on the way in
// so that identical words always produce identical layout cache keys.
// Timestamps are validated but never repaired.
package transcript
