// Package captions groups a timed word stream into caption chunks and derives
// the per-word highlight windows inside each chunk.
//
// Chunk boundaries depend only on the fit evaluator: a chunk grows one word
// at a time until adding the next word would no longer fit. No sentence or
// clause detection is attempted.
package captions
