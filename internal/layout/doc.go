// Package layout wraps caption text into lines that fit a pixel width and
// answers whether a piece of text fits a line budget.
//
// Wrapper is greedy: it keeps adding words to the current line while the
// measured width stays strictly below the frame width, and starts a new line
// with the word that broke the limit. A word that is wider than the frame on
// its own still gets its own line so wrapping always makes progress. Results
// are memoized per Wrapper, and every call hands back its own copy of the
// line slice.
package layout
