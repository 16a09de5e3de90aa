// Package memo provides the run-scoped memoization table behind the layout
// and shadow caches. A positive capacity bounds the table with least recently
// used eviction; zero keeps every entry for the lifetime of the table.
package memo
