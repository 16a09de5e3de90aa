// Package decoration defines rendered caption artifacts and the shadow cache.
//
// A Decoration is a bitmap with a display window and a screen position. The
// shadow cache renders each distinct shadow once, keeps a private master, and
// hands every caller its own deep copy so callers may re-time or reposition
// what they receive.
package decoration
