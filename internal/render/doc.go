// Package render draws caption decorations with real fonts.
//
// Text is drawn with golang.org/x/image font faces, outlines are produced by
// stamping the glyphs around a disc of the stroke radius, and shadows are
// softened with a Gaussian blur from disintegration/imaging on a padded
// canvas so the blur is never clipped.
package render
