// Package textmetrics measures rendered text in pixels.
//
// The layout engine only ever asks one question of a font: how wide and how
// tall is this string. Measurer captures that question so layout code can be
// tested against deterministic fakes, while OpenType answers it for real font
// files.
package textmetrics
