// Package overlay turns a transcript into the ordered list of timed,
// positioned caption overlays handed to the compositor.
//
// An Engine is built for one generation run and owns that run's layout and
// shadow caches. Build chunks the transcript against the line budget, derives
// highlight windows, lays out every window, vertically centres the block and
// emits shadow layers followed by the text for every line. Without a
// renderer the engine only plans: descriptors carry text, timing and position
// but no bitmaps.
package overlay
