// Package compositor renders caption overlays onto a base video with ffmpeg.
//
// Every distinct overlay bitmap is written once as a PNG into the job's work
// directory. A filter_complex script then chains one overlay filter per
// decoration, each enabled only inside its display window, and ffmpeg encodes
// the result with the optional audio track and still image.
package compositor
