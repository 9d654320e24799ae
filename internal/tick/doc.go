// Package tick decides whether a small grayscale region containing a checkbox
// is ticked.
//
// The decision is built from four steps that run on every call:
//
//  1. Projection: each row and each column is reduced to the number of dark
//     pixels it contains. A thin dark frame scores its full length on the two
//     border lines and only 2 on interior lines, so the frame stands out whether
//     or not the interior is filled.
//  2. Peaks: local maxima of the projections locate the two border lines of the
//     frame on each axis.
//  3. Fill: the dark-pixel ratio is measured over the outer box (border
//     included) and over an inner box inset from it (interior only).
//  4. Decision: the outer ratio is compared with a threshold and two margins; if
//     it falls inside the margin band the inner ratio decides the same way. If
//     both are inconclusive the box is reported unchecked with reduced
//     confidence.
//
// # Darkness
//
// A pixel is dark when its value is at or below the region's cutoff. The cutoff
// is the Otsu threshold of the region histogram, except for near-uniform
// regions (class-mean contrast below 48 levels) where the fixed mid-level 127
// is used, so a blank white region is entirely light and a solid black region
// entirely dark.
//
// # Coordinate System
//
// Coordinates are relative to the region: (0,0) is the top-left pixel of the
// image passed in, whatever its Bounds().Min. Rectangles given as x1, x2, y1, y2
// are closed: both corners are included.
//
// # Thread Safety
//
// A Classifier is immutable after New and may be shared between goroutines.
// Images are only read. Nothing is cached between calls.
package tick
