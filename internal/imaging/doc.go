// Package imaging loads form pages and turns them into the 8-bit grayscale
// regions the checkbox classifier works on.
//
// # Coordinate System
//
// Page coordinates are 0-based with (0,0) at the top-left corner, X increasing
// rightward and Y increasing downward. Crop rectangles follow image.Rectangle:
// Min is inclusive, Max is exclusive. A cropped region always starts at (0,0).
//
// # Gray Modes
//
// Colour pages are reduced to one channel before classification:
//   - max: brightest channel. Coloured form printing (drop-out ink) turns
//     light while pen strokes in any colour stay dark relative to it.
//   - min: darkest channel. Faint coloured pen marks become darker.
//   - luma: weighted channel sum, 0.3R + 0.6G + 0.1B.
//   - lightness: CIE L*, perceptual lightness.
//
// Transparent pixels are composited onto white first, so a transparent
// background reads as paper.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. The conversion functions never modify
// their input and may run concurrently.
package imaging
