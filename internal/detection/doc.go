// Package detection finds checkbox frames on a scanned form page.
//
// FindCheckboxes returns candidate boxes whose regions can be cropped and
// handed to the classifier in package tick. Detection looks for connected ink
// that outlines a square-ish box on all four sides, so letters, underlines and
// table borders are skipped.
//
// # Coordinate System
//
// Bounds are in page coordinates: origin at the top-left, X rightward, Y
// downward, (X1, Y1) inclusive and (X2, Y2) exclusive.
//
// # Limitations
//
// A frame broken by a scanning gap longer than the side coverage allows is
// missed, and so is a box drawn from separate, non-touching strokes. Boxes
// that touch each other merge into one component and fail the squareness
// test.
package detection
