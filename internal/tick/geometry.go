package tick

import "fmt"

// geometry is the frame found in a region.
type geometry struct {
	horizontal  Projection
	vertical    Projection
	rowPeaks    PeakSet
	columnPeaks PeakSet
	outer       Rect
	inner       Rect
	fallback    bool
}

// locate finds the outer and inner boxes of the region.
//
// An axis with at least two peaks takes its first and last peak as the two
// borders. Each border is widened to the whole stroke, the neighbouring lines
// that stay within a quarter of the peak line's count. The outer box runs from
// the outside edge of one stroke to the outside edge of the other; the inner
// box starts inset pixels past the inside edge of each stroke. An axis without
// such a pair, or whose strokes leave no room for the inset, falls back to the
// extent of the dark lines, and to the full region when that extent is too
// narrow as well. Fallback boxes are inset on all sides.
func (r *region) locate(window, prominence, inset int) (*geometry, error) {
	minSpan := 2*inset + 1
	if r.width < minSpan || r.height < minSpan {
		return nil, fmt.Errorf("%w: %dx%d image is smaller than the %dpx inset allows",
			ErrInvalidRegion, r.width, r.height, inset)
	}

	g := &geometry{
		horizontal: r.horizontal(),
		vertical:   r.vertical(),
	}

	var err error
	if g.rowPeaks, err = LocatePeaks(g.horizontal, window, prominence); err != nil {
		return nil, err
	}
	if g.columnPeaks, err = LocatePeaks(g.vertical, window, prominence); err != nil {
		return nil, err
	}

	rows, rowsOK := frameSpan(g.horizontal, g.rowPeaks, inset)
	if !rowsOK {
		rows = fallbackSpan(g.horizontal, inset)
	}
	cols, colsOK := frameSpan(g.vertical, g.columnPeaks, inset)
	if !colsOK {
		cols = fallbackSpan(g.vertical, inset)
	}

	g.fallback = !rowsOK || !colsOK
	g.outer = RectFromCorners(cols.outerFirst, cols.outerLast, rows.outerFirst, rows.outerLast)
	g.inner = RectFromCorners(cols.innerFirst, cols.innerLast, rows.innerFirst, rows.innerLast)
	return g, nil
}

// span is the outer and inner extent of a box along one axis, both ends
// inclusive.
type span struct {
	outerFirst, outerLast int
	innerFirst, innerLast int
}

func frameSpan(p Projection, peaks PeakSet, inset int) (span, bool) {
	if len(peaks) < 2 {
		return span{}, false
	}
	first := peaks[0].Position
	last := peaks[len(peaks)-1].Position

	topFirst, topLast := stroke(p, first, 0, last-1)
	bottomFirst, bottomLast := stroke(p, last, topLast+1, len(p)-1)

	s := span{
		outerFirst: topFirst,
		outerLast:  bottomLast,
		innerFirst: topLast + inset,
		innerLast:  bottomFirst - inset,
	}
	return s, s.innerLast >= s.innerFirst
}

// stroke widens the line at peak to the run of adjacent lines in [lo, hi]
// holding at least three quarters of its count.
func stroke(p Projection, peak, lo, hi int) (first, last int) {
	within := func(i int) bool { return 4*p[i] >= 3*p[peak] }
	first, last = peak, peak
	for first > lo && within(first-1) {
		first--
	}
	for last < hi && within(last+1) {
		last++
	}
	return first, last
}

func fallbackSpan(p Projection, inset int) span {
	first, last, ok := p.extent()
	if !ok || last-first < 2*inset {
		first, last = 0, len(p)-1
	}
	return span{
		outerFirst: first,
		outerLast:  last,
		innerFirst: first + inset,
		innerLast:  last - inset,
	}
}
