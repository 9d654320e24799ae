package tick

// Projection holds the number of dark pixels on each line of a region.
//
// A horizontal projection has one entry per row (len == height); a vertical
// projection has one entry per column (len == width).
type Projection []int

func (r *region) horizontal() Projection {
	values := make(Projection, r.height)
	for y := 0; y < r.height; y++ {
		for x := 0; x < r.width; x++ {
			if r.dark(x, y) {
				values[y]++
			}
		}
	}
	return values
}

func (r *region) vertical() Projection {
	values := make(Projection, r.width)
	for y := 0; y < r.height; y++ {
		for x := 0; x < r.width; x++ {
			if r.dark(x, y) {
				values[x]++
			}
		}
	}
	return values
}

// HorizontalProjection counts the dark pixels of every row of img.
//
// The result has one entry per row. Shifting content within the region shifts
// the entries by the same offset. Returns ErrInvalidInput for an empty image.
func HorizontalProjection(img GrayImage) (Projection, error) {
	r, err := newRegion(img)
	if err != nil {
		return nil, err
	}
	return r.horizontal(), nil
}

// VerticalProjection counts the dark pixels of every column of img.
func VerticalProjection(img GrayImage) (Projection, error) {
	r, err := newRegion(img)
	if err != nil {
		return nil, err
	}
	return r.vertical(), nil
}

// Slopes returns the first difference of the projection, p[i+1]-p[i].
// Rising edges of a frame show up as large positive slopes, falling edges as
// large negative ones.
func (p Projection) Slopes() []int {
	if len(p) < 2 {
		return []int{}
	}
	slopes := make([]int, len(p)-1)
	for i := range slopes {
		slopes[i] = p[i+1] - p[i]
	}
	return slopes
}

// extent returns the first and last index holding a non-zero value.
func (p Projection) extent() (first, last int, ok bool) {
	first = -1
	for i, v := range p {
		if v > 0 {
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	return first, last, first >= 0
}
