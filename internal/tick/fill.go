package tick

import "fmt"

// Rect is an axis-aligned rectangle in region coordinates.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// RectFromCorners builds the rectangle covering the closed range
// [x1,x2]×[y1,y2].
func RectFromCorners(x1, x2, y1, y2 int) Rect {
	return Rect{X: x1, Y: y1, Width: x2 - x1 + 1, Height: y2 - y1 + 1}
}

// Corners returns the closed corner coordinates x1, x2, y1, y2.
func (r Rect) Corners() (x1, x2, y1, y2 int) {
	return r.X, r.X + r.Width - 1, r.Y, r.Y + r.Height - 1
}

// Area returns the number of pixels covered by r.
func (r Rect) Area() int {
	return r.Width * r.Height
}

// Inset shrinks r by margin on every side. ok is false when nothing is left.
func (r Rect) Inset(margin int) (Rect, bool) {
	inner := Rect{
		X:      r.X + margin,
		Y:      r.Y + margin,
		Width:  r.Width - 2*margin,
		Height: r.Height - 2*margin,
	}
	return inner, inner.Width > 0 && inner.Height > 0
}

func (r *region) check(x1, x2, y1, y2 int) error {
	if x1 > x2 || y1 > y2 {
		return fmt.Errorf("%w: rectangle (%d..%d)x(%d..%d) is inverted", ErrInvalidRegion, x1, x2, y1, y2)
	}
	if x1 < 0 || y1 < 0 || x2 >= r.width || y2 >= r.height {
		return fmt.Errorf("%w: rectangle (%d..%d)x(%d..%d) outside %dx%d image",
			ErrInvalidRegion, x1, x2, y1, y2, r.width, r.height)
	}
	return nil
}

func (r *region) fill(rect Rect) int {
	x1, x2, y1, y2 := rect.Corners()
	n := 0
	for y := y1; y <= y2; y++ {
		for x := x1; x <= x2; x++ {
			if r.dark(x, y) {
				n++
			}
		}
	}
	return n
}

func (r *region) fillRatio(rect Rect) float64 {
	area := rect.Area()
	if area <= 0 {
		return 0
	}
	ratio := float64(r.fill(rect)) / float64(area)
	return min(max(ratio, 0), 1)
}

// Fill counts the dark pixels of img inside the closed rectangle
// [x1,x2]×[y1,y2].
//
// Returns ErrInvalidRegion when the rectangle is inverted or not fully inside
// the image.
func Fill(img GrayImage, x1, x2, y1, y2 int) (int, error) {
	r, err := newRegion(img)
	if err != nil {
		return 0, err
	}
	if err := r.check(x1, x2, y1, y2); err != nil {
		return 0, err
	}
	return r.fill(RectFromCorners(x1, x2, y1, y2)), nil
}

// FillRatio is Fill divided by the number of pixels in the rectangle, in [0,1].
func FillRatio(img GrayImage, x1, x2, y1, y2 int) (float64, error) {
	r, err := newRegion(img)
	if err != nil {
		return 0, err
	}
	if err := r.check(x1, x2, y1, y2); err != nil {
		return 0, err
	}
	return r.fillRatio(RectFromCorners(x1, x2, y1, y2)), nil
}

// FillRatios locates the frame of img and measures it with DefaultInset.
//
// When both axes yield a frame with room for an inner box, the result is
// [outer, inner]: the ratio over the box spanning both border strokes and the
// ratio over the box inset past the strokes. Otherwise peak detection is
// inconclusive and the result holds a single ratio over the fallback box (the
// extent of the dark pixels, or the whole image).
func FillRatios(img GrayImage, windowSize, minProminence int) ([]float64, error) {
	return fillRatios(img, windowSize, minProminence, DefaultInset)
}

// FillRatios is the package-level FillRatios with the classifier's peak
// window, prominence and inset, so the ratios match what Analyze measures.
func (c *Classifier) FillRatios(img GrayImage) ([]float64, error) {
	return fillRatios(img, c.window, c.prominence, c.inset)
}

func fillRatios(img GrayImage, windowSize, minProminence, inset int) ([]float64, error) {
	r, err := newRegion(img)
	if err != nil {
		return nil, err
	}
	geo, err := r.locate(windowSize, minProminence, inset)
	if err != nil {
		return nil, err
	}
	outer := r.fillRatio(geo.outer)
	if geo.fallback {
		return []float64{outer}, nil
	}
	return []float64{outer, r.fillRatio(geo.inner)}, nil
}
