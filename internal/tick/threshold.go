package tick

import (
	"fmt"
	"image"
	"image/color"
)

const (
	numLevels = 256

	// fixedCutoff separates dark from light when the histogram has no usable
	// split.
	fixedCutoff = 127

	// minSplitContrast is the smallest distance between the two Otsu class means
	// for which the Otsu threshold is trusted.
	minSplitContrast = 48
)

// GrayImage is a read-only 8-bit grayscale raster. *image.Gray implements it.
type GrayImage interface {
	Bounds() image.Rectangle
	GrayAt(x, y int) color.Gray
}

// region is a zero-origin view of a GrayImage together with its dark cutoff.
type region struct {
	img    GrayImage
	origin image.Point
	width  int
	height int
	cutoff uint8
}

func newRegion(img GrayImage) (*region, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", ErrInvalidInput)
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("%w: image is %dx%d", ErrInvalidInput, b.Dx(), b.Dy())
	}
	r := &region{
		img:    img,
		origin: b.Min,
		width:  b.Dx(),
		height: b.Dy(),
	}
	r.cutoff = darkCutoff(r.histogram())
	return r, nil
}

func (r *region) at(x, y int) uint8 {
	return r.img.GrayAt(r.origin.X+x, r.origin.Y+y).Y
}

func (r *region) dark(x, y int) bool {
	return r.at(x, y) <= r.cutoff
}

func (r *region) histogram() []int {
	hist := make([]int, numLevels)
	for y := 0; y < r.height; y++ {
		for x := 0; x < r.width; x++ {
			hist[r.at(x, y)]++
		}
	}
	return hist
}

// otsuThreshold returns the level that maximises the between-class variance of
// the histogram, where the background class is every level up to and including
// the threshold. contrast is the distance between the two class means at that
// level; it is 0 when the histogram holds a single level.
func otsuThreshold(hist []int) (threshold int, contrast float64) {
	total := 0
	sum := 0
	for level, n := range hist {
		total += n
		sum += level * n
	}

	var bestVariance float64
	weightBackground := 0
	sumBackground := 0
	for level := 0; level < len(hist); level++ {
		weightBackground += hist[level]
		if weightBackground == 0 {
			continue
		}
		weightForeground := total - weightBackground
		if weightForeground == 0 {
			break
		}
		sumBackground += level * hist[level]

		meanBackground := float64(sumBackground) / float64(weightBackground)
		meanForeground := float64(sum-sumBackground) / float64(weightForeground)
		diff := meanForeground - meanBackground
		variance := float64(weightBackground) * float64(weightForeground) * diff * diff

		if variance > bestVariance {
			bestVariance = variance
			threshold = level
			contrast = diff
		}
	}
	return threshold, contrast
}

func darkCutoff(hist []int) uint8 {
	threshold, contrast := otsuThreshold(hist)
	if contrast < minSplitContrast {
		return fixedCutoff
	}
	return uint8(threshold)
}

// DarkCutoff returns the gray level at or below which pixels of img count as
// dark.
func DarkCutoff(img GrayImage) (uint8, error) {
	r, err := newRegion(img)
	if err != nil {
		return 0, err
	}
	return r.cutoff, nil
}
