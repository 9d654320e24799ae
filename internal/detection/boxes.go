package detection

import (
	"fmt"
	"image"
	"sort"

	"github.com/ironsheep/tick-reader-mcp/internal/tick"
)

// Bounds is a bounding box in page coordinates. (X1, Y1) is inclusive and
// (X2, Y2) is exclusive, matching image.Rectangle.
type Bounds struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Rect converts b to an image.Rectangle.
func (b Bounds) Rect() image.Rectangle {
	return image.Rect(b.X1, b.Y1, b.X2, b.Y2)
}

// Point is a pixel position.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Checkbox is a square-ish closed frame found on a page.
type Checkbox struct {
	Bounds Bounds `json:"bounds"`
	Width  int    `json:"width"`
	Height int    `json:"height"`

	// Confidence is the coverage of the worst of the four sides: the fraction
	// of positions along that side with an ink pixel near the edge.
	Confidence float64 `json:"confidence"`
}

// CropRect returns the checkbox grown by pad pixels on every side, clipped to
// page.
func (c Checkbox) CropRect(pad int, page image.Rectangle) image.Rectangle {
	return c.Bounds.Rect().Inset(-pad).Intersect(page)
}

// LabelRect returns the strip to the right of the checkbox where its label is
// usually printed: width pixels wide, starting gap pixels after the frame, and
// half a box taller than the frame on each side. The strip is clipped to page
// and may be empty.
func (c Checkbox) LabelRect(gap, width int, page image.Rectangle) image.Rectangle {
	grow := c.Height / 2
	r := image.Rect(c.Bounds.X2+gap, c.Bounds.Y1-grow, c.Bounds.X2+gap+width, c.Bounds.Y2+grow)
	return r.Intersect(page)
}

// CheckboxesResult contains the checkboxes of a page in reading order.
type CheckboxesResult struct {
	Checkboxes []Checkbox `json:"checkboxes"`
	Count      int        `json:"count"`
}

// Options bounds what counts as a checkbox.
type Options struct {
	// MinSize and MaxSize limit the width and height of a frame in pixels.
	MinSize int `json:"min_size"`
	MaxSize int `json:"max_size"`

	// MinSquareness is the lowest accepted ratio of the shorter side to the
	// longer side.
	MinSquareness float64 `json:"min_squareness"`

	// MinCoverage is the lowest accepted side coverage (see Checkbox.Confidence).
	MinCoverage float64 `json:"min_coverage"`

	// Band is how far from the bounding edge, in pixels, an ink pixel still
	// counts towards that side. It absorbs slight skew.
	Band int `json:"band"`
}

// DefaultOptions suits form scans between 100 and 300 dpi.
func DefaultOptions() Options {
	return Options{
		MinSize:       8,
		MaxSize:       200,
		MinSquareness: 0.75,
		MinCoverage:   0.8,
		Band:          3,
	}
}

func (o Options) validate() error {
	switch {
	case o.MinSize < 1 || o.MaxSize < o.MinSize:
		return fmt.Errorf("size range %d..%d is invalid", o.MinSize, o.MaxSize)
	case o.MinSquareness < 0 || o.MinSquareness > 1:
		return fmt.Errorf("min squareness %v not in [0,1]", o.MinSquareness)
	case o.MinCoverage < 0 || o.MinCoverage > 1:
		return fmt.Errorf("min coverage %v not in [0,1]", o.MinCoverage)
	case o.Band < 1:
		return fmt.Errorf("band %d must be at least 1", o.Band)
	}
	return nil
}

// FindCheckboxes locates checkbox frames on a grayscale page.
//
// Parameters:
//   - img: The page, already reduced to gray.
//   - opts: Size and shape limits; see DefaultOptions.
//
// Returns the checkboxes in reading order: rows top to bottom, where boxes whose
// centres are less than half a box apart vertically share a row, and left to
// right within a row. Boxes that lie entirely inside another accepted box (a
// filled blot inside a frame) are dropped.
//
// # Algorithm
//
//  1. Dark pixels are those at or below the page's dark cutoff, the same
//     cutoff the classifier uses.
//  2. Dark pixels are grouped into 8-connected components with an iterative
//     flood fill; components under 10 pixels are ignored.
//  3. A component is a candidate when its bounding box is within the size
//     range and square enough.
//  4. Each side of the bounding box is scanned for ink within Band pixels of
//     the edge. A frame covers all four sides; letters, lines and marks do not.
func FindCheckboxes(img tick.GrayImage, opts Options) (*CheckboxesResult, error) {
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("invalid detection options: %w", err)
	}
	cutoff, err := tick.DarkCutoff(img)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	ink := make([]bool, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			ink[y*width+x] = img.GrayAt(x+bounds.Min.X, y+bounds.Min.Y).Y <= cutoff
		}
	}

	boxes := make([]Checkbox, 0)
	for _, component := range findComponents(ink, width, height) {
		box, ok := frameOf(component, opts)
		if !ok {
			continue
		}
		box.Bounds.X1 += bounds.Min.X
		box.Bounds.X2 += bounds.Min.X
		box.Bounds.Y1 += bounds.Min.Y
		box.Bounds.Y2 += bounds.Min.Y
		boxes = append(boxes, box)
	}

	boxes = dropNested(boxes)
	readingOrder(boxes)

	return &CheckboxesResult{
		Checkboxes: boxes,
		Count:      len(boxes),
	}, nil
}

// frameOf checks whether a component looks like a checkbox frame.
func frameOf(component []Point, opts Options) (Checkbox, bool) {
	minX, minY := component[0].X, component[0].Y
	maxX, maxY := minX, minY
	for _, p := range component {
		minX = min(minX, p.X)
		maxX = max(maxX, p.X)
		minY = min(minY, p.Y)
		maxY = max(maxY, p.Y)
	}

	w := maxX - minX + 1
	h := maxY - minY + 1
	if w < opts.MinSize || h < opts.MinSize || w > opts.MaxSize || h > opts.MaxSize {
		return Checkbox{}, false
	}
	if float64(min(w, h))/float64(max(w, h)) < opts.MinSquareness {
		return Checkbox{}, false
	}

	top := make([]bool, w)
	bottom := make([]bool, w)
	left := make([]bool, h)
	right := make([]bool, h)
	for _, p := range component {
		x, y := p.X-minX, p.Y-minY
		if y < opts.Band {
			top[x] = true
		}
		if maxY-p.Y < opts.Band {
			bottom[x] = true
		}
		if x < opts.Band {
			left[y] = true
		}
		if maxX-p.X < opts.Band {
			right[y] = true
		}
	}

	confidence := min(coverage(top), coverage(bottom), coverage(left), coverage(right))
	if confidence < opts.MinCoverage {
		return Checkbox{}, false
	}

	return Checkbox{
		Bounds:     Bounds{X1: minX, Y1: minY, X2: maxX + 1, Y2: maxY + 1},
		Width:      w,
		Height:     h,
		Confidence: confidence,
	}, true
}

func readingOrder(boxes []Checkbox) {
	centerY := func(b Checkbox) int { return (b.Bounds.Y1 + b.Bounds.Y2) / 2 }
	sort.Slice(boxes, func(i, j int) bool { return centerY(boxes[i]) < centerY(boxes[j]) })

	for start := 0; start < len(boxes); {
		end := start + 1
		for end < len(boxes) && centerY(boxes[end])-centerY(boxes[start]) < boxes[start].Height/2 {
			end++
		}
		row := boxes[start:end]
		sort.Slice(row, func(i, j int) bool { return row[i].Bounds.X1 < row[j].Bounds.X1 })
		start = end
	}
}

func coverage(side []bool) float64 {
	n := 0
	for _, hit := range side {
		if hit {
			n++
		}
	}
	return float64(n) / float64(len(side))
}

func dropNested(boxes []Checkbox) []Checkbox {
	kept := make([]Checkbox, 0, len(boxes))
	for i, b := range boxes {
		nested := false
		for j, outer := range boxes {
			if i != j && b.Bounds.Rect().In(outer.Bounds.Rect()) && b.Bounds != outer.Bounds {
				nested = true
				break
			}
		}
		if !nested {
			kept = append(kept, b)
		}
	}
	return kept
}

// findComponents groups ink pixels into 8-connected components.
//
// Components smaller than 10 pixels are discarded as noise.
func findComponents(ink []bool, width, height int) [][]Point {
	visited := make([]bool, len(ink))
	components := make([][]Point, 0)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if ink[y*width+x] && !visited[y*width+x] {
				component := floodFill(ink, visited, x, y, width, height)
				if len(component) >= 10 {
					components = append(components, component)
				}
			}
		}
	}

	return components
}

// floodFill collects the component containing (startX, startY) with an
// explicit stack.
func floodFill(ink, visited []bool, startX, startY, width, height int) []Point {
	var component []Point
	stack := []Point{{X: startX, Y: startY}}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if p.X < 0 || p.X >= width || p.Y < 0 || p.Y >= height {
			continue
		}
		i := p.Y*width + p.X
		if visited[i] || !ink[i] {
			continue
		}

		visited[i] = true
		component = append(component, p)

		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				stack = append(stack, Point{X: p.X + dx, Y: p.Y + dy})
			}
		}
	}

	return component
}
