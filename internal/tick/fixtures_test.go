package tick

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"math"
	"math/rand"
	"testing"
)

const (
	white = 255
	black = 0
)

// newCanvas creates a grayscale image filled with a single level.
func newCanvas(w, h int, level uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = level
	}
	return img
}

// drawFrame draws the outline of the closed rectangle [x1,x2]x[y1,y2].
func drawFrame(img *image.Gray, x1, x2, y1, y2, thickness int, level uint8) {
	for y := y1; y <= y2; y++ {
		for x := x1; x <= x2; x++ {
			if x < x1+thickness || x > x2-thickness || y < y1+thickness || y > y2-thickness {
				img.SetGray(x, y, color.Gray{Y: level})
			}
		}
	}
}

func fillBox(img *image.Gray, x1, x2, y1, y2 int, level uint8) {
	for y := y1; y <= y2; y++ {
		for x := x1; x <= x2; x++ {
			img.SetGray(x, y, color.Gray{Y: level})
		}
	}
}

// perfectFrame is an 80x80 white region with a 1px black frame on rows and
// columns 10 and 69, optionally filled.
func perfectFrame(filled bool) *image.Gray {
	img := newCanvas(80, 80, white)
	drawFrame(img, 10, 69, 10, 69, 1, black)
	if filled {
		fillBox(img, 11, 68, 11, 68, black)
	}
	return img
}

// asymmetricFrame has its frame on rows 0 and 59 and columns 5 and 64.
func asymmetricFrame() *image.Gray {
	img := newCanvas(80, 80, white)
	drawFrame(img, 5, 64, 0, 59, 1, black)
	return img
}

// scan imitates a scanned checkbox: noisy paper, noisy ink.
type scan struct {
	img   *image.Gray
	rng   *rand.Rand
	paper int
	ink   int
}

const (
	paperSpread = 12
	inkSpread   = 15
)

func newScan(seed int64, w, h, paper, ink int) *scan {
	s := &scan{
		img:   image.NewGray(image.Rect(0, 0, w, h)),
		rng:   rand.New(rand.NewSource(seed)),
		paper: paper,
		ink:   ink,
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			s.set(x, y, s.paper, paperSpread)
		}
	}
	return s
}

func (s *scan) set(x, y, level, spread int) {
	if !(image.Point{X: x, Y: y}.In(s.img.Bounds())) {
		return
	}
	v := level + s.rng.Intn(2*spread+1) - spread
	s.img.SetGray(x, y, color.Gray{Y: uint8(min(max(v, 0), 255))})
}

func (s *scan) dot(x, y int) {
	s.set(x, y, s.ink, inkSpread)
}

func (s *scan) frame(x1, x2, y1, y2, thickness int) *scan {
	for y := y1; y <= y2; y++ {
		for x := x1; x <= x2; x++ {
			if x < x1+thickness || x > x2-thickness || y < y1+thickness || y > y2-thickness {
				s.dot(x, y)
			}
		}
	}
	return s
}

// skewedFrame draws a square frame of half-size half rotated by degrees around
// the pixel-grid point (cx, cy).
func (s *scan) skewedFrame(cx, cy, half, thickness, degrees float64) *scan {
	sin, cos := math.Sincos(degrees * math.Pi / 180)
	b := s.img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			px, py := float64(x)-cx, float64(y)-cy
			u := px*cos + py*sin
			v := -px*sin + py*cos
			m := math.Max(math.Abs(u), math.Abs(v))
			if m <= half && m > half-thickness {
				s.dot(x, y)
			}
		}
	}
	return s
}

// line draws a pen stroke: every pixel whose centre lies within width/2 of the
// segment.
func (s *scan) line(x0, y0, x1, y1, width float64) *scan {
	r := width / 2
	minX, maxX := int(math.Floor(math.Min(x0, x1)-r)), int(math.Ceil(math.Max(x0, x1)+r))
	minY, maxY := int(math.Floor(math.Min(y0, y1)-r)), int(math.Ceil(math.Max(y0, y1)+r))
	dx, dy := x1-x0, y1-y0
	length2 := dx*dx + dy*dy
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			t := 0.0
			if length2 > 0 {
				t = ((float64(x)-x0)*dx + (float64(y)-y0)*dy) / length2
				t = math.Max(0, math.Min(1, t))
			}
			ex := float64(x) - (x0 + t*dx)
			ey := float64(y) - (y0 + t*dy)
			if ex*ex+ey*ey <= r*r {
				s.dot(x, y)
			}
		}
	}
	return s
}

func (s *scan) disc(cx, cy, radius float64) *scan {
	return s.line(cx, cy, cx, cy, 2*radius)
}

// bleed smudges the rings of pixels just outside and just inside a frame with
// a mid-gray, each pixel with probability p.
func (s *scan) bleed(x1, x2, y1, y2, thickness int, p float64) *scan {
	onRing := func(x, y, a1, a2, b1, b2 int) bool {
		inside := x >= a1 && x <= a2 && y >= b1 && y <= b2
		return inside && (x == a1 || x == a2 || y == b1 || y == b2)
	}
	for y := y1 - 1; y <= y2+1; y++ {
		for x := x1 - 1; x <= x2+1; x++ {
			outer := onRing(x, y, x1-1, x2+1, y1-1, y2+1)
			inner := onRing(x, y, x1+thickness, x2-thickness, y1+thickness, y2-thickness)
			if (outer || inner) && s.rng.Float64() < p {
				s.set(x, y, 150, 10)
			}
		}
	}
	return s
}

// jpeg round-trips the scan through a lossy encoding.
func (s *scan) jpeg(t *testing.T, quality int) *scan {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, s.img, &jpeg.Options{Quality: quality}); err != nil {
		t.Fatalf("failed to encode jpeg: %v", err)
	}
	decoded, err := jpeg.Decode(&buf)
	if err != nil {
		t.Fatalf("failed to decode jpeg: %v", err)
	}
	gray := image.NewGray(decoded.Bounds())
	draw.Draw(gray, gray.Bounds(), decoded, decoded.Bounds().Min, draw.Src)
	s.img = gray
	return s
}

type fixture struct {
	name string
	img  *image.Gray
}

// uncheckedScans returns eleven noisy unchecked boxes.
func uncheckedScans(t *testing.T) []fixture {
	t.Helper()
	return []fixture{
		{"clean", newScan(1, 80, 80, 225, 45).frame(10, 69, 10, 69, 2).img},
		{"thick border", newScan(2, 80, 80, 225, 45).frame(10, 69, 10, 69, 3).img},
		{"small box", newScan(3, 48, 48, 225, 45).frame(8, 39, 8, 39, 2).img},
		{"off centre", newScan(4, 80, 80, 225, 45).frame(12, 69, 3, 60, 2).img},
		{"skewed", newScan(5, 80, 80, 225, 45).skewedFrame(39.5, 39.5, 30, 2, 2).img},
		{"jpeg", newScan(6, 80, 80, 225, 45).frame(10, 69, 10, 69, 2).jpeg(t, 60).img},
		{"dust specks", dustySpecks()},
		{"pencil border", newScan(8, 80, 80, 230, 110).frame(10, 69, 10, 69, 2).img},
		{"ink bleed", newScan(9, 80, 80, 225, 45).frame(10, 69, 10, 69, 2).bleed(10, 69, 10, 69, 2, 0.4).img},
		{"gray paper", newScan(10, 80, 80, 170, 30).frame(10, 69, 10, 69, 2).img},
		{"wide box", newScan(11, 96, 64, 225, 45).frame(6, 89, 6, 57, 2).img},
	}
}

func dustySpecks() *image.Gray {
	s := newScan(7, 80, 80, 225, 45).frame(10, 69, 10, 69, 2)
	for _, p := range []image.Point{{22, 25}, {40, 31}, {55, 47}, {30, 58}, {48, 20}, {36, 44}} {
		s.dot(p.X, p.Y)
	}
	return s.img
}

// checkedScans returns ten noisy ticked boxes with varied marks.
func checkedScans(t *testing.T) []fixture {
	t.Helper()
	box := func(seed int64) *scan {
		return newScan(seed, 80, 80, 225, 45).frame(10, 69, 10, 69, 2)
	}
	cross := func(s *scan) *scan {
		return s.line(16, 16, 63, 63, 4).line(16, 63, 63, 16, 4)
	}
	return []fixture{
		{"cross", cross(box(21)).img},
		{"tick", box(22).line(20, 42, 33, 58, 5).line(33, 58, 60, 18, 5).img},
		{"thin tick", box(23).line(16, 40, 32, 62, 3).line(32, 62, 64, 14, 3).img},
		{"scribble", scribble(box(24)).img},
		{"filled", box(25).frame(14, 65, 14, 65, 26).img},
		{"partial slash", box(26).line(18, 60, 40, 30, 8).img},
		{"blot", box(27).disc(40, 40, 10).img},
		{"dash", box(28).line(18, 40, 61, 40, 8).img},
		{"cross jpeg", cross(box(29)).jpeg(t, 75).img},
		{"skewed cross", newScan(30, 80, 80, 225, 45).skewedFrame(39.5, 39.5, 30, 2, 2).
			line(18, 18, 61, 61, 4).line(18, 61, 61, 18, 4).img},
	}
}

// heavyBorderScans returns boxes drawn with 4 to 6 pixel borders, wider than
// the default inset, empty and ticked.
func heavyBorderScans(t *testing.T) (unchecked, checked []fixture) {
	t.Helper()
	box := func(seed int64, thickness int) *scan {
		return newScan(seed, 80, 80, 225, 45).frame(10, 69, 10, 69, thickness)
	}
	unchecked = []fixture{
		{"4px border", box(41, 4).img},
		{"5px border", box(42, 5).img},
		{"6px border", box(43, 6).img},
		{"5px border jpeg", box(44, 5).jpeg(t, 60).img},
		{"5px border small box", newScan(45, 48, 48, 225, 45).frame(6, 41, 6, 41, 5).img},
	}
	checked = []fixture{
		{"4px border dash", box(51, 4).line(18, 40, 61, 40, 8).img},
		{"5px border cross", box(52, 5).line(18, 18, 61, 61, 4).line(18, 61, 61, 18, 4).img},
		{"6px border tick", box(53, 6).line(22, 42, 35, 58, 5).line(35, 58, 58, 20, 5).img},
	}
	return unchecked, checked
}

func scribble(s *scan) *scan {
	for k := 0; k < 6; k++ {
		y := 20 + 8*float64(k)
		if k%2 == 0 {
			s.line(18, y, 60, y+4, 3)
		} else {
			s.line(60, y, 18, y+4, 3)
		}
	}
	return s
}
