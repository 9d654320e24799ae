package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strconv"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Mark is a rectangle to outline on an annotated copy of a page.
type Mark struct {
	Rect  image.Rectangle
	Color color.NRGBA

	// Label is drawn next to the rectangle in basicfont's 7x13 face, so it
	// should be short ASCII such as an index.
	Label string
}

// Annotate returns an RGBA copy of img with every mark outlined in its colour
// and labelled. Parts of a mark outside img are clipped.
func Annotate(img image.Image, marks []Mark) *image.RGBA {
	bounds := img.Bounds()
	result := image.NewRGBA(bounds)
	draw.Draw(result, bounds, img, bounds.Min, draw.Src)

	for _, m := range marks {
		outline(result, m.Rect.Intersect(bounds), m.Color)
		if m.Label != "" {
			drawLabel(result, m.Rect, m.Label, m.Color)
		}
	}
	return result
}

func outline(img *image.RGBA, r image.Rectangle, c color.NRGBA) {
	if r.Empty() {
		return
	}
	for x := r.Min.X; x < r.Max.X; x++ {
		img.Set(x, r.Min.Y, c)
		img.Set(x, r.Max.Y-1, c)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		img.Set(r.Min.X, y, c)
		img.Set(r.Max.X-1, y, c)
	}
}

// drawLabel writes text on a white plate just above r, or just below it when
// there is no room above.
func drawLabel(img *image.RGBA, r image.Rectangle, text string, fg color.NRGBA) {
	face := basicfont.Face7x13
	height := face.Ascent + face.Descent
	width := font.MeasureString(face, text).Ceil()

	top := r.Min.Y - height - 2
	if top < img.Bounds().Min.Y {
		top = r.Max.Y + 2
	}
	plate := image.Rect(r.Min.X-1, top-1, r.Min.X+width+1, top+height+1).Intersect(img.Bounds())
	draw.Draw(img, plate, image.White, image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(fg),
		Face: face,
		Dot:  fixed.P(r.Min.X, top+face.Ascent),
	}
	d.DrawString(text)
}

// ParseHexColor parses a hex color string like "#FF0000" or "#FF000080"
func ParseHexColor(hex string) (color.NRGBA, error) {
	if len(hex) == 0 {
		return color.NRGBA{}, fmt.Errorf("empty color string")
	}
	if hex[0] == '#' {
		hex = hex[1:]
	}

	var r, g, b, a uint8 = 0, 0, 0, 255

	switch len(hex) {
	case 6:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
		}
		r = uint8(val >> 16)
		g = uint8(val >> 8)
		b = uint8(val)
	case 8:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
		}
		r = uint8(val >> 24)
		g = uint8(val >> 16)
		b = uint8(val >> 8)
		a = uint8(val)
	default:
		return color.NRGBA{}, fmt.Errorf("invalid hex color length")
	}

	return color.NRGBA{R: r, G: g, B: b, A: a}, nil
}
