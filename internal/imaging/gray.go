package imaging

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/anthonynsimon/bild/effect"
	"github.com/lucasb-eyer/go-colorful"
)

// GrayMode selects how a colour pixel is reduced to one gray level.
type GrayMode string

const (
	GrayMax       GrayMode = "max"
	GrayMin       GrayMode = "min"
	GrayLuma      GrayMode = "luma"
	GrayLightness GrayMode = "lightness"
)

// DefaultGrayMode is used when no mode is given.
const DefaultGrayMode = GrayMax

// ErrUnknownGrayMode is returned for a mode name outside the supported set.
var ErrUnknownGrayMode = errors.New("unknown gray mode")

// ParseGrayMode maps a mode name to a GrayMode. The empty string selects
// DefaultGrayMode.
func ParseGrayMode(name string) (GrayMode, error) {
	switch mode := GrayMode(name); mode {
	case "":
		return DefaultGrayMode, nil
	case GrayMax, GrayMin, GrayLuma, GrayLightness:
		return mode, nil
	default:
		return "", fmt.Errorf("%w %q (want max, min, luma or lightness)", ErrUnknownGrayMode, name)
	}
}

// ToGray reduces img to 8-bit gray. The result has the same bounds as img.
func ToGray(img image.Image, mode GrayMode) (*image.Gray, error) {
	if img == nil {
		return nil, errors.New("nil image")
	}
	if mode == "" {
		mode = DefaultGrayMode
	}

	if g, ok := img.(*image.Gray); ok && (mode == GrayMax || mode == GrayMin) {
		return cloneGray(g), nil
	}

	src := onWhite(img)
	switch mode {
	case GrayMax:
		return reduce(src, func(r, g, b uint8) uint8 { return max(r, g, b) }), nil
	case GrayMin:
		return reduce(src, func(r, g, b uint8) uint8 { return min(r, g, b) }), nil
	case GrayLuma:
		return luma(src), nil
	case GrayLightness:
		return lightness(src), nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownGrayMode, mode)
	}
}

// onWhite composites img onto a white page unless it is already opaque.
func onWhite(img image.Image) image.Image {
	if isOpaque(img) {
		return img
	}
	b := img.Bounds()
	dst := image.NewRGBA(b)
	draw.Draw(dst, b, image.White, image.Point{}, draw.Src)
	draw.Draw(dst, b, img, b.Min, draw.Over)
	return dst
}

func reduce(img image.Image, pick func(r, g, b uint8) uint8) *image.Gray {
	b := img.Bounds()
	dst := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			dst.SetGray(x, y, color.Gray{Y: pick(c.R, c.G, c.B)})
		}
	}
	return dst
}

// luma uses bild's weighted grayscale, which yields R=G=B in an RGBA image
// with the same bounds.
func luma(img image.Image) *image.Gray {
	rgba := effect.Grayscale(img)
	b := rgba.Bounds()
	dst := image.NewGray(b)
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			dst.Pix[y*dst.Stride+x] = rgba.Pix[y*rgba.Stride+4*x]
		}
	}
	return dst
}

func lightness(img image.Image) *image.Gray {
	b := img.Bounds()
	dst := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c, ok := colorful.MakeColor(img.At(x, y))
			if !ok {
				dst.SetGray(x, y, color.Gray{Y: 255})
				continue
			}
			l, _, _ := c.Lab()
			dst.SetGray(x, y, color.Gray{Y: uint8(min(max(l*255+0.5, 0), 255))})
		}
	}
	return dst
}

func cloneGray(g *image.Gray) *image.Gray {
	dst := image.NewGray(g.Bounds())
	draw.Draw(dst, dst.Bounds(), g, g.Bounds().Min, draw.Src)
	return dst
}
