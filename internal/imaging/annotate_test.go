package imaging

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnnotate(t *testing.T) {
	page := grayPage(100, 60, 200)
	red := color.NRGBA{R: 255, A: 255}
	blue := color.NRGBA{B: 255, A: 255}

	out := Annotate(page, []Mark{
		{Rect: image.Rect(20, 30, 40, 50), Color: red, Label: "1"},
		{Rect: image.Rect(60, 2, 80, 22), Color: blue},
		{Rect: image.Rect(90, 50, 130, 80), Color: red},
	})
	require.Equal(t, page.Bounds(), out.Bounds())

	rgba := func(x, y int) color.RGBA { return out.RGBAAt(x, y) }
	assert.Equal(t, color.RGBA{R: 255, A: 255}, rgba(20, 30), "top-left corner")
	assert.Equal(t, color.RGBA{R: 255, A: 255}, rgba(39, 49), "bottom-right corner")
	assert.Equal(t, color.RGBA{R: 200, G: 200, B: 200, A: 255}, rgba(30, 40), "inside")
	assert.Equal(t, color.RGBA{B: 255, A: 255}, rgba(70, 21))
	assert.Equal(t, color.RGBA{R: 255, A: 255}, rgba(99, 59), "clipped mark")

	// The label plate sits above the first mark and holds red glyph pixels.
	plateWhite, glyph := false, false
	for y := 14; y < 29; y++ {
		for x := 19; x < 28; x++ {
			switch c := rgba(x, y); {
			case c == color.RGBA{R: 255, G: 255, B: 255, A: 255}:
				plateWhite = true
			case c.R > 200 && c.G < 100:
				glyph = true
			}
		}
	}
	assert.True(t, plateWhite)
	assert.True(t, glyph)

	// Annotating never touches the source.
	assert.Equal(t, uint8(200), page.GrayAt(20, 30).Y)
}

func TestAnnotateLabelBelowWhenNoRoomAbove(t *testing.T) {
	out := Annotate(grayPage(60, 60, 0), []Mark{
		{Rect: image.Rect(5, 2, 25, 22), Color: color.NRGBA{G: 255, A: 255}, Label: "7"},
	})

	white := 0
	for y := 23; y < 40; y++ {
		for x := 4; x < 14; x++ {
			if out.RGBAAt(x, y) == (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
				white++
			}
		}
	}
	assert.Positive(t, white)
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		hex     string
		want    color.NRGBA
		wantErr bool
	}{
		{"#FF0000", color.NRGBA{R: 255, A: 255}, false},
		{"#00FF00", color.NRGBA{G: 255, A: 255}, false},
		{"#0000FF", color.NRGBA{B: 255, A: 255}, false},
		{"FF0000", color.NRGBA{R: 255, A: 255}, false},
		{"#FF000080", color.NRGBA{R: 255, A: 128}, false},
		{"", color.NRGBA{}, true},
		{"#FFF", color.NRGBA{}, true},
		{"#GGGGGG", color.NRGBA{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.hex, func(t *testing.T) {
			c, err := ParseHexColor(tt.hex)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, c)
		})
	}
}
