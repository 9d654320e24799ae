package tick

import (
	"image"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lines builds a projection from runs of (value, count) pairs.
func lines(runs ...int) Projection {
	var p Projection
	for i := 0; i+1 < len(runs); i += 2 {
		for n := 0; n < runs[i+1]; n++ {
			p = append(p, runs[i])
		}
	}
	return p
}

func TestProjectionsOfFrames(t *testing.T) {
	tests := []struct {
		name           string
		img            *image.Gray
		wantHorizontal Projection
		wantVertical   Projection
	}{
		{
			name:           "perfect unchecked",
			img:            perfectFrame(false),
			wantHorizontal: lines(0, 10, 60, 1, 2, 58, 60, 1, 0, 10),
			wantVertical:   lines(0, 10, 60, 1, 2, 58, 60, 1, 0, 10),
		},
		{
			name:           "perfect checked",
			img:            perfectFrame(true),
			wantHorizontal: lines(0, 10, 60, 60, 0, 10),
			wantVertical:   lines(0, 10, 60, 60, 0, 10),
		},
		{
			name:           "asymmetric",
			img:            asymmetricFrame(),
			wantHorizontal: lines(60, 1, 2, 58, 60, 1, 0, 20),
			wantVertical:   lines(0, 5, 60, 1, 2, 58, 60, 1, 0, 15),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			horizontal, err := HorizontalProjection(tt.img)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.wantHorizontal, horizontal); diff != "" {
				t.Errorf("HorizontalProjection() mismatch (-want +got):\n%s", diff)
			}

			vertical, err := VerticalProjection(tt.img)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.wantVertical, vertical); diff != "" {
				t.Errorf("VerticalProjection() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestProjectionsOfUniformImages(t *testing.T) {
	tests := []struct {
		name  string
		level uint8
		row   int
		col   int
	}{
		{"white", white, 0, 0},
		{"black", black, 30, 20},
		{"light gray", 200, 0, 0},
		{"dark gray", 100, 30, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := newCanvas(30, 20, tt.level)

			horizontal, err := HorizontalProjection(img)
			require.NoError(t, err)
			assert.Equal(t, lines(tt.row, 20), horizontal)

			vertical, err := VerticalProjection(img)
			require.NoError(t, err)
			assert.Equal(t, lines(tt.col, 30), vertical)
		})
	}
}

func TestProjectionFollowsTranslation(t *testing.T) {
	base := newCanvas(100, 100, white)
	drawFrame(base, 10, 49, 10, 49, 1, black)
	baseRows, err := HorizontalProjection(base)
	require.NoError(t, err)
	baseCols, err := VerticalProjection(base)
	require.NoError(t, err)

	for _, shift := range []image.Point{{0, 0}, {7, 3}, {25, 40}, {50, 1}} {
		moved := newCanvas(100, 100, white)
		drawFrame(moved, 10+shift.X, 49+shift.X, 10+shift.Y, 49+shift.Y, 1, black)

		rows, err := HorizontalProjection(moved)
		require.NoError(t, err)
		cols, err := VerticalProjection(moved)
		require.NoError(t, err)

		for y := range rows {
			assert.Equal(t, valueAt(baseRows, y-shift.Y), rows[y], "row %d shifted by %v", y, shift)
		}
		for x := range cols {
			assert.Equal(t, valueAt(baseCols, x-shift.X), cols[x], "column %d shifted by %v", x, shift)
		}
	}
}

func TestProjectionOfSubImage(t *testing.T) {
	page := newCanvas(200, 150, white)
	drawFrame(page, 47, 106, 31, 90, 1, black)
	region := page.SubImage(image.Rect(37, 21, 117, 101)).(*image.Gray)

	got, err := HorizontalProjection(region)
	require.NoError(t, err)
	want, err := HorizontalProjection(perfectFrame(false))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestProjectionRejectsEmptyImage(t *testing.T) {
	_, err := HorizontalProjection(image.NewGray(image.Rect(0, 0, 0, 10)))
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = VerticalProjection(image.NewGray(image.Rect(0, 0, 10, 0)))
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = HorizontalProjection(nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSlopes(t *testing.T) {
	assert.Equal(t, []int{0, 5, 0, -5}, Projection{0, 0, 5, 5, 0}.Slopes())
	assert.Empty(t, Projection{4}.Slopes())
	assert.Empty(t, Projection{}.Slopes())

	p, err := HorizontalProjection(perfectFrame(false))
	require.NoError(t, err)
	slopes := p.Slopes()
	require.Len(t, slopes, 79)
	assert.Equal(t, 60, slopes[9])
	assert.Equal(t, -58, slopes[10])
	assert.Equal(t, 58, slopes[68])
	assert.Equal(t, -60, slopes[69])
}
