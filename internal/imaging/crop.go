package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
)

// CropGray cuts rect out of img and reduces it to gray. The returned region
// starts at (0,0).
func CropGray(img image.Image, rect image.Rectangle, mode GrayMode) (*image.Gray, error) {
	if err := checkCrop(img.Bounds(), rect); err != nil {
		return nil, err
	}
	return ToGray(imaging.Crop(img, rect), mode)
}

func checkCrop(bounds, rect image.Rectangle) error {
	if rect.Empty() {
		return fmt.Errorf("invalid crop region %v: x1 must be < x2, y1 must be < y2", rect)
	}
	if !rect.In(bounds) {
		return fmt.Errorf("crop region %v outside image bounds %v", rect, bounds)
	}
	return nil
}

// Preview is a PNG rendering of an image for display by a client.
type Preview struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// EncodePNGBase64 renders img as a base64 PNG, optionally scaled. Scaling uses
// nearest-neighbour sampling so that single-pixel strokes stay crisp.
func EncodePNGBase64(img image.Image, scale float64) (*Preview, error) {
	if scale < 0 {
		return nil, fmt.Errorf("scale %v must not be negative", scale)
	}

	out := img
	if scale != 0 && scale != 1 {
		w := max(int(float64(img.Bounds().Dx())*scale), 1)
		h := max(int(float64(img.Bounds().Dy())*scale), 1)
		out = imaging.Resize(img, w, h, imaging.NearestNeighbor)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, fmt.Errorf("failed to encode preview: %w", err)
	}

	return &Preview{
		Width:       out.Bounds().Dx(),
		Height:      out.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}
