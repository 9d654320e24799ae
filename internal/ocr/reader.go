package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"
)

// Bounds represents a rectangular bounding box in page coordinates.
type Bounds struct {
	X1 int `json:"x1"` // Left edge
	Y1 int `json:"y1"` // Top edge
	X2 int `json:"x2"` // Right edge, exclusive
	Y2 int `json:"y2"` // Bottom edge, exclusive
}

// Word is one recognised word with its location and OCR confidence.
type Word struct {
	Text string `json:"text"`

	// Confidence is Tesseract's word confidence scaled to 0.0..1.0.
	Confidence float64 `json:"confidence"`

	Bounds Bounds `json:"bounds"`
}

// Result is the text read from one region.
type Result struct {
	// Text is the recognised text with surrounding whitespace trimmed.
	Text string `json:"text"`

	// Words may be empty even when Text is not, if Tesseract could not produce
	// word boxes.
	Words []Word `json:"words"`
}

// Options controls how a region is read.
type Options struct {
	// Language is a Tesseract language code such as "eng". The language data
	// must be installed.
	Language string

	// SingleLine treats the region as one line of text, which suits checkbox
	// labels. When false the region is read as a block.
	SingleLine bool

	// Scale enlarges the region before recognition. Tesseract reads glyphs
	// best at 20 to 40 pixels tall, and form labels scanned at 100 dpi are
	// often half that. Values below 1 are treated as 1.
	Scale int

	// MinConfidence drops words whose confidence is below it.
	MinConfidence float64

	Variables Variables
}

// DefaultOptions reads one line of English at double size.
func DefaultOptions() Options {
	return Options{
		Language:   "eng",
		SingleLine: true,
		Scale:      2,
	}
}

// ReadText performs OCR on one rectangular region of an image.
//
// Parameters:
//   - img: The page (already loaded into memory).
//   - rect: The region to read. It must be non-empty and lie inside the
//     image bounds.
//   - opts: Language, segmentation and engine variables; see DefaultOptions.
//
// Returns the recognised text. Word boxes are mapped back to page coordinates,
// so a word found at (10, 20) in a region starting at (100, 50) is reported at
// (110, 70), with any Scale undone.
//
// The crop is handed to Tesseract as an in-memory PNG; no temporary files are
// written. Each call creates its own engine, so concurrent calls are safe.
func ReadText(img image.Image, rect image.Rectangle, opts Options) (*Result, error) {
	if img == nil {
		return nil, fmt.Errorf("image is nil")
	}
	if rect.Empty() {
		return nil, fmt.Errorf("invalid text region %v", rect)
	}
	if !rect.In(img.Bounds()) {
		return nil, fmt.Errorf("text region %v outside image bounds %v", rect, img.Bounds())
	}
	if err := opts.Variables.Validate(); err != nil {
		return nil, err
	}
	if opts.Language == "" {
		opts.Language = "eng"
	}
	scale := max(opts.Scale, 1)

	crop := imaging.Crop(img, rect)
	if scale > 1 {
		crop = imaging.Resize(crop, crop.Bounds().Dx()*scale, crop.Bounds().Dy()*scale, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, crop); err != nil {
		return nil, fmt.Errorf("failed to encode region: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(opts.Language); err != nil {
		return nil, fmt.Errorf("failed to set language: %w", err)
	}
	mode := gosseract.PSM_SINGLE_BLOCK
	if opts.SingleLine {
		mode = gosseract.PSM_SINGLE_LINE
	}
	if err := client.SetPageSegMode(mode); err != nil {
		return nil, fmt.Errorf("failed to set page segmentation mode: %w", err)
	}
	for _, name := range opts.Variables.sorted() {
		if err := client.SetVariable(gosseract.SettableVariable(name), opts.Variables[name]); err != nil {
			return nil, fmt.Errorf("failed to set %s: %w", name, err)
		}
	}
	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}
	result := &Result{
		Text:  strings.TrimSpace(text),
		Words: []Word{},
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		// Keep the text; word boxes are optional.
		return result, nil
	}
	for _, box := range boxes {
		word := strings.TrimSpace(box.Word)
		confidence := box.Confidence / 100.0
		if word == "" || confidence < opts.MinConfidence {
			continue
		}
		result.Words = append(result.Words, Word{
			Text:       word,
			Confidence: confidence,
			Bounds:     toPage(box.Box, rect.Min, scale),
		})
	}

	return result, nil
}

// toPage maps a box found in the scaled crop back to page coordinates.
func toPage(box image.Rectangle, origin image.Point, scale int) Bounds {
	return Bounds{
		X1: origin.X + box.Min.X/scale,
		Y1: origin.Y + box.Min.Y/scale,
		X2: origin.X + (box.Max.X+scale-1)/scale,
		Y2: origin.Y + (box.Max.Y+scale-1)/scale,
	}
}
