package server

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"strconv"

	jsoniter "github.com/json-iterator/go"
	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/tick-reader-mcp/internal/detection"
	"github.com/ironsheep/tick-reader-mcp/internal/imaging"
	"github.com/ironsheep/tick-reader-mcp/internal/ocr"
	"github.com/ironsheep/tick-reader-mcp/internal/tick"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "checkbox_classify").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments jsoniter.RawMessage `json:"arguments"`
}

// argumentsError marks a tool call whose arguments could not be used at all,
// as opposed to a tool that ran and failed.
type argumentsError struct {
	err error
}

func (e *argumentsError) Error() string { return "invalid arguments: " + e.err.Error() }
func (e *argumentsError) Unwrap() error { return e.err }

func badArgs(format string, a ...interface{}) error {
	return &argumentsError{err: fmt.Errorf(format, a...)}
}

// decodeArgs unmarshals tool arguments; missing arguments decode as {}.
func decodeArgs(args jsoniter.RawMessage, v interface{}) error {
	if len(args) == 0 {
		args = jsoniter.RawMessage("{}")
	}
	if err := json.Unmarshal(args, v); err != nil {
		return &argumentsError{err: err}
	}
	return nil
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Loads the page from cache and reduces the region to gray
//  4. Calls the appropriate tick/detection/ocr function
//  5. Returns the result or error
func (s *Server) executeTool(ctx context.Context, name string, args jsoniter.RawMessage) (interface{}, error) {
	switch name {
	// Image cache
	case "image_load":
		return s.handleImageLoad(args)
	case "image_unload":
		return s.handleImageUnload(args)

	// Single checkbox regions
	case "checkbox_classify":
		return s.handleCheckboxClassify(args)
	case "checkbox_analyze":
		return s.handleCheckboxAnalyze(args)
	case "checkbox_projection":
		return s.handleCheckboxProjection(args)
	case "checkbox_peaks":
		return s.handleCheckboxPeaks(args)
	case "checkbox_fill":
		return s.handleCheckboxFill(args)
	case "checkbox_fill_ratios":
		return s.handleCheckboxFillRatios(args)

	// Whole forms
	case "form_detect_checkboxes":
		return s.handleFormDetectCheckboxes(args)
	case "form_read_checkboxes":
		return s.handleFormReadCheckboxes(ctx, args)

	default:
		return nil, badArgs("unknown tool: %s", name)
	}
}

// === Image Cache Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args jsoniter.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, badArgs("path is required")
	}
	return s.cache.Info(a.Path)
}

type imageUnloadResult struct {
	Cached int `json:"cached"`
}

func (s *Server) handleImageUnload(args jsoniter.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		s.cache.Clear()
	} else {
		s.cache.Evict(a.Path)
	}
	return &imageUnloadResult{Cached: s.cache.Len()}, nil
}

// === Checkbox Region Handlers ===

// regionArgs selects a rectangle of a page. X2 and Y2 are exclusive.
type regionArgs struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// checkboxArgs names one checkbox region: a page, an optional rectangle of it
// (the whole page when absent) and how to reduce it to gray.
type checkboxArgs struct {
	Path     string      `json:"path"`
	Region   *regionArgs `json:"region"`
	GrayMode string      `json:"gray_mode"`
}

// grayRegion loads the page and returns the selected region in gray with its
// origin at (0, 0), the coordinates every checkbox measurement is reported in.
func (s *Server) grayRegion(a checkboxArgs) (*image.Gray, error) {
	if a.Path == "" {
		return nil, badArgs("path is required")
	}
	mode := s.cfg.GrayMode
	if a.GrayMode != "" {
		var err error
		if mode, err = imaging.ParseGrayMode(a.GrayMode); err != nil {
			return nil, &argumentsError{err: err}
		}
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	rect := img.Bounds()
	if a.Region != nil {
		rect = image.Rect(a.Region.X1, a.Region.Y1, a.Region.X2, a.Region.Y2)
	}
	return imaging.CropGray(img, rect, mode)
}

func (s *Server) handleCheckboxClassify(args jsoniter.RawMessage) (interface{}, error) {
	var a checkboxArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	gray, err := s.grayRegion(a)
	if err != nil {
		return nil, err
	}
	return s.classifier.CheckboxIsChecked(gray)
}

type checkboxAnalyzeArgs struct {
	checkboxArgs
	PreviewScale float64 `json:"preview_scale"`
}

var (
	outerColor     = color.NRGBA{R: 0x1E, G: 0x88, B: 0xE5, A: 0xFF}
	innerColor     = color.NRGBA{R: 0xFB, G: 0x8C, B: 0x00, A: 0xFF}
	checkedColor   = "#00A000"
	uncheckedColor = "#D00000"
)

func tickRect(r tick.Rect) image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

type checkboxAnalyzeResult struct {
	tick.Analysis
	Preview *imaging.Preview `json:"preview,omitempty"`
}

func (s *Server) handleCheckboxAnalyze(args jsoniter.RawMessage) (interface{}, error) {
	var a checkboxAnalyzeArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.PreviewScale < 0 {
		return nil, badArgs("preview_scale must not be negative")
	}
	gray, err := s.grayRegion(a.checkboxArgs)
	if err != nil {
		return nil, err
	}
	analysis, err := s.classifier.Analyze(gray)
	if err != nil {
		return nil, err
	}

	result := &checkboxAnalyzeResult{Analysis: analysis}
	if a.PreviewScale > 0 {
		annotated := imaging.Annotate(gray, []imaging.Mark{
			{Rect: tickRect(analysis.Outer), Color: outerColor},
			{Rect: tickRect(analysis.Inner), Color: innerColor},
		})
		if result.Preview, err = imaging.EncodePNGBase64(annotated, a.PreviewScale); err != nil {
			return nil, err
		}
	}
	return result, nil
}

type projectionResult struct {
	Horizontal tick.Projection `json:"horizontal"`
	Vertical   tick.Projection `json:"vertical"`
}

func (s *Server) handleCheckboxProjection(args jsoniter.RawMessage) (interface{}, error) {
	var a checkboxArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	gray, err := s.grayRegion(a)
	if err != nil {
		return nil, err
	}

	var result projectionResult
	if result.Horizontal, err = tick.HorizontalProjection(gray); err != nil {
		return nil, err
	}
	if result.Vertical, err = tick.VerticalProjection(gray); err != nil {
		return nil, err
	}
	return &result, nil
}

type checkboxPeaksArgs struct {
	checkboxArgs
	Window     *int `json:"window"`
	Prominence *int `json:"prominence"`
}

type peaksResult struct {
	Window      int          `json:"window"`
	Prominence  int          `json:"prominence"`
	RowPeaks    tick.PeakSet `json:"row_peaks"`
	ColumnPeaks tick.PeakSet `json:"column_peaks"`
}

func (s *Server) handleCheckboxPeaks(args jsoniter.RawMessage) (interface{}, error) {
	var a checkboxPeaksArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	result := peaksResult{
		Window:     s.cfg.PeakWindow,
		Prominence: s.cfg.PeakProminence,
	}
	if a.Window != nil {
		result.Window = *a.Window
	}
	if a.Prominence != nil {
		result.Prominence = *a.Prominence
	}

	gray, err := s.grayRegion(a.checkboxArgs)
	if err != nil {
		return nil, err
	}
	rows, err := tick.HorizontalProjection(gray)
	if err != nil {
		return nil, err
	}
	cols, err := tick.VerticalProjection(gray)
	if err != nil {
		return nil, err
	}
	if result.RowPeaks, err = tick.LocatePeaks(rows, result.Window, result.Prominence); err != nil {
		return nil, err
	}
	if result.ColumnPeaks, err = tick.LocatePeaks(cols, result.Window, result.Prominence); err != nil {
		return nil, err
	}
	return &result, nil
}

type checkboxFillArgs struct {
	checkboxArgs
	Box *tick.Rect `json:"box"`
}

type fillResult struct {
	Box   tick.Rect `json:"box"`
	Dark  int       `json:"dark"`
	Ratio float64   `json:"ratio"`
}

func (s *Server) handleCheckboxFill(args jsoniter.RawMessage) (interface{}, error) {
	var a checkboxFillArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Box == nil {
		return nil, badArgs("box is required")
	}
	gray, err := s.grayRegion(a.checkboxArgs)
	if err != nil {
		return nil, err
	}

	x1, x2, y1, y2 := a.Box.Corners()
	dark, err := tick.Fill(gray, x1, x2, y1, y2)
	if err != nil {
		return nil, err
	}
	ratio, err := tick.FillRatio(gray, x1, x2, y1, y2)
	if err != nil {
		return nil, err
	}
	return &fillResult{Box: *a.Box, Dark: dark, Ratio: ratio}, nil
}

type fillRatiosResult struct {
	Ratios   []float64 `json:"ratios"`
	Fallback bool      `json:"fallback"`
}

func (s *Server) handleCheckboxFillRatios(args jsoniter.RawMessage) (interface{}, error) {
	var a checkboxArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	gray, err := s.grayRegion(a)
	if err != nil {
		return nil, err
	}
	ratios, err := s.classifier.FillRatios(gray)
	if err != nil {
		return nil, err
	}
	return &fillRatiosResult{Ratios: ratios, Fallback: len(ratios) == 1}, nil
}

// === Form Handlers ===

type formArgs struct {
	Path     string      `json:"path"`
	Region   *regionArgs `json:"region"`
	GrayMode string      `json:"gray_mode"`

	MinSize       *int     `json:"min_size"`
	MaxSize       *int     `json:"max_size"`
	MinSquareness *float64 `json:"min_squareness"`
	MinCoverage   *float64 `json:"min_coverage"`
}

func (a formArgs) options() detection.Options {
	opts := detection.DefaultOptions()
	if a.MinSize != nil {
		opts.MinSize = *a.MinSize
	}
	if a.MaxSize != nil {
		opts.MaxSize = *a.MaxSize
	}
	if a.MinSquareness != nil {
		opts.MinSquareness = *a.MinSquareness
	}
	if a.MinCoverage != nil {
		opts.MinCoverage = *a.MinCoverage
	}
	return opts
}

// page loads the page and reduces it to gray, keeping page coordinates. When a
// region is given the result is restricted to it.
func (s *Server) page(a formArgs) (image.Image, *image.Gray, error) {
	if a.Path == "" {
		return nil, nil, badArgs("path is required")
	}
	mode := s.cfg.GrayMode
	if a.GrayMode != "" {
		var err error
		if mode, err = imaging.ParseGrayMode(a.GrayMode); err != nil {
			return nil, nil, &argumentsError{err: err}
		}
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, nil, err
	}
	gray, err := imaging.ToGray(img, mode)
	if err != nil {
		return nil, nil, err
	}
	if a.Region != nil {
		rect := image.Rect(a.Region.X1, a.Region.Y1, a.Region.X2, a.Region.Y2)
		if rect.Empty() || !rect.In(gray.Bounds()) {
			return nil, nil, fmt.Errorf("region %v outside image bounds %v", rect, gray.Bounds())
		}
		gray = gray.SubImage(rect).(*image.Gray)
	}
	return img, gray, nil
}

func (s *Server) handleFormDetectCheckboxes(args jsoniter.RawMessage) (interface{}, error) {
	var a formArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	_, gray, err := s.page(a)
	if err != nil {
		return nil, err
	}
	return detection.FindCheckboxes(gray, a.options())
}

type formReadArgs struct {
	formArgs

	// Pad grows each detected box before classification so that its border
	// strokes produce peaks at both ends.
	Pad *int `json:"pad"`

	IncludeAnalysis bool `json:"include_analysis"`

	ReadLabels   bool              `json:"read_labels"`
	LabelGap     *int              `json:"label_gap"`
	LabelWidth   *int              `json:"label_width"`
	Language     string            `json:"language"`
	OCRVariables map[string]string `json:"ocr_variables"`

	AnnotateScale  float64 `json:"annotate_scale"`
	CheckedColor   string  `json:"checked_color"`
	UncheckedColor string  `json:"unchecked_color"`
}

// FormCheckbox is one detected checkbox with its verdict and, optionally, its
// label.
type FormCheckbox struct {
	Bounds detection.Bounds `json:"bounds"`

	// DetectionConfidence is the side coverage of the detected frame.
	DetectionConfidence float64 `json:"detection_confidence"`

	Checked    bool    `json:"checked"`
	Confidence float64 `json:"confidence"`

	Analysis   *tick.Analysis `json:"analysis,omitempty"`
	Label      *ocr.Result    `json:"label,omitempty"`
	LabelError string         `json:"label_error,omitempty"`

	box detection.Checkbox
}

// FormResult lists the checkboxes of a form in reading order.
type FormResult struct {
	Checkboxes []FormCheckbox `json:"checkboxes"`
	Count      int            `json:"count"`
	Checked    int            `json:"checked"`

	// Preview is the page with every box outlined in the checked or
	// unchecked colour and numbered, present when annotate_scale is set.
	Preview *imaging.Preview `json:"preview,omitempty"`
}

func (s *Server) handleFormReadCheckboxes(ctx context.Context, args jsoniter.RawMessage) (interface{}, error) {
	var a formReadArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	pad := intOr(a.Pad, 2)
	gap := intOr(a.LabelGap, 4)
	width := intOr(a.LabelWidth, 240)
	if pad < 0 || gap < 0 || width < 1 {
		return nil, badArgs("pad and label_gap must not be negative and label_width must be positive")
	}
	if a.AnnotateScale < 0 {
		return nil, badArgs("annotate_scale must not be negative")
	}
	onColor, err := imaging.ParseHexColor(stringOr(a.CheckedColor, checkedColor))
	if err != nil {
		return nil, badArgs("checked_color: %v", err)
	}
	offColor, err := imaging.ParseHexColor(stringOr(a.UncheckedColor, uncheckedColor))
	if err != nil {
		return nil, badArgs("unchecked_color: %v", err)
	}
	ocrOpts := ocr.DefaultOptions()
	if a.Language != "" {
		ocrOpts.Language = a.Language
	}
	if a.ReadLabels {
		vars, err := ocr.ParseVariables(a.OCRVariables)
		if err != nil {
			return nil, &argumentsError{err: err}
		}
		ocrOpts.Variables = vars
	}

	img, gray, err := s.page(a.formArgs)
	if err != nil {
		return nil, err
	}
	found, err := detection.FindCheckboxes(gray, a.options())
	if err != nil {
		return nil, err
	}

	page := img.Bounds()
	regions := make([]tick.GrayImage, len(found.Checkboxes))
	for i, box := range found.Checkboxes {
		regions[i] = gray.SubImage(box.CropRect(pad, gray.Bounds())).(*image.Gray)
	}
	analyses, err := s.classifier.AnalyzeAll(ctx, regions, s.cfg.Workers)
	if err != nil {
		return nil, err
	}

	result := &FormResult{
		Checkboxes: make([]FormCheckbox, len(found.Checkboxes)),
		Count:      len(found.Checkboxes),
	}
	for i, box := range found.Checkboxes {
		fc := FormCheckbox{
			Bounds:              box.Bounds,
			DetectionConfidence: box.Confidence,
			Checked:             analyses[i].Checked,
			Confidence:          analyses[i].Confidence,
			box:                 box,
		}
		if a.IncludeAnalysis {
			fc.Analysis = &analyses[i]
		}
		if fc.Checked {
			result.Checked++
		}
		result.Checkboxes[i] = fc
	}

	if a.ReadLabels {
		if err := s.readLabels(ctx, img, page, result.Checkboxes, gap, width, ocrOpts); err != nil {
			return nil, err
		}
	}

	if a.AnnotateScale > 0 {
		marks := make([]imaging.Mark, len(result.Checkboxes))
		for i, box := range result.Checkboxes {
			marks[i] = imaging.Mark{Rect: box.Bounds.Rect(), Color: offColor, Label: strconv.Itoa(i + 1)}
			if box.Checked {
				marks[i].Color = onColor
			}
		}
		if result.Preview, err = imaging.EncodePNGBase64(imaging.Annotate(img, marks), a.AnnotateScale); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// readLabels reads the label to the right of each checkbox in parallel. A
// label that cannot be read is reported on its checkbox; only cancellation
// fails the call.
func (s *Server) readLabels(ctx context.Context, img image.Image, page image.Rectangle, boxes []FormCheckbox, gap, width int, opts ocr.Options) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Workers)
	for i := range boxes {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rect := boxes[i].box.LabelRect(gap, width, page)
			if rect.Empty() {
				boxes[i].LabelError = "no room for a label"
				return nil
			}
			label, err := ocr.ReadText(img, rect, opts)
			if err != nil {
				boxes[i].LabelError = err.Error()
				return nil
			}
			boxes[i].Label = label
			return nil
		})
	}
	return g.Wait()
}

func stringOr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func intOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}
