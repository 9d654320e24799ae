package tick

import (
	"fmt"
	"math"
)

// Result is the verdict for one checkbox region.
type Result struct {
	// Checked is true when the box is judged ticked.
	Checked bool `json:"checked"`

	// Confidence is 1.0 when the outer or inner fill ratio resolved the
	// decision, and strictly below 1.0 when both fell inside their margin band.
	Confidence float64 `json:"confidence"`
}

// Signal names the fill ratio that produced a verdict.
type Signal string

const (
	SignalOuter     Signal = "outer"
	SignalInner     Signal = "inner"
	SignalUndecided Signal = "undecided"
)

// Analysis is a verdict together with the measurements behind it.
type Analysis struct {
	Result

	// DecidedBy is the signal that resolved the verdict.
	DecidedBy Signal `json:"decided_by"`

	// Cutoff is the gray level at or below which pixels counted as dark.
	Cutoff uint8 `json:"cutoff"`

	Horizontal  Projection `json:"horizontal"`
	Vertical    Projection `json:"vertical"`
	RowPeaks    PeakSet    `json:"row_peaks"`
	ColumnPeaks PeakSet    `json:"column_peaks"`

	// Outer and Inner are the measured boxes in region coordinates.
	Outer Rect `json:"outer"`
	Inner Rect `json:"inner"`

	// Fallback is true when at least one axis had no usable pair of border
	// peaks and its box came from the dark extent or the full region.
	Fallback bool `json:"fallback"`

	OuterFillRatio float64 `json:"outer_fill_ratio"`
	InnerFillRatio float64 `json:"inner_fill_ratio"`
}

// Classifier decides whether checkbox regions are ticked.
//
// A Classifier holds only its validated configuration and may be used from
// many goroutines at once.
type Classifier struct {
	cfg        Config
	window     int
	prominence int
	inset      int
}

// New validates cfg and returns a Classifier.
//
// Returns ErrConfiguration when a threshold or margin lies outside [0,1] or an
// option is invalid. No image is looked at before configuration succeeds.
func New(cfg Config, opts ...Option) (*Classifier, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Classifier{
		cfg:        cfg,
		window:     DefaultPeakWindow,
		prominence: DefaultPeakProminence,
		inset:      DefaultInset,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Config returns the thresholds the classifier was built with.
func (c *Classifier) Config() Config {
	return c.cfg
}

// Inset returns the margin between the outer and the inner box.
func (c *Classifier) Inset() int {
	return c.inset
}

// HorizontalProjection counts the dark pixels of every row of img.
func (c *Classifier) HorizontalProjection(img GrayImage) (Projection, error) {
	return HorizontalProjection(img)
}

// VerticalProjection counts the dark pixels of every column of img.
func (c *Classifier) VerticalProjection(img GrayImage) (Projection, error) {
	return VerticalProjection(img)
}

// CheckboxIsChecked classifies a single checkbox region.
//
// The same image and configuration always produce the same Result. Unclear
// pixel content never produces an error; it lowers Confidence instead.
//
// Returns ErrInvalidInput for an empty image and ErrInvalidRegion when the
// image is smaller than 2*inset+1 pixels on either axis.
func (c *Classifier) CheckboxIsChecked(img GrayImage) (Result, error) {
	a, err := c.Analyze(img)
	if err != nil {
		return Result{}, err
	}
	return a.Result, nil
}

// Analyze classifies img and returns the intermediate measurements.
//
// # Algorithm
//
//  1. Compute the dark cutoff and both projections.
//  2. Find border peaks on each axis.
//  3. Widen the first and last peak of each axis to their border strokes.
//     The outer box spans both strokes; the inner box starts the inset past
//     the inside edge of each stroke. Axes without a frame fall back to the
//     dark extent or the full region, inset on both sides.
//  4. Measure the fill ratio of both boxes.
//  5. Resolve on the outer ratio, then on the inner ratio; if neither leaves
//     its margin band the box is reported unchecked with
//     Confidence = 1 - likelihood, where likelihood rises linearly from 0 at
//     Threshold-FalseMargin through 0.5 at Threshold to 1 at
//     Threshold+TrueMargin of the inner signal.
func (c *Classifier) Analyze(img GrayImage) (Analysis, error) {
	r, err := newRegion(img)
	if err != nil {
		return Analysis{}, err
	}
	geo, err := r.locate(c.window, c.prominence, c.inset)
	if err != nil {
		return Analysis{}, err
	}

	a := Analysis{
		Cutoff:         r.cutoff,
		Horizontal:     geo.horizontal,
		Vertical:       geo.vertical,
		RowPeaks:       geo.rowPeaks,
		ColumnPeaks:    geo.columnPeaks,
		Outer:          geo.outer,
		Inner:          geo.inner,
		Fallback:       geo.fallback,
		OuterFillRatio: r.fillRatio(geo.outer),
		InnerFillRatio: r.fillRatio(geo.inner),
	}
	a.Result, a.DecidedBy = c.decide(a.OuterFillRatio, a.InnerFillRatio)
	return a, nil
}

func (c *Classifier) decide(outer, inner float64) (Result, Signal) {
	cfg := c.cfg
	if checked, ok := resolve(outer, cfg.OuterCheckedThreshold, cfg.OuterCheckedTrueMargin, cfg.OuterCheckedFalseMargin); ok {
		return Result{Checked: checked, Confidence: 1}, SignalOuter
	}
	if checked, ok := resolve(inner, cfg.InnerCheckedThreshold, cfg.InnerCheckedTrueMargin, cfg.InnerCheckedFalseMargin); ok {
		return Result{Checked: checked, Confidence: 1}, SignalInner
	}

	confidence := 1 - checkedLikelihood(inner, cfg.InnerCheckedThreshold, cfg.InnerCheckedTrueMargin, cfg.InnerCheckedFalseMargin)
	if confidence >= 1 {
		confidence = math.Nextafter(1, 0)
	}
	return Result{Checked: false, Confidence: confidence}, SignalUndecided
}

// resolve applies one threshold with its margins. ok is false inside the band.
func resolve(ratio, threshold, trueMargin, falseMargin float64) (checked, ok bool) {
	switch {
	case ratio >= threshold+trueMargin:
		return true, true
	case ratio <= threshold-falseMargin:
		return false, true
	default:
		return false, false
	}
}

// checkedLikelihood maps a ratio onto [0,1], linear on each side of the
// threshold across its margin.
func checkedLikelihood(ratio, threshold, trueMargin, falseMargin float64) float64 {
	switch {
	case ratio <= threshold-falseMargin:
		return 0
	case ratio < threshold:
		return (ratio - threshold + falseMargin) * 0.5 / falseMargin
	case ratio < threshold+trueMargin:
		return 0.5 + (ratio-threshold)*0.5/trueMargin
	default:
		return 1
	}
}

// String renders a verdict for logs.
func (r Result) String() string {
	state := "unchecked"
	if r.Checked {
		state = "checked"
	}
	return fmt.Sprintf("%s (%.3f)", state, r.Confidence)
}
