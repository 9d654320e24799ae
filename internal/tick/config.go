package tick

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	// DefaultPeakWindow is the neighbourhood half-width used to find border
	// lines.
	DefaultPeakWindow = 15

	// DefaultPeakProminence is the minimum rise of a border line above the
	// lines around it.
	DefaultPeakProminence = 3

	// DefaultInset is the margin between the outer box and the inner box. It
	// keeps a scanned border stroke out of the inner measurement.
	DefaultInset = 3
)

var validate = validator.New()

// Config holds the decision thresholds of a Classifier. Every field must lie in
// [0,1].
//
// A fill ratio at or above Threshold+TrueMargin resolves to checked, a ratio at
// or below Threshold-FalseMargin resolves to unchecked, anything in between is
// left to the next signal.
type Config struct {
	// OuterCheckedThreshold applies to the fill ratio of the outer box, border
	// stroke included.
	OuterCheckedThreshold   float64 `json:"outer_checked_threshold" validate:"gte=0,lte=1"`
	OuterCheckedTrueMargin  float64 `json:"outer_checked_true_margin" validate:"gte=0,lte=1"`
	OuterCheckedFalseMargin float64 `json:"outer_checked_false_margin" validate:"gte=0,lte=1"`

	// InnerCheckedThreshold applies to the fill ratio of the inner box, which
	// only samples the interior of the checkbox.
	InnerCheckedThreshold   float64 `json:"inner_checked_threshold" validate:"gte=0,lte=1"`
	InnerCheckedTrueMargin  float64 `json:"inner_checked_true_margin" validate:"gte=0,lte=1"`
	InnerCheckedFalseMargin float64 `json:"inner_checked_false_margin" validate:"gte=0,lte=1"`
}

// DefaultConfig returns thresholds that suit boxes of 20 to 100 pixels.
//
// The outer false margin is wide so that only a practically blank region is
// rejected on the outer signal; a frame with a light mark is always handed to
// the inner signal.
func DefaultConfig() Config {
	return Config{
		OuterCheckedThreshold:   0.5,
		OuterCheckedTrueMargin:  0.1,
		OuterCheckedFalseMargin: 0.45,
		InnerCheckedThreshold:   0.04,
		InnerCheckedTrueMargin:  0.03,
		InnerCheckedFalseMargin: 0.03,
	}
}

// Validate reports every field outside [0,1] as a single ErrConfiguration.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s=%v not in [0,1]", fe.Field(), fe.Value()))
	}
	return fmt.Errorf("%w: %s", ErrConfiguration, strings.Join(msgs, ", "))
}

// Option adjusts the geometry parameters of a Classifier.
type Option func(*Classifier) error

// WithPeakWindow overrides the peak window and minimum prominence.
func WithPeakWindow(window, prominence int) Option {
	return func(c *Classifier) error {
		if window < 1 {
			return fmt.Errorf("%w: peak window %d must be at least 1", ErrConfiguration, window)
		}
		if prominence < 0 {
			return fmt.Errorf("%w: peak prominence %d must not be negative", ErrConfiguration, prominence)
		}
		c.window = window
		c.prominence = prominence
		return nil
	}
}

// WithInset overrides the margin between the outer and the inner box.
func WithInset(margin int) Option {
	return func(c *Classifier) error {
		if margin < 0 {
			return fmt.Errorf("%w: inset %d must not be negative", ErrConfiguration, margin)
		}
		c.inset = margin
		return nil
	}
}
