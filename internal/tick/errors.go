package tick

import "errors"

// Error categories returned by this package. Callers match them with errors.Is;
// the wrapped message carries the offending values.
var (
	// ErrConfiguration reports a threshold or margin outside [0,1], or an
	// invalid classifier option. It is only returned by New.
	ErrConfiguration = errors.New("configuration error")

	// ErrInvalidInput reports a zero-sized image or malformed peak parameters.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidRegion reports a rectangle outside the image bounds, an
	// inverted rectangle, or an image too small for the inset margin.
	ErrInvalidRegion = errors.New("invalid region")
)
