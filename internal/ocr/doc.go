// Package ocr reads the printed label next to a checkbox using Tesseract.
//
// This package wraps the Tesseract OCR engine (via gosseract/v2). ReadText crops
// a region of a page, enlarges it, and returns the recognised text together
// with word boxes in page coordinates.
//
// # Prerequisites
//
// Tesseract and its development headers must be installed:
//   - Ubuntu/Debian: apt-get install tesseract-ocr libtesseract-dev
//   - macOS: brew install tesseract
//
// Language data files are required for each language:
//   - Ubuntu/Debian: apt-get install tesseract-ocr-eng (for English)
//
// # Engine Variables
//
// Only a closed set of engine variables can be set, see Variable. Names from
// untrusted input go through ParseVariables, which rejects anything else with
// ErrUnknownVariable.
package ocr
