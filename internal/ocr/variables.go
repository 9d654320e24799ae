package ocr

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
)

// Variable names a Tesseract engine variable that callers may set.
type Variable string

// The engine variables accepted by ReadText. Tesseract has hundreds more, most
// of which either do nothing after initialisation or break recognition, so the
// set is closed.
const (
	CharWhitelist           Variable = "tessedit_char_whitelist"
	CharBlacklist           Variable = "tessedit_char_blacklist"
	PreserveInterwordSpaces Variable = "preserve_interword_spaces"
	UserDefinedDPI          Variable = "user_defined_dpi"
)

var (
	// ErrUnknownVariable is returned for a variable name outside the accepted set.
	ErrUnknownVariable = errors.New("unknown engine variable")

	// ErrInvalidVariable is returned for an accepted name with an unusable value.
	ErrInvalidVariable = errors.New("invalid engine variable value")
)

// Variables holds engine variable settings keyed by name.
type Variables map[Variable]string

// ParseVariables converts loosely typed settings, typically decoded from a
// tool call, into Variables. Every key must be one of the accepted names.
func ParseVariables(raw map[string]string) (Variables, error) {
	vars := make(Variables, len(raw))
	for name, value := range raw {
		v := Variable(name)
		if err := v.check(value); err != nil {
			return nil, err
		}
		vars[v] = value
	}
	return vars, nil
}

// Validate checks every entry the same way ParseVariables does.
func (vs Variables) Validate() error {
	for v, value := range vs {
		if err := v.check(value); err != nil {
			return err
		}
	}
	return nil
}

// sorted returns the names in a stable order so the engine is configured the
// same way on every call.
func (vs Variables) sorted() []Variable {
	names := make([]Variable, 0, len(vs))
	for v := range vs {
		names = append(names, v)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

func (v Variable) check(value string) error {
	switch v {
	case CharWhitelist, CharBlacklist:
		return nil
	case PreserveInterwordSpaces:
		if value != "0" && value != "1" {
			return fmt.Errorf("%w: %s must be 0 or 1, got %q", ErrInvalidVariable, v, value)
		}
		return nil
	case UserDefinedDPI:
		dpi, err := strconv.Atoi(value)
		if err != nil || dpi < 70 || dpi > 2400 {
			return fmt.Errorf("%w: %s must be an integer in 70..2400, got %q", ErrInvalidVariable, v, value)
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownVariable, string(v))
	}
}
