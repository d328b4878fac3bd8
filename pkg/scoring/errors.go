package scoring

import (
	"errors"
	"fmt"
)

// ParseError reports an input field that is not a valid number.
type ParseError struct {
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid number %q", e.Value)
	}
	return fmt.Sprintf("%s: invalid number %q", e.Field, e.Value)
}

func (e *ParseError) Unwrap() error { return e.Err }

// InvalidInputError reports measurements the calculator cannot score.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string { return e.Reason }

var (
	errNegative        = &InvalidInputError{Reason: "values cannot be negative"}
	errHeightWaistZero = &InvalidInputError{Reason: "height and waist must be greater than zero"}
	errNonFinite       = &InvalidInputError{Reason: "values must be finite numbers"}
	errOutOfRange      = &InvalidInputError{Reason: "values are out of the computable range"}
	errNotFinite       = errors.New("not a finite number")
)

// IsParseError reports whether err is, or wraps, a *ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// IsInvalidInput reports whether err is, or wraps, an *InvalidInputError.
func IsInvalidInput(err error) bool {
	var ie *InvalidInputError
	return errors.As(err, &ie)
}
