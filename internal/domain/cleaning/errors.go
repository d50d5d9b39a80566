package cleaning

import (
	"errors"
	"fmt"
)

// ErrNonNumericCell is the kind of every ConversionError.
var ErrNonNumericCell = errors.New("non-numeric cell")

// ConversionError reports a numeric column holding a value that is not a
// finite number. Row is the zero-based index of the input row.
type ConversionError struct {
	Column string
	Row    int
	Value  any
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("%s in column %q at row %d: %v", ErrNonNumericCell, e.Column, e.Row, e.Value)
}

// Unwrap allows errors.Is(err, ErrNonNumericCell).
func (e *ConversionError) Unwrap() error { return ErrNonNumericCell }
