package schema

import (
	"errors"
	"strings"
)

// ErrMissingColumns is the kind of every MissingColumnsError.
var ErrMissingColumns = errors.New("missing required columns")

// MissingColumnsError lists the required columns absent from a dataset,
// in required-column order.
type MissingColumnsError struct {
	Missing []string
}

func (e *MissingColumnsError) Error() string {
	return ErrMissingColumns.Error() + ": " + strings.Join(e.Missing, ", ")
}

// Unwrap allows errors.Is(err, ErrMissingColumns).
func (e *MissingColumnsError) Unwrap() error { return ErrMissingColumns }
