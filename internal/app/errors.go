package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/okian/runstats/internal/adapters/ingest"
	"github.com/okian/runstats/internal/domain/cleaning"
	"github.com/okian/runstats/internal/domain/schema"
)

// ErrEmptyDataset is the kind of every EmptyDatasetError.
var ErrEmptyDataset = errors.New("no activities left after cleaning")

// EmptyDatasetError reports a dataset with zero rows after cleaning.
// Dropped counts the rows removed for lacking a required cell.
type EmptyDatasetError struct {
	Dropped int
}

func (e *EmptyDatasetError) Error() string {
	return fmt.Sprintf("%s (%d rows dropped)", ErrEmptyDataset, e.Dropped)
}

// Unwrap allows errors.Is(err, ErrEmptyDataset).
func (e *EmptyDatasetError) Unwrap() error { return ErrEmptyDataset }

// ErrNumericOverflow is the kind of every NumericOverflowError.
var ErrNumericOverflow = errors.New("numeric overflow in report")

// NumericOverflowError reports a summary, statistic or bucket edge that
// left the finite float range even though every input cell was finite.
type NumericOverflowError struct {
	Field string
}

func (e *NumericOverflowError) Error() string {
	return fmt.Sprintf("%s: %s", ErrNumericOverflow, e.Field)
}

// Unwrap allows errors.Is(err, ErrNumericOverflow).
func (e *NumericOverflowError) Unwrap() error { return ErrNumericOverflow }

// Error codes shared by logs, metrics and the HTTP error envelope.
const (
	CodeOK              = "success"
	CodeSchemaError     = "schema_error"
	CodeConversionError = "conversion_error"
	CodeEmptyDataset    = "empty_dataset"
	CodeNumericOverflow = "numeric_overflow"
	CodeBadCSV          = "bad_csv"
	CodeCanceled        = "canceled"
	CodeInternal        = "internal"
)

// ErrorCode classifies a pipeline error. A nil error is CodeOK.
func ErrorCode(err error) string {
	switch {
	case err == nil:
		return CodeOK
	case errors.Is(err, schema.ErrMissingColumns):
		return CodeSchemaError
	case errors.Is(err, cleaning.ErrNonNumericCell):
		return CodeConversionError
	case errors.Is(err, ErrEmptyDataset):
		return CodeEmptyDataset
	case errors.Is(err, ErrNumericOverflow):
		return CodeNumericOverflow
	case errors.Is(err, ingest.ErrReadCSV), errors.Is(err, ingest.ErrNoHeader):
		return CodeBadCSV
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return CodeCanceled
	default:
		return CodeInternal
	}
}
